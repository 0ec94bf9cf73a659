// Package a2a implements the task side of the Agent-to-Agent protocol.
//
// A send request becomes a [Task]. The [Executor] resolves whether the
// request creates a task or resumes one waiting for input, then runs the
// agent loop and emits an ordered sequence of [Event] values:
//
//	submitted -> working -> (working)* -> artifact "result" -> completion
//	                                   -> input-required (final)
//	                                   -> failed (final)
//
// Events are delivered through an [EventSink]. A [Recorder] collects them
// for aggregate responses; a [Queue] hands them to a concurrent consumer
// for server-sent event streams.
//
// The package also provides a JSON-RPC [Client] and the [AgentCard]
// discovery document.
package a2a
