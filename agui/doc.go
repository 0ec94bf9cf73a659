// Package agui adapts A2A task executions to the AG-UI protocol.
//
// AG-UI (Agent-User Interface) is an event-based protocol that connects
// agents to user-facing applications. A frontend posts a [RunAgentInput];
// [RunAgentInput.Prepare] turns its last user message into A2A send params,
// using the AG-UI thread id as the conversation context id. The resulting
// task events are converted by a [Mapper]:
//
//   - status working with tool activity -> STEP_STARTED (closing any open step)
//   - artifact "result" -> TEXT_MESSAGE_START, TEXT_MESSAGE_CONTENT, TEXT_MESSAGE_END
//   - completion -> STEP_FINISHED (if a step is open), RUN_FINISHED
//   - input-required -> the question as a text message, then RUN_FINISHED
//   - failed -> RUN_ERROR
//
// The Mapper is not safe for concurrent use. Create one per run.
package agui
