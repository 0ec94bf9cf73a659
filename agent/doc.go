// Package agent runs the reasoning and tool-calling loop.
//
// The loop has three states. It starts in Reasoning and asks the engine for
// the next message. A message with tool calls moves it to ToolExecuting,
// where every call is invoked and the results are appended as one tool
// message in request order, then back to Reasoning. A message without tool
// calls moves it to Done.
//
// Runs are lazy and single-use:
//
//	a := agent.New(engine, registry)
//	for turn, err := range a.Run(ctx, session, agent.WithMaxSteps(5)) {
//	    if err != nil {
//	        return err
//	    }
//	    if turn.Final() {
//	        fmt.Println(turn.Message.Content)
//	    }
//	}
//
// The step limit defaults to 10 and cannot be disabled; running past it
// yields ErrLoopExceeded.
package agent
