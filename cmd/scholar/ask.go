package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/scholar/a2a"
)

const defaultEndpoint = "http://localhost:10000/a2a"

type askOptions struct {
	url       string
	stream    bool
	contextID string
	taskID    string
}

func newAskCmd() *cobra.Command {
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a running agent a research question",
		Long: `Ask a running agent a research question.

When the agent needs clarification the task ends in input-required. Answer
it by running ask again with the printed --task and --context ids.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&opts.url, "url", "u", defaultEndpoint, "agent A2A endpoint")
	cmd.Flags().BoolVarP(&opts.stream, "stream", "s", false, "stream events as they happen")
	cmd.Flags().StringVar(&opts.contextID, "context", "", "continue a conversation context")
	cmd.Flags().StringVar(&opts.taskID, "task", "", "answer a task waiting for input")
	return cmd
}

func runAsk(cmd *cobra.Command, opts askOptions, question string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	client := a2a.NewClient(opts.url)

	card, err := client.Card(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Connected to %s %s\n", card.Name, card.Version)

	params := a2a.TextParams(question, opts.contextID, opts.taskID)
	if !opts.stream {
		events, err := client.Send(ctx, params)
		if err != nil {
			return err
		}
		for _, ev := range events {
			printEvent(out, ev)
		}
		return nil
	}

	for ev, err := range client.Stream(ctx, params) {
		if err != nil {
			return err
		}
		printEvent(out, ev)
	}
	return nil
}

// printEvent renders one event as a line of progress or the final answer.
func printEvent(w io.Writer, ev a2a.Event) {
	switch e := ev.(type) {
	case *a2a.StatusUpdateEvent:
		text := ""
		if e.Status.Message != nil {
			text = e.Status.Message.TextContent()
		}
		switch e.Status.State {
		case a2a.TaskStateInputRequired:
			fmt.Fprintf(w, "? %s\n", text)
			fmt.Fprintf(w, "  reply with: --task %s --context %s\n", e.TaskID, e.ContextID)
		case a2a.TaskStateFailed:
			fmt.Fprintf(w, "! %s\n", text)
		default:
			if text != "" {
				fmt.Fprintf(w, "[%s] %s\n", e.Status.State, text)
			} else {
				fmt.Fprintf(w, "[%s]\n", e.Status.State)
			}
		}
	case *a2a.ArtifactUpdateEvent:
		fmt.Fprintf(w, "\n%s\n\n", e.Artifact.TextContent())
	case *a2a.CompletionEvent:
		fmt.Fprintf(w, "[%s] task %s (context %s)\n", e.State, e.TaskID, e.ContextID)
	}
}
