package arxiv

import (
	"context"
	"fmt"
	"strings"

	"github.com/spetersoncode/scholar/tool"
)

// ToolName is the name the model uses to call the search.
const ToolName = "search_arXiv"

// DefaultMaxResults applies when the model omits max_results.
const DefaultMaxResults = 5

// NoResultsMessage is returned when a search finds nothing.
const NoResultsMessage = "No papers found related to the search query."

// SearchArgs are the arguments of the search_arXiv tool.
type SearchArgs struct {
	Query      string `json:"query" desc:"The topic or keywords to search for" required:"true" minLength:"1"`
	MaxResults int    `json:"max_results" desc:"Maximum number of papers to retrieve" min:"1" default:"5"`
}

// Tool returns the search_arXiv registration backed by c.
//
// Search failures are rendered as text rather than returned as errors so the
// model can tell the user the archive is unavailable.
func Tool(c *Client) tool.Registration {
	return tool.Func(ToolName,
		"Search arXiv for academic papers related to a given query. Returns title, authors, URL and abstract for each paper.",
		func(ctx context.Context, args SearchArgs) (string, error) {
			if args.MaxResults == 0 {
				args.MaxResults = DefaultMaxResults
			}
			papers, err := c.Search(ctx, args.Query, args.MaxResults)
			if err != nil {
				if ctx.Err() != nil {
					return "", err
				}
				return fmt.Sprintf("An error occurred while searching arXiv: %v", err), nil
			}
			return Format(papers), nil
		})
}

// Register adds the search_arXiv tool to r.
func Register(r *tool.Registry, c *Client) error {
	reg := Tool(c)
	return r.Register(reg.Tool, reg.Handler)
}

// Format renders papers as numbered plain-text entries separated by blank lines.
func Format(papers []Paper) string {
	if len(papers) == 0 {
		return NoResultsMessage
	}

	entries := make([]string, 0, len(papers))
	for i, p := range papers {
		var b strings.Builder
		fmt.Fprintf(&b, "Paper %d:\n", i+1)
		fmt.Fprintf(&b, "  Title: %s\n", p.Title)
		fmt.Fprintf(&b, "  Authors: %s\n", strings.Join(p.Authors, ", "))
		fmt.Fprintf(&b, "  URL: %s\n", p.ID)
		fmt.Fprintf(&b, "  Abstract: %s...\n", p.Summary)
		entries = append(entries, b.String())
	}
	return strings.Join(entries, "\n")
}
