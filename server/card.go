package server

import (
	_ "embed"
	"fmt"
	"strings"

	ai "github.com/spetersoncode/scholar"
	"github.com/spetersoncode/scholar/a2a"
)

//go:embed card.yaml
var defaultCard []byte

// DefaultCard returns the built-in agent card advertising url and one
// skill per tool.
func DefaultCard(url string, tools []ai.Tool) (*a2a.AgentCard, error) {
	card, err := a2a.ParseCard(defaultCard)
	if err != nil {
		return nil, fmt.Errorf("server: default card: %w", err)
	}
	return completeCard(card, url, tools), nil
}

// completeCard sets the url and adds a skill for each tool the card does
// not list yet.
func completeCard(card *a2a.AgentCard, url string, tools []ai.Tool) *a2a.AgentCard {
	out := card.WithURL(url)

	listed := make(map[string]bool, len(out.Skills))
	for _, s := range out.Skills {
		listed[s.ID] = true
	}
	for _, t := range tools {
		if listed[t.Name] {
			continue
		}
		out.Skills = append(out.Skills, a2a.AgentSkill{
			ID:          t.Name,
			Name:        t.Name,
			Description: strings.TrimSpace(t.Description),
			Tags:        []string{"tool"},
		})
	}
	return out
}
