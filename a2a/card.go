package a2a

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AgentCard is the discovery document served at /.well-known/agent.json.
type AgentCard struct {
	Name               string            `json:"name" yaml:"name"`
	Description        string            `json:"description" yaml:"description"`
	URL                string            `json:"url" yaml:"url"`
	Version            string            `json:"version" yaml:"version"`
	ProtocolVersion    string            `json:"protocolVersion,omitempty" yaml:"protocolVersion"`
	Provider           *AgentProvider    `json:"provider,omitempty" yaml:"provider"`
	Capabilities       AgentCapabilities `json:"capabilities" yaml:"capabilities"`
	DefaultInputModes  []string          `json:"defaultInputModes" yaml:"defaultInputModes"`
	DefaultOutputModes []string          `json:"defaultOutputModes" yaml:"defaultOutputModes"`
	Skills             []AgentSkill      `json:"skills" yaml:"skills"`
}

// AgentProvider identifies the organization running the agent.
type AgentProvider struct {
	Organization string `json:"organization" yaml:"organization"`
	URL          string `json:"url,omitempty" yaml:"url"`
}

// AgentCapabilities lists optional protocol features.
type AgentCapabilities struct {
	Streaming              bool `json:"streaming" yaml:"streaming"`
	PushNotifications      bool `json:"pushNotifications" yaml:"pushNotifications"`
	StateTransitionHistory bool `json:"stateTransitionHistory" yaml:"stateTransitionHistory"`
}

// AgentSkill is one capability advertised to clients.
type AgentSkill struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
	Examples    []string `json:"examples,omitempty" yaml:"examples"`
}

// ParseCard decodes a YAML agent card and checks required fields.
func ParseCard(data []byte) (*AgentCard, error) {
	var card AgentCard
	if err := yaml.Unmarshal(data, &card); err != nil {
		return nil, fmt.Errorf("a2a: parse agent card: %w", err)
	}
	if card.Name == "" {
		return nil, fmt.Errorf("a2a: agent card: name is required")
	}
	if card.Version == "" {
		card.Version = "1.0.0"
	}
	if len(card.DefaultInputModes) == 0 {
		card.DefaultInputModes = []string{"text"}
	}
	if len(card.DefaultOutputModes) == 0 {
		card.DefaultOutputModes = []string{"text"}
	}
	return &card, nil
}

// LoadCard reads a YAML agent card from path.
func LoadCard(path string) (*AgentCard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("a2a: read agent card: %w", err)
	}
	return ParseCard(data)
}

// WithURL returns a copy of the card advertising url.
func (c AgentCard) WithURL(url string) *AgentCard {
	c.URL = url
	c.Skills = append([]AgentSkill(nil), c.Skills...)
	return &c
}
