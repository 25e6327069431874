// Package agent holds the A2A agent card served at /.well-known/agent.json.
package agent

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed agent.json
var rawCard []byte

// AgentCardData is the validated card, populated by LoadAgentCard.
var AgentCardData []byte

var (
	loadOnce sync.Once
	loadErr  error
)

// LoadAgentCard checks the embedded card once and publishes it in AgentCardData.
func LoadAgentCard() error {
	loadOnce.Do(func() {
		var card map[string]interface{}
		if err := json.Unmarshal(rawCard, &card); err != nil {
			loadErr = fmt.Errorf("parse agent card: %w", err)
			return
		}
		for _, key := range []string{"name", "description", "version", "capabilities", "endpoints"} {
			if _, ok := card[key]; !ok {
				loadErr = fmt.Errorf("agent card missing %q", key)
				return
			}
		}
		AgentCardData = rawCard
	})
	return loadErr
}
