package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/health_prompt.txt
var healthSystemPrompt string

const defaultEmergencyNumber = "108"

// HealthPromptVars feeds the system template.
type HealthPromptVars struct {
	Knowledge       string
	EmergencyNumber string
	Language        string
}

// RenderHealthSystem renders the assistant system prompt through the Eino
// prompt component so prompt callbacks fire.
func RenderHealthSystem(ctx context.Context, vars HealthPromptVars) (string, error) {
	if vars.EmergencyNumber == "" {
		vars.EmergencyNumber = defaultEmergencyNumber
	}
	if vars.Knowledge == "" {
		vars.Knowledge = "{}"
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(healthSystemPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"Knowledge":       vars.Knowledge,
		"EmergencyNumber": vars.EmergencyNumber,
		"Language":        vars.Language,
	})
	if err != nil {
		return "", fmt.Errorf("health prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("health prompt render: empty result")
	}
	return msgs[0].Content, nil
}
