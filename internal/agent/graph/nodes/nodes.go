package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/swasthya-bot/server/internal/agent/graph/conversations"
	"github.com/swasthya-bot/server/internal/agent/graph/prompts"
	"github.com/swasthya-bot/server/internal/agent/knowledge"
	"github.com/swasthya-bot/server/internal/agent/model"
	logx "github.com/swasthya-bot/server/pkg/logger"
)

const (
	NodeInputConverter    = "input_converter"
	NodeResponseChatModel = "response_chat_model"
)

// NewInputConverterPreHandler records the session for later handlers and
// resets the per-query cost.
func NewInputConverterPreHandler() func(context.Context, model.GenerationInput, *model.AppState) (model.GenerationInput, error) {
	return func(ctx context.Context, in model.GenerationInput, s *model.AppState) (model.GenerationInput, error) {
		s.SessionID = in.SessionID
		s.Language = in.Language
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewInputConverterNode builds the message list: system prompt with the
// knowledge base, prior turns, then the new question.
func NewInputConverterNode(kb *knowledge.Base) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.GenerationInput) ([]*schema.Message, error) {
		query := strings.TrimSpace(input.Query)
		if query == "" {
			return nil, fmt.Errorf("empty query")
		}

		systemPrompt, err := prompts.RenderHealthSystem(ctx, prompts.HealthPromptVars{
			Knowledge:       kb.JSON(),
			EmergencyNumber: primaryEmergencyNumber(kb),
			Language:        string(input.Language),
		})
		if err != nil {
			return nil, fmt.Errorf("render health system prompt: %w", err)
		}

		history := conversations.ToMessages(input.History)
		messages := make([]*schema.Message, 0, len(history)+2)
		messages = append(messages, schema.SystemMessage(systemPrompt))
		messages = append(messages, history...)
		messages = append(messages, schema.UserMessage(query))
		return messages, nil
	})
}

// NewResponseChatModelPostHandler computes and logs usage cost for the response model.
func NewResponseChatModelPostHandler(modelName string) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		if out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
			return out, nil
		}
		usage := out.ResponseMeta.Usage
		inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(modelName))
		if out.Extra == nil {
			out.Extra = map[string]any{}
		}
		out.Extra["usage_cost"] = map[string]any{
			"currency":          "USD",
			"model":             modelName,
			"prompt_tokens":     usage.PromptTokens,
			"completion_tokens": usage.CompletionTokens,
			"total_tokens":      usage.TotalTokens,
			"input_cost":        inC,
			"output_cost":       outC,
			"total_cost":        totalC,
		}
		state.TotalCostUSD += totalC

		logx.Debug().
			Str("session_id", state.SessionID).
			Str("node", NodeResponseChatModel).
			Str("model", modelName).
			Int("prompt_tokens", usage.PromptTokens).
			Int("completion_tokens", usage.CompletionTokens).
			Int("total_tokens", usage.TotalTokens).
			Float64("input_cost_usd", inC).
			Float64("output_cost_usd", outC).
			Float64("total_cost_usd", state.TotalCostUSD).
			Msg("LLM usage")
		return out, nil
	}
}

func primaryEmergencyNumber(kb *knowledge.Base) string {
	contacts := kb.EmergencyContacts()
	if len(contacts) == 0 {
		return ""
	}
	return contacts[0].Number
}
