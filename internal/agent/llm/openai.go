package llm

import (
	"context"
	"errors"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openai "github.com/sashabaranov/go-openai"
)

const DefaultOpenAIModel = "gpt-4o-mini"

type OpenAIConfig struct {
	APIKey      string  `envconfig:"OPENAI_API_KEY"`
	BaseURL     string  `envconfig:"OPENAI_BASE_URL"`
	Model       string  `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.4"`
}

// OpenAIChatModel adapts the OpenAI chat completion API to Eino's
// BaseChatModel so it can back the generation graph in place of Gemini.
type OpenAIChatModel struct {
	client *openai.Client
	config OpenAIConfig
}

var _ einomodel.BaseChatModel = (*OpenAIChatModel)(nil)

func NewOpenAIChatModel(config OpenAIConfig) (*OpenAIChatModel, error) {
	if config.APIKey == "" {
		return nil, errors.New("openai api key is empty")
	}
	if config.Model == "" {
		config.Model = DefaultOpenAIModel
	}
	clientCfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientCfg.BaseURL = config.BaseURL
	}
	return &OpenAIChatModel{
		client: openai.NewClientWithConfig(clientCfg),
		config: config,
	}, nil
}

// ModelName is used for cost lookup.
func (c *OpenAIChatModel) ModelName() string { return c.config.Model }

// Generate sends the message history to the chat completion API and returns
// the assistant's reply with token usage attached.
func (c *OpenAIChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	common := einomodel.GetCommonOptions(&einomodel.Options{
		Model:       &c.config.Model,
		Temperature: &c.config.Temperature,
		MaxTokens:   &c.config.MaxTokens,
	}, opts...)

	req := openai.ChatCompletionRequest{
		Model:    *common.Model,
		Messages: toOpenAIMessages(input),
	}
	if common.Temperature != nil {
		req.Temperature = *common.Temperature
	}
	if common.MaxTokens != nil {
		req.MaxTokens = *common.MaxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai chat completion: no choices")
	}

	out := schema.AssistantMessage(resp.Choices[0].Message.Content, nil)
	out.ResponseMeta = &schema.ResponseMeta{
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage: &schema.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	return out, nil
}

// Stream yields the whole reply as a single chunk.
func (c *OpenAIChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	out, err := c.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{out}), nil
}

func toOpenAIMessages(msgs []*schema.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case schema.System:
			role = openai.ChatMessageRoleSystem
		case schema.Assistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}
