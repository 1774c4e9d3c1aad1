package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/swasthya-bot/server/internal/agent/graph/nodes"
	"github.com/swasthya-bot/server/internal/agent/graph/observers"
	"github.com/swasthya-bot/server/internal/agent/knowledge"
	"github.com/swasthya-bot/server/internal/agent/model"
	errx "github.com/swasthya-bot/server/internal/core/error"
	logx "github.com/swasthya-bot/server/pkg/logger"
)

var errEmptyReply = errors.New("model returned an empty reply")

// Config holds everything needed to compose the Gemini-backed generation graph.
type Config struct {
	APIKey        string
	BaseURL       string
	ResponseModel model.ResponseModelConfig
	Knowledge     *knowledge.Base
}

// GraphConfig holds the already constructed pieces of the graph.
type GraphConfig struct {
	ChatModel einomodel.BaseChatModel
	ModelName string
	Knowledge *knowledge.Base
}

// Runner executes the compiled graph for one free-form question.
type Runner struct {
	runnable compose.Runnable[model.GenerationInput, *schema.Message]
}

// Generate returns the model's answer. Every failure is wrapped as
// errx.ErrGeneration.
func (r *Runner) Generate(ctx context.Context, in model.GenerationInput) (string, error) {
	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return "", errx.WrapGeneration(err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", errx.WrapGeneration(errEmptyReply)
	}
	return strings.TrimSpace(out.Content), nil
}

// BuildResponseGraph creates the Gemini chat model and compiles the graph around it.
func BuildResponseGraph(ctx context.Context, cfg Config) (*Runner, error) {
	cm, err := nodes.NewGeminiChatModel(ctx, nodes.ChatModelConfig{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Response: &cfg.ResponseModel,
	})
	if err != nil {
		return nil, err
	}
	return NewRunner(ctx, &GraphConfig{
		ChatModel: cm,
		ModelName: cfg.ResponseModel.Model,
		Knowledge: cfg.Knowledge,
	})
}

// NewRunner compiles the graph over any chat model.
func NewRunner(ctx context.Context, config *GraphConfig) (*Runner, error) {
	runnable, err := BuildGraph(ctx, config)
	if err != nil {
		return nil, err
	}
	logx.Debug().Msg("Response graph built successfully")
	return &Runner{runnable: runnable}, nil
}

// BuildGraph wires input conversion into the chat model:
//
//	START -> input_converter -> response_chat_model -> END
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.GenerationInput, *schema.Message], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModel == nil {
		return nil, fmt.Errorf("chat model is not initialized")
	}
	kb := config.Knowledge
	if kb == nil {
		kb = knowledge.New(nil)
	}

	g := compose.NewGraph[model.GenerationInput, *schema.Message](
		compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
			return &model.AppState{}
		}),
	)

	if err := g.AddLambdaNode(nodes.NodeInputConverter,
		nodes.NewInputConverterNode(kb),
		compose.WithStatePreHandler(nodes.NewInputConverterPreHandler()),
	); err != nil {
		return nil, fmt.Errorf("add input converter node: %w", err)
	}
	if err := g.AddChatModelNode(nodes.NodeResponseChatModel,
		config.ChatModel,
		compose.WithStatePostHandler(nodes.NewResponseChatModelPostHandler(config.ModelName)),
	); err != nil {
		return nil, fmt.Errorf("add response chat model node: %w", err)
	}

	edges := [][2]string{
		{compose.START, nodes.NodeInputConverter},
		{nodes.NodeInputConverter, nodes.NodeResponseChatModel},
		{nodes.NodeResponseChatModel, compose.END},
	}
	for _, edge := range edges {
		if err := g.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}

	runnable, err := g.Compile(ctx)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
