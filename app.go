package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/swasthya-bot/server/internal/agent/bot"
	"github.com/swasthya-bot/server/internal/agent/graph"
	"github.com/swasthya-bot/server/internal/agent/graph/conversations"
	"github.com/swasthya-bot/server/internal/agent/intent"
	"github.com/swasthya-bot/server/internal/agent/knowledge"
	"github.com/swasthya-bot/server/internal/agent/llm"
	"github.com/swasthya-bot/server/internal/agent/model"
	"github.com/swasthya-bot/server/internal/agent/repo"
	"github.com/swasthya-bot/server/internal/agent/response"
	"github.com/swasthya-bot/server/internal/agent/subscribers"
	"github.com/swasthya-bot/server/internal/core"
	logx "github.com/swasthya-bot/server/pkg/logger"
)

// stores bundles the persistence chosen by STORE_BACKEND.
type stores struct {
	sessions    model.SessionStore
	subscribers model.SubscriberStore
	closers     []func() error
}

func (s *stores) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func openStores(ctx context.Context, cfg AppConfig) (*stores, error) {
	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid CONVERSATION_TTL %q: %w", cfg.Conversation.TTL, err)
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	logx.Info().Str("backend", backend).Msg("opening stores")

	switch backend {
	case "memory":
		return &stores{
			sessions:    repo.NewMemorySessionStore(),
			subscribers: repo.NewMemorySubscriberStore(),
		}, nil
	case "", "file":
		return &stores{
			sessions:    repo.NewMemorySessionStore(),
			subscribers: repo.NewFileSubscriberStore(cfg.Store.SubscribersFile),
		}, nil
	case "sqlite":
		db, err := repo.OpenSQLiteSubscriberStore(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return &stores{
			sessions:    repo.NewMemorySessionStore(),
			subscribers: db,
			closers:     []func() error{db.Close},
		}, nil
	case "redis":
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &stores{
			sessions:    repo.NewRedisSessionStore(rdb, ttl),
			subscribers: repo.NewRedisSubscriberStore(rdb),
			closers:     []func() error{rdb.Close},
		}, nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
}

// newGenerator builds the free-form answer graph for the configured provider.
func newGenerator(ctx context.Context, cfg AppConfig, kb *knowledge.Base) (bot.Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Response.Provider)) {
	case "openai":
		cm, err := llm.NewOpenAIChatModel(cfg.OpenAI)
		if err != nil {
			return nil, err
		}
		return graph.NewRunner(ctx, &graph.GraphConfig{
			ChatModel: cm,
			ModelName: cm.ModelName(),
			Knowledge: kb,
		})
	case "", "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is required in generative mode")
		}
		return graph.BuildResponseGraph(ctx, graph.Config{
			APIKey:        cfg.GeminiAPIKey,
			BaseURL:       cfg.GeminiBaseURL,
			ResponseModel: cfg.Response,
			Knowledge:     kb,
		})
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.Response.Provider)
	}
}

// newEngine assembles the inbound pipeline over the opened stores.
func newEngine(ctx context.Context, cfg AppConfig, st *stores) (*bot.Engine, *subscribers.Registry, error) {
	mode := core.ParseMode(cfg.Bot.Mode)
	kb := knowledge.LoadOrEmpty(cfg.Bot.KnowledgePath)

	timeout, err := time.ParseDuration(cfg.Response.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid GENERATION_TIMEOUT %q: %w", cfg.Response.Timeout, err)
	}

	var gen bot.Generator
	if mode == core.Generative {
		if gen, err = newGenerator(ctx, cfg, kb); err != nil {
			return nil, nil, err
		}
	}

	registry := subscribers.NewRegistry(st.subscribers)
	engine := bot.NewEngine(bot.Config{
		Mode:              mode,
		DefaultLanguage:   model.ParseLanguage(cfg.Bot.DefaultLanguage),
		GenerationTimeout: timeout,
	}, bot.Deps{
		Registry:  registry,
		Matcher:   intent.NewMatcher(kb, mode),
		Composer:  response.NewComposer(kb, mode),
		Sessions:  conversations.NewSessionManager(st.sessions, cfg.Conversation),
		Generator: gen,
	})

	logx.Info().
		Str("mode", string(mode)).
		Int("diseases", len(kb.Diseases())).
		Msg("bot engine ready")
	return engine, registry, nil
}
