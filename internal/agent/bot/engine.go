// Package bot turns one inbound WhatsApp message into one reply.
package bot

import (
	"context"
	"strings"
	"time"

	"github.com/swasthya-bot/server/internal/agent/graph/conversations"
	"github.com/swasthya-bot/server/internal/agent/intent"
	"github.com/swasthya-bot/server/internal/agent/model"
	"github.com/swasthya-bot/server/internal/agent/response"
	"github.com/swasthya-bot/server/internal/agent/subscribers"
	"github.com/swasthya-bot/server/internal/core"
	logx "github.com/swasthya-bot/server/pkg/logger"
)

const DefaultGenerationTimeout = 20 * time.Second

// Generator produces a free-form answer from the question and prior turns.
type Generator interface {
	Generate(ctx context.Context, in model.GenerationInput) (string, error)
}

// Inbound is a message as delivered by the transport.
type Inbound struct {
	Sender   string
	Body     string
	Language string
}

type Config struct {
	Mode              core.Mode
	DefaultLanguage   model.Language
	GenerationTimeout time.Duration
}

type Deps struct {
	Registry  *subscribers.Registry
	Matcher   *intent.Matcher
	Composer  *response.Composer
	Sessions  *conversations.SessionManager
	Generator Generator
}

type Engine struct {
	config Config
	deps   Deps
	locks  *senderLocks
}

func NewEngine(config Config, deps Deps) *Engine {
	if config.DefaultLanguage == "" {
		config.DefaultLanguage = model.DefaultLanguage
	}
	if config.GenerationTimeout <= 0 {
		config.GenerationTimeout = DefaultGenerationTimeout
	}
	return &Engine{config: config, deps: deps, locks: newSenderLocks()}
}

// Reply always returns text to send back. Failures degrade to fallback text.
// A message without a sender is answered but neither registered nor
// remembered.
func (e *Engine) Reply(ctx context.Context, in Inbound) string {
	sender := strings.TrimSpace(in.Sender)
	if sender != "" {
		unlock := e.locks.lock(sender)
		defer unlock()
	}

	lang := e.config.DefaultLanguage
	if strings.TrimSpace(in.Language) != "" {
		lang = model.ParseLanguage(in.Language)
	}

	if e.deps.Registry != nil && e.deps.Registry.IsNewAndRegister(ctx, sender) {
		logx.Info().Str("sender", sender).Msg("new subscriber")
		return e.deps.Composer.Welcome()
	}

	it := e.deps.Matcher.Classify(in.Body)
	logx.Debug().
		Str("sender", sender).
		Str("intent", it.Kind.String()).
		Str("target", it.Target).
		Str("language", string(lang)).
		Msg("classified message")

	switch it.Kind {
	case model.IntentClearHistory:
		if e.deps.Sessions != nil && sender != "" {
			if err := e.deps.Sessions.Clear(ctx, sender); err != nil {
				logx.Error().Err(err).Str("sender", sender).Msg("failed to clear conversation")
			}
		}
		return response.HistoryClearedText
	case model.IntentFreeForm:
		return e.generate(ctx, sender, strings.TrimSpace(in.Body), lang)
	default:
		return e.deps.Composer.Render(it, lang)
	}
}

func (e *Engine) generate(ctx context.Context, sender, query string, lang model.Language) string {
	if e.deps.Generator == nil {
		logx.Warn().Str("sender", sender).Msg("no generator configured")
		return response.ApologyText
	}
	if query == "" {
		return e.deps.Composer.Help(lang)
	}

	remember := e.deps.Sessions != nil && sender != ""
	var history []model.Turn
	if remember {
		history = e.deps.Sessions.Window(ctx, sender)
	}

	genCtx, cancel := context.WithTimeout(ctx, e.config.GenerationTimeout)
	defer cancel()

	start := time.Now()
	answer, err := e.deps.Generator.Generate(genCtx, model.GenerationInput{
		SessionID: sender,
		Query:     query,
		Language:  lang,
		History:   history,
	})
	if err != nil {
		logx.Error().Err(err).Str("sender", sender).Dur("elapsed", time.Since(start)).Msg("generation failed")
		return response.ApologyText
	}

	if remember {
		if err := e.deps.Sessions.AppendExchange(ctx, sender, query, answer); err != nil {
			logx.Error().Err(err).Str("sender", sender).Msg("failed to save conversation exchange")
		}
	}
	return answer
}
