package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/swasthya-bot/server/internal/agent/graph/conversations"
	"github.com/swasthya-bot/server/internal/agent/intent"
	"github.com/swasthya-bot/server/internal/agent/knowledge"
	"github.com/swasthya-bot/server/internal/agent/model"
	"github.com/swasthya-bot/server/internal/agent/repo"
	"github.com/swasthya-bot/server/internal/agent/response"
	"github.com/swasthya-bot/server/internal/agent/subscribers"
	"github.com/swasthya-bot/server/internal/core"
)

const sender = "whatsapp:+919876543210"

type fakeGenerator struct {
	mu     sync.Mutex
	calls  []model.GenerationInput
	answer string
	err    error
	delay  time.Duration
}

func (f *fakeGenerator) Generate(ctx context.Context, in model.GenerationInput) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, in)
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fixture struct {
	engine      *Engine
	subscribers *repo.MemorySubscriberStore
	sessions    *conversations.SessionManager
	generator   *fakeGenerator
	composer    *response.Composer
}

func newFixture(t *testing.T, mode core.Mode, known ...string) *fixture {
	t.Helper()
	data, err := knowledge.Load("")
	require.NoError(t, err)
	kb := knowledge.New(data)

	subs := repo.NewMemorySubscriberStore(known...)
	sessions := conversations.NewSessionManager(repo.NewMemorySessionStore(), model.ConversationConfig{MaxTurns: 20})
	gen := &fakeGenerator{answer: "Rest and drink fluids. Please consult a doctor."}
	composer := response.NewComposer(kb, mode)

	e := NewEngine(Config{Mode: mode, GenerationTimeout: 50 * time.Millisecond}, Deps{
		Registry:  subscribers.NewRegistry(subs),
		Matcher:   intent.NewMatcher(kb, mode),
		Composer:  composer,
		Sessions:  sessions,
		Generator: gen,
	})
	return &fixture{engine: e, subscribers: subs, sessions: sessions, generator: gen, composer: composer}
}

func TestReply_FirstTimeSenderGetsWelcome(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.Rules)

	// The matcher is skipped: even a disease question gets the welcome text.
	out := f.engine.Reply(ctx, Inbound{Sender: sender, Body: "what are the symptoms of malaria"})
	require.Equal(t, f.composer.Welcome(), out)

	subs, err := f.subscribers.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{sender}, subs)

	out = f.engine.Reply(ctx, Inbound{Sender: sender, Body: "what are the symptoms of malaria"})
	require.Equal(t, "Fever with chills\nHeadache\nNausea and vomiting\nMuscle pain and fatigue", out)
}

func TestReply_RuleBasedIntents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.Rules, sender)

	t.Run("greeting", func(t *testing.T) {
		require.Equal(t, f.composer.Welcome(), f.engine.Reply(ctx, Inbound{Sender: sender, Body: "Hello"}))
	})

	t.Run("vaccination blocks in order", func(t *testing.T) {
		out := f.engine.Reply(ctx, Inbound{Sender: sender, Body: "vaccine"})
		blocks := strings.Split(out, "\n\n")
		require.Len(t, blocks, 5)
		require.Contains(t, blocks[1], "*Vaccine:* BCG")
		require.Contains(t, blocks[4], "*Vaccine:* MR")
	})

	t.Run("language selection", func(t *testing.T) {
		out := f.engine.Reply(ctx, Inbound{Sender: sender, Body: "symptoms of malaria", Language: "HI"})
		require.NotEmpty(t, out)
		require.NotContains(t, out, "Fever with chills")
	})

	t.Run("unknown language falls back to english text", func(t *testing.T) {
		out := f.engine.Reply(ctx, Inbound{Sender: sender, Body: "symptoms of malaria", Language: "fr"})
		require.Equal(t, "Sorry, I couldn't find symptoms for that disease/language.", out)
	})

	t.Run("unmatched text gets help, not the generator", func(t *testing.T) {
		out := f.engine.Reply(ctx, Inbound{Sender: sender, Body: "my knee aches"})
		require.Equal(t, f.composer.Help(model.English), out)
		require.Empty(t, f.generator.calls)
	})

	t.Run("empty body", func(t *testing.T) {
		require.Equal(t, f.composer.Help(model.English), f.engine.Reply(ctx, Inbound{Sender: sender, Body: "   "}))
	})
}

func TestReply_FreeFormStoresExchange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.Generative, sender)

	out := f.engine.Reply(ctx, Inbound{Sender: sender, Body: "rash and fever for two days"})
	require.Equal(t, f.generator.answer, out)
	require.Len(t, f.generator.calls, 1)
	require.Empty(t, f.generator.calls[0].History)
	require.Equal(t, model.English, f.generator.calls[0].Language)

	require.Equal(t, []model.Turn{
		{Role: model.RoleUser, Text: "rash and fever for two days"},
		{Role: model.RoleAssistant, Text: f.generator.answer},
	}, f.sessions.Window(ctx, sender))

	f.engine.Reply(ctx, Inbound{Sender: sender, Body: "it is getting worse"})
	require.Len(t, f.generator.calls[1].History, 2)
}

func TestReply_ClearHistoryEmptiesWindow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.Generative, sender)

	f.engine.Reply(ctx, Inbound{Sender: sender, Body: "rash and fever for two days"})
	require.NotEmpty(t, f.sessions.Window(ctx, sender))

	require.Equal(t, response.HistoryClearedText, f.engine.Reply(ctx, Inbound{Sender: sender, Body: " Start Over "}))
	require.Empty(t, f.sessions.Window(ctx, sender))

	f.engine.Reply(ctx, Inbound{Sender: sender, Body: "rash again"})
	require.Empty(t, f.generator.calls[len(f.generator.calls)-1].History)
}

func TestReply_GenerationFailureApologises(t *testing.T) {
	ctx := context.Background()

	t.Run("timeout", func(t *testing.T) {
		f := newFixture(t, core.Generative, sender)
		f.generator.delay = time.Second

		out := f.engine.Reply(ctx, Inbound{Sender: sender, Body: "rash and fever for two days"})
		require.Equal(t, response.ApologyText, out)
		require.Empty(t, f.sessions.Window(ctx, sender))
	})

	t.Run("error", func(t *testing.T) {
		f := newFixture(t, core.Generative, sender)
		f.generator.err = errors.New("upstream 500")

		require.Equal(t, response.ApologyText, f.engine.Reply(ctx, Inbound{Sender: sender, Body: "rash and fever"}))
		require.Empty(t, f.sessions.Window(ctx, sender))
	})

	t.Run("no generator", func(t *testing.T) {
		f := newFixture(t, core.Generative, sender)
		f.engine.deps.Generator = nil
		require.Equal(t, response.ApologyText, f.engine.Reply(ctx, Inbound{Sender: sender, Body: "rash and fever"}))
	})
}

func TestReply_SameSenderIsSerialized(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.Generative, sender)

	var wg sync.WaitGroup
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.engine.Reply(ctx, Inbound{Sender: sender, Body: "rash and fever"})
		}()
	}
	wg.Wait()

	// 15 exchanges of 2 turns, capped at 20, with no lost updates.
	window := f.sessions.Window(ctx, sender)
	require.Len(t, window, 20)
	for i, turn := range window {
		if i%2 == 0 {
			require.Equal(t, model.RoleUser, turn.Role)
		} else {
			require.Equal(t, model.RoleAssistant, turn.Role)
		}
	}
	require.Zero(t, f.engine.locks.size())
}

func TestReply_AnonymousSenderIsAnsweredNotRemembered(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.Generative)

	require.Equal(t, f.composer.Welcome(), f.engine.Reply(ctx, Inbound{Body: "hello"}))
	require.Equal(t, f.generator.answer, f.engine.Reply(ctx, Inbound{Sender: "  ", Body: "rash and fever"}))

	require.Len(t, f.generator.calls, 1)
	require.Empty(t, f.generator.calls[0].History)
	require.Empty(t, f.sessions.Window(ctx, ""))

	subs, err := f.subscribers.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, subs)
	require.Zero(t, f.engine.locks.size())
}

// brokenSessions fails every write and reads as empty.
type brokenSessions struct{}

func (brokenSessions) Append(context.Context, string, int, ...model.Turn) error {
	return errors.New("session store down")
}
func (brokenSessions) Load(context.Context, string) ([]model.Turn, error) { return nil, nil }
func (brokenSessions) Clear(context.Context, string) error                { return errors.New("session store down") }

func TestReply_SessionStoreFailureStillAnswers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.Generative, sender)
	f.engine.deps.Sessions = conversations.NewSessionManager(brokenSessions{}, model.ConversationConfig{})

	require.Equal(t, f.generator.answer, f.engine.Reply(ctx, Inbound{Sender: sender, Body: "rash and fever"}))
	require.Equal(t, response.HistoryClearedText, f.engine.Reply(ctx, Inbound{Sender: sender, Body: "clear"}))
}
