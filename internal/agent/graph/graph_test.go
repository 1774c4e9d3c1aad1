package graph

import (
	"context"
	"errors"
	"sync"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/require"

	"github.com/swasthya-bot/server/internal/agent/knowledge"
	"github.com/swasthya-bot/server/internal/agent/model"
	errx "github.com/swasthya-bot/server/internal/core/error"
)

type fakeChatModel struct {
	mu    sync.Mutex
	seen  []*schema.Message
	reply *schema.Message
	err   error
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = input
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func newTestRunner(t *testing.T, cm einomodel.BaseChatModel) *Runner {
	t.Helper()
	kb, err := knowledge.Load("")
	require.NoError(t, err)
	r, err := NewRunner(context.Background(), &GraphConfig{
		ChatModel: cm,
		ModelName: "gemini-2.5-flash",
		Knowledge: knowledge.New(kb),
	})
	require.NoError(t, err)
	return r
}

func TestRunner_Generate(t *testing.T) {
	reply := schema.AssistantMessage("  Malaria spreads through mosquito bites. Please see a doctor.  ", nil)
	reply.ResponseMeta = &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 1000, CompletionTokens: 100, TotalTokens: 1100}}
	cm := &fakeChatModel{reply: reply}
	r := newTestRunner(t, cm)

	out, err := r.Generate(context.Background(), model.GenerationInput{
		SessionID: "whatsapp:+911234567890",
		Query:     "how does malaria spread?",
		Language:  model.Hindi,
		History: []model.Turn{
			{Role: model.RoleUser, Text: "hi"},
			{Role: model.RoleAssistant, Text: "Hello! How can I help?"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "Malaria spreads through mosquito bites. Please see a doctor.", out)

	require.Len(t, cm.seen, 4)
	require.Equal(t, schema.System, cm.seen[0].Role)
	require.Contains(t, cm.seen[0].Content, `"name":"Malaria"`)
	require.Contains(t, cm.seen[0].Content, `language with code "hi"`)
	require.Equal(t, schema.User, cm.seen[1].Role)
	require.Equal(t, schema.Assistant, cm.seen[2].Role)
	require.Equal(t, "how does malaria spread?", cm.seen[3].Content)
}

func TestRunner_Failures(t *testing.T) {
	t.Run("model error", func(t *testing.T) {
		r := newTestRunner(t, &fakeChatModel{err: errors.New("quota exceeded")})
		_, err := r.Generate(context.Background(), model.GenerationInput{SessionID: "a", Query: "fever"})
		require.ErrorIs(t, err, errx.ErrGeneration)
	})

	t.Run("empty reply", func(t *testing.T) {
		r := newTestRunner(t, &fakeChatModel{reply: schema.AssistantMessage("   ", nil)})
		_, err := r.Generate(context.Background(), model.GenerationInput{SessionID: "a", Query: "fever"})
		require.ErrorIs(t, err, errx.ErrGeneration)
	})

	t.Run("empty query", func(t *testing.T) {
		cm := &fakeChatModel{reply: schema.AssistantMessage("ok", nil)}
		r := newTestRunner(t, cm)
		_, err := r.Generate(context.Background(), model.GenerationInput{SessionID: "a", Query: " "})
		require.ErrorIs(t, err, errx.ErrGeneration)
		require.Nil(t, cm.seen)
	})
}

func TestBuildGraph_RequiresModel(t *testing.T) {
	_, err := BuildGraph(context.Background(), nil)
	require.Error(t, err)
	_, err = BuildGraph(context.Background(), &GraphConfig{})
	require.Error(t, err)
}
