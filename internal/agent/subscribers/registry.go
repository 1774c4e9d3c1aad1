package subscribers

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/swasthya-bot/server/internal/agent/model"
	logx "github.com/swasthya-bot/server/pkg/logger"
)

// Registry is the append-only set of known senders. The store decides
// membership; the in-memory set only short-cuts senders this process has
// already seen.
type Registry struct {
	store model.SubscriberStore

	mu    sync.Mutex
	known map[string]struct{}
	// pending holds senders registered while the store was failing.
	pending []string
}

func NewRegistry(store model.SubscriberStore) *Registry {
	return &Registry{
		store: store,
		known: make(map[string]struct{}),
	}
}

// IsNewAndRegister reports whether id has never been seen before and records
// it. Only the first call for a given id returns true. When the store fails
// the sender is treated as new and retried on a later call.
func (r *Registry) IsNewAndRegister(ctx context.Context, id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	if r.seen(id) {
		return false
	}

	r.flushPending(ctx)

	added, err := r.store.Add(ctx, id)

	r.mu.Lock()
	defer r.mu.Unlock()
	_, already := r.known[id]
	r.known[id] = struct{}{}
	if err != nil {
		logx.Warn().Err(err).Str("sender", id).Msg("subscriber store unavailable, registering later")
		if already {
			return false
		}
		r.pending = append(r.pending, id)
		return true
	}
	if added && slices.Contains(r.pending, id) {
		return false
	}
	return added
}

// All returns every subscriber in order of first appearance, read fresh from
// the store.
func (r *Registry) All(ctx context.Context) ([]string, error) {
	r.flushPending(ctx)

	stored, err := r.store.Load(ctx)
	if err != nil {
		logx.Warn().Err(err).Msg("subscriber store unavailable")
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(stored)+len(r.pending))
	out := make([]string, 0, len(stored)+len(r.pending))
	for _, s := range append(stored, r.pending...) {
		if _, dup := seen[s]; dup || s == "" {
			continue
		}
		seen[s] = struct{}{}
		r.known[s] = struct{}{}
		out = append(out, s)
	}
	logx.Debug().Int("subscribers", len(out)).Msg("subscribers loaded")
	return out, nil
}

func (r *Registry) seen(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.known[id]
	return ok
}

// flushPending writes queued senders in arrival order and stops at the first
// failure.
func (r *Registry) flushPending(ctx context.Context) {
	r.mu.Lock()
	queued := r.pending
	r.pending = nil
	r.mu.Unlock()

	for i, id := range queued {
		if _, err := r.store.Add(ctx, id); err != nil {
			logx.Warn().Err(err).Int("pending", len(queued)-i).Msg("subscriber store still unavailable")
			r.mu.Lock()
			r.pending = append(queued[i:], r.pending...)
			r.mu.Unlock()
			return
		}
	}
	if len(queued) > 0 {
		logx.Info().Int("subscribers", len(queued)).Msg("registered pending subscribers")
	}
}
