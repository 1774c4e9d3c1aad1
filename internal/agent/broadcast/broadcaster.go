// Package broadcast sends one operator message to every subscriber.
package broadcast

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	errx "github.com/swasthya-bot/server/internal/core/error"
	logx "github.com/swasthya-bot/server/pkg/logger"
)

const DefaultConcurrency = 4

// Sender delivers a message to one recipient.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// Directory lists the recipients of a broadcast.
type Directory interface {
	All(ctx context.Context) ([]string, error)
}

type Failure struct {
	Recipient string `json:"recipient"`
	Error     string `json:"error"`
}

type Report struct {
	ID       string    `json:"id"`
	Total    int       `json:"total"`
	Sent     int       `json:"sent"`
	Failed   int       `json:"failed"`
	Failures []Failure `json:"failures,omitempty"`
}

type Broadcaster struct {
	directory   Directory
	sender      Sender
	concurrency int
}

func NewBroadcaster(directory Directory, sender Sender, concurrency int) *Broadcaster {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Broadcaster{directory: directory, sender: sender, concurrency: concurrency}
}

// Recipients returns the current subscriber list.
func (b *Broadcaster) Recipients(ctx context.Context) ([]string, error) {
	return b.directory.All(ctx)
}

// Send delivers message to every subscriber. A failed recipient is counted
// and does not stop the others. Failures keep subscriber order.
func (b *Broadcaster) Send(ctx context.Context, message string) (Report, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Report{}, errx.Invalid("broadcast message is empty")
	}

	recipients, err := b.directory.All(ctx)
	if err != nil {
		return Report{}, err
	}
	if len(recipients) == 0 {
		return Report{}, errx.Missing("no subscribers found")
	}

	report := Report{ID: uuid.NewString(), Total: len(recipients)}
	logx.Info().Str("broadcast_id", report.ID).Int("recipients", len(recipients)).Msg("broadcast started")
	start := time.Now()

	var (
		mu     sync.Mutex
		errs   = make([]error, len(recipients))
		failed int
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(b.concurrency)
	for i, to := range recipients {
		eg.Go(func() error {
			if err := b.sender.Send(egCtx, to, message); err != nil {
				mu.Lock()
				errs[i] = err
				failed++
				mu.Unlock()
				logx.Warn().Err(err).Str("broadcast_id", report.ID).Str("recipient", to).Msg("broadcast delivery failed")
			}
			return nil
		})
	}
	_ = eg.Wait()

	for i, err := range errs {
		if err != nil {
			report.Failures = append(report.Failures, Failure{Recipient: recipients[i], Error: err.Error()})
		}
	}
	report.Failed = failed
	report.Sent = report.Total - failed

	logx.Info().
		Str("broadcast_id", report.ID).
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("broadcast finished")
	return report, nil
}
