// Package evaluation holds client-side evaluation state: the current result
// and a short history of recent ones.
package evaluation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/memoai-dev/memocoach/pkg/gateway"
	"github.com/memoai-dev/memocoach/pkg/service"
)

// HistoryLimit caps the number of retained evaluations, newest first.
const HistoryLimit = 10

// Submitter is the remote surface the store drives. Satisfied by
// service.Evaluation.
type Submitter interface {
	Submit(ctx context.Context, textContent string) (gateway.Result, error)
}

// Store keeps the current evaluation and recent history in memory.
// Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	current   *service.EvaluationRecord
	history   []service.EvaluationRecord
	loading   bool
	lastError string

	svc    Submitter
	logger *slog.Logger
}

// New creates an evaluation store over the given submitter.
func New(svc Submitter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{svc: svc, logger: logger}
}

// Submit scores the given text and records the result. On failure the
// previous current evaluation and history are left untouched and the error
// carries the service message.
func (s *Store) Submit(ctx context.Context, textContent string) (*service.EvaluationRecord, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()

	res, err := s.svc.Submit(ctx, textContent)
	if err != nil {
		return nil, s.fail(err.Error())
	}
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "Evaluation failed"
		}
		return nil, s.fail(msg)
	}

	var payload service.EvaluationPayload
	if err := res.Decode(&payload); err != nil {
		s.logger.Warn("evaluation: malformed submit payload", "error", err)
		return nil, s.fail("No evaluation data in response")
	}

	s.mu.Lock()
	record := payload.Evaluation
	s.current = &record
	s.history = append([]service.EvaluationRecord{record}, s.history...)
	if len(s.history) > HistoryLimit {
		s.history = s.history[:HistoryLimit]
	}
	s.mu.Unlock()

	return &record, nil
}

func (s *Store) fail(msg string) error {
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
	return errors.New(msg)
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Current returns a copy of the most recent evaluation.
func (s *Store) Current() (service.EvaluationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return service.EvaluationRecord{}, false
	}
	return *s.current, true
}

// History returns a copy of the retained evaluations, newest first.
func (s *Store) History() []service.EvaluationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]service.EvaluationRecord, len(s.history))
	copy(out, s.history)
	return out
}

// Loading reports whether a submission is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the message of the last failed submission.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}
