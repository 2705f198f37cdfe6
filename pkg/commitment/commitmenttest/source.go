// Package commitmenttest provides an in-memory CommitmentSource holding
// stamps, predictions and audit trails registered by a test.
package commitmenttest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/forecast-stamps/verifier-go/pkg/commitment"
	"github.com/forecast-stamps/verifier-go/pkg/hashing"
	"github.com/forecast-stamps/verifier-go/pkg/proof"
)

type predictionKey struct {
	questionID     int64
	timestamp      string
	predictionType hashing.PredictionType
}

type trailKey struct {
	root hashing.Hash
	leaf hashing.Hash
}

// Source is safe for concurrent use.
type Source struct {
	mu          sync.Mutex
	stamps      map[string]commitment.Stamp
	predictions map[predictionKey]json.RawMessage
	trails      map[trailKey]proof.AuditTrail
	failures    []error
	calls       map[string]int
}

var _ commitment.CommitmentSource = (*Source)(nil)

func New() *Source {
	return &Source{
		stamps:      map[string]commitment.Stamp{},
		predictions: map[predictionKey]json.RawMessage{},
		trails:      map[trailKey]proof.AuditTrail{},
		calls:       map[string]int{},
	}
}

// AddStamp registers the stamp returned for date's calendar day.
func (s *Source) AddStamp(date time.Time, stamp commitment.Stamp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamps[dayKey(date)] = stamp
}

func (s *Source) AddPrediction(questionID int64, timestamp string, predictionType hashing.PredictionType, value json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.predictions[predictionKey{questionID, timestamp, predictionType}] = append(json.RawMessage(nil), value...)
}

func (s *Source) AddTrail(root hashing.Hash, leaf hashing.Hash, trail proof.AuditTrail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trails[trailKey{root, leaf}] = trail
}

// FailNext makes the next call, of any operation, return err.
func (s *Source) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, err)
}

// Calls returns how many times operation ("stamp", "prediction" or
// "audit_trail") was invoked.
func (s *Source) Calls(operation string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[operation]
}

func (s *Source) FetchRootForDate(ctx context.Context, date time.Time) (commitment.Stamp, error) {
	if err := s.begin(ctx, "stamp"); err != nil {
		return commitment.Stamp{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp, ok := s.stamps[dayKey(date)]
	if !ok {
		return commitment.Stamp{}, fmt.Errorf("%w: %s", commitment.ErrNotFound, dayKey(date))
	}
	return stamp, nil
}

func (s *Source) FetchPredictionForDate(
	ctx context.Context,
	questionID int64,
	timestamp string,
	predictionType hashing.PredictionType,
) (json.RawMessage, error) {
	if err := s.begin(ctx, "prediction"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.predictions[predictionKey{questionID, timestamp, predictionType}]
	if !ok {
		return nil, fmt.Errorf("%w: question %d %s at %s", commitment.ErrNotAvailable, questionID, predictionType, timestamp)
	}
	return append(json.RawMessage(nil), value...), nil
}

func (s *Source) FetchAuditTrail(ctx context.Context, root hashing.Hash, leaf hashing.Hash) (proof.AuditTrail, error) {
	if err := s.begin(ctx, "audit_trail"); err != nil {
		return proof.AuditTrail{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	trail, ok := s.trails[trailKey{root, leaf}]
	if !ok {
		return proof.AuditTrail{}, &commitment.RemoteVerificationError{Message: "Remote verification error"}
	}
	return trail, nil
}

func (s *Source) begin(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[operation]++
	if len(s.failures) == 0 {
		return nil
	}
	err := s.failures[0]
	s.failures = s.failures[1:]
	if err == nil {
		return errors.New("commitmenttest: injected failure")
	}
	return err
}

func dayKey(date time.Time) string {
	return date.UTC().Format("2006-01-02")
}
