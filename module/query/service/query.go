package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/TheFoister/kgm-checker/module/query/domain"
	"github.com/TheFoister/kgm-checker/module/query/internal/repository/database"
	"github.com/TheFoister/kgm-checker/module/query/internal/repository/publisher"
	"github.com/TheFoister/kgm-checker/module/query/internal/repository/upstream"
)

const recordTimeout = 5 * time.Second

var ErrStatsUnavailable = errors.New("query stats unavailable: no event store configured")

// QueryService forwards plate queries to the webhook. The event store and the
// publisher are optional and only ever see query metadata.
type QueryService struct {
	client upstream.QueryClient
	events database.QueryEventRepository
	pub    publisher.QueryEventPublisher
	now    func() time.Time
}

func NewQueryService(client upstream.QueryClient, events database.QueryEventRepository, pub publisher.QueryEventPublisher) *QueryService {
	return &QueryService{
		client: client,
		events: events,
		pub:    pub,
		now:    time.Now,
	}
}

// Check sends the plate to the webhook exactly once. A blank plate returns
// domain.ErrPlateRequired without calling out; any transport failure or
// non-JSON reply returns an error wrapping domain.ErrUpstream.
func (s *QueryService) Check(ctx context.Context, source domain.Source, plate string) (*domain.UpstreamResponse, error) {
	start := s.now()

	if domain.IsBlankPlate(plate) {
		s.record(ctx, source, domain.OutcomeInvalid, 0, start)
		return nil, domain.ErrPlateRequired
	}

	resp, err := s.client.Query(ctx, plate)
	if err != nil {
		s.record(ctx, source, domain.OutcomeUpstreamError, 0, start)
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	s.record(ctx, source, classify(resp), resp.Status, start)
	return resp, nil
}

func (s *QueryService) Stats(ctx context.Context, since time.Time) (*domain.QueryStats, error) {
	if s.events == nil {
		return nil, ErrStatsUnavailable
	}
	return s.events.Stats(ctx, since)
}

func classify(resp *domain.UpstreamResponse) domain.Outcome {
	res, err := domain.DecodeResult(resp.Body)
	if err != nil {
		return domain.OutcomeUpstreamFailure
	}
	if _, ok := res.(domain.Success); ok {
		return domain.OutcomeSuccess
	}
	return domain.OutcomeUpstreamFailure
}

func (s *QueryService) record(ctx context.Context, source domain.Source, outcome domain.Outcome, status int, start time.Time) {
	if s.events == nil && s.pub == nil {
		return
	}

	ev := &domain.QueryEvent{
		Outcome:        outcome,
		Source:         source,
		UpstreamStatus: status,
		DurationMS:     s.now().Sub(start).Milliseconds(),
		OccurredAt:     start,
	}

	// the caller may already be gone after a long query
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if s.events != nil {
		if err := s.events.Insert(ctx, ev); err != nil {
			log.Printf("record query event: %v", err)
		}
	}
	if s.pub != nil {
		if err := s.pub.PublishEvent(ctx, ev); err != nil {
			log.Printf("publish query event: %v", err)
		}
	}
}
