// Package syncer keeps a reservation store in step with the backend: a one-second
// countdown tick plus periodic polls guarded by a circuit breaker.
package syncer

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sony/gobreaker"

	"laundry-reservation/config"
	"laundry-reservation/internal/apiclient"
	"laundry-reservation/internal/metrics"
	"laundry-reservation/internal/model"
	"laundry-reservation/internal/reservation"
)

const tickInterval = time.Second

// Service drives polling and countdown for a Store.
type Service struct {
	cfg     config.SyncConfig
	store   *reservation.Store
	metrics *metrics.Metrics
	breaker *gobreaker.CircuitBreaker
}

// NewService creates a sync service. m may be nil.
func NewService(cfg config.SyncConfig, store *reservation.Store, m *metrics.Metrics) *Service {
	s := &Service{cfg: cfg, store: store, metrics: m}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "backend-poll",
		MaxRequests: 1,
		Timeout:     time.Duration(cfg.BreakerOpenSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("Circuit breaker %s: %s -> %s", name, from, to)
			if m != nil {
				m.BreakerState.Set(float64(to))
			}
		},
	})
	return s
}

// Run syncs once, then ticks the countdown every second and polls on the
// configured cadence until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	log.Println("Starting sync service...")

	s.SyncOnce(ctx)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	timer := time.NewTimer(s.pollInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sync service shutting down.")
			return
		case <-ticker.C:
			s.store.DecrementTimers()
		case <-timer.C:
			s.SyncOnce(ctx)
			timer.Reset(s.pollInterval())
		}
	}
}

// pollInterval shortens the cadence while the current reservation is confirmed,
// since the machine is about to start.
func (s *Service) pollInterval() time.Duration {
	if r := s.store.CurrentReservation(); r != nil && r.Status == model.ReservationConfirmed {
		return s.cfg.ConfirmedPollInterval
	}
	return s.cfg.PollInterval
}

// SyncOnce fetches machines and, when signed in, the current user's info.
// Failures are logged; the store keeps its previous state.
func (s *Service) SyncOnce(ctx context.Context) {
	start := time.Now()
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.poll(ctx)
	})
	if s.metrics != nil {
		s.metrics.PollDuration.Observe(time.Since(start).Seconds())
		s.metrics.SetMachineCounts(s.store.StatusCounts())
	}

	switch {
	case err == nil:
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		log.Printf("Skipping poll: %v", err)
		s.count("breaker", "skipped")
	default:
		log.Printf("Sync cycle failed: %v", err)
	}
}

func (s *Service) poll(ctx context.Context) error {
	if err := s.store.FetchMachines(ctx); err != nil {
		s.count("machines", "error")
		if apiclient.IsUnauthorized(err) {
			s.signOut(ctx)
			return nil
		}
		return err
	}
	s.count("machines", "ok")

	if s.store.CurrentUser() == nil {
		return nil
	}
	if err := s.store.FetchMyInfo(ctx); err != nil {
		s.count("my-info", "error")
		if apiclient.IsUnauthorized(err) {
			s.signOut(ctx)
			return nil
		}
		return err
	}
	s.count("my-info", "ok")
	return nil
}

func (s *Service) signOut(ctx context.Context) {
	log.Println("Session rejected by the server; signing out locally.")
	s.store.InvalidateSession(ctx)
}

func (s *Service) count(target, result string) {
	if s.metrics != nil {
		s.metrics.Polls.WithLabelValues(target, result).Inc()
	}
}

// BreakerState reports the poll breaker state.
func (s *Service) BreakerState() gobreaker.State {
	return s.breaker.State()
}
