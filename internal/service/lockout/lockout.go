package lockout

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	MaxAttempts = 3
	Window      = 15 * time.Minute

	maxHistory = 10
)

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Status struct {
	Locked            bool
	AttemptsRemaining int
	LockedUntil       *time.Time
}

// Service tracks failed PIN attempts per user over a sliding window and
// derives a temporary lockout once the threshold is crossed.
type Service struct {
	cache Cache
	now   func() time.Time
}

func New(cache Cache) *Service {
	return &Service{
		cache: cache,
		now:   time.Now,
	}
}

func attemptsKey(userID int) string { return fmt.Sprintf("pin:attempts:%d", userID) }
func lockKey(userID int) string     { return fmt.Sprintf("pin:lock:%d", userID) }

// RecordFailedAttempt appends a failure and, if the windowed count reaches
// the threshold, sets the lockout marker. Attempts older than the window do
// not count.
func (s *Service) RecordFailedAttempt(ctx context.Context, userID int) (*Status, error) {
	now := s.now()

	var history []time.Time
	if _, err := s.cache.Get(ctx, attemptsKey(userID), &history); err != nil {
		return nil, err
	}

	recent := history[:0]
	for _, at := range history {
		if now.Sub(at) < Window {
			recent = append(recent, at)
		}
	}
	recent = append(recent, now)
	if len(recent) > maxHistory {
		recent = recent[len(recent)-maxHistory:]
	}

	if err := s.cache.Set(ctx, attemptsKey(userID), recent, Window); err != nil {
		return nil, err
	}

	if len(recent) >= MaxAttempts {
		lockedUntil := now.Add(Window)
		if err := s.cache.Set(ctx, lockKey(userID), lockedUntil, Window); err != nil {
			return nil, err
		}
		zap.L().Info("user locked out after repeated failed attempts",
			zap.Int("user_id", userID), zap.Time("locked_until", lockedUntil))
		return &Status{Locked: true, AttemptsRemaining: 0, LockedUntil: &lockedUntil}, nil
	}

	return &Status{AttemptsRemaining: MaxAttempts - len(recent)}, nil
}

// IsLocked reads the lockout marker. A marker already in the past means the
// window expired naturally: both the marker and the failure history are
// cleared and the user is reported unlocked.
func (s *Service) IsLocked(ctx context.Context, userID int) (*Status, error) {
	var lockedUntil time.Time
	found, err := s.cache.Get(ctx, lockKey(userID), &lockedUntil)
	if err != nil {
		return nil, err
	}
	if !found {
		return &Status{Locked: false, AttemptsRemaining: MaxAttempts}, nil
	}

	if s.now().After(lockedUntil) {
		if err := s.cache.Delete(ctx, lockKey(userID), attemptsKey(userID)); err != nil {
			zap.L().Warn("failed to clear expired lockout", zap.Int("user_id", userID), zap.Error(err))
		}
		return &Status{Locked: false, AttemptsRemaining: MaxAttempts}, nil
	}

	return &Status{Locked: true, LockedUntil: &lockedUntil}, nil
}

// ClearFailedAttempts is the explicit reset after a successful
// authentication.
func (s *Service) ClearFailedAttempts(ctx context.Context, userID int) error {
	return s.cache.Delete(ctx, lockKey(userID), attemptsKey(userID))
}
