package otpservice

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/pkg/metrics"
)

const (
	CodeLength  = 6
	CodeTTL     = 2 * time.Minute
	MaxAttempts = 3
)

type Repo interface {
	Create(ctx context.Context, code *domain.OneTimeCode) (*domain.OneTimeCode, error)
	GetActive(ctx context.Context, identifier string, purpose domain.OneTimeCodePurpose) (*domain.OneTimeCode, error)
	InvalidatePrior(ctx context.Context, identifier string, purpose domain.OneTimeCodePurpose) error
	IncrementAttempts(ctx context.Context, id int) (int, error)
	MarkVerified(ctx context.Context, id int) error
	HasVerified(ctx context.Context, identifier string, purpose domain.OneTimeCodePurpose, since time.Time) (bool, error)
}

// Notifier delivers the code out of band. Delivery failures must never block
// code generation.
type Notifier interface {
	Send(ctx context.Context, identifier, message string) error
}

var ErrAttemptsExceeded = errors.New("maximum verification attempts exceeded, request a new code")

type Service struct {
	repo     Repo
	notifier Notifier
}

func New(repo Repo, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
	}
}

func randomCode(digits int) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

// Generate supersedes any active code for the (identifier, purpose) pair and
// issues a new one with a fresh expiry window.
func (s *Service) Generate(ctx context.Context, identifier string, purpose domain.OneTimeCodePurpose) (*domain.OneTimeCode, error) {
	if err := s.repo.InvalidatePrior(ctx, identifier, purpose); err != nil {
		return nil, err
	}

	value, err := randomCode(CodeLength)
	if err != nil {
		zap.L().Error("failed to generate code", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	code := &domain.OneTimeCode{
		Identifier: identifier,
		Purpose:    purpose,
		Code:       value,
		ExpiresAt:  now.Add(CodeTTL),
		Attempts:   0,
		Verified:   false,
		CreatedAt:  now,
	}
	if _, err := s.repo.Create(ctx, code); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		message := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", value, int(CodeTTL.Minutes()))
		go func() {
			if err := s.notifier.Send(context.Background(), identifier, message); err != nil {
				zap.L().Warn("failed to dispatch verification code", zap.String("identifier", identifier), zap.Error(err))
			}
		}()
	}

	return code, nil
}

// Verify checks a submitted code. A missing or expired code is an ordinary
// false, exhausted attempts are a hard error, and the attempt counter is
// incremented before the comparison so a crash in between still counts it.
func (s *Service) Verify(ctx context.Context, identifier, submitted string, purpose domain.OneTimeCodePurpose) (bool, error) {
	code, err := s.repo.GetActive(ctx, identifier, purpose)
	if err != nil {
		return false, err
	}
	if code == nil || time.Now().After(code.ExpiresAt) {
		metrics.CodeVerifications.WithLabelValues("expired").Inc()
		return false, nil
	}

	if code.Attempts >= MaxAttempts {
		metrics.CodeVerifications.WithLabelValues("exhausted").Inc()
		return false, ErrAttemptsExceeded
	}

	if _, err := s.repo.IncrementAttempts(ctx, code.ID); err != nil {
		return false, err
	}

	if code.Code != submitted {
		metrics.CodeVerifications.WithLabelValues("mismatch").Inc()
		return false, nil
	}

	if err := s.repo.MarkVerified(ctx, code.ID); err != nil {
		return false, err
	}
	metrics.CodeVerifications.WithLabelValues("ok").Inc()
	return true, nil
}

// VerifiedWindow bounds how long a completed verification stays usable for
// gating a follow-up action such as registration.
const VerifiedWindow = 30 * time.Minute

// IsVerified reports whether the pair has a recently verified code. Used to
// gate registration on a completed phone verification.
func (s *Service) IsVerified(ctx context.Context, identifier string, purpose domain.OneTimeCodePurpose) (bool, error) {
	return s.repo.HasVerified(ctx, identifier, purpose, time.Now().Add(-VerifiedWindow))
}
