package dispatch

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/internal/service/autoinvest"
	"github.com/GlebRadaev/autosave/internal/service/walletservice"
)

type Engine interface {
	Execute(ctx context.Context, userID int, ruleIDs []string) (*domain.ExecutionReport, error)
}

// BatchReport tells the scheduler what happened to its batch: Skipped users
// already had a run in flight.
type BatchReport struct {
	Accepted []int
	Skipped  []int
}

// Service is the boundary the external scheduler calls. It fans engine runs
// out across users; rule evaluation within a user stays sequential because
// later rules depend on the available balance earlier rules consumed.
type Service struct {
	engine     Engine
	workerPool WorkerPoolI
	inflight   sync.Map
}

func New(engine Engine) *Service {
	return &Service{
		engine:     engine,
		workerPool: NewWorkerPool(10),
	}
}

func (s *Service) ExecuteBatch(ctx context.Context, userIDs []int) (*BatchReport, error) {
	report := &BatchReport{}

	var g errgroup.Group
	var mu sync.Mutex
	for _, userID := range userIDs {
		userID := userID

		if _, loaded := s.inflight.LoadOrStore(userID, struct{}{}); loaded {
			mu.Lock()
			report.Skipped = append(report.Skipped, userID)
			mu.Unlock()
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer s.inflight.Delete(userID)
				return s.runUser(userID)
			})
			if err != nil {
				s.inflight.Delete(userID)
				return err
			}
			mu.Lock()
			report.Accepted = append(report.Accepted, userID)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error dispatching batch execution", zap.Error(err))
		return report, err
	}
	return report, nil
}

func (s *Service) runUser(userID int) error {
	report, err := s.engine.Execute(context.Background(), userID, nil)
	if err != nil {
		// Empty wallets and rule-less users are routine for a broad sweep.
		if errors.Is(err, walletservice.ErrInsufficientBalance) || errors.Is(err, autoinvest.ErrNoActiveRules) {
			return nil
		}
		return err
	}

	zap.L().Info("scheduled execution finished",
		zap.Int("user_id", userID),
		zap.Int("rules", len(report.Results)),
		zap.String("total_invested", report.TotalInvested.String()))
	return nil
}

func (s *Service) Close() {
	s.workerPool.Close()
}
