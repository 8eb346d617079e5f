package registration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gokon/internal/service/matching"
	"gokon/pkg/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo   Repository
	logger logger.Logger
	loc    *time.Location
	now    func() time.Time
}

func NewService(repo Repository, logger logger.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:   repo,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// Replace cancels the caller's pending registrations and stores the new set
// in their place. Matched registrations are left alone.
func (s *Service) Replace(ctx context.Context, userID string, req CreateRequest) ([]matching.Registration, error) {
	today := s.now().In(s.loc).Format(matching.DateLayout)

	seen := make(map[matching.SlotKey]bool, len(req.Registrations))
	regs := make([]matching.Registration, 0, len(req.Registrations))
	for _, in := range req.Registrations {
		if in.EventDate < today {
			return nil, fmt.Errorf("%w: %s", ErrPastDate, in.EventDate)
		}
		key := matching.SlotKey{Date: in.EventDate, Time: in.EventTime, AreaID: in.AreaID}
		if seen[key] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlot, key)
		}
		seen[key] = true

		regs = append(regs, matching.Registration{
			ID:                uuid.NewString(),
			UserID:            userID,
			EventDate:         in.EventDate,
			EventTime:         in.EventTime,
			AreaID:            in.AreaID,
			ParticipationType: in.ParticipationType,
			Status:            matching.RegistrationPending,
		})
	}

	ok, err := s.repo.HasProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProfileRequired
	}

	var cancelled int64
	err = s.repo.WithTransaction(ctx, sql.LevelReadCommitted, func(ctx context.Context, tx *sql.Tx) error {
		n, err := s.repo.CancelPending(ctx, tx, userID)
		if err != nil {
			return err
		}
		cancelled = n

		for i := range regs {
			if err := s.repo.Insert(ctx, tx, &regs[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "failed to replace registrations",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	s.logger.Info(ctx, "registrations replaced",
		logger.Field{Key: "user_id", Value: userID},
		logger.Field{Key: "cancelled", Value: cancelled},
		logger.Field{Key: "created", Value: len(regs)},
	)
	return regs, nil
}

// List returns all of the caller's registrations
func (s *Service) List(ctx context.Context, userID string) ([]matching.Registration, error) {
	regs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to list registrations",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}
	return regs, nil
}

// Cancel withdraws a registration that has not been matched yet
func (s *Service) Cancel(ctx context.Context, userID, registrationID string) error {
	err := s.repo.WithTransaction(ctx, sql.LevelReadCommitted, func(ctx context.Context, tx *sql.Tx) error {
		reg, err := s.repo.GetForUpdate(ctx, tx, userID, registrationID)
		if err != nil {
			return err
		}
		if reg.Status != matching.RegistrationPending {
			return ErrNotPending
		}
		return s.repo.UpdateStatus(ctx, tx, registrationID, matching.RegistrationCancelled)
	})
	if err != nil {
		s.logger.Warn(ctx, "failed to cancel registration",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "registration_id", Value: registrationID},
			logger.Field{Key: "error", Value: err},
		)
		return err
	}

	s.logger.Info(ctx, "registration cancelled",
		logger.Field{Key: "user_id", Value: userID},
		logger.Field{Key: "registration_id", Value: registrationID},
	)
	return nil
}
