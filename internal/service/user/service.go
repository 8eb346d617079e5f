package user

import (
	"context"
	"time"

	"gokon/pkg/logger"
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

func (s *Service) today() time.Time {
	return s.now().In(s.loc)
}

// EnsureUser returns the user linked to a LINE account, creating it on the
// first login
func (s *Service) EnsureUser(ctx context.Context, lineUserID, displayName string) (*User, error) {
	u, err := s.repo.UpsertUserByLineID(ctx, lineUserID, displayName)
	if err != nil {
		s.logger.Error(ctx, "failed to upsert user",
			logger.Field{Key: "line_user_id", Value: lineUserID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}
	return u, nil
}

// GetUser retrieves a user by ID
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to get user",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	return u, nil
}

// GetProfile retrieves a profile with its age derived for today
func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Age = AgeAt(p.BirthDate, s.today())
	return p, nil
}

// UpdateProfile creates or replaces the caller's profile
func (s *Service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*Profile, error) {
	birth, err := time.ParseInLocation(BirthDateLayout, req.BirthDate, s.loc)
	if err != nil {
		return nil, ErrInvalidBirthDate
	}

	age := AgeAt(birth, s.today())
	if age < MinAge || age > MaxAge {
		return nil, ErrAgeOutOfRange
	}

	p := &Profile{
		UserID:    userID,
		Nickname:  req.Nickname,
		BirthDate: birth,
		Age:       age,
		Gender:    req.Gender,
		Bio:       req.Bio,
	}

	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		s.logger.Error(ctx, "failed to update profile",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	s.logger.Info(ctx, "profile updated", logger.Field{Key: "user_id", Value: userID})
	return p, nil
}
