package notification

import (
	"context"
	"errors"

	"gokon/pkg/logger"
)

var ErrNotLineFriend = errors.New("add the official LINE account as a friend before connecting")

// FriendChecker verifies that a LINE user follows the official account.
type FriendChecker interface {
	Enabled() bool
	IsFriend(ctx context.Context, lineUserID string) (bool, error)
}

type Service struct {
	repo    Repository
	friends FriendChecker
	logger  logger.Logger
}

func NewService(repo Repository, friends FriendChecker, logger logger.Logger) *Service {
	return &Service{
		repo:    repo,
		friends: friends,
		logger:  logger,
	}
}

// GetSettings returns the user's settings, creating the defaults on first read.
func (s *Service) GetSettings(ctx context.Context, userID string) (*Settings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, ErrSettingsNotFound) {
		s.logger.Error(ctx, "failed to get notification settings",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	defaults := DefaultSettings(userID)
	if err := s.repo.UpsertSettings(ctx, &defaults); err != nil {
		s.logger.Error(ctx, "failed to create default notification settings",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}
	return &defaults, nil
}

// UpdateSettings replaces the user's settings. Turning LINE delivery on
// requires a linked LINE id that follows the official account, unless the
// messaging client is disabled.
func (s *Service) UpdateSettings(ctx context.Context, userID string, req UpdateSettingsRequest) (*Settings, error) {
	settings := &Settings{
		UserID:                userID,
		MatchNotifications:    *req.MatchNotifications,
		ChatNotifications:     *req.ChatNotifications,
		ReminderNotifications: *req.ReminderNotifications,
		LineConnected:         *req.LineConnected,
	}

	if settings.LineConnected && s.friends != nil && s.friends.Enabled() {
		lineUserID, err := s.repo.GetLineUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if lineUserID == "" {
			return nil, ErrNotLineFriend
		}
		ok, err := s.friends.IsFriend(ctx, lineUserID)
		if err != nil {
			s.logger.Warn(ctx, "line friendship check failed",
				logger.Field{Key: "user_id", Value: userID},
				logger.Field{Key: "error", Value: err},
			)
			return nil, err
		}
		if !ok {
			return nil, ErrNotLineFriend
		}
	}

	if err := s.repo.UpsertSettings(ctx, settings); err != nil {
		s.logger.Error(ctx, "failed to update notification settings",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	s.logger.Info(ctx, "notification settings updated", logger.Field{Key: "user_id", Value: userID})
	return settings, nil
}

// HandleWebhook applies LINE follow and unfollow events to line_connected.
// Other event types are ignored. One failing event does not stop the rest.
func (s *Service) HandleWebhook(ctx context.Context, body WebhookBody) error {
	var errs []error
	for _, ev := range body.Events {
		var following bool
		switch ev.Type {
		case "follow":
			following = true
		case "unfollow":
			following = false
		default:
			s.logger.Debug(ctx, "line event ignored", logger.Field{Key: "type", Value: ev.Type})
			continue
		}
		if ev.Source.UserID == "" {
			continue
		}

		known, err := s.repo.SetLineConnected(ctx, ev.Source.UserID, following)
		if err != nil {
			s.logger.Error(ctx, "failed to apply line follow state",
				logger.Field{Key: "line_user_id", Value: ev.Source.UserID},
				logger.Field{Key: "event", Value: ev.Type},
				logger.Field{Key: "error", Value: err},
			)
			errs = append(errs, err)
			continue
		}
		if !known {
			s.logger.Info(ctx, "line event for unknown user", logger.Field{Key: "line_user_id", Value: ev.Source.UserID})
			continue
		}
		s.logger.Info(ctx, "line follow state updated",
			logger.Field{Key: "line_user_id", Value: ev.Source.UserID},
			logger.Field{Key: "line_connected", Value: following},
		)
	}
	return errors.Join(errs...)
}
