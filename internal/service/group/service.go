package group

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gokon/internal/service/notification"
	"gokon/internal/service/user"
	"gokon/pkg/cache"
	"gokon/pkg/logger"
)

// ChatNotifier announces that a group's chat room is open.
type ChatNotifier interface {
	NotifyChatOpened(ctx context.Context, groupID string, memberUserIDs []string) (notification.BulkResult, error)
}

type Service struct {
	repo     Repository
	cache    cache.Cache
	notifier ChatNotifier
	logger   logger.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewService(repo Repository, cache cache.Cache, notifier ChatNotifier, logger logger.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
	}
}

// GetUserGroups retrieves all groups a user is a member of
func (s *Service) GetUserGroups(ctx context.Context, userID string) ([]*Group, error) {
	key := cache.UserGroupsKey(userID)

	var groups []*Group
	if s.cacheGet(ctx, key, &groups) {
		return groups, nil
	}

	groups, err := s.repo.GetUserGroups(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to get user groups",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	s.cacheSet(ctx, key, groups)
	return groups, nil
}

// GetGroup returns a group with its members. Only members may look.
func (s *Service) GetGroup(ctx context.Context, groupID, userID string) (*GroupResponse, error) {
	isMember, err := s.repo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		if _, err := s.repo.GetGroupByID(ctx, groupID); err != nil {
			return nil, err
		}
		return nil, ErrNotMember
	}

	key := cache.GroupKey(groupID)
	var resp GroupResponse
	if s.cacheGet(ctx, key, &resp) {
		return &resp, nil
	}

	group, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		s.logger.Error(ctx, "failed to get group",
			logger.Field{Key: "group_id", Value: groupID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	members, err := s.repo.GetGroupMembers(ctx, groupID)
	if err != nil {
		s.logger.Error(ctx, "failed to get group members",
			logger.Field{Key: "group_id", Value: groupID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	today := s.now().In(s.loc)
	resp = GroupResponse{Group: group, Members: make([]GroupMember, len(members))}
	for i, m := range members {
		m.Age = user.AgeAt(m.BirthDate, today)
		resp.Members[i] = *m
	}

	s.cacheSet(ctx, key, resp)
	return &resp, nil
}

// UpdateStatus moves a group along formed -> active -> completed, or
// formed -> cancelled. Activation opens the group chat and tells members.
func (s *Service) UpdateStatus(ctx context.Context, groupID, status string) (*Group, error) {
	var group *Group
	err := s.repo.WithTransaction(ctx, sql.LevelReadCommitted, func(ctx context.Context, tx *sql.Tx) error {
		// 1. Lock the group row and get current state
		g, err := s.repo.GetGroupWithLock(ctx, tx, groupID)
		if err != nil {
			return err
		}

		// 2. Validate transition
		if !CanTransition(g.Status, status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, g.Status, status)
		}

		if err := s.repo.UpdateStatus(ctx, tx, groupID, status); err != nil {
			return err
		}

		// 3. Close out member registrations once the event took place
		if status == StatusCompleted {
			if err := s.repo.CompleteRegistrations(ctx, tx, groupID); err != nil {
				return err
			}
		}

		g.Status = status
		group = g
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "failed to update group status",
			logger.Field{Key: "group_id", Value: groupID},
			logger.Field{Key: "status", Value: status},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	members, err := s.repo.GetGroupMembers(ctx, groupID)
	if err != nil {
		s.logger.Warn(ctx, "failed to load members after status change",
			logger.Field{Key: "group_id", Value: groupID},
			logger.Field{Key: "error", Value: err},
		)
	}
	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.UserID
	}

	s.invalidate(ctx, groupID, memberIDs)

	if status == StatusActive && s.notifier != nil && len(memberIDs) > 0 {
		if _, err := s.notifier.NotifyChatOpened(ctx, groupID, memberIDs); err != nil {
			s.logger.Warn(ctx, "chat notification failed",
				logger.Field{Key: "group_id", Value: groupID},
				logger.Field{Key: "error", Value: err},
			)
		}
	}

	s.logger.Info(ctx, "group status updated",
		logger.Field{Key: "group_id", Value: groupID},
		logger.Field{Key: "status", Value: status},
	)
	return group, nil
}

func (s *Service) invalidate(ctx context.Context, groupID string, memberIDs []string) {
	if s.cache == nil {
		return
	}
	keys := []string{cache.GroupKey(groupID)}
	for _, id := range memberIDs {
		keys = append(keys, cache.UserGroupsKey(id))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logger.Warn(ctx, "failed to invalidate cache",
			logger.Field{Key: "group_id", Value: groupID},
			logger.Field{Key: "error", Value: err},
		)
	}
}

func (s *Service) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn(ctx, "cache read failed", logger.Field{Key: "key", Value: key}, logger.Field{Key: "error", Value: err})
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn(ctx, "cache entry unreadable", logger.Field{Key: "key", Value: key}, logger.Field{Key: "error", Value: err})
		return false
	}
	return true
}

func (s *Service) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, DetailTTL); err != nil {
		s.logger.Warn(ctx, "cache write failed", logger.Field{Key: "key", Value: key}, logger.Field{Key: "error", Value: err})
	}
}
