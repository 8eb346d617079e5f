package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gokon/internal/service/notification"
	"gokon/pkg/cache"
	"gokon/pkg/idgen"
	"gokon/pkg/logger"

	"github.com/google/uuid"
)

// Notifier delivers the "you have been matched" message to a new group.
type Notifier interface {
	NotifyMatch(ctx context.Context, notice notification.MatchNotice) (notification.BulkResult, error)
}

type Options struct {
	Config   Config
	LockTTL  time.Duration
	Location *time.Location
	Metrics  *Metrics
}

type Service struct {
	repo     Repository
	matcher  SlotMatcher
	locker   cache.Locker
	cache    cache.Cache
	notifier Notifier
	ids      *idgen.Generator
	logger   logger.Logger

	config  Config
	lockTTL time.Duration
	loc     *time.Location
	metrics *Metrics
	now     func() time.Time
}

func NewService(
	repo Repository,
	matcher SlotMatcher,
	locker cache.Locker,
	cache cache.Cache,
	notifier Notifier,
	ids *idgen.Generator,
	logger logger.Logger,
	opts Options,
) *Service {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 5 * time.Minute
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		repo:     repo,
		matcher:  matcher,
		locker:   locker,
		cache:    cache,
		notifier: notifier,
		ids:      ids,
		logger:   logger,
		config:   opts.Config,
		lockTTL:  opts.LockTTL,
		loc:      opts.Location,
		metrics:  opts.Metrics,
		now:      time.Now,
	}
}

// CheckConfig logs once when the configured composition can never form a
// group. Runs still succeed, they just create nothing.
func (s *Service) CheckConfig(ctx context.Context) {
	if s.config.Feasible() {
		return
	}
	s.logger.Warn(ctx, "matching config cannot form any group",
		logger.Field{Key: "min_group_size", Value: s.config.MinGroupSize},
		logger.Field{Key: "max_group_size", Value: s.config.MaxGroupSize},
		logger.Field{Key: "preferred_male_count", Value: s.config.PreferredMaleCount},
		logger.Field{Key: "preferred_female_count", Value: s.config.PreferredFemaleCount},
	)
}

// Execute performs one matching run: read the pool, form groups, persist
// them one transaction per group and notify the members of every group that
// made it to the database.
func (s *Service) Execute(ctx context.Context) (*RunResult, error) {
	runID := s.ids.Next()
	started := s.now()
	runField := logger.Field{Key: "run_id", Value: runID}

	release, err := s.locker.Acquire(ctx, cache.MatchingRunLockKey, s.lockTTL)
	if errors.Is(err, cache.ErrLockHeld) {
		s.metrics.observeRun(runOutcomeLocked)
		return nil, ErrRunInProgress
	}
	if err != nil {
		s.metrics.observeRun(runOutcomeFailed)
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn(ctx, "failed to release run lock", runField, logger.Field{Key: "error", Value: err})
		}
	}()

	s.logger.Info(ctx, "matching run started", runField)

	today := started.In(s.loc)
	candidates, err := s.repo.ListCandidates(ctx, today)
	if err != nil {
		s.metrics.observeRun(runOutcomeFailed)
		s.logger.Error(ctx, "failed to load candidates", runField, logger.Field{Key: "error", Value: err})
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	candidates = eligible(candidates, today.Format(DateLayout))

	groups := Match(s.matcher, candidates, s.config)
	result := &RunResult{
		RunID:  runID,
		Groups: make([]CreatedGroupResponse, 0, len(groups)),
		Stats:  RunStats{Stats: CalculateStats(candidates, groups)},
	}

	created := make([]*Group, 0, len(groups))
	for i := range groups {
		g := &groups[i]
		g.ID = uuid.NewString()

		if err := s.repo.CreateMatchedGroup(ctx, g); err != nil {
			result.Stats.FailedGroups++
			s.logger.Error(ctx, "failed to persist group",
				runField,
				logger.Field{Key: "slot", Value: SlotKey{Date: g.EventDate, Time: g.EventTime, AreaID: g.AreaID}.String()},
				logger.Field{Key: "error", Value: err},
			)
			continue
		}

		created = append(created, g)
		result.Stats.ActualGroupsCreated++
		result.Groups = append(result.Groups, newCreatedGroupResponse(g))
		s.invalidate(ctx, g)
	}

	for _, g := range created {
		s.notify(ctx, g, &result.Stats)
	}

	result.Message = fmt.Sprintf("matching completed: %d groups created", result.Stats.ActualGroupsCreated)
	elapsed := s.now().Sub(started)
	s.metrics.observeRun(runOutcomeSuccess)
	s.metrics.observeResult(result.Stats, elapsed.Seconds())

	// the lock expired mid-run, so another run may have overlapped this one
	if elapsed > s.lockTTL {
		s.logger.Warn(ctx, "matching run outlived its lock",
			runField,
			logger.Field{Key: "elapsed", Value: elapsed.String()},
			logger.Field{Key: "lock_ttl", Value: s.lockTTL.String()},
		)
	}

	s.logger.Info(ctx, "matching run finished",
		runField,
		logger.Field{Key: "candidates", Value: result.Stats.TotalCandidates},
		logger.Field{Key: "groups_proposed", Value: result.Stats.TotalGroups},
		logger.Field{Key: "groups_created", Value: result.Stats.ActualGroupsCreated},
		logger.Field{Key: "groups_failed", Value: result.Stats.FailedGroups},
	)

	return result, nil
}

// eligible drops anything that is no longer pending or already in the past.
// The repository filters the same way; this keeps the run correct against
// any source.
func eligible(candidates []Candidate, today string) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Registration.Status != RegistrationPending || c.Registration.EventDate < today {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *Service) invalidate(ctx context.Context, g *Group) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(g.Members))
	for _, id := range g.MemberUserIDs() {
		keys = append(keys, cache.UserGroupsKey(id))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logger.Warn(ctx, "failed to invalidate group cache",
			logger.Field{Key: "group_id", Value: g.ID},
			logger.Field{Key: "error", Value: err},
		)
	}
}

// notify never fails the run; outcomes only feed the stats.
func (s *Service) notify(ctx context.Context, g *Group, stats *RunStats) {
	if s.notifier == nil {
		stats.NotificationsSkipped += len(g.Members)
		return
	}

	res, err := s.notifier.NotifyMatch(ctx, notification.MatchNotice{
		GroupID:       g.ID,
		EventDate:     g.EventDate,
		EventTime:     g.EventTime,
		AreaID:        g.AreaID,
		MemberUserIDs: g.MemberUserIDs(),
	})
	if err != nil {
		s.logger.Warn(ctx, "match notification failed",
			logger.Field{Key: "group_id", Value: g.ID},
			logger.Field{Key: "error", Value: err},
		)
	}

	stats.NotificationsSent += res.Sent
	stats.NotificationsSkipped += res.Skipped
	stats.NotificationsFailed += res.Failed
}

func newCreatedGroupResponse(g *Group) CreatedGroupResponse {
	members := make([]GroupMemberResponse, len(g.Members))
	for i, m := range g.Members {
		members[i] = GroupMemberResponse{
			UserID:   m.Profile.UserID,
			Nickname: m.Profile.Nickname,
			Age:      m.Profile.Age,
			Gender:   m.Profile.Gender,
		}
	}
	return CreatedGroupResponse{Group: g, Members: members}
}

// UserStatus summarizes where a user stands: upcoming registrations and the
// groups they were placed in.
func (s *Service) UserStatus(ctx context.Context, userID string) (*UserStatus, error) {
	today := s.now().In(s.loc)

	registrations, err := s.repo.UserRegistrations(ctx, userID, today)
	if err != nil {
		s.logger.Error(ctx, "failed to get registrations",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	groups, err := s.repo.UserGroups(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to get groups",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	status := &UserStatus{
		Registrations: registrations,
		Groups:        groups,
	}
	for _, r := range registrations {
		switch r.Status {
		case RegistrationPending:
			status.PendingCount++
		case RegistrationMatched:
			status.MatchedCount++
		}
	}
	status.GroupCount = len(groups)

	return status, nil
}
