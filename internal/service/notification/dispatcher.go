package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gokon/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type DispatcherConfig struct {
	BatchSize  int
	BatchPause time.Duration
	AppBaseURL string
	// Lookback bounds how far back the match catch-up job looks for groups.
	Lookback  time.Duration
	Location  *time.Location
	AreaNames map[string]string
}

// Dispatcher sends templated LINE messages to many users at once, a bounded
// batch at a time with a pause between batches to stay under LINE rate
// limits. Every delivery is independent: one failure never affects another.
type Dispatcher struct {
	repo   Repository
	pusher Pusher
	config DispatcherConfig
	logger logger.Logger
	sleep  func(ctx context.Context, d time.Duration) error
	now    func() time.Time
}

func NewDispatcher(repo Repository, pusher Pusher, config DispatcherConfig, logger logger.Logger) *Dispatcher {
	if config.BatchSize <= 0 {
		config.BatchSize = 5
	}
	if config.Lookback <= 0 {
		config.Lookback = 2 * time.Hour
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &Dispatcher{
		repo:   repo,
		pusher: pusher,
		config: config,
		logger: logger,
		sleep:  sleepCtx,
		now:    time.Now,
	}
}

// NotifyMatch tells every member of a new group that the match happened.
func (d *Dispatcher) NotifyMatch(ctx context.Context, notice MatchNotice) (BulkResult, error) {
	result, err := d.deliver(ctx, notice, d.matchTemplate(notice))
	if err != nil {
		return result, err
	}

	d.logger.Info(ctx, "match notifications sent",
		logger.Field{Key: "group_id", Value: notice.GroupID},
		logger.Field{Key: "sent", Value: result.Sent},
		logger.Field{Key: "skipped", Value: result.Skipped},
		logger.Field{Key: "failed", Value: result.Failed},
	)
	return result, nil
}

func (d *Dispatcher) matchTemplate(notice MatchNotice) Template {
	return Template{
		Type: TemplateMatchSuccess,
		Data: TemplateData{
			Date:        FormatDate(notice.EventDate),
			Time:        TimeLabel(notice.EventTime),
			Area:        AreaName(d.config.AreaNames, notice.AreaID),
			MemberCount: len(notice.MemberUserIDs),
			ChatURL:     d.chatURL(notice.GroupID),
		},
	}
}

func (d *Dispatcher) chatURL(groupID string) string {
	return fmt.Sprintf("%s/chat/%s", d.config.AppBaseURL, groupID)
}

// deliver sends template to the members of one group who have not received
// it yet and records who got it. Members already served count as skipped.
func (d *Dispatcher) deliver(ctx context.Context, notice MatchNotice, template Template) (BulkResult, error) {
	members := notice.MemberUserIDs

	pending, err := d.repo.Undelivered(ctx, notice.GroupID, template.Type, members)
	if err != nil {
		return BulkResult{Failed: len(members)}, fmt.Errorf("list undelivered: %w", err)
	}
	served := len(members) - len(pending)
	if len(pending) == 0 {
		return BulkResult{Skipped: served}, nil
	}

	recipients, err := d.repo.ListRecipients(ctx, pending)
	if err != nil {
		return BulkResult{Failed: len(pending), Skipped: served}, fmt.Errorf("list recipients: %w", err)
	}

	result, delivered := d.sendBulk(ctx, recipients, template)
	// members without a users row cannot be reached at all
	result.Skipped += served + len(pending) - len(recipients)

	if len(delivered) > 0 {
		if err := d.repo.MarkDelivered(ctx, notice.GroupID, template.Type, delivered); err != nil {
			d.logger.Warn(ctx, "failed to record deliveries",
				logger.Field{Key: "group_id", Value: notice.GroupID},
				logger.Field{Key: "template", Value: template.Type},
				logger.Field{Key: "error", Value: err},
			)
		}
	}
	return result, nil
}

// CatchUpMatches resends the match message to members of recently formed
// groups who never got it, e.g. because LINE was down during the run or
// they connected LINE afterwards.
func (d *Dispatcher) CatchUpMatches(ctx context.Context) (*JobResult, error) {
	since := d.now().Add(-d.config.Lookback)
	notices, err := d.repo.RecentGroups(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list recent groups: %w", err)
	}

	job := &JobResult{Groups: len(notices)}
	for _, n := range notices {
		res, err := d.deliver(ctx, n, d.matchTemplate(n))
		if err != nil {
			d.logger.Warn(ctx, "match catch-up failed for group",
				logger.Field{Key: "group_id", Value: n.GroupID},
				logger.Field{Key: "error", Value: err},
			)
		}
		job.Add(res)
	}

	job.Message = "match notifications processed"
	d.logJob(ctx, TemplateMatchSuccess, job)
	return job, nil
}

// SendReminders messages everyone meeting tomorrow, once per group.
func (d *Dispatcher) SendReminders(ctx context.Context) (*JobResult, error) {
	tomorrow := d.now().In(d.config.Location).AddDate(0, 0, 1).Format("2006-01-02")
	notices, err := d.repo.GroupsOnDate(ctx, tomorrow)
	if err != nil {
		return nil, fmt.Errorf("list groups on %s: %w", tomorrow, err)
	}

	job := &JobResult{Groups: len(notices)}
	for _, n := range notices {
		area := AreaName(d.config.AreaNames, n.AreaID)
		template := Template{
			Type: TemplateReminder,
			Data: TemplateData{
				Date:        FormatDate(n.EventDate),
				Time:        TimeLabel(n.EventTime),
				Area:        area,
				Location:    area,
				MemberCount: len(n.MemberUserIDs),
				ChatURL:     d.chatURL(n.GroupID),
			},
		}
		res, err := d.deliver(ctx, n, template)
		if err != nil {
			d.logger.Warn(ctx, "reminder failed for group",
				logger.Field{Key: "group_id", Value: n.GroupID},
				logger.Field{Key: "error", Value: err},
			)
		}
		job.Add(res)
	}

	job.Message = "reminders processed"
	d.logJob(ctx, TemplateReminder, job)
	return job, nil
}

func (d *Dispatcher) logJob(ctx context.Context, templateType string, job *JobResult) {
	d.logger.Info(ctx, "notification job finished",
		logger.Field{Key: "template", Value: templateType},
		logger.Field{Key: "groups", Value: job.Groups},
		logger.Field{Key: "sent", Value: job.Sent},
		logger.Field{Key: "skipped", Value: job.Skipped},
		logger.Field{Key: "failed", Value: job.Failed},
	)
}

// SendBulk delivers template to every eligible recipient. Ineligible ones are
// counted as skipped, delivery errors as failed.
func (d *Dispatcher) SendBulk(ctx context.Context, recipients []Recipient, template Template) BulkResult {
	result, _ := d.sendBulk(ctx, recipients, template)
	return result
}

// sendBulk also returns the user ids that were actually delivered to.
func (d *Dispatcher) sendBulk(ctx context.Context, recipients []Recipient, template Template) (BulkResult, []string) {
	var result BulkResult
	delivered := make([]string, 0, len(recipients))
	messages := Render(template)

	eligible := make([]Recipient, 0, len(recipients))
	for _, rc := range recipients {
		if rc.LineUserID == "" || !rc.Settings.LineConnected || !rc.Settings.Allows(template.Type) {
			result.Skipped++
			continue
		}
		eligible = append(eligible, rc)
	}

	var mu sync.Mutex
	for start := 0; start < len(eligible); start += d.config.BatchSize {
		if start > 0 {
			if err := d.sleep(ctx, d.config.BatchPause); err != nil {
				result.Failed += len(eligible) - start
				break
			}
		}

		batch := eligible[start:min(start+d.config.BatchSize, len(eligible))]
		var g errgroup.Group
		for _, rc := range batch {
			g.Go(func() error {
				err := d.pusher.Push(ctx, rc.LineUserID, messages)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Failed++
					d.logger.Warn(ctx, "line push failed",
						logger.Field{Key: "user_id", Value: rc.UserID},
						logger.Field{Key: "template", Value: template.Type},
						logger.Field{Key: "error", Value: err},
					)
					return nil
				}
				result.Sent++
				delivered = append(delivered, rc.UserID)
				return nil
			})
		}
		_ = g.Wait()
	}

	return result, delivered
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NotifyChatOpened tells group members their chat room is open.
func (d *Dispatcher) NotifyChatOpened(ctx context.Context, groupID string, memberUserIDs []string) (BulkResult, error) {
	template := Template{
		Type: TemplateChatCreated,
		Data: TemplateData{ChatURL: d.chatURL(groupID)},
	}
	return d.deliver(ctx, MatchNotice{GroupID: groupID, MemberUserIDs: memberUserIDs}, template)
}
