package notification

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const CronSecretHeader = "X-Cron-Secret"

// Jobs is what the scheduled endpoints drive; *Dispatcher implements it.
type Jobs interface {
	CatchUpMatches(ctx context.Context) (*JobResult, error)
	SendReminders(ctx context.Context) (*JobResult, error)
}

type JobHandler struct {
	jobs   Jobs
	secret string
}

func NewJobHandler(jobs Jobs, secret string) *JobHandler {
	return &JobHandler{
		jobs:   jobs,
		secret: secret,
	}
}

// RequireCronSecret accepts the secret in the X-Cron-Secret header or the
// key query parameter. An empty secret leaves the jobs open.
func (h *JobHandler) RequireCronSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.secret == "" || h.matches(c.GetHeader(CronSecretHeader)) || h.matches(c.Query("key")) {
			c.Next()
			return
		}
		h.handleError(c, ErrUnauthorized)
		c.Abort()
	}
}

func (h *JobHandler) matches(got string) bool {
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}

// MatchNotifications handles POST /jobs/match-notifications
//
//	@Summary	Send missed match notifications for recently formed groups
//	@Tags		jobs
//	@Produce	json
//	@Param		X-Cron-Secret	header		string	false	"cron secret"
//	@Success	200				{object}	JobResult
//	@Failure	401				{object}	map[string]string
//	@Router		/jobs/match-notifications [post]
func (h *JobHandler) MatchNotifications(c *gin.Context) {
	result, err := h.jobs.CatchUpMatches(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Reminders handles POST /jobs/reminders
//
//	@Summary	Remind members of groups meeting tomorrow
//	@Tags		jobs
//	@Produce	json
//	@Param		X-Cron-Secret	header		string	false	"cron secret"
//	@Success	200				{object}	JobResult
//	@Failure	401				{object}	map[string]string
//	@Router		/jobs/reminders [post]
func (h *JobHandler) Reminders(c *gin.Context) {
	result, err := h.jobs.SendReminders(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *JobHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
