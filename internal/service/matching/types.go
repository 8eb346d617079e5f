package matching

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Enums
const (
	// Gender
	GenderMale   = "male"
	GenderFemale = "female"

	// Participation types
	ParticipationSolo  = "solo"
	ParticipationGroup = "group"

	// Registration status
	RegistrationPending   = "pending"
	RegistrationMatched   = "matched"
	RegistrationCompleted = "completed"
	RegistrationCancelled = "cancelled"

	// Group status
	GroupStatusFormed    = "formed"
	GroupStatusActive    = "active"
	GroupStatusCompleted = "completed"
	GroupStatusCancelled = "cancelled"
)

// Domain Models
type Registration struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	EventDate         string    `json:"event_date"`
	EventTime         string    `json:"event_time"`
	AreaID            string    `json:"area_id"`
	ParticipationType string    `json:"participation_type"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

type Profile struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Bio      string `json:"bio"`
}

// Candidate is one pending registration joined with its owner's profile.
type Candidate struct {
	Registration Registration `json:"event"`
	Profile      Profile      `json:"profile"`
}

type SlotKey struct {
	Date   string `json:"event_date"`
	Time   string `json:"event_time"`
	AreaID string `json:"area_id"`
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s_%s_%s", k.Date, k.Time, k.AreaID)
}

func (c Candidate) Slot() SlotKey {
	return SlotKey{
		Date:   c.Registration.EventDate,
		Time:   c.Registration.EventTime,
		AreaID: c.Registration.AreaID,
	}
}

type Group struct {
	ID        string      `json:"id,omitempty"`
	EventDate string      `json:"event_date"`
	EventTime string      `json:"event_time"`
	AreaID    string      `json:"area_id"`
	Status    string      `json:"status"`
	Members   []Candidate `json:"-"`
	CreatedAt time.Time   `json:"created_at"`
}

func (g *Group) MemberUserIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.Profile.UserID
	}
	return ids
}

func (g *Group) RegistrationIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.Registration.ID
	}
	return ids
}

type Config struct {
	MinGroupSize         int `json:"min_group_size"`
	MaxGroupSize         int `json:"max_group_size"`
	PreferredMaleCount   int `json:"preferred_male_count"`
	PreferredFemaleCount int `json:"preferred_female_count"`
	MaxAgeDifference     int `json:"max_age_difference"`
}

var DefaultConfig = Config{
	MinGroupSize:         4,
	MaxGroupSize:         8,
	PreferredMaleCount:   4,
	PreferredFemaleCount: 4,
	MaxAgeDifference:     10,
}

// Feasible reports whether the preferred composition can ever yield a group
// inside the configured size bounds.
func (c Config) Feasible() bool {
	if c.PreferredMaleCount < 0 || c.PreferredFemaleCount < 0 {
		return false
	}
	size := c.PreferredMaleCount + c.PreferredFemaleCount
	return size > 0 && size >= c.MinGroupSize && size <= c.MaxGroupSize
}

type Stats struct {
	TotalCandidates     int     `json:"total_candidates"`
	TotalGroups         int     `json:"total_groups"`
	MatchedCandidates   int     `json:"matched_candidates"`
	UnmatchedCandidates int     `json:"unmatched_candidates"`
	MaleCount           int     `json:"male_count"`
	FemaleCount         int     `json:"female_count"`
	AverageAge          float64 `json:"average_age"`
}

// RunStats extends Stats with what actually happened during persistence
// and notification.
type RunStats struct {
	Stats
	ActualGroupsCreated  int `json:"actual_groups_created"`
	FailedGroups         int `json:"failed_groups"`
	NotificationsSent    int `json:"notifications_sent"`
	NotificationsSkipped int `json:"notifications_skipped"`
	NotificationsFailed  int `json:"notifications_failed"`
}

// DTOs
type GroupMemberResponse struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
}

type CreatedGroupResponse struct {
	*Group
	Members []GroupMemberResponse `json:"members"`
}

type RunResult struct {
	RunID   string                 `json:"run_id"`
	Message string                 `json:"message"`
	Groups  []CreatedGroupResponse `json:"groups"`
	Stats   RunStats               `json:"stats"`
}

type UserStatus struct {
	Registrations []Registration `json:"registrations"`
	Groups        []Group        `json:"groups"`
	PendingCount  int            `json:"pending_count"`
	MatchedCount  int            `json:"matched_count"`
	GroupCount    int            `json:"group_count"`
}
