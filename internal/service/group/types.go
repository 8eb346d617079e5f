package group

import "time"

// Group status
const (
	StatusFormed    = "formed"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"

	DetailTTL = 5 * time.Minute
)

// transitions lists the statuses each status may move to.
var transitions = map[string][]string{
	StatusFormed: {StatusActive, StatusCancelled},
	StatusActive: {StatusCompleted},
}

// CanTransition reports whether a group in status from may move to to.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Domain Models
type Group struct {
	ID          string    `json:"id"`
	EventDate   string    `json:"event_date"`
	EventTime   string    `json:"event_time"`
	AreaID      string    `json:"area_id"`
	Status      string    `json:"status"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GroupMember struct {
	GroupID   string    `json:"-"`
	UserID    string    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	BirthDate time.Time `json:"-"`
	JoinedAt  time.Time `json:"joined_at"`
}

// DTOs
type GroupResponse struct {
	*Group
	Members []GroupMember `json:"members"`
}

type MyGroupsResponse struct {
	Groups []*Group `json:"groups"`
	Total  int      `json:"total"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active completed cancelled"`
}
