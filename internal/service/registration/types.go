package registration

import "gokon/internal/service/matching"

const (
	TimeEvening = "18:00:00"
	TimeNight   = "20:00:00"

	MaxPerRequest = 20
)

// DTOs
type SlotRequest struct {
	EventDate         string `json:"event_date" binding:"required,datetime=2006-01-02"`
	EventTime         string `json:"event_time" binding:"required,oneof=18:00:00 20:00:00"`
	AreaID            string `json:"area_id" binding:"required,uuid"`
	ParticipationType string `json:"participation_type" binding:"required,oneof=solo group"`
}

type CreateRequest struct {
	Registrations []SlotRequest `json:"registrations" binding:"required,min=1,max=20,dive"`
}

type ListResponse struct {
	Registrations []matching.Registration `json:"registrations"`
	Total         int                     `json:"total"`
}
