package user

import "time"

const (
	GenderMale   = "male"
	GenderFemale = "female"

	MinAge = 18
	MaxAge = 69

	BirthDateLayout = "2006-01-02"
)

// Domain Models
type User struct {
	ID          string    `json:"id"`
	LineUserID  string    `json:"line_user_id,omitempty"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	BirthDate time.Time `json:"-"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AgeAt returns the completed years between birth and on.
func AgeAt(birth, on time.Time) int {
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	return age
}

// DTOs
type UpdateProfileRequest struct {
	Nickname  string `json:"nickname" binding:"required,min=1,max=50"`
	BirthDate string `json:"birth_date" binding:"required,datetime=2006-01-02"`
	Gender    string `json:"gender" binding:"required,oneof=male female"`
	Bio       string `json:"bio" binding:"max=500"`
}

type ProfileResponse struct {
	*Profile
	BirthDate string `json:"birth_date"`
}
