package matching

import "fmt"

var (
	slotA = SlotKey{Date: "2026-11-06", Time: "18:00:00", AreaID: "00000000-0000-0000-0000-000000000001"}
	slotB = SlotKey{Date: "2026-11-07", Time: "18:00:00", AreaID: "00000000-0000-0000-0000-000000000001"}
)

type candidateBuilder struct {
	n int
}

func (b *candidateBuilder) make(slot SlotKey, gender string, age int, participation string) Candidate {
	b.n++
	userID := fmt.Sprintf("user-%02d", b.n)
	return Candidate{
		Registration: Registration{
			ID:                fmt.Sprintf("reg-%02d", b.n),
			UserID:            userID,
			EventDate:         slot.Date,
			EventTime:         slot.Time,
			AreaID:            slot.AreaID,
			ParticipationType: participation,
			Status:            RegistrationPending,
		},
		Profile: Profile{
			ID:       fmt.Sprintf("profile-%02d", b.n),
			UserID:   userID,
			Nickname: fmt.Sprintf("nick-%02d", b.n),
			Age:      age,
			Gender:   gender,
		},
	}
}

func (b *candidateBuilder) solos(slot SlotKey, gender string, ages ...int) []Candidate {
	out := make([]Candidate, 0, len(ages))
	for _, age := range ages {
		out = append(out, b.make(slot, gender, age, ParticipationSolo))
	}
	return out
}

func concat(lists ...[]Candidate) []Candidate {
	var out []Candidate
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func ages(members []Candidate) []int {
	out := make([]int, len(members))
	for i, m := range members {
		out[i] = m.Profile.Age
	}
	return out
}

// asUser rebinds a candidate's registration to another candidate's user.
func asUser(c Candidate, owner Candidate) Candidate {
	c.Registration.UserID = owner.Registration.UserID
	c.Profile = owner.Profile
	return c
}
