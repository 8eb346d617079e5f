package matching

import (
	"cmp"
	"slices"
)

// Slot is one bucket of candidates sharing a date, time and area.
type Slot struct {
	Key        SlotKey
	Candidates []Candidate
}

// GroupBySlot buckets candidates by slot. Slots come back in order of first
// appearance and candidates keep their input order inside each slot.
func GroupBySlot(candidates []Candidate) []Slot {
	index := make(map[SlotKey]int)
	slots := make([]Slot, 0)

	for _, c := range candidates {
		key := c.Slot()
		i, ok := index[key]
		if !ok {
			i = len(slots)
			index[key] = i
			slots = append(slots, Slot{Key: key})
		}
		slots[i].Candidates = append(slots[i].Candidates, c)
	}

	return slots
}

// SplitByParticipation separates solo registrants from friend-group ones.
func SplitByParticipation(candidates []Candidate) (solo, group []Candidate) {
	for _, c := range candidates {
		switch c.Registration.ParticipationType {
		case ParticipationSolo:
			solo = append(solo, c)
		case ParticipationGroup:
			group = append(group, c)
		}
	}
	return solo, group
}

// SplitByGender returns males and females in input order. Candidates with
// any other gender value are in neither list.
func SplitByGender(candidates []Candidate) (males, females []Candidate) {
	for _, c := range candidates {
		switch c.Profile.Gender {
		case GenderMale:
			males = append(males, c)
		case GenderFemale:
			females = append(females, c)
		}
	}
	return males, females
}

// SortByAge returns a copy sorted youngest first; equal ages keep their order.
func SortByAge(candidates []Candidate) []Candidate {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b Candidate) int {
		return cmp.Compare(a.Profile.Age, b.Profile.Age)
	})
	return sorted
}
