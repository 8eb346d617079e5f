package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBySlotEmpty(t *testing.T) {
	assert.Empty(t, GroupBySlot(nil))
}

func TestGroupBySlotCompleteAndOrdered(t *testing.T) {
	var b candidateBuilder
	slotC := SlotKey{Date: slotA.Date, Time: "20:00:00", AreaID: slotA.AreaID}

	pool := []Candidate{
		b.make(slotA, GenderMale, 30, ParticipationSolo),
		b.make(slotB, GenderFemale, 25, ParticipationSolo),
		b.make(slotA, GenderFemale, 27, ParticipationGroup),
		b.make(slotC, GenderMale, 41, ParticipationSolo),
		b.make(slotB, GenderMale, 33, ParticipationSolo),
		b.make(slotA, GenderMale, 22, ParticipationSolo),
	}

	slots := GroupBySlot(pool)
	require.Len(t, slots, 3)
	assert.Equal(t, []SlotKey{slotA, slotB, slotC}, []SlotKey{slots[0].Key, slots[1].Key, slots[2].Key})

	idsOf := func(cs []Candidate) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.Registration.ID
		}
		return out
	}
	assert.Equal(t, []string{"reg-01", "reg-03", "reg-06"}, idsOf(slots[0].Candidates))
	assert.Equal(t, []string{"reg-02", "reg-05"}, idsOf(slots[1].Candidates))
	assert.Equal(t, []string{"reg-04"}, idsOf(slots[2].Candidates))

	// union of buckets is the input multiset
	seen := make(map[string]int)
	total := 0
	for _, s := range slots {
		for _, c := range s.Candidates {
			assert.Equal(t, s.Key, c.Slot())
			seen[c.Registration.ID]++
			total++
		}
	}
	assert.Equal(t, len(pool), total)
	for _, c := range pool {
		assert.Equal(t, 1, seen[c.Registration.ID])
	}
}

func TestSplitByParticipation(t *testing.T) {
	var b candidateBuilder
	pool := []Candidate{
		b.make(slotA, GenderMale, 30, ParticipationGroup),
		b.make(slotA, GenderMale, 31, ParticipationSolo),
		b.make(slotA, GenderFemale, 29, ParticipationSolo),
		b.make(slotA, GenderFemale, 28, ParticipationGroup),
	}

	solo, group := SplitByParticipation(pool)
	assert.Equal(t, []int{31, 29}, ages(solo))
	assert.Equal(t, []int{30, 28}, ages(group))
}

func TestSortByAgeIsStableAndCopies(t *testing.T) {
	var b candidateBuilder
	pool := b.solos(slotA, GenderMale, 30, 25, 30, 22)

	sorted := SortByAge(pool)
	assert.Equal(t, []int{22, 25, 30, 30}, ages(sorted))
	assert.Equal(t, "reg-01", sorted[2].Registration.ID)
	assert.Equal(t, "reg-03", sorted[3].Registration.ID)

	assert.Equal(t, []int{30, 25, 30, 22}, ages(pool), "input must not be reordered")
}

func TestSplitByGender(t *testing.T) {
	var b candidateBuilder
	pool := concat(
		b.solos(slotA, GenderFemale, 20),
		b.solos(slotA, GenderMale, 21),
		b.solos(slotA, "unknown", 22),
		b.solos(slotA, GenderFemale, 23),
	)

	males, females := SplitByGender(pool)
	assert.Equal(t, []int{21}, ages(males))
	assert.Equal(t, []int{20, 23}, ages(females))
}
