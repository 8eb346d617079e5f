package matching

import "slices"

// SlotMatcher forms groups out of one slot's solo candidates.
type SlotMatcher interface {
	MatchSlot(slot SlotKey, candidates []Candidate, config Config) []Group
}

// GreedyMatcher walks age-sorted males and females with two cursors, taking
// the preferred number of each per step. A window whose age span exceeds
// MaxAgeDifference is dropped and both cursors move past it anyway; nothing
// is retried or rebalanced. Leftovers stay pending for the next run.
type GreedyMatcher struct{}

func NewGreedyMatcher() *GreedyMatcher {
	return &GreedyMatcher{}
}

func (m *GreedyMatcher) MatchSlot(slot SlotKey, candidates []Candidate, config Config) []Group {
	groups := make([]Group, 0)

	if !config.Feasible() || len(candidates) < config.MinGroupSize {
		return groups
	}

	males, females := SplitByGender(candidates)
	males = SortByAge(males)
	females = SortByAge(females)

	maleStep, femaleStep := config.PreferredMaleCount, config.PreferredFemaleCount
	maleIdx, femaleIdx := 0, 0

	for maleIdx+maleStep <= len(males) && femaleIdx+femaleStep <= len(females) {
		members := make([]Candidate, 0, maleStep+femaleStep)
		members = append(members, males[maleIdx:maleIdx+maleStep]...)
		members = append(members, females[femaleIdx:femaleIdx+femaleStep]...)

		if AgeCompatible(members, config.MaxAgeDifference) {
			groups = append(groups, Group{
				EventDate: slot.Date,
				EventTime: slot.Time,
				AreaID:    slot.AreaID,
				Status:    GroupStatusFormed,
				Members:   members,
			})
		}

		maleIdx += maleStep
		femaleIdx += femaleStep
	}

	return groups
}

// AgeCompatible reports whether the oldest and youngest member are at most
// maxDiff years apart. An empty set is compatible.
func AgeCompatible(members []Candidate, maxDiff int) bool {
	if len(members) == 0 {
		return true
	}
	lo, hi := members[0].Profile.Age, members[0].Profile.Age
	for _, c := range members[1:] {
		lo = min(lo, c.Profile.Age)
		hi = max(hi, c.Profile.Age)
	}
	return hi-lo <= maxDiff
}

// Match runs one full pass over a candidate pool: bucket by slot, keep the
// solo registrants, and let the matcher form groups slot by slot.
// Friend-group registrants are carried through but never matched here.
//
// A user lands in at most one group per run. Slots are visited in the order
// they first appear in the pool, and anyone already placed is left out of
// every later slot; their other registrations stay pending.
func Match(m SlotMatcher, candidates []Candidate, config Config) []Group {
	groups := make([]Group, 0)
	placed := make(map[string]bool)

	for _, slot := range GroupBySlot(candidates) {
		solo, _ := SplitByParticipation(slot.Candidates)
		solo = slices.DeleteFunc(solo, func(c Candidate) bool {
			return placed[c.Registration.UserID]
		})

		for _, g := range m.MatchSlot(slot.Key, solo, config) {
			for _, id := range g.MemberUserIDs() {
				placed[id] = true
			}
			groups = append(groups, g)
		}
	}
	return groups
}
