package matching

import "math"

// CalculateStats summarizes a run's candidate pool against the groups the
// matcher emitted. AverageAge is rounded to one decimal.
func CalculateStats(candidates []Candidate, groups []Group) Stats {
	matched := 0
	for _, g := range groups {
		matched += len(g.Members)
	}

	males, females := SplitByGender(candidates)

	avg := 0.0
	if len(candidates) > 0 {
		total := 0
		for _, c := range candidates {
			total += c.Profile.Age
		}
		avg = math.Round(float64(total)/float64(len(candidates))*10) / 10
	}

	return Stats{
		TotalCandidates:     len(candidates),
		TotalGroups:         len(groups),
		MatchedCandidates:   matched,
		UnmatchedCandidates: len(candidates) - matched,
		MaleCount:           len(males),
		FemaleCount:         len(females),
		AverageAge:          avg,
	}
}
