package rankings

import "github.com/mauv0809/league-rankings/internal/league"

// group partitions a sorted list by gender. Players with any other gender, or none,
// appear only in ALL.
func group(all []scored, metric Metric, limit int) Grouped {
	var women, men []scored
	for _, s := range all {
		switch {
		case s.player.GenderIs(league.GenderFemale):
			women = append(women, s)
		case s.player.GenderIs(league.GenderMale):
			men = append(men, s)
		}
	}
	return Grouped{
		ALL: toEntries(all, metric, limit),
		W:   toEntries(women, metric, limit),
		M:   toEntries(men, metric, limit),
	}
}
