package score

// Credit thresholds are fixed constants of the scoring policy, not
// per-task configuration, so leaderboard credits stay comparable across
// tasks and runs.
const (
	halfCreditThreshold = 0.50
	fullCreditThreshold = 0.90
)

// Credit buckets a task's score fraction into the discrete leaderboard
// credit: below half credit nothing, half credit for usable-but-needs-rework,
// full credit at or above the full threshold.
func Credit(percent float64) float64 {
	switch {
	case percent >= fullCreditThreshold:
		return 1.0
	case percent >= halfCreditThreshold:
		return 0.5
	}
	return 0
}

// CreditKey renders a credit value as the stable histogram key used in
// summary artifacts.
func CreditKey(credit float64) string {
	switch credit {
	case 1.0:
		return "1.0"
	case 0.5:
		return "0.5"
	}
	return "0"
}
