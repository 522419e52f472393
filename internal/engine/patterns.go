package engine

import "fmt"

// PatternTier classifies a run of stones along one axis.
type PatternTier int

const (
	Five PatternTier = iota
	LiveFour
	DeadFour
	LiveThree
	DeadThree
	LiveTwo
	DeadTwo
	Single
	numTiers
)

var tierNames = [numTiers]string{
	"Five", "LiveFour", "DeadFour", "LiveThree", "DeadThree", "LiveTwo", "DeadTwo", "Single",
}

// String returns the tier name.
func (t PatternTier) String() string {
	if t < 0 || t >= numTiers {
		return "Unknown"
	}
	return tierNames[t]
}

// ScoreTable maps each tier to its score. It is an array so every copy is
// independent of the table the scanner reads.
type ScoreTable [numTiers]int

// Score returns the score of a tier.
func (s ScoreTable) Score(t PatternTier) int {
	return s[t]
}

// Five must stay at least this many times larger than LiveFour, otherwise
// alpha-beta can cut a line that actually wins.
const fiveDominance = 100

var scores = ScoreTable{
	Five:      10_000_000,
	LiveFour:  100_000,
	DeadFour:  10_000,
	LiveThree: 8_000,
	DeadThree: 500,
	LiveTwo:   50,
	DeadTwo:   10,
	Single:    5,
}

func init() {
	if err := ValidateScoreTable(scores); err != nil {
		panic(err)
	}
}

// Scores returns a copy of the pattern score table.
func Scores() ScoreTable {
	return scores
}

// ValidateScoreTable checks the ordering the search depends on: positive,
// strictly decreasing scores, and Five dominating LiveFour by fiveDominance.
func ValidateScoreTable(t ScoreTable) error {
	for tier := Five; tier < numTiers; tier++ {
		if t[tier] <= 0 {
			return fmt.Errorf("score table: %s must be positive, got %d", tier, t[tier])
		}
		if tier > Five && t[tier] >= t[tier-1] {
			return fmt.Errorf("score table: %s (%d) must be below %s (%d)", tier, t[tier], tier-1, t[tier-1])
		}
	}
	if t[Five] < fiveDominance*t[LiveFour] {
		return fmt.Errorf("score table: Five (%d) must be at least %dx LiveFour (%d)", t[Five], fiveDominance, t[LiveFour])
	}
	return nil
}
