// Package evaluators provides the domain-specific risk evaluators that
// implement the ports.Evaluator interface for the assessment engine.
package evaluators

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-vitals/internal/domain"
)

// Common errors returned by evaluator constructors.
var (
	// ErrEmptyEvaluatorName is returned when attempting to create an
	// evaluator with an empty name.
	ErrEmptyEvaluatorName = errors.New("evaluator name cannot be empty")

	// ErrWeightSum is returned when component weights do not sum to 1.
	ErrWeightSum = errors.New("component weights must sum to 1.0")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// weightSumTolerance bounds the accepted floating-point drift when
// checking that component weights sum to 1.
const weightSumTolerance = 1e-9

// checkWeightSum verifies that the given component weights sum to 1.
func checkWeightSum(weights ...float64) error {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: got %.6f", ErrWeightSum, sum)
	}
	return nil
}

// band is one rung of a threshold ladder: values strictly below Upper
// map to Score and Label. Ladders are evaluated top-down and the first
// matching band wins; the last band uses +Inf as a catch-all.
type band struct {
	upper float64
	score float64
	label string
}

// ladder is an ordered list of bands from most to least favorable.
type ladder []band

// lookup returns the score and label of the first band whose upper bound
// exceeds v. Ladders always terminate with a +Inf band, so a match is
// guaranteed for any finite input.
func (l ladder) lookup(v float64) (float64, string) {
	for _, b := range l {
		if v < b.upper {
			return b.score, b.label
		}
	}
	last := l[len(l)-1]
	return last.score, last.label
}

// score returns only the band score for v.
func (l ladder) score(v float64) float64 {
	s, _ := l.lookup(v)
	return s
}

// classify returns only the band label for v.
func (l ladder) classify(v float64) string {
	_, c := l.lookup(v)
	return c
}

// bpBand is one rung of a blood-pressure ladder. The favorable bands
// require both readings under their bounds; the unfavorable ones match
// when either reading is under its bound.
type bpBand struct {
	systolic  int
	diastolic int
	both      bool
	score     float64
	label     string
}

// bpLadder is an ordered blood-pressure ladder with an explicit
// catch-all for readings beyond every band.
type bpLadder struct {
	bands     []bpBand
	elseScore float64
	elseLabel string
}

// lookup returns the score and label for a systolic/diastolic pair.
func (l bpLadder) lookup(systolic, diastolic int) (float64, string) {
	for _, b := range l.bands {
		if b.both {
			if systolic < b.systolic && diastolic < b.diastolic {
				return b.score, b.label
			}
		} else if systolic < b.systolic || diastolic < b.diastolic {
			return b.score, b.label
		}
	}
	return l.elseScore, l.elseLabel
}

// adviceTiers holds the fixed advisory strings an evaluator emits per
// risk band. The critical tier's first entry must carry
// domain.UrgentPrefix so the aggregator can prioritize it.
type adviceTiers struct {
	low      []string
	moderate []string
	high     []string
	critical []string
}

// forScore returns a copy of the tier matching the score's risk band.
func (t adviceTiers) forScore(score float64) []string {
	var src []string
	switch domain.LevelForScore(score) {
	case domain.LevelLow:
		src = t.low
	case domain.LevelModerate:
		src = t.moderate
	case domain.LevelHigh:
		src = t.high
	default:
		src = t.critical
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
