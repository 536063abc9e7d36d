// Package scoring turns eco-footprint quiz answers into an impact score and
// classifies scores into impact categories.
package scoring

import (
	"sort"
)

const (
	MinTotalScore = 0
	MaxTotalScore = 100
)

// Answers maps a question key to the selected option key.
type Answers map[string]string

// SubScores holds the per-group point totals.
type SubScores struct {
	Transportation int `json:"transportation"`
	Energy         int `json:"energy"`
	Diet           int `json:"diet"`
	Waste          int `json:"waste"`
}

// Total is the sum of all groups.
func (s SubScores) Total() int {
	return s.Transportation + s.Energy + s.Diet + s.Waste
}

func (s *SubScores) add(g Group, points int) {
	switch g {
	case GroupTransportation:
		s.Transportation += points
	case GroupEnergy:
		s.Energy += points
	case GroupDiet:
		s.Diet += points
	case GroupWaste:
		s.Waste += points
	}
}

// Result is the outcome of scoring a full answer set.
type Result struct {
	TotalScore   int       `json:"totalScore"`
	Scores       SubScores `json:"scores"`
	Category     Category  `json:"category"`
	TableVersion int       `json:"tableVersion"`
}

// ComputeScore scores answers with the default table.
func ComputeScore(answers Answers) (Result, error) {
	return defaultTable.Score(answers)
}

// Score looks up every question's selected option and sums the points per group.
// Every question of the table must be answered and no unknown question is accepted.
func (t *Table) Score(answers Answers) (Result, error) {
	if len(answers) == 0 {
		return Result{}, &ValidationError{Field: "answers", Reason: "required"}
	}

	var scores SubScores
	for _, q := range t.questions {
		option, ok := answers[q.Key]
		if !ok || option == "" {
			return Result{}, &InvalidAnswerError{Question: q.Key, Reason: "missing"}
		}
		points, ok := t.points[q.Key][option]
		if !ok {
			return Result{}, &InvalidAnswerError{Question: q.Key, Option: option, Reason: "unknown option"}
		}
		scores.add(q.Group, points)
	}

	if len(answers) != len(t.questions) {
		var unknown []string
		for key := range answers {
			if _, ok := t.points[key]; !ok {
				unknown = append(unknown, key)
			}
		}
		sort.Strings(unknown)
		return Result{}, &InvalidAnswerError{Question: unknown[0], Option: answers[unknown[0]], Reason: "unknown question"}
	}

	total := scores.Total()
	return Result{
		TotalScore:   total,
		Scores:       scores,
		Category:     Classify(total),
		TableVersion: t.version,
	}, nil
}

// ValidateTotal checks a client-computed total. The value is not re-derived
// from answers: callers of this path are trusted to have scored correctly.
func ValidateTotal(total int) error {
	if total < MinTotalScore || total > MaxTotalScore {
		return &OutOfRangeError{Value: total, Min: MinTotalScore, Max: MaxTotalScore}
	}
	return nil
}
