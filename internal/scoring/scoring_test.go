package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bestAnswers() Answers {
	return Answers{
		"commute":           "walk_bike",
		"drivingMiles":      "0_50",
		"flights":           "none",
		"homeEnergy":        "renewable",
		"lightsOff":         "always",
		"unplugElectronics": "always",
		"meatConsumption":   "never_vegetarian",
		"foodShopping":      "farmers_market",
		"clothesShopping":   "rarely_secondhand",
		"wasteHandling":     "recycle_compost_all",
	}
}

func worstAnswers() Answers {
	return Answers{
		"commute":           "suv_truck",
		"drivingMiles":      "300_plus",
		"flights":           "6_plus_international",
		"homeEnergy":        "coal_oil",
		"lightsOff":         "rarely_never",
		"unplugElectronics": "never",
		"meatConsumption":   "daily",
		"foodShopping":      "fast_food_processed",
		"clothesShopping":   "weekly_more",
		"wasteHandling":     "rarely_recycle",
	}
}

func TestComputeScore_BestCase(t *testing.T) {
	result, err := ComputeScore(bestAnswers())
	require.NoError(t, err)

	assert.Equal(t, 9, result.TotalScore)
	assert.Equal(t, CategoryLow, result.Category)
	assert.Equal(t, SubScores{Transportation: 1, Energy: 3, Diet: 4, Waste: 1}, result.Scores)
	assert.Equal(t, 1, result.TableVersion)
}

func TestComputeScore_WorstCase(t *testing.T) {
	result, err := ComputeScore(worstAnswers())
	require.NoError(t, err)

	assert.Equal(t, 90, result.TotalScore)
	assert.Equal(t, CategoryVeryHigh, result.Category)
	assert.Equal(t, SubScores{Transportation: 30, Energy: 22, Diet: 30, Waste: 8}, result.Scores)
	assert.Equal(t, result.TotalScore, result.Scores.Total())
}

func TestComputeScore_Deterministic(t *testing.T) {
	answers := Answers{
		"commute":           "carpool",
		"drivingMiles":      "151_300",
		"flights":           "1_2_domestic",
		"homeEnergy":        "electricity_grid",
		"lightsOff":         "sometimes",
		"unplugElectronics": "often",
		"meatConsumption":   "3_4_times_week",
		"foodShopping":      "grocery_fresh",
		"clothesShopping":   "few_times_year",
		"wasteHandling":     "recycle_most",
	}
	first, err := ComputeScore(answers)
	require.NoError(t, err)
	assert.Equal(t, 4+6+4+6+4+2+6+4+3+3, first.TotalScore)

	for i := 0; i < 20; i++ {
		again, err := ComputeScore(answers)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeScore_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(Answers) Answers
		question string
		reason   string
	}{
		{
			name:     "missing question",
			mutate:   func(a Answers) Answers { delete(a, "flights"); return a },
			question: "flights",
			reason:   "missing",
		},
		{
			name:     "empty option",
			mutate:   func(a Answers) Answers { a["homeEnergy"] = ""; return a },
			question: "homeEnergy",
			reason:   "missing",
		},
		{
			name:     "unknown option",
			mutate:   func(a Answers) Answers { a["commute"] = "teleport"; return a },
			question: "commute",
			reason:   "unknown option",
		},
		{
			name:     "option of another question",
			mutate:   func(a Answers) Answers { a["lightsOff"] = "never"; return a },
			question: "lightsOff",
			reason:   "unknown option",
		},
		{
			name:     "unknown question",
			mutate:   func(a Answers) Answers { a["showerLength"] = "long"; return a },
			question: "showerLength",
			reason:   "unknown question",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeScore(tt.mutate(bestAnswers()))
			var answerErr *InvalidAnswerError
			require.ErrorAs(t, err, &answerErr)
			assert.Equal(t, tt.question, answerErr.Question)
			assert.Equal(t, tt.reason, answerErr.Reason)
		})
	}
}

func TestComputeScore_NoAnswers(t *testing.T) {
	_, err := ComputeScore(nil)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "answers", validationErr.Field)
}

func TestValidateTotal(t *testing.T) {
	for _, total := range []int{0, 1, 50, 99, 100} {
		assert.NoError(t, ValidateTotal(total), "total %d", total)
	}
	for _, total := range []int{-1, 101, 1000} {
		var rangeErr *OutOfRangeError
		require.ErrorAs(t, ValidateTotal(total), &rangeErr, "total %d", total)
		assert.Equal(t, total, rangeErr.Value)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		total int
		want  Category
	}{
		{0, CategoryLow},
		{9, CategoryLow},
		{25, CategoryLow},
		{26, CategoryModerate},
		{45, CategoryModerate},
		{46, CategoryHigh},
		{70, CategoryHigh},
		{71, CategoryVeryHigh},
		{90, CategoryVeryHigh},
		{100, CategoryVeryHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.total), "Classify(%d)", tt.total)
	}
}

func TestClassify_TotalOnRange(t *testing.T) {
	for total := MinTotalScore; total <= MaxTotalScore; total++ {
		assert.True(t, Classify(total).Valid(), "Classify(%d)", total)
	}
}

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()
	questions := table.Questions()
	require.Len(t, questions, 10)

	keys := make([]string, len(questions))
	for i, q := range questions {
		keys[i] = q.Key
	}
	assert.Equal(t, []string{
		"commute", "drivingMiles", "flights",
		"homeEnergy", "lightsOff", "unplugElectronics",
		"meatConsumption", "foodShopping", "clothesShopping",
		"wasteHandling",
	}, keys)

	points, ok := table.Points("flights", "6_plus_international")
	require.True(t, ok)
	assert.Equal(t, 12, points)

	_, ok = table.Points("flights", "rocket")
	assert.False(t, ok)

	// Mutating the returned copy must not leak into the table.
	questions[0].Options[0].Points = 99
	points, _ = table.Points("commute", "walk_bike")
	assert.Equal(t, 0, points)
	assert.Equal(t, 0, table.Questions()[0].Options[0].Points)
}

func TestLoadTable_Errors(t *testing.T) {
	tests := map[string]string{
		"no version":      "questions: [{key: a, group: waste, options: [{key: x, points: 1}]}]",
		"no questions":    "version: 2",
		"bad group":       "version: 2\nquestions: [{key: a, group: water, options: [{key: x, points: 1}]}]",
		"negative points": "version: 2\nquestions: [{key: a, group: waste, options: [{key: x, points: -1}]}]",
		"duplicate":       "version: 2\nquestions: [{key: a, group: waste, options: [{key: x, points: 1}]}, {key: a, group: waste, options: [{key: x, points: 1}]}]",
		"no options":      "version: 2\nquestions: [{key: a, group: waste}]",
		"not yaml":        "version: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadTable([]byte(data))
			assert.Error(t, err)
		})
	}
}
