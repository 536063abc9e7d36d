package scoring

import (
	"fmt"
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidAnswerError reports a question that is missing, unknown or answered
// with an option the scoring table does not define.
type InvalidAnswerError struct {
	Question string
	Option   string
	Reason   string
}

func (e *InvalidAnswerError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("answer %q: %s", e.Question, e.Reason)
	}
	return fmt.Sprintf("answer %q=%q: %s", e.Question, e.Option, e.Reason)
}

// OutOfRangeError reports a total score outside the accepted range.
type OutOfRangeError struct {
	Value int
	Min   int
	Max   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("total score %d out of range [%d, %d]", e.Value, e.Min, e.Max)
}
