package scoring

import (
	_ "embed"
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Group is the questionnaire section a question contributes its points to.
type Group string

const (
	GroupTransportation Group = "transportation"
	GroupEnergy         Group = "energy"
	GroupDiet           Group = "diet"
	GroupWaste          Group = "waste"
)

var groups = []Group{GroupTransportation, GroupEnergy, GroupDiet, GroupWaste}

//go:embed table_v1.yaml
var tableV1 []byte

var defaultTable = MustLoadTable(tableV1)

// Option is one selectable answer of a question.
type Option struct {
	Key    string `yaml:"key" json:"key"`
	Points int    `yaml:"points" json:"points"`
}

// Question is a single quiz question with its ordered options.
type Question struct {
	Key     string   `yaml:"key" json:"key"`
	Group   Group    `yaml:"group" json:"group"`
	Options []Option `yaml:"options" json:"options"`
}

// Table is an immutable question -> option -> points lookup.
type Table struct {
	version   int
	questions []Question
	points    map[string]map[string]int
}

type tableFile struct {
	Version   int        `yaml:"version"`
	Questions []Question `yaml:"questions"`
}

// LoadTable parses and validates a YAML scoring table.
func LoadTable(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "could not parse scoring table")
	}
	if file.Version <= 0 {
		return nil, errors.Errorf("scoring table version must be positive, got %d", file.Version)
	}
	if len(file.Questions) == 0 {
		return nil, errors.New("scoring table has no questions")
	}

	table := &Table{
		version:   file.Version,
		questions: file.Questions,
		points:    make(map[string]map[string]int, len(file.Questions)),
	}
	for _, q := range file.Questions {
		if !validGroup(q.Group) {
			return nil, errors.Errorf("question %q: unknown group %q", q.Key, q.Group)
		}
		if _, ok := table.points[q.Key]; ok {
			return nil, errors.Errorf("question %q defined twice", q.Key)
		}
		if len(q.Options) == 0 {
			return nil, errors.Errorf("question %q has no options", q.Key)
		}
		options := make(map[string]int, len(q.Options))
		for _, o := range q.Options {
			if o.Points < 0 {
				return nil, errors.Errorf("question %q option %q: negative points", q.Key, o.Key)
			}
			if _, ok := options[o.Key]; ok {
				return nil, errors.Errorf("question %q option %q defined twice", q.Key, o.Key)
			}
			options[o.Key] = o.Points
		}
		table.points[q.Key] = options
	}
	return table, nil
}

// MustLoadTable is LoadTable that panics on error. Meant for embedded tables.
func MustLoadTable(data []byte) *Table {
	table, err := LoadTable(data)
	if err != nil {
		panic(fmt.Sprintf("scoring: %s", err))
	}
	return table
}

// DefaultTable returns the table in effect for new submissions.
func DefaultTable() *Table {
	return defaultTable
}

func (t *Table) Version() int {
	return t.version
}

// Questions returns a copy of the questions in table order.
func (t *Table) Questions() []Question {
	out := make([]Question, len(t.questions))
	for i, q := range t.questions {
		q.Options = append([]Option(nil), q.Options...)
		out[i] = q
	}
	return out
}

// Points returns the weight of option for question.
func (t *Table) Points(question, option string) (int, bool) {
	options, ok := t.points[question]
	if !ok {
		return 0, false
	}
	points, ok := options[option]
	return points, ok
}

func validGroup(g Group) bool {
	for _, known := range groups {
		if g == known {
			return true
		}
	}
	return false
}
