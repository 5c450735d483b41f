package flow

// Mode declares which event kind a step accepts.
type Mode string

const (
	// ModeText expects a free-text reply.
	ModeText Mode = "text"
	// ModeChoice expects a selection from the step's choice set.
	ModeChoice Mode = "choice"
)

// Choice is one selectable option of a choice step.
type Choice struct {
	Label string
	Value string
}

// Step is a single question of a dialogue variant. Steps are static
// configuration; the controller never mutates them.
type Step struct {
	Field  Field
	Prompt string
	Mode   Mode
	// Validate checks a free-text answer. Nil means any input passes.
	// Ignored for choice steps: membership in Choices is the only check.
	Validate func(string) error
	Choices  []Choice
}

// HasChoice reports whether value is a member of the step's choice set.
func (s Step) HasChoice(value string) bool {
	for _, c := range s.Choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

// Variant is a complete ordered question list plus the column layout
// its answers are persisted in.
type Variant struct {
	Name  string
	Steps []Step
	// Columns is the persisted row layout: lead fields plus the
	// bookkeeping columns "timestamp" and "user_id".
	Columns []string
}

// StepFor returns the step at index, or false when index is out of range.
func (v Variant) StepFor(index int) (Step, bool) {
	if index < 0 || index >= len(v.Steps) {
		return Step{}, false
	}
	return v.Steps[index], true
}
