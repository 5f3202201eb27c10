package goal

// Step is a single named step of a plan.
type Step struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Plan is an ordered list of steps. The order of Steps is the only valid
// completion order.
type Plan struct {
	GoalID string `json:"goal_id" yaml:"goal_id"`
	Title  string `json:"title" yaml:"title"`
	Steps  []Step `json:"steps" yaml:"steps"`
}

// Completion records that a step was completed and when. CompletedAt is an
// opaque non-empty token; it is never parsed.
type Completion struct {
	StepID      string `json:"step_id" yaml:"step_id"`
	CompletedAt string `json:"completed_at" yaml:"completed_at"`
}

// Progress is a snapshot of the completed prefix of a plan.
type Progress struct {
	GoalID    string       `json:"goal_id" yaml:"goal_id"`
	Completed []Completion `json:"completed" yaml:"completed"`
}

// Clone returns a deep copy of the plan.
func (p Plan) Clone() Plan {
	return Plan{
		GoalID: p.GoalID,
		Title:  p.Title,
		Steps:  cloneSteps(p.Steps),
	}
}

// StepIDs returns the step identifiers in plan order.
func (p Plan) StepIDs() []string {
	ids := make([]string, 0, len(p.Steps))
	for _, step := range p.Steps {
		ids = append(ids, step.ID)
	}
	return ids
}

// Clone returns a deep copy of the progress snapshot.
func (p Progress) Clone() Progress {
	return Progress{
		GoalID:    p.GoalID,
		Completed: cloneCompletions(p.Completed),
	}
}

// Len returns the number of completed steps.
func (p Progress) Len() int {
	return len(p.Completed)
}

// Equal reports whether two snapshots record the same goal and the same
// completion history.
func (p Progress) Equal(other Progress) bool {
	if p.GoalID != other.GoalID || len(p.Completed) != len(other.Completed) {
		return false
	}
	for i := range p.Completed {
		if p.Completed[i] != other.Completed[i] {
			return false
		}
	}
	return true
}

// CompletedIDs returns the completed step ids in completion order.
func CompletedIDs(progress Progress) []string {
	ids := make([]string, 0, len(progress.Completed))
	for _, completion := range progress.Completed {
		ids = append(ids, completion.StepID)
	}
	return ids
}

func cloneSteps(steps []Step) []Step {
	if steps == nil {
		return nil
	}
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

func cloneCompletions(values []Completion) []Completion {
	out := make([]Completion, len(values))
	copy(out, values)
	return out
}
