package goal

// StepState is one plan step together with its completion, if any.
type StepState struct {
	Step        Step   `json:"step"`
	Done        bool   `json:"done"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// Summary is a read-only view of progress against a plan.
type Summary struct {
	GoalID    string      `json:"goal_id"`
	Title     string      `json:"title"`
	Total     int         `json:"total"`
	Completed int         `json:"completed"`
	Percent   float64     `json:"percent"`
	Complete  bool        `json:"complete"`
	Next      *Step       `json:"next,omitempty"`
	Steps     []StepState `json:"steps"`
}

// Summarize reports progress against plan step by step.
func Summarize(plan Plan, progress Progress) (Summary, error) {
	if err := check(plan, progress); err != nil {
		return Summary{}, err
	}

	done := len(progress.Completed)
	summary := Summary{
		GoalID:    plan.GoalID,
		Title:     plan.Title,
		Total:     len(plan.Steps),
		Completed: done,
		Percent:   float64(done) / float64(len(plan.Steps)),
		Complete:  done == len(plan.Steps),
		Steps:     make([]StepState, 0, len(plan.Steps)),
	}
	if !summary.Complete {
		next := plan.Steps[done]
		summary.Next = &next
	}
	for i, step := range plan.Steps {
		state := StepState{Step: step}
		if i < done {
			state.Done = true
			state.CompletedAt = progress.Completed[i].CompletedAt
		}
		summary.Steps = append(summary.Steps, state)
	}
	return summary, nil
}
