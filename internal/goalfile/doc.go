// Package goalfile loads, validates, and commits goal files.
//
// A goal file (goal.json) holds one plan and its current progress:
//
//	{
//	  "schema_version": 1,
//	  "plan": {
//	    "goal_id": "goal-1",
//	    "title": "Ship the thing",
//	    "steps": [
//	      {"id": "step-1", "title": "Define scope"},
//	      {"id": "step-2", "title": "Implement"}
//	    ]
//	  },
//	  "progress": {
//	    "goal_id": "goal-1",
//	    "completed": [
//	      {"step_id": "step-1", "completed_at": "2024-01-01T00:00:00.000Z"}
//	    ]
//	  }
//	}
//
// # Validation
//
// Validate runs two passes:
//
// 1. JSON Schema validation against the embedded draft-2020-12 schema, or an
// external schema file when one is configured and readable.
//
// 2. Semantic validation through the goal package: the plan must be valid
// and the progress must match it step for step.
//
// # Commit
//
// Commit publishes a new progress snapshot with an optimistic
// compare-and-swap: the stored snapshot must still equal the one the caller
// started from, and the new snapshot must be a forward-only extension of it.
//
// # File Format
//
// Files are written with 2-space indentation and a trailing newline through a
// temporary file and rename. Plans may also be authored in YAML and imported
// with LoadPlan.
package goalfile
