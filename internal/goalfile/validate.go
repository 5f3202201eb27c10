package goalfile

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/goaltrack/internal/goal"
	"github.com/nibzard/goaltrack/internal/utils"
)

//go:embed goal.schema.json
var embeddedSchema string

const embeddedSchemaURL = "https://goaltrack.local/goal.schema.json"

// Schema returns the embedded goal file JSON Schema.
func Schema() string {
	return embeddedSchema
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is the path to an external JSON Schema file.
	// If empty or unreadable, the embedded schema is used.
	SchemaPath string
	// SkipSchema disables the JSON Schema pass.
	SkipSchema bool
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema string // "embedded", the external schema path, or "" when skipped
}

// Validate validates the goal file.
func (f *File) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if !opts.SkipSchema {
		validateWithSchema(f, opts.SchemaPath, result)
	}

	f.validateSemantic(result)

	return result
}

// validateSemantic checks the version, the plan, and the progress against it.
func (f *File) validateSemantic(result *ValidationResult) {
	if f.SchemaVersion != SchemaVersion {
		result.add(&ValidationError{
			Path: "schema_version",
			Err:  fmt.Errorf("expected %d, got %d", SchemaVersion, f.SchemaVersion),
		})
	}

	if err := goal.ValidatePlan(f.Plan); err != nil {
		result.add(&ValidationError{Path: "plan", Err: err})
		return
	}

	if err := goal.MatchProgress(f.Plan, f.Progress); err != nil {
		result.add(&ValidationError{Path: "progress", Err: err})
	}
}

func (r *ValidationResult) add(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// validateWithSchema compiles the external schema if one is usable, falling
// back to the embedded schema, and validates f against it.
func validateWithSchema(f *File, schemaPath string, result *ValidationResult) {
	schema, source := compileSchema(schemaPath, result)
	if schema == nil {
		return
	}
	result.UsedSchema = source

	// Marshal the file back to JSON for validation
	fileData, err := json.Marshal(f)
	if err != nil {
		result.add(&ValidationError{Err: fmt.Errorf("failed to marshal file for validation: %w", err)})
		return
	}

	var fileObj interface{}
	if err := json.Unmarshal(fileData, &fileObj); err != nil {
		result.add(&ValidationError{Err: fmt.Errorf("failed to unmarshal file for validation: %w", err)})
		return
	}

	if err := schema.Validate(fileObj); err != nil {
		appendSchemaErrors(result, err)
	}
}

func compileSchema(schemaPath string, result *ValidationResult) (*jsonschema.Schema, string) {
	if schemaPath != "" {
		schema, err := compileExternalSchema(schemaPath)
		if err == nil {
			return schema, schemaPath
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("%v; using embedded schema", err))
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(embeddedSchemaURL, strings.NewReader(embeddedSchema)); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("embedded schema unavailable: %v", err))
		return nil, ""
	}
	schema, err := compiler.Compile(embeddedSchemaURL)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("embedded schema unavailable: %v", err))
		return nil, ""
	}
	return schema, "embedded"
}

func compileExternalSchema(schemaPath string) (*jsonschema.Schema, error) {
	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %w", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema file not found: %s", absPath)
		}
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	schema, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema file: %w", err)
	}
	return schema, nil
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.add(err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.add(&ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
