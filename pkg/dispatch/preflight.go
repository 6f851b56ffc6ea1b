package dispatch

// Preflight validates inputs against schema and returns a *ValidationError
// when they do not match. Callers that want to inspect the outcome instead of
// failing should use Validate.
func Preflight(schema *Schema, inputs map[string]any) error {
	result := Validate(schema, inputs)
	if result.Valid {
		return nil
	}
	return &ValidationError{
		Workflow:       schema.Path,
		Errors:         result.Errors,
		ExpectedInputs: result.ExpectedInputs,
	}
}
