package validator

// Validator is the validation entry point handed to services and handlers.
type Validator struct {
	*BusinessValidator
}

// New creates a Validator with all business rules registered.
func New() *Validator {
	return &Validator{BusinessValidator: NewBusinessValidator()}
}
