package errors

// ValidateSelection checks a list of node IDs chosen for arrangement.
// IDs must be positive and appear once.
func ValidateSelection(ids []int) error {
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return New(ErrCodeInvalidInput, "invalid node ID %d in selection", id)
		}
		if seen[id] {
			return New(ErrCodeInvalidInput, "node ID %d selected twice", id)
		}
		seen[id] = true
	}
	return nil
}

// ValidateOneOf checks that value is one of allowed. The field name is used
// in the error message.
func ValidateOneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "invalid %s %q (allowed: %v)", field, value, allowed)
}
