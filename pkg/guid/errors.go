package guid

import "fmt"

// FormatError reports input text that does not match the required grammar
// for an identifier, a baseline key, or one of their fixed-width components.
// Field names the component that failed validation.
type FormatError struct {
	Field string
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// UnknownTypeCodeError reports a structurally valid GUID whose type code is
// outside the recognized set (21, 23, 1f).
type UnknownTypeCodeError struct {
	TypeCode string
}

func (e *UnknownTypeCodeError) Error() string {
	return fmt.Sprintf("unknown GUID type code %q", e.TypeCode)
}

// WrongKindError reports an identifier that is structurally valid but of
// the wrong resource type for the requested operation.
type WrongKindError struct {
	Op   string
	Kind ResourceType
}

func (e *WrongKindError) Error() string {
	return fmt.Sprintf("%s: wrong resource type %q", e.Op, e.Kind)
}
