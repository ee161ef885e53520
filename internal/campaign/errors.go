package campaign

import "fmt"

// ValidationKind names the reason a campaign payload was rejected.
type ValidationKind string

const (
	MissingScheduleWindow ValidationKind = "missing_schedule_window"
	MissingContactsList   ValidationKind = "missing_contacts_list"
	MissingConnections    ValidationKind = "missing_connections"
	EmptyMessageContent   ValidationKind = "empty_message_content"
)

var validationMessages = map[ValidationKind]string{
	MissingScheduleWindow: "scheduled sends require both a start and an end time",
	MissingContactsList:   "a contacts list must be selected",
	MissingConnections:    "at least one connection must be selected",
	EmptyMessageContent:   "the campaign produced no message content",
}

// ValidationError reports a payload that cannot be submitted yet.
type ValidationError struct {
	Kind ValidationKind
}

func (e *ValidationError) Error() string {
	if msg, ok := validationMessages[e.Kind]; ok {
		return msg
	}
	return string(e.Kind)
}

// Is lets callers match on the kind with errors.Is.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

// NewValidationError builds a ValidationError for the given kind.
func NewValidationError(kind ValidationKind) *ValidationError {
	return &ValidationError{Kind: kind}
}

// UploadError wraps a failed attachment upload with the file it concerned.
type UploadError struct {
	FileName string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.FileName, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
