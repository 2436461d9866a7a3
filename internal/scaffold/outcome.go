package scaffold

import "fmt"

// Action is the terminal result of one file operation.
type Action string

const (
	ActionCreated     Action = "created"
	ActionOverwritten Action = "overwritten"
	ActionAppended    Action = "appended"
	ActionSkipped     Action = "skipped"
	ActionDeleted     Action = "deleted"
	ActionUnappended  Action = "unappended"
	ActionUnchanged   Action = "unchanged"
	ActionFailed      Action = "failed"
)

// Outcome reports what happened to a single destination path.
type Outcome struct {
	Path   string
	Action Action
	Note   string
}

func (o Outcome) String() string {
	if o.Note != "" {
		return fmt.Sprintf("%s %s (%s)", o.Action, o.Path, o.Note)
	}
	return fmt.Sprintf("%s %s", o.Action, o.Path)
}

// MissingTargetError reports a revert whose target path does not exist. It is
// surfaced to the caller but does not block sibling file operations.
type MissingTargetError struct {
	Path string
}

func (e *MissingTargetError) Error() string {
	return fmt.Sprintf("revert target missing: %s", e.Path)
}
