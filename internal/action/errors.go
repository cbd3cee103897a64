package action

import (
	"errors"
	"fmt"
)

var (
	// ErrDestinationExists indicates the move target already exists.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrCopyFailed indicates the cross-device copy fallback failed.
	ErrCopyFailed = errors.New("failed to copy file")

	// ErrNoMoveDir indicates the move policy was selected without a folder.
	ErrNoMoveDir = errors.New("move policy requires a move folder")

	// ErrNoPrompter indicates the interactive policy has no prompter.
	ErrNoPrompter = errors.New("interactive policy requires a prompter")

	// ErrUnknownPolicy indicates an unsupported policy name.
	ErrUnknownPolicy = errors.New("unknown policy")
)

// ActionError reports a failed delete or move for one pair. Remaining pairs
// are still processed.
type ActionError struct {
	Action string // "delete" or "move"
	Path   string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Action, e.Path, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
