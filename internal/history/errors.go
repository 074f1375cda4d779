package history

import "fmt"

// ModeError reports an unrecognized transfer mode name.
type ModeError struct {
	Value string
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("unknown transfer mode %q (want \"on-remove\" or \"always\")", e.Value)
}

// SnapshotError reports a malformed snapshot document.
type SnapshotError struct {
	Path   string
	Reason string
}

func (e *SnapshotError) Error() string {
	if e.Path == "" {
		return "snapshot: " + e.Reason
	}
	return fmt.Sprintf("snapshot: %s: %s", e.Path, e.Reason)
}
