package plan

import "fmt"

// NotFoundError reports a channel, thread, or section id that does not
// exist in local state. It is terminal for the operation; never retried.
type NotFoundError struct {
	Kind string // "channel", "thread", "section"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
