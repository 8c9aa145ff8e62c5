package review

import (
	"errors"
	"fmt"
	"strings"

	"github.com/planwg/planwg/internal/plan"
)

// ErrMissingPlan signals that neither inline plan text nor a plan file
// was supplied.
var ErrMissingPlan = errors.New("provide plan text or a plan file")

// ErrNoSession signals that a session-scoped command ran in a directory
// with no linked thread and no explicit channel.
var ErrNoSession = errors.New("no active session; pass a channel name or link one first")

// Candidate is one owned thread offered for disambiguation.
type Candidate struct {
	ThreadID string
	Version  int
	Status   plan.ThreadStatus
}

// AmbiguousError reports that thread inference found several owned
// threads and no disambiguator was supplied. Candidates are listed so the
// caller can pick one.
type AmbiguousError struct {
	Channel    string
	Owner      string
	Candidates []Candidate
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "multiple threads owned by %s in #%s:\n", e.Owner, e.Channel)
	for _, c := range e.Candidates {
		fmt.Fprintf(&b, "  %s  v%d  status=%s\n", c.ThreadID, c.Version, c.Status)
	}
	b.WriteString("re-run with --thread <id> to select one")
	return b.String()
}

// ClosedChannelError reports a session pointing at an archived channel.
type ClosedChannelError struct {
	Channel string
}

func (e *ClosedChannelError) Error() string {
	return fmt.Sprintf("#%s is archived; pass --channel to target an active channel", e.Channel)
}
