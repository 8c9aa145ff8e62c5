// Package plan holds the review state model: channels, threads, sections,
// feedback classification, reconciliation, and conflict detection. It is
// pure state logic with no transport or filesystem dependencies.
package plan

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// FeedbackKind distinguishes a collaborator comment from an owner revision.
type FeedbackKind string

const (
	KindFeedback FeedbackKind = "feedback"
	KindRevision FeedbackKind = "revision"
)

// ThreadStatus is the lifecycle state of a review thread.
type ThreadStatus string

const (
	StatusOpen             ThreadStatus = "open"
	StatusAwaitingFeedback ThreadStatus = "awaiting_feedback"
	StatusApproved         ThreadStatus = "approved"
)

// ChannelStatus marks whether a channel is live or archived.
type ChannelStatus string

const (
	ChannelOpen   ChannelStatus = "open"
	ChannelClosed ChannelStatus = "closed"
)

// PlanVersion is one immutable entry in a thread's plan history.
type PlanVersion struct {
	Version   int       `json:"version"`
	Text      string    `json:"text"`
	PostedAt  time.Time `json:"posted_at"`
	MessageID string    `json:"message_id,omitempty"`
}

// FeedbackEntry records one reply in a thread or section.
type FeedbackEntry struct {
	Author     string       `json:"author"`
	MessageID  string       `json:"message_id"`
	Text       string       `json:"text"`
	ReceivedAt time.Time    `json:"received_at"`
	Kind       FeedbackKind `json:"kind"`
}

// Section is one independently trackable unit of a multi-section plan,
// posted as its own top-level message.
type Section struct {
	Heading    string          `json:"heading"`
	Body       string          `json:"body"`
	MessageID  string          `json:"message_id"`
	Feedback   []FeedbackEntry `json:"feedback"`
	Approved   bool            `json:"approved"`
	ApprovedBy string          `json:"approved_by,omitempty"`
}

// Thread is the review unit anchored to one top-level plan message.
//
// When Sections is non-empty the section-level feedback and approval
// fields are authoritative; the thread-level Feedback and Approved fields
// remain present and independently settable for single-message plans and
// for state written by older versions. This duality is deliberate.
type Thread struct {
	Owner        string          `json:"owner,omitempty"`
	AnchorID     string          `json:"anchor_id"`
	Version      int             `json:"version"`
	Status       ThreadStatus    `json:"status"`
	Approved     bool            `json:"approved"`
	ApprovedBy   string          `json:"approved_by,omitempty"`
	Files        []string        `json:"files"`
	PlanVersions []PlanVersion   `json:"plan_versions"`
	Feedback     []FeedbackEntry `json:"feedback"`
	Sections     []Section       `json:"sections,omitempty"`
	SectionIndex map[string]int  `json:"section_index,omitempty"`
	// LatestReplyID tracks the newest owner revision message, so approval
	// reactions land on the current plan text rather than the anchor.
	LatestReplyID string `json:"latest_reply_id,omitempty"`
}

// Sectioned reports whether this thread tracks per-section state.
func (t *Thread) Sectioned() bool { return len(t.Sections) > 0 }

// Section returns the section posted under the given message id.
func (t *Thread) Section(messageID string) (*Section, bool) {
	idx, ok := t.SectionIndex[messageID]
	if !ok || idx < 0 || idx >= len(t.Sections) {
		return nil, false
	}
	return &t.Sections[idx], true
}

// FeedbackOnly returns the thread-level entries with kind feedback,
// in arrival order.
func (t *Thread) FeedbackOnly() []FeedbackEntry {
	var out []FeedbackEntry
	for _, e := range t.Feedback {
		switch e.Kind {
		case KindFeedback:
			out = append(out, e)
		case KindRevision:
		}
	}
	return out
}

// CurrentPlan returns the latest plan version, if any.
func (t *Thread) CurrentPlan() (PlanVersion, bool) {
	if len(t.PlanVersions) == 0 {
		return PlanVersion{}, false
	}
	return t.PlanVersions[len(t.PlanVersions)-1], true
}

// Channel aggregates every review thread of one managed channel.
type Channel struct {
	ID            string             `json:"channel_id"`
	Name          string             `json:"channel_name"`
	CreatedBy     string             `json:"created_by,omitempty"`
	Collaborators []string           `json:"collaborators"`
	Threads       map[string]*Thread `json:"threads"`
	Status        ChannelStatus      `json:"status,omitempty"`
}

// NewChannel returns an empty channel record.
func NewChannel(id, name, createdBy string, collaborators []string) *Channel {
	if collaborators == nil {
		collaborators = []string{}
	}
	return &Channel{
		ID:            id,
		Name:          name,
		CreatedBy:     createdBy,
		Collaborators: collaborators,
		Threads:       map[string]*Thread{},
		Status:        ChannelOpen,
	}
}

// Closed reports whether the channel has been archived.
func (c *Channel) Closed() bool { return c.Status == ChannelClosed }

// UpsertThread inserts or replaces the thread under the given anchor id.
func (c *Channel) UpsertThread(id string, t *Thread) {
	if c.Threads == nil {
		c.Threads = map[string]*Thread{}
	}
	c.Threads[id] = t
}

// Thread returns the thread for the given anchor id.
func (c *Channel) Thread(id string) (*Thread, bool) {
	t, ok := c.Threads[id]
	return t, ok
}

// OpenThreads returns the anchor ids of all threads whose whole-plan
// approval flag is unset, sorted by anchor id. Section-level approval is
// irrelevant here: a thread counts as open purely at the whole-plan level.
func (c *Channel) OpenThreads() []string {
	var ids []string
	for id, t := range c.Threads {
		if !t.Approved {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// OwnedThreads returns the anchor ids of threads owned by the given
// identity, sorted by anchor id.
func (c *Channel) OwnedThreads(owner string) []string {
	var ids []string
	for id, t := range c.Threads {
		if t.Owner == owner && owner != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// LastActivity returns the most recent message timestamp seen in the
// channel, interpreting anchor and feedback message ids as Slack-style
// fractional epoch seconds. Returns zero when nothing parses.
func (c *Channel) LastActivity() float64 {
	var last float64
	consider := func(id string) {
		v, err := strconv.ParseFloat(id, 64)
		if err == nil && v > last {
			last = v
		}
	}
	for id, t := range c.Threads {
		consider(id)
		for _, e := range t.Feedback {
			consider(e.MessageID)
		}
		for _, s := range t.Sections {
			for _, e := range s.Feedback {
				consider(e.MessageID)
			}
		}
	}
	return last
}

// Summary is a one-line rollup used by the channel listing.
type Summary struct {
	Name         string
	Total        int
	Open         int
	Approved     int
	LastActivity float64
	HasConflicts bool
}

// Summarize computes the listing rollup for a channel.
func Summarize(c *Channel) Summary {
	s := Summary{Name: c.Name, Total: len(c.Threads), LastActivity: c.LastActivity()}
	for _, t := range c.Threads {
		if t.Approved {
			s.Approved++
		} else {
			s.Open++
		}
	}
	s.HasConflicts = len(FindConflicts(c)) > 0
	return s
}

// HumanAge renders a seconds-ago delta the way the channel listing shows
// it: 42s ago, 5m ago, 3h ago, 2d ago.
func HumanAge(seconds float64) string {
	switch {
	case seconds < 0:
		return "unknown"
	case seconds < 60:
		return fmt.Sprintf("%ds ago", int(seconds))
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", int(seconds/60))
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", int(seconds/3600))
	default:
		return fmt.Sprintf("%dd ago", int(seconds/86400))
	}
}
