package plan

import "time"

// NewThread builds the thread record for a freshly posted plan: version 1,
// awaiting feedback, one plan version. If the text splits into more than
// one section the per-section state is created alongside; the caller fills
// each section's MessageID (and SectionIndex via SetSectionMessageID) as
// the sections are posted.
func NewThread(owner, anchorID, text string, files []string, at time.Time) *Thread {
	if files == nil {
		files = []string{}
	}
	t := &Thread{
		Owner:    owner,
		AnchorID: anchorID,
		Version:  1,
		Status:   StatusAwaitingFeedback,
		Files:    files,
		PlanVersions: []PlanVersion{
			{Version: 1, Text: text, PostedAt: at},
		},
		Feedback: []FeedbackEntry{},
	}
	sections := SplitSections(text)
	if len(sections) > 1 {
		t.Sections = make([]Section, 0, len(sections))
		t.SectionIndex = map[string]int{}
		for _, sc := range sections {
			t.Sections = append(t.Sections, Section{
				Heading:  sc.Heading,
				Body:     sc.Body,
				Feedback: []FeedbackEntry{},
			})
		}
	}
	return t
}

// SetSectionMessageID records the posted message id for the section at
// the given position and indexes it for reply routing.
func (t *Thread) SetSectionMessageID(idx int, messageID string) {
	if idx < 0 || idx >= len(t.Sections) {
		return
	}
	t.Sections[idx].MessageID = messageID
	if t.SectionIndex == nil {
		t.SectionIndex = map[string]int{}
	}
	t.SectionIndex[messageID] = idx
}

// Revise appends a new plan version authored by the owner. The version
// number is bumped, the status returns to awaiting_feedback, and prior
// approval fields are left in place as history.
func (t *Thread) Revise(text, messageID string, at time.Time) {
	t.Version++
	t.PlanVersions = append(t.PlanVersions, PlanVersion{
		Version:   t.Version,
		Text:      text,
		PostedAt:  at,
		MessageID: messageID,
	})
	t.LatestReplyID = messageID
	t.Status = StatusAwaitingFeedback
}

// UpdateFiles replaces the declared file set when a non-empty list is
// given; an empty list leaves the existing declaration alone.
func (t *Thread) UpdateFiles(files []string) {
	if len(files) > 0 {
		t.Files = files
	}
}

// Approve marks the whole plan approved.
func (t *Thread) Approve(by string) {
	t.Approved = true
	t.ApprovedBy = by
	t.Status = StatusApproved
}

// ApproveSection marks a single section approved, independent of its
// siblings and of the thread-level flag.
func (t *Thread) ApproveSection(messageID, by string) (*Section, error) {
	sec, ok := t.Section(messageID)
	if !ok {
		return nil, &NotFoundError{Kind: "section", ID: messageID}
	}
	sec.Approved = true
	sec.ApprovedBy = by
	return sec, nil
}

// placeholderThread synthesizes a thread for a reply whose parent has not
// been seen: owner unknown, empty histories. Backfilled state only; no
// reply is ever dropped for want of a parent.
func placeholderThread(anchorID string) *Thread {
	return &Thread{
		AnchorID:     anchorID,
		Version:      1,
		Status:       StatusOpen,
		Files:        []string{},
		PlanVersions: []PlanVersion{},
		Feedback:     []FeedbackEntry{},
	}
}

// ClassifyIncoming applies the single reply-classification rule: a reply
// authored by the thread owner is a revision (version bump, plan history
// append), anything else is feedback. The same rule runs during live
// event handling and bootstrap replay.
//
// threadID may name a thread anchor or a section message; section replies
// accumulate on the section. An unknown threadID gets a placeholder
// thread first, so classification is total.
func (c *Channel) ClassifyIncoming(threadID, author, text, messageID string, at time.Time) FeedbackEntry {
	entry := FeedbackEntry{
		Author:     author,
		MessageID:  messageID,
		Text:       text,
		ReceivedAt: at,
		Kind:       KindFeedback,
	}

	if t, ok := c.Threads[threadID]; ok {
		if author == t.Owner && t.Owner != "" {
			entry.Kind = KindRevision
			t.Revise(text, messageID, at)
		}
		t.Feedback = append(t.Feedback, entry)
		return entry
	}

	// A reply under a section's top-level message belongs to that section.
	for _, t := range c.Threads {
		sec, ok := t.Section(threadID)
		if !ok {
			continue
		}
		if author == t.Owner && t.Owner != "" {
			entry.Kind = KindRevision
		}
		sec.Feedback = append(sec.Feedback, entry)
		return entry
	}

	t := placeholderThread(threadID)
	t.Feedback = append(t.Feedback, entry)
	c.UpsertThread(threadID, t)
	return entry
}

// ApplyApprovalReaction handles an approval reaction on the given message.
// The reaction approves a thread when the message is its anchor or one of
// its feedback entries, and the thread is owned by selfID — the system
// only auto-approves threads it owns. Returns the anchor id of the
// approved thread.
func (c *Channel) ApplyApprovalReaction(itemID, reactor, selfID string) (string, bool) {
	for anchorID, t := range c.Threads {
		if anchorID != itemID && !hasFeedbackMessage(t, itemID) {
			continue
		}
		if t.Owner != selfID || selfID == "" {
			return "", false
		}
		t.Approve(reactor)
		return anchorID, true
	}
	return "", false
}

func hasFeedbackMessage(t *Thread, messageID string) bool {
	for _, e := range t.Feedback {
		if e.MessageID == messageID {
			return true
		}
	}
	return false
}
