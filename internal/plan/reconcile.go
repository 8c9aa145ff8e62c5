package plan

import "time"

// HistoryMessage is one top-level channel message with its replies, in
// the order the transport returned them.
type HistoryMessage struct {
	ID      string
	Author  string
	Text    string
	Replies []ReplyMessage
}

// ReplyMessage is one threaded reply.
type ReplyMessage struct {
	ID     string
	Author string
	Text   string
}

// Reconcile rebuilds channel state from message history, additively.
//
// Top-level messages whose id is already a known thread are skipped
// entirely — reconciliation fills in whole missing threads and never
// partially updates a known one, so re-running it after local edits can
// not corrupt locally accumulated approval or version state. Replies of
// newly created threads are replayed in order through the same
// classification rule as live event handling. Returns the number of
// threads created and feedback entries added.
func Reconcile(c *Channel, history []HistoryMessage, at time.Time) (threadsCreated, feedbackAdded int) {
	for _, msg := range history {
		if _, ok := c.Threads[msg.ID]; ok {
			continue
		}

		t := &Thread{
			Owner:    msg.Author,
			AnchorID: msg.ID,
			Version:  1,
			Status:   StatusOpen,
			Files:    []string{},
			PlanVersions: []PlanVersion{
				{Version: 1, Text: msg.Text, PostedAt: at},
			},
			Feedback: []FeedbackEntry{},
		}
		c.UpsertThread(msg.ID, t)
		threadsCreated++

		for _, reply := range msg.Replies {
			entry := c.ClassifyIncoming(msg.ID, reply.Author, reply.Text, reply.ID, at)
			if entry.Kind == KindFeedback {
				feedbackAdded++
			}
		}
	}
	return threadsCreated, feedbackAdded
}
