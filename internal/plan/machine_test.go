package plan

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewThreadSingleMessage(t *testing.T) {
	th := NewThread("U1", "100.1", "do the thing", []string{"a.go"}, t0)
	if th.Version != 1 {
		t.Fatalf("version = %d, want 1", th.Version)
	}
	if th.Status != StatusAwaitingFeedback {
		t.Fatalf("status = %s, want awaiting_feedback", th.Status)
	}
	if len(th.PlanVersions) != 1 || th.PlanVersions[0].Text != "do the thing" {
		t.Fatalf("unexpected plan versions: %+v", th.PlanVersions)
	}
	if th.Sectioned() {
		t.Fatal("single-message plan should not be sectioned")
	}
}

func TestNewThreadSectioned(t *testing.T) {
	th := NewThread("U1", "100.1", "# A\naa\n## B\nbb", nil, t0)
	if !th.Sectioned() {
		t.Fatal("expected sectioned thread")
	}
	if len(th.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(th.Sections))
	}
	for i, sec := range th.Sections {
		if sec.Approved || len(sec.Feedback) != 0 {
			t.Fatalf("section %d not initialized clean: %+v", i, sec)
		}
	}

	th.SetSectionMessageID(0, "101.1")
	th.SetSectionMessageID(1, "102.1")
	sec, ok := th.Section("102.1")
	if !ok || sec.Heading != "## B" {
		t.Fatalf("section lookup by message id failed: %+v ok=%v", sec, ok)
	}
}

func TestVersionMonotonicity(t *testing.T) {
	th := NewThread("U1", "100.1", "v1", nil, t0)
	for i := 2; i <= 5; i++ {
		th.Revise("next", "", t0)
	}
	if th.Version != 5 {
		t.Fatalf("version = %d, want 5", th.Version)
	}
	if len(th.PlanVersions) != 5 {
		t.Fatalf("plan versions = %d, want 5", len(th.PlanVersions))
	}
	for i, pv := range th.PlanVersions {
		if pv.Version != i+1 {
			t.Fatalf("plan version %d out of order: %d", i, pv.Version)
		}
	}
}

func TestReviseKeepsApprovalHistory(t *testing.T) {
	th := NewThread("U1", "100.1", "v1", nil, t0)
	th.Approve("U2")
	th.Revise("v2", "101.1", t0)
	if th.Status != StatusAwaitingFeedback {
		t.Fatalf("status = %s, want awaiting_feedback", th.Status)
	}
	if !th.Approved || th.ApprovedBy != "U2" {
		t.Fatal("revision must leave prior approval fields in place as history")
	}
}

func TestClassifyIncomingEndToEnd(t *testing.T) {
	ch := NewChannel("C1", "wg_demo", "U1", nil)
	th := NewThread("U1", "100.1", "plan v1", nil, t0)
	ch.UpsertThread("100.1", th)

	// Collaborator reply is feedback, version unchanged.
	e := ch.ClassifyIncoming("100.1", "U2", "LGTM", "100.2", t0)
	if e.Kind != KindFeedback {
		t.Fatalf("kind = %s, want feedback", e.Kind)
	}
	if th.Version != 1 || len(th.Feedback) != 1 {
		t.Fatalf("version=%d feedback=%d after collaborator reply", th.Version, len(th.Feedback))
	}

	// Owner reply is a revision: bump + history append.
	e = ch.ClassifyIncoming("100.1", "U1", "plan v2", "100.3", t0)
	if e.Kind != KindRevision {
		t.Fatalf("kind = %s, want revision", e.Kind)
	}
	if th.Version != 2 || len(th.PlanVersions) != 2 {
		t.Fatalf("version=%d plan_versions=%d after owner reply", th.Version, len(th.PlanVersions))
	}
	if th.Status != StatusAwaitingFeedback {
		t.Fatalf("status = %s, want awaiting_feedback", th.Status)
	}

	// Whole-plan approval.
	th.Approve("U1")
	if !th.Approved || th.Status != StatusApproved || th.ApprovedBy != "U1" {
		t.Fatalf("approval not applied: %+v", th)
	}
}

func TestClassifyIncomingPlaceholderBackfill(t *testing.T) {
	ch := NewChannel("C1", "wg_demo", "", nil)
	e := ch.ClassifyIncoming("999.9", "U2", "comment", "999.10", t0)
	if e.Kind != KindFeedback {
		t.Fatalf("kind = %s, want feedback", e.Kind)
	}
	th, ok := ch.Thread("999.9")
	if !ok {
		t.Fatal("placeholder thread not created")
	}
	if th.Owner != "" || th.Version != 1 || th.Status != StatusOpen {
		t.Fatalf("placeholder shape wrong: %+v", th)
	}
	if len(th.PlanVersions) != 0 || len(th.Feedback) != 1 {
		t.Fatalf("placeholder histories wrong: %+v", th)
	}
}

func TestClassifyIncomingUnknownOwnerNeverRevision(t *testing.T) {
	ch := NewChannel("C1", "wg_demo", "", nil)
	ch.UpsertThread("1.1", placeholderThread("1.1"))
	// Empty owner must not match an empty-author edge case.
	e := ch.ClassifyIncoming("1.1", "", "anon", "1.2", t0)
	if e.Kind == KindRevision {
		t.Fatal("reply on owner-less thread classified as revision")
	}
}

func TestClassifyIncomingSectionRouting(t *testing.T) {
	ch := NewChannel("C1", "wg_demo", "U1", nil)
	th := NewThread("U1", "100.1", "# A\naa\n## B\nbb", nil, t0)
	th.SetSectionMessageID(0, "101.1")
	th.SetSectionMessageID(1, "102.1")
	ch.UpsertThread("100.1", th)

	ch.ClassifyIncoming("102.1", "U2", "section comment", "102.2", t0)
	sec, _ := th.Section("102.1")
	if len(sec.Feedback) != 1 || sec.Feedback[0].Kind != KindFeedback {
		t.Fatalf("section feedback not routed: %+v", sec.Feedback)
	}
	if len(th.Feedback) != 0 {
		t.Fatal("section reply leaked into thread-level feedback")
	}
	// No placeholder for a known section message id.
	if _, ok := ch.Thread("102.1"); ok {
		t.Fatal("section reply created a spurious thread")
	}
}

func TestApproveSection(t *testing.T) {
	th := NewThread("U1", "100.1", "# A\naa\n## B\nbb", nil, t0)
	th.SetSectionMessageID(0, "101.1")
	th.SetSectionMessageID(1, "102.1")

	sec, err := th.ApproveSection("101.1", "U3")
	if err != nil {
		t.Fatalf("approve section: %v", err)
	}
	if !sec.Approved || sec.ApprovedBy != "U3" {
		t.Fatalf("section not approved: %+v", sec)
	}
	if th.Sections[1].Approved {
		t.Fatal("sibling section approved by accident")
	}
	if th.Approved {
		t.Fatal("section approval cascaded to thread level")
	}

	if _, err := th.ApproveSection("nope", "U3"); err == nil {
		t.Fatal("expected not-found error for unknown section")
	}
}

func TestApprovalReaction(t *testing.T) {
	ch := NewChannel("C1", "wg_demo", "U1", nil)
	th := NewThread("U1", "100.1", "plan", nil, t0)
	ch.UpsertThread("100.1", th)
	ch.ClassifyIncoming("100.1", "U2", "note", "100.2", t0)

	// Reaction on a thread not owned by the local operator is a no-op.
	if _, ok := ch.ApplyApprovalReaction("100.1", "U2", "U9"); ok {
		t.Fatal("approved a thread the operator does not own")
	}
	if th.Approved {
		t.Fatal("thread mutated by no-op reaction")
	}

	// Reaction on a feedback entry of an owned thread approves it.
	anchor, ok := ch.ApplyApprovalReaction("100.2", "U2", "U1")
	if !ok || anchor != "100.1" {
		t.Fatalf("reaction approval failed: anchor=%q ok=%v", anchor, ok)
	}
	if !th.Approved || th.ApprovedBy != "U2" || th.Status != StatusApproved {
		t.Fatalf("approval fields wrong: %+v", th)
	}

	// Re-applying is idempotent.
	if _, ok := ch.ApplyApprovalReaction("100.1", "U2", "U1"); !ok {
		t.Fatal("re-approval should still succeed")
	}
}
