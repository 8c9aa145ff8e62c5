package daemon

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack/slackevents"

	"github.com/planwg/planwg/internal/config"
	"github.com/planwg/planwg/internal/plan"
	"github.com/planwg/planwg/internal/review"
	"github.com/planwg/planwg/internal/store"
)

type staticResolver map[string]string

func (r staticResolver) ResolveChannelName(_ context.Context, channelID string) (string, error) {
	return r[channelID], nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *recordingNotifier) Notify(title, _ string) {
	n.mu.Lock()
	n.titles = append(n.titles, title)
	n.mu.Unlock()
}

func newTestDaemon(resolver staticResolver) (*Daemon, *store.MemStore, *recordingNotifier) {
	st := store.NewMemStore()
	n := &recordingNotifier{}
	d := &Daemon{
		cfg:      &config.Config{UserID: "U1"},
		store:    st,
		msgr:     resolver,
		notifier: n,
		log:      slog.Default(),
		now:      func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		names:    map[string]string{},
	}
	return d, st, n
}

func TestTopLevelMessageCreatesThread(t *testing.T) {
	d, st, n := newTestDaemon(staticResolver{"C1": "wg_demo"})

	d.handleMessage(context.Background(), &slackevents.MessageEvent{
		Channel: "C1", User: "U2", Text: "their plan", TimeStamp: "100.1",
	})

	ch, _ := st.LoadChannel("wg_demo")
	if ch == nil {
		t.Fatal("no channel state written")
	}
	th, ok := ch.Thread("100.1")
	if !ok {
		t.Fatal("thread not created")
	}
	if th.Owner != "U2" || th.Status != plan.StatusOpen || th.Version != 1 {
		t.Fatalf("thread shape: %+v", th)
	}
	if len(n.titles) != 1 {
		t.Fatalf("notifications = %v", n.titles)
	}
}

func TestOwnTopLevelMessageDoesNotNotify(t *testing.T) {
	d, _, n := newTestDaemon(staticResolver{"C1": "wg_demo"})

	d.handleMessage(context.Background(), &slackevents.MessageEvent{
		Channel: "C1", User: "U1", Text: "my plan", TimeStamp: "100.1",
	})
	if len(n.titles) != 0 {
		t.Fatalf("notified about own message: %v", n.titles)
	}
}

func TestUnmanagedChannelIgnored(t *testing.T) {
	d, st, _ := newTestDaemon(staticResolver{"C9": "general"})

	d.handleMessage(context.Background(), &slackevents.MessageEvent{
		Channel: "C9", User: "U2", Text: "hi", TimeStamp: "100.1",
	})
	if chs, _ := st.ListChannels(); len(chs) != 0 {
		t.Fatalf("state written for unmanaged channel: %v", chs)
	}
}

func TestBotAndSubtypeMessagesIgnored(t *testing.T) {
	d, st, _ := newTestDaemon(staticResolver{"C1": "wg_demo"})

	d.handleMessage(context.Background(), &slackevents.MessageEvent{
		Channel: "C1", User: "U2", Text: "x", TimeStamp: "1.1", BotID: "B1",
	})
	d.handleMessage(context.Background(), &slackevents.MessageEvent{
		Channel: "C1", User: "U2", Text: "x", TimeStamp: "2.1", SubType: "message_changed",
	})
	if chs, _ := st.ListChannels(); len(chs) != 0 {
		t.Fatalf("state written for ignored messages: %v", chs)
	}
}

func TestReplyClassification(t *testing.T) {
	d, st, n := newTestDaemon(staticResolver{"C1": "wg_demo"})
	ctx := context.Background()

	// Operator's own plan, recorded as if by the CLI.
	ch := plan.NewChannel("C1", "wg_demo", "U1", nil)
	ch.UpsertThread("100.1", plan.NewThread("U1", "100.1", "my plan", nil, d.now()))
	st.SaveChannel(ch)

	// Collaborator feedback on the operator's thread notifies.
	d.handleMessage(ctx, &slackevents.MessageEvent{
		Channel: "C1", User: "U2", Text: "looks wrong", TimeStamp: "100.2", ThreadTimeStamp: "100.1",
	})
	ch, _ = st.LoadChannel("wg_demo")
	th, _ := ch.Thread("100.1")
	if len(th.Feedback) != 1 || th.Feedback[0].Kind != plan.KindFeedback {
		t.Fatalf("feedback not recorded: %+v", th.Feedback)
	}
	if len(n.titles) != 1 {
		t.Fatalf("notifications = %v", n.titles)
	}

	// The operator's own reply is a revision and stays quiet.
	d.handleMessage(ctx, &slackevents.MessageEvent{
		Channel: "C1", User: "U1", Text: "revised plan", TimeStamp: "100.3", ThreadTimeStamp: "100.1",
	})
	ch, _ = st.LoadChannel("wg_demo")
	th, _ = ch.Thread("100.1")
	if th.Version != 2 {
		t.Fatalf("owner reply did not bump version: %+v", th)
	}
	if len(n.titles) != 1 {
		t.Fatalf("revision triggered a notification: %v", n.titles)
	}
}

func TestSectionMessageNotTreatedAsNewPlan(t *testing.T) {
	d, st, _ := newTestDaemon(staticResolver{"C1": "wg_demo"})

	ch := plan.NewChannel("C1", "wg_demo", "U1", nil)
	th := plan.NewThread("U1", "100.1", "# One\naa\n# Two\nbb", nil, d.now())
	th.SetSectionMessageID(0, "100.2")
	th.SetSectionMessageID(1, "100.3")
	ch.UpsertThread("100.1", th)
	st.SaveChannel(ch)

	// The daemon sees the section post echoed back as a top-level message.
	d.handleMessage(context.Background(), &slackevents.MessageEvent{
		Channel: "C1", User: "U1", Text: "*One*\naa", TimeStamp: "100.2",
	})
	ch, _ = st.LoadChannel("wg_demo")
	if len(ch.Threads) != 1 {
		t.Fatalf("section message became its own thread: %d threads", len(ch.Threads))
	}
}

func TestApprovalReaction(t *testing.T) {
	d, st, n := newTestDaemon(staticResolver{"C1": "wg_demo"})

	ch := plan.NewChannel("C1", "wg_demo", "U1", nil)
	ch.UpsertThread("100.1", plan.NewThread("U1", "100.1", "my plan", nil, d.now()))
	st.SaveChannel(ch)

	d.handleReaction(context.Background(), &slackevents.ReactionAddedEvent{
		User:     "U2",
		Reaction: review.ApprovalReaction,
		Item:     slackevents.Item{Type: "message", Channel: "C1", Timestamp: "100.1"},
	})

	ch, _ = st.LoadChannel("wg_demo")
	th, _ := ch.Thread("100.1")
	if !th.Approved || th.ApprovedBy != "U2" {
		t.Fatalf("reaction did not approve: %+v", th)
	}
	if len(n.titles) != 1 {
		t.Fatalf("notifications = %v", n.titles)
	}
}

func TestReactionOnUnownedThreadIgnored(t *testing.T) {
	d, st, n := newTestDaemon(staticResolver{"C1": "wg_demo"})

	ch := plan.NewChannel("C1", "wg_demo", "U1", nil)
	ch.UpsertThread("100.1", plan.NewThread("U2", "100.1", "their plan", nil, d.now()))
	st.SaveChannel(ch)

	d.handleReaction(context.Background(), &slackevents.ReactionAddedEvent{
		User:     "U3",
		Reaction: review.ApprovalReaction,
		Item:     slackevents.Item{Type: "message", Channel: "C1", Timestamp: "100.1"},
	})

	ch, _ = st.LoadChannel("wg_demo")
	th, _ := ch.Thread("100.1")
	if th.Approved {
		t.Fatal("approved a thread the operator does not own")
	}
	if len(n.titles) != 0 {
		t.Fatalf("notifications = %v", n.titles)
	}
}

func TestOtherReactionsIgnored(t *testing.T) {
	d, st, _ := newTestDaemon(staticResolver{"C1": "wg_demo"})

	ch := plan.NewChannel("C1", "wg_demo", "U1", nil)
	ch.UpsertThread("100.1", plan.NewThread("U1", "100.1", "my plan", nil, d.now()))
	st.SaveChannel(ch)

	d.handleReaction(context.Background(), &slackevents.ReactionAddedEvent{
		User:     "U2",
		Reaction: "thumbsup",
		Item:     slackevents.Item{Type: "message", Channel: "C1", Timestamp: "100.1"},
	})

	ch, _ = st.LoadChannel("wg_demo")
	th, _ := ch.Thread("100.1")
	if th.Approved {
		t.Fatal("non-approval reaction approved the thread")
	}
}
