// Package daemon runs the socket-mode listener that keeps local state in
// step with channel activity while the operator is away: plans posted by
// collaborators, replies classified as feedback or revision, and approval
// reactions. Each event is a load-modify-save cycle against the store.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/planwg/planwg/internal/config"
	"github.com/planwg/planwg/internal/notify"
	"github.com/planwg/planwg/internal/plan"
	"github.com/planwg/planwg/internal/review"
	"github.com/planwg/planwg/internal/store"
	"github.com/planwg/planwg/internal/transport"
)

// nameResolver is the one transport capability the event loop needs.
type nameResolver interface {
	ResolveChannelName(ctx context.Context, channelID string) (string, error)
}

// Daemon listens for channel events and applies them to local state.
type Daemon struct {
	cfg      *config.Config
	store    store.Store
	msgr     nameResolver
	slack    *transport.SlackMessenger
	notifier notify.Notifier
	log      *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	names map[string]string
}

// New builds a daemon over a slack messenger constructed with an app
// token.
func New(cfg *config.Config, st store.Store, sm *transport.SlackMessenger, notifier notify.Notifier, logger *slog.Logger) *Daemon {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Daemon{
		cfg:      cfg,
		store:    st,
		msgr:     sm,
		slack:    sm,
		notifier: notifier,
		log:      logger,
		now:      func() time.Time { return time.Now().UTC() },
		names:    map[string]string{},
	}
}

// Run connects in socket mode and dispatches events until the context is
// cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if d.slack == nil {
		return errors.New("socket mode requires a slack app token")
	}
	client := socketmode.New(d.slack.Client())
	go func() {
		for evt := range client.Events {
			switch evt.Type {
			case socketmode.EventTypeConnecting:
				d.log.Info("connecting to slack")
			case socketmode.EventTypeConnected:
				d.log.Info("connected, watching for channel activity")
			case socketmode.EventTypeConnectionError:
				d.log.Warn("connection error, retrying", "error", evt.Data)
			case socketmode.EventTypeEventsAPI:
				if evt.Request != nil {
					client.Ack(*evt.Request)
				}
				ev, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok || ev.Type != slackevents.CallbackEvent {
					continue
				}
				switch in := ev.InnerEvent.Data.(type) {
				case *slackevents.MessageEvent:
					d.handleMessage(ctx, in)
				case *slackevents.ReactionAddedEvent:
					d.handleReaction(ctx, in)
				}
			}
		}
	}()
	return client.RunContext(ctx)
}

// handleMessage records a top-level message as a new plan thread and
// routes replies through reply classification.
func (d *Daemon) handleMessage(ctx context.Context, ev *slackevents.MessageEvent) {
	if ev == nil || ev.BotID != "" || ev.SubType != "" || ev.Text == "" {
		return
	}
	name := d.channelName(ctx, ev.Channel)
	if !review.IsManagedChannel(name) {
		return
	}
	log := d.log.With("trace_id", uuid.NewString(), "channel", name, "message", ev.TimeStamp)

	ch, err := d.store.LoadChannel(name)
	if err != nil {
		log.Warn("load channel state failed", "error", err)
		return
	}
	if ch == nil {
		ch = plan.NewChannel(ev.Channel, name, d.cfg.UserID, nil)
	}
	at := d.now()

	if ev.ThreadTimeStamp == "" || ev.ThreadTimeStamp == ev.TimeStamp {
		if d.knownMessage(ch, ev.TimeStamp) {
			return
		}
		t := plan.NewThread(ev.User, ev.TimeStamp, ev.Text, nil, at)
		t.Status = plan.StatusOpen
		ch.UpsertThread(ev.TimeStamp, t)
		if err := d.store.SaveChannel(ch); err != nil {
			log.Warn("save channel state failed", "error", err)
			return
		}
		log.Info("new plan thread", "owner", ev.User)
		if ev.User != d.cfg.UserID {
			d.notifier.Notify("New plan in #"+name, truncate(ev.Text, 120))
		}
		return
	}

	entry := ch.ClassifyIncoming(ev.ThreadTimeStamp, ev.User, ev.Text, ev.TimeStamp, at)
	if err := d.store.SaveChannel(ch); err != nil {
		log.Warn("save channel state failed", "error", err)
		return
	}
	log.Info("reply recorded", "kind", entry.Kind, "author", ev.User)

	if entry.Kind != plan.KindFeedback || ev.User == d.cfg.UserID {
		return
	}
	if t, ok := ch.Thread(ev.ThreadTimeStamp); ok && t.Owner == d.cfg.UserID {
		d.notifier.Notify("Feedback on your plan in #"+name, truncate(ev.Text, 120))
	}
}

// handleReaction approves a thread the operator owns when the approval
// emoji lands on its anchor or on one of its feedback messages.
func (d *Daemon) handleReaction(ctx context.Context, ev *slackevents.ReactionAddedEvent) {
	if ev == nil || ev.Reaction != review.ApprovalReaction || ev.Item.Type != "message" {
		return
	}
	name := d.channelName(ctx, ev.Item.Channel)
	if !review.IsManagedChannel(name) {
		return
	}
	log := d.log.With("trace_id", uuid.NewString(), "channel", name, "message", ev.Item.Timestamp)

	ch, err := d.store.LoadChannel(name)
	if err != nil || ch == nil {
		return
	}
	anchorID, ok := ch.ApplyApprovalReaction(ev.Item.Timestamp, ev.User, d.cfg.UserID)
	if !ok {
		return
	}
	if err := d.store.SaveChannel(ch); err != nil {
		log.Warn("save channel state failed", "error", err)
		return
	}
	log.Info("plan approved by reaction", "thread", anchorID, "by", ev.User)
	d.notifier.Notify("Plan approved in #"+name, "Approved by "+ev.User)
}

// knownMessage reports whether a message id is already tracked, either as
// a thread anchor or as a posted section of a sectioned plan. Section
// messages are top level on the wire but are not independent plans.
func (d *Daemon) knownMessage(ch *plan.Channel, messageID string) bool {
	if _, ok := ch.Thread(messageID); ok {
		return true
	}
	for _, t := range ch.Threads {
		if _, ok := t.Section(messageID); ok {
			return true
		}
	}
	return false
}

func (d *Daemon) channelName(ctx context.Context, channelID string) string {
	d.mu.Lock()
	if name, ok := d.names[channelID]; ok {
		d.mu.Unlock()
		return name
	}
	d.mu.Unlock()

	name, err := d.msgr.ResolveChannelName(ctx, channelID)
	if err != nil {
		d.log.Warn("resolve channel name failed", "channel", channelID, "error", err)
		return ""
	}
	d.mu.Lock()
	d.names[channelID] = name
	d.mu.Unlock()
	return name
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
