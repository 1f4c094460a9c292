package services

import (
	"log"
	"sync"
	"time"

	"emberly_server/models"
)

// RealtimeEmitter delivers a match event to both parties' session channels.
type RealtimeEmitter interface {
	EmitNewMatch(event models.MatchNotificationEvent)
}

// PushSender delivers one push notification per device token. Transport is
// external and swappable.
type PushSender interface {
	Send(pushToken, title, body string) error
}

// dedupTTL bounds how long a delivered match id is remembered. Within the
// window, near-simultaneous deliveries for the same match are skipped.
const dedupTTL = 2 * time.Minute

// NotifierService fans a freshly formed match out to the realtime channel
// and to push. The ledger guarantees at most one event per transition; the
// TTL cache here additionally guards against replayed deliveries of the
// same event.
type NotifierService struct {
	Emitter RealtimeEmitter
	Push    PushSender

	mu        sync.Mutex
	delivered map[string]time.Time
	now       func() time.Time
}

func NewNotifierService(emitter RealtimeEmitter, push PushSender) *NotifierService {
	return &NotifierService{
		Emitter:   emitter,
		Push:      push,
		delivered: make(map[string]time.Time),
		now:       time.Now,
	}
}

// NotifyMatch delivers the event once. Push failures are logged and do not
// fail the delivery; the realtime emit already happened and retrying push
// is the transport's concern.
func (ns *NotifierService) NotifyMatch(event models.MatchNotificationEvent) {
	if !ns.markDelivered(event.MatchID) {
		log.Printf("⚠️ Skipping duplicate match delivery for %s", event.MatchID)
		return
	}

	if ns.Emitter != nil {
		ns.Emitter.EmitNewMatch(event)
	}

	if ns.Push == nil {
		return
	}
	for i, party := range event.Parties {
		if party.PushToken == "" {
			continue
		}
		other := event.Parties[1-i]
		if err := ns.Push.Send(party.PushToken, "It's a match!", "You matched with "+other.DisplayName); err != nil {
			log.Printf("❌ Push send failed for %s: %v", party.ProfileID, err)
		}
	}
}

// markDelivered records the match id and reports whether this was its first
// delivery within the TTL window. Expired entries are swept on the way in.
func (ns *NotifierService) markDelivered(matchID string) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	now := ns.now()
	for id, at := range ns.delivered {
		if now.Sub(at) > dedupTTL {
			delete(ns.delivered, id)
		}
	}

	if _, seen := ns.delivered[matchID]; seen {
		return false
	}
	ns.delivered[matchID] = now
	return true
}

// LogPushSender is the in-repo push transport: it records the send and
// leaves real delivery to the external push collaborator.
type LogPushSender struct{}

func (LogPushSender) Send(pushToken, title, body string) error {
	log.Printf("📬 Push [%s] %s: %s", pushToken, title, body)
	return nil
}
