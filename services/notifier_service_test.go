package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emberly_server/models"
)

type recordingEmitter struct {
	events []models.MatchNotificationEvent
}

func (r *recordingEmitter) EmitNewMatch(event models.MatchNotificationEvent) {
	r.events = append(r.events, event)
}

type recordingPush struct {
	sent []string
	err  error
}

func (r *recordingPush) Send(pushToken, title, body string) error {
	r.sent = append(r.sent, pushToken)
	return r.err
}

func matchEventFixture(matchID string) models.MatchNotificationEvent {
	return models.MatchNotificationEvent{
		MatchID:     matchID,
		MatchedAt:   testNow.Format(time.RFC3339),
		InitiatorID: "alice",
		Parties: [2]models.MatchParty{
			{ProfileID: "alice", DisplayName: "Alice", PushToken: "token-alice"},
			{ProfileID: "bob", DisplayName: "Bob", PushToken: "token-bob"},
		},
	}
}

func TestNotifyMatchFansOutToBothParties(t *testing.T) {
	emitter := &recordingEmitter{}
	push := &recordingPush{}
	notifier := NewNotifierService(emitter, push)

	notifier.NotifyMatch(matchEventFixture("match-1"))

	require.Len(t, emitter.events, 1)
	assert.Equal(t, "match-1", emitter.events[0].MatchID)
	assert.ElementsMatch(t, []string{"token-alice", "token-bob"}, push.sent)
}

func TestNotifyMatchSkipsMissingPushTokens(t *testing.T) {
	emitter := &recordingEmitter{}
	push := &recordingPush{}
	notifier := NewNotifierService(emitter, push)

	event := matchEventFixture("match-1")
	event.Parties[1].PushToken = ""
	notifier.NotifyMatch(event)

	assert.Equal(t, []string{"token-alice"}, push.sent)
}

func TestNotifyMatchDeduplicatesWithinTTL(t *testing.T) {
	emitter := &recordingEmitter{}
	push := &recordingPush{}
	notifier := NewNotifierService(emitter, push)
	clock := testNow
	notifier.now = func() time.Time { return clock }

	notifier.NotifyMatch(matchEventFixture("match-1"))
	notifier.NotifyMatch(matchEventFixture("match-1"))

	assert.Len(t, emitter.events, 1, "replayed delivery within the window is dropped")
	assert.Len(t, push.sent, 2)

	// A different match is unaffected.
	notifier.NotifyMatch(matchEventFixture("match-2"))
	assert.Len(t, emitter.events, 2)

	// Once the window passes the same id delivers again.
	clock = clock.Add(dedupTTL + time.Second)
	notifier.NotifyMatch(matchEventFixture("match-1"))
	assert.Len(t, emitter.events, 3)
}

func TestNotifyMatchSurvivesPushFailure(t *testing.T) {
	emitter := &recordingEmitter{}
	push := &recordingPush{err: errors.New("apns down")}
	notifier := NewNotifierService(emitter, push)

	notifier.NotifyMatch(matchEventFixture("match-1"))

	assert.Len(t, emitter.events, 1, "push failure never blocks the realtime emit")
	assert.Len(t, push.sent, 2, "every token is still attempted")
}
