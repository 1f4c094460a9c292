package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"emberly_server/models"

	"github.com/google/uuid"
)

// MatchStore is the persistence seam for pair rows. Implementations must
// reject a duplicate create with ErrPairExists and a stale update with
// ErrVersionMismatch.
type MatchStore interface {
	GetByPair(ctx context.Context, x, y string) (*models.Match, error)
	GetByID(ctx context.Context, matchID string) (*models.Match, error)
	Create(ctx context.Context, match *models.Match) error
	Update(ctx context.Context, match *models.Match, expectedVersion int64) error
	ListByProfile(ctx context.Context, profileID string) ([]models.Match, error)
}

// LikeOutcome is what a like transition observably produced. Event is
// non-nil exactly when this call moved the pair into "matched"; replays of
// an already-applied like report AlreadyLiked and never re-carry the event.
type LikeOutcome struct {
	IsMatch      bool
	MatchID      string
	AlreadyLiked bool
	Event        *models.MatchNotificationEvent
}

// LedgerService owns the Match entity and its state machine. It is the
// single source of truth for who has liked, disliked, matched or unmatched
// whom.
type LedgerService struct {
	Matches  MatchStore
	Profiles ProfileReader
	now      func() time.Time
}

func NewLedgerService(matches MatchStore, profiles ProfileReader) *LedgerService {
	return &LedgerService{
		Matches:  matches,
		Profiles: profiles,
		now:      time.Now,
	}
}

// writeAttempts bounds optimistic retries: one re-read after a lost race,
// then the conflict surfaces to the caller.
const writeAttempts = 2

// ApplyLike applies actorID's like towards targetID and reports whether the
// pair became a mutual match.
func (ls *LedgerService) ApplyLike(ctx context.Context, actorID, targetID string) (LikeOutcome, error) {
	actor, target, err := ls.loadParties(ctx, actorID, targetID)
	if err != nil {
		return LikeOutcome{}, err
	}

	for attempt := 0; attempt < writeAttempts; attempt++ {
		row, err := ls.Matches.GetByPair(ctx, actorID, targetID)
		if err != nil {
			return LikeOutcome{}, fmt.Errorf("read pair row: %v: %w", err, ErrDependency)
		}

		if row == nil {
			row = ls.newPairRow(actorID, targetID)
			row.SetFlag(actorID, true)
			row.Status = models.StatusLiked
			if err := ls.Matches.Create(ctx, row); err != nil {
				if errors.Is(err, ErrPairExists) {
					// Lost the create race against the other side; re-read
					// so both likes land on the same row.
					continue
				}
				return LikeOutcome{}, fmt.Errorf("create pair row: %v: %w", err, ErrDependency)
			}
			return LikeOutcome{MatchID: row.MatchID}, nil
		}

		switch row.Status {
		case models.StatusMatched:
			return LikeOutcome{IsMatch: true, MatchID: row.MatchID, AlreadyLiked: true}, nil
		case models.StatusLiked:
			if row.FlagFor(actorID) {
				return LikeOutcome{MatchID: row.MatchID, AlreadyLiked: true}, nil
			}
		case models.StatusUnmatched:
			// A fresh like starts the pair over rather than resurrecting the
			// old match. Product decision, pinned by regression test.
			row.ALiked, row.BLiked = false, false
			row.ADisliked, row.BDisliked = false, false
			row.MatchedAt = nil
		}

		row.SetFlag(actorID, true)
		row.SetDislike(actorID, false)

		becameMatch := row.ALiked && row.BLiked
		nowStr := ls.now().UTC().Format(time.RFC3339)
		if becameMatch {
			row.Status = models.StatusMatched
			row.MatchedAt = &nowStr
		} else {
			row.Status = models.StatusLiked
		}
		row.LastUpdated = nowStr

		expected := row.Version
		row.Version++
		if err := ls.Matches.Update(ctx, row, expected); err != nil {
			if errors.Is(err, ErrVersionMismatch) {
				continue
			}
			return LikeOutcome{}, fmt.Errorf("update pair row: %v: %w", err, ErrDependency)
		}

		outcome := LikeOutcome{IsMatch: becameMatch, MatchID: row.MatchID}
		if becameMatch {
			log.Printf("🎉 Match formed: %s + %s (%s)", row.ProfileA, row.ProfileB, row.MatchID)
			outcome.Event = buildMatchEvent(row, actor, target, actorID)
		}
		return outcome, nil
	}

	return LikeOutcome{}, fmt.Errorf("like %s -> %s: %w", actorID, targetID, ErrConflict)
}

// ApplyLikeWithMessage is the premium path: sending a message is treated as
// a stronger signal than a like, so both flags are forced true and the pair
// goes straight to matched regardless of the other side. A pair that is
// already matched is a no-op and does not re-emit the event.
func (ls *LedgerService) ApplyLikeWithMessage(ctx context.Context, actorID, targetID string) (LikeOutcome, error) {
	actor, target, err := ls.loadParties(ctx, actorID, targetID)
	if err != nil {
		return LikeOutcome{}, err
	}

	for attempt := 0; attempt < writeAttempts; attempt++ {
		row, err := ls.Matches.GetByPair(ctx, actorID, targetID)
		if err != nil {
			return LikeOutcome{}, fmt.Errorf("read pair row: %v: %w", err, ErrDependency)
		}

		created := false
		if row == nil {
			row = ls.newPairRow(actorID, targetID)
			created = true
		} else if row.Status == models.StatusMatched {
			return LikeOutcome{IsMatch: true, MatchID: row.MatchID, AlreadyLiked: true}, nil
		}

		nowStr := ls.now().UTC().Format(time.RFC3339)
		row.ALiked, row.BLiked = true, true
		row.ADisliked, row.BDisliked = false, false
		row.Status = models.StatusMatched
		row.MatchedAt = &nowStr
		row.LastUpdated = nowStr

		if created {
			if err := ls.Matches.Create(ctx, row); err != nil {
				if errors.Is(err, ErrPairExists) {
					continue
				}
				return LikeOutcome{}, fmt.Errorf("create pair row: %v: %w", err, ErrDependency)
			}
		} else {
			expected := row.Version
			row.Version++
			if err := ls.Matches.Update(ctx, row, expected); err != nil {
				if errors.Is(err, ErrVersionMismatch) {
					continue
				}
				return LikeOutcome{}, fmt.Errorf("update pair row: %v: %w", err, ErrDependency)
			}
		}

		log.Printf("🎉 Match forced via message: %s + %s (%s)", row.ProfileA, row.ProfileB, row.MatchID)
		return LikeOutcome{
			IsMatch: true,
			MatchID: row.MatchID,
			Event:   buildMatchEvent(row, actor, target, actorID),
		}, nil
	}

	return LikeOutcome{}, fmt.Errorf("like with message %s -> %s: %w", actorID, targetID, ErrConflict)
}

// ApplyDislike records actorID's dislike of targetID. A dislike overrides
// every state except matched: the only public path out of matched is
// Unmatch, so a dislike against a matched pair is rejected.
func (ls *LedgerService) ApplyDislike(ctx context.Context, actorID, targetID string) error {
	if _, _, err := ls.loadParties(ctx, actorID, targetID); err != nil {
		return err
	}

	for attempt := 0; attempt < writeAttempts; attempt++ {
		row, err := ls.Matches.GetByPair(ctx, actorID, targetID)
		if err != nil {
			return fmt.Errorf("read pair row: %v: %w", err, ErrDependency)
		}

		if row == nil {
			row = ls.newPairRow(actorID, targetID)
			row.SetDislike(actorID, true)
			row.Status = models.StatusDisliked
			if err := ls.Matches.Create(ctx, row); err != nil {
				if errors.Is(err, ErrPairExists) {
					continue
				}
				return fmt.Errorf("create pair row: %v: %w", err, ErrDependency)
			}
			return nil
		}

		if row.Status == models.StatusMatched {
			return fmt.Errorf("pair is matched, unmatch first: %w", ErrValidation)
		}

		row.SetFlag(actorID, false)
		row.SetDislike(actorID, true)
		row.Status = models.StatusDisliked
		row.LastUpdated = ls.now().UTC().Format(time.RFC3339)

		expected := row.Version
		row.Version++
		if err := ls.Matches.Update(ctx, row, expected); err != nil {
			if errors.Is(err, ErrVersionMismatch) {
				continue
			}
			return fmt.Errorf("update pair row: %v: %w", err, ErrDependency)
		}
		return nil
	}

	return fmt.Errorf("dislike %s -> %s: %w", actorID, targetID, ErrConflict)
}

// Unmatch moves a matched pair to unmatched. Only a party of a currently
// matched row may unmatch; everything else is reported as not found, the
// same as an absent match.
func (ls *LedgerService) Unmatch(ctx context.Context, actorID, matchID string) error {
	if actorID == "" || matchID == "" {
		return fmt.Errorf("profileId and matchId are required: %w", ErrValidation)
	}

	for attempt := 0; attempt < writeAttempts; attempt++ {
		row, err := ls.Matches.GetByID(ctx, matchID)
		if err != nil {
			return fmt.Errorf("read match '%s': %v: %w", matchID, err, ErrDependency)
		}
		if row == nil || !row.IsParty(actorID) || row.Status != models.StatusMatched {
			return fmt.Errorf("match '%s': %w", matchID, ErrNotFound)
		}

		// Status only; the like flags stay untouched so the history of who
		// liked whom survives the unmatch.
		row.Status = models.StatusUnmatched
		row.LastUpdated = ls.now().UTC().Format(time.RFC3339)

		expected := row.Version
		row.Version++
		if err := ls.Matches.Update(ctx, row, expected); err != nil {
			if errors.Is(err, ErrVersionMismatch) {
				continue
			}
			return fmt.Errorf("update match '%s': %v: %w", matchID, err, ErrDependency)
		}
		return nil
	}

	return fmt.Errorf("unmatch '%s': %w", matchID, ErrConflict)
}

// InteractedProfileIDs computes the candidate exclusion set for profileID: a
// pair counts as interacted only from the requester's own like, the
// requester's own dislike, or a terminal status. The other side's lone like
// never hides anyone, so a user keeps seeing people who have not yet
// responded to that user's like.
func (ls *LedgerService) InteractedProfileIDs(ctx context.Context, profileID string) (map[string]struct{}, error) {
	rows, err := ls.Matches.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list pair rows: %v: %w", err, ErrDependency)
	}

	interacted := make(map[string]struct{}, len(rows))
	for i := range rows {
		row := &rows[i]
		terminal := row.Status == models.StatusMatched || row.Status == models.StatusUnmatched
		if row.FlagFor(profileID) || row.DislikedBy(profileID) || terminal {
			interacted[row.OtherParty(profileID)] = struct{}{}
		}
	}
	return interacted, nil
}

func (ls *LedgerService) loadParties(ctx context.Context, actorID, targetID string) (*models.Profile, *models.Profile, error) {
	if actorID == "" || targetID == "" {
		return nil, nil, fmt.Errorf("profile ids are required: %w", ErrValidation)
	}
	if actorID == targetID {
		return nil, nil, fmt.Errorf("cannot act on own profile: %w", ErrValidation)
	}

	actor, err := ls.Profiles.GetProfile(ctx, actorID)
	if err != nil {
		return nil, nil, fmt.Errorf("own profile: %w", err)
	}
	target, err := ls.Profiles.GetProfile(ctx, targetID)
	if err != nil {
		return nil, nil, fmt.Errorf("target profile: %w", err)
	}
	return actor, target, nil
}

func (ls *LedgerService) newPairRow(x, y string) *models.Match {
	a, b := models.CanonicalPair(x, y)
	nowStr := ls.now().UTC().Format(time.RFC3339)
	return &models.Match{
		PairKey:     models.PairKeyFor(x, y),
		MatchID:     uuid.NewString(),
		ProfileA:    a,
		ProfileB:    b,
		Status:      models.StatusPending,
		Version:     1,
		CreatedAt:   nowStr,
		LastUpdated: nowStr,
	}
}

// buildMatchEvent assembles the notification event for a transition into
// matched. Parties follow the row's canonical order.
func buildMatchEvent(row *models.Match, actor, target *models.Profile, initiatorID string) *models.MatchNotificationEvent {
	partyFor := func(profileID string) models.MatchParty {
		p := actor
		if target.ProfileID == profileID {
			p = target
		}
		return models.MatchParty{
			ProfileID:   p.ProfileID,
			DisplayName: p.DisplayName,
			PushToken:   p.PushToken,
		}
	}

	matchedAt := ""
	if row.MatchedAt != nil {
		matchedAt = *row.MatchedAt
	}
	return &models.MatchNotificationEvent{
		MatchID:     row.MatchID,
		MatchedAt:   matchedAt,
		Parties:     [2]models.MatchParty{partyFor(row.ProfileA), partyFor(row.ProfileB)},
		InitiatorID: initiatorID,
	}
}
