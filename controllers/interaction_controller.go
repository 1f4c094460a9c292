package controllers

import (
	"context"
	"net/http"

	"emberly_server/models"
	"emberly_server/services"
)

// InteractionLedger is the slice of the ledger the controller needs.
type InteractionLedger interface {
	ApplyLike(ctx context.Context, actorID, targetID string) (services.LikeOutcome, error)
	ApplyLikeWithMessage(ctx context.Context, actorID, targetID string) (services.LikeOutcome, error)
	ApplyDislike(ctx context.Context, actorID, targetID string) error
	Unmatch(ctx context.Context, actorID, matchID string) error
}

// LikeQuota gates likes. Consume is only called once the like transition
// itself succeeded.
type LikeQuota interface {
	Check(ctx context.Context, profileID string) (services.QuotaDecision, error)
	Consume(ctx context.Context, profileID string) (int, error)
}

// MatchNotifier receives the event of a freshly formed match.
type MatchNotifier interface {
	NotifyMatch(event models.MatchNotificationEvent)
}

// InteractionController handles HTTP requests for like/dislike/unmatch
// actions.
type InteractionController struct {
	Ledger   InteractionLedger
	Quota    LikeQuota
	Notifier MatchNotifier
}

// NewInteractionController creates a new InteractionController instance
func NewInteractionController(ledger InteractionLedger, quota LikeQuota, notifier MatchNotifier) *InteractionController {
	return &InteractionController{Ledger: ledger, Quota: quota, Notifier: notifier}
}

type likeRequest struct {
	ProfileID       string `json:"profileId"`
	TargetProfileID string `json:"targetProfileId"`
	Message         string `json:"message,omitempty"`
}

func (ic *InteractionController) decodeLikeRequest(w http.ResponseWriter, r *http.Request) (likeRequest, bool) {
	var req likeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return req, false
	}
	if req.ProfileID == "" || req.TargetProfileID == "" {
		writeError(w, http.StatusBadRequest, "profileId and targetProfileId are required")
		return req, false
	}
	if req.ProfileID == req.TargetProfileID {
		writeError(w, http.StatusBadRequest, "cannot act on your own profile")
		return req, false
	}
	return req, true
}

// HandleLike processes a like, charging quota only after the transition
// succeeded so a failed lookup never burns a like.
func (ic *InteractionController) HandleLike(w http.ResponseWriter, r *http.Request) {
	req, ok := ic.decodeLikeRequest(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	decision, err := ic.Quota.Check(ctx, req.ProfileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !decision.Allowed {
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error":          "daily like limit reached",
			"remainingLikes": decision.Remaining,
			"dailyLimit":     decision.Limit,
			"isPremium":      decision.IsPremium,
		})
		return
	}

	outcome, err := ic.Ledger.ApplyLike(ctx, req.ProfileID, req.TargetProfileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	remaining, err := ic.consumeAfterLike(ctx, req.ProfileID, outcome, decision)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if outcome.Event != nil {
		ic.Notifier.NotifyMatch(*outcome.Event)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"isMatch":        outcome.IsMatch,
		"matchId":        outcome.MatchID,
		"remainingLikes": remaining,
		"dailyLimit":     decision.Limit,
	})
}

// consumeAfterLike charges quota for a like that already committed. A
// concurrent liker can exhaust the quota between Check and Consume; the like
// itself stands, so that race reports success with zero remaining rather
// than a 429 for an applied like.
func (ic *InteractionController) consumeAfterLike(ctx context.Context, profileID string, outcome services.LikeOutcome, decision services.QuotaDecision) (int, error) {
	if outcome.AlreadyLiked || decision.IsPremium {
		return decision.Remaining, nil
	}
	remaining, err := ic.Quota.Consume(ctx, profileID)
	if err != nil {
		if _, ok := services.AsQuotaExceeded(err); ok {
			return 0, nil
		}
		return 0, err
	}
	return remaining, nil
}

// HandleLikeWithMessage processes the premium like-with-message path, which
// forces an immediate match.
func (ic *InteractionController) HandleLikeWithMessage(w http.ResponseWriter, r *http.Request) {
	req, ok := ic.decodeLikeRequest(w, r)
	if !ok {
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	ctx := r.Context()

	decision, err := ic.Quota.Check(ctx, req.ProfileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !decision.Allowed {
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error":          "daily like limit reached",
			"remainingLikes": decision.Remaining,
			"dailyLimit":     decision.Limit,
			"isPremium":      decision.IsPremium,
		})
		return
	}

	outcome, err := ic.Ledger.ApplyLikeWithMessage(ctx, req.ProfileID, req.TargetProfileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	remaining, err := ic.consumeAfterLike(ctx, req.ProfileID, outcome, decision)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if outcome.Event != nil {
		ic.Notifier.NotifyMatch(*outcome.Event)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"isMatch":        outcome.IsMatch,
		"matchId":        outcome.MatchID,
		"remainingLikes": remaining,
		"dailyLimit":     decision.Limit,
		"sentMessage":    req.Message,
	})
}

// HandleDislike records a dislike; dislikes are never quota-limited.
func (ic *InteractionController) HandleDislike(w http.ResponseWriter, r *http.Request) {
	req, ok := ic.decodeLikeRequest(w, r)
	if !ok {
		return
	}

	if err := ic.Ledger.ApplyDislike(r.Context(), req.ProfileID, req.TargetProfileID); err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile disliked"})
}

// HandleUnmatch dissolves a match the caller is a party of.
func (ic *InteractionController) HandleUnmatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileID string `json:"profileId"`
		MatchID   string `json:"matchId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.ProfileID == "" || req.MatchID == "" {
		writeError(w, http.StatusBadRequest, "profileId and matchId are required")
		return
	}

	if err := ic.Ledger.Unmatch(r.Context(), req.ProfileID, req.MatchID); err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"matchId": req.MatchID})
}
