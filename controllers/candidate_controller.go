package controllers

import (
	"context"
	"net/http"

	"emberly_server/models"
	"emberly_server/services"
)

// InteractionHistory exposes the ledger's exclusion set for ranking.
type InteractionHistory interface {
	InteractedProfileIDs(ctx context.Context, profileID string) (map[string]struct{}, error)
}

// CandidateRanker scores a candidate snapshot for one requester.
type CandidateRanker interface {
	Rank(requester *models.Profile, genderPreference string, candidates []models.Profile, interacted map[string]struct{}) services.RankResult
}

// CandidateController serves the ranked candidate feed.
type CandidateController struct {
	Profiles services.ProfileReader
	History  InteractionHistory
	Ranker   CandidateRanker
}

// NewCandidateController creates a new CandidateController instance
func NewCandidateController(profiles services.ProfileReader, history InteractionHistory, ranker CandidateRanker) *CandidateController {
	return &CandidateController{Profiles: profiles, History: history, Ranker: ranker}
}

// HandleGetCandidates returns the ranked, unseen candidates for a profile.
// An optional genderPreference query param overrides the stored preference
// for this request only.
func (cc *CandidateController) HandleGetCandidates(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profileId")
	if profileID == "" {
		writeError(w, http.StatusBadRequest, "profileId is required")
		return
	}
	ctx := r.Context()

	requester, err := cc.Profiles.GetProfile(ctx, profileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	genderPreference := r.URL.Query().Get("genderPreference")
	if genderPreference == "" {
		genderPreference = requester.GenderPreference
	}

	candidates, err := cc.Profiles.ListVisibleCandidates(ctx, profileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	interacted, err := cc.History.InteractedProfileIDs(ctx, profileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	result := cc.Ranker.Rank(requester, genderPreference, candidates, interacted)

	payload := map[string]interface{}{"profiles": result.Profiles}
	if result.Suggestion != nil {
		payload["suggestion"] = result.Suggestion
	}
	writeJSON(w, http.StatusOK, payload)
}
