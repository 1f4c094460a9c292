package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emberly_server/models"
)

func coords(lat, lon float64) (*float64, *float64) {
	return &lat, &lon
}

func candidateFixture(id, gender string, keywords ...string) models.Profile {
	return models.Profile{ProfileID: id, Gender: gender, Keywords: keywords}
}

func TestJaccard(t *testing.T) {
	assert.InDelta(t, 1.0/3.0, jaccard([]string{"hiking", "coffee"}, []string{"coffee", "travel"}), 1e-9)
	assert.Equal(t, 1.0, jaccard([]string{"coffee"}, []string{"coffee"}))
	assert.Equal(t, 0.0, jaccard(nil, []string{"coffee"}))
	assert.Equal(t, 0.0, jaccard([]string{"coffee"}, nil))
	// Duplicates must not inflate either set.
	assert.Equal(t, 1.0, jaccard([]string{"coffee"}, []string{"coffee", "coffee"}))
}

func TestRelationshipOverlap(t *testing.T) {
	assert.InDelta(t, 0.5, relationshipOverlap([]string{"serious"}, []string{"serious", "casual"}), 1e-9)
	assert.Equal(t, 1.0, relationshipOverlap([]string{"serious"}, []string{"serious"}))
	assert.Equal(t, 0.0, relationshipOverlap([]string{"serious"}, nil))
}

func TestHaversineKm(t *testing.T) {
	// Two points in central Stockholm, roughly 1.6 km apart.
	d := haversineKm(59.33, 18.07, 59.34, 18.09)
	assert.InDelta(t, 1.6, d, 0.3)

	assert.Zero(t, haversineKm(59.33, 18.07, 59.33, 18.07))
}

func TestDistanceStepScore(t *testing.T) {
	cases := []struct {
		km   float64
		want float64
	}{
		{1, 100}, {5, 100}, {7, 80}, {20, 60}, {40, 40}, {80, 20}, {500, 10},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, distanceStepScore(&c.km), "distance %v km", c.km)
	}
	assert.Equal(t, 10.0, distanceStepScore(nil), "unknown distance lands in the lowest bucket")
}

func TestRankExcludesInteractedProfiles(t *testing.T) {
	ranker := NewRankerService(BasisDistance)
	requester := models.Profile{ProfileID: "alice", GenderPreference: models.PreferenceBoth}

	result := ranker.Rank(&requester, models.PreferenceBoth,
		[]models.Profile{
			candidateFixture("bob", models.GenderMale),
			candidateFixture("carol", models.GenderFemale),
		},
		map[string]struct{}{"bob": {}},
	)

	require.Len(t, result.Profiles, 1)
	assert.Equal(t, "carol", result.Profiles[0].Profile.ProfileID)
}

func TestRankGenderFilter(t *testing.T) {
	ranker := NewRankerService(BasisDistance)
	requester := models.Profile{ProfileID: "alice"}
	pool := []models.Profile{
		candidateFixture("m1", models.GenderMale),
		candidateFixture("f1", models.GenderFemale),
		candidateFixture("o1", models.GenderOther),
	}

	ids := func(result RankResult) []string {
		out := make([]string, 0, len(result.Profiles))
		for _, rp := range result.Profiles {
			out = append(out, rp.Profile.ProfileID)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"m1"}, ids(ranker.Rank(&requester, models.PreferenceMen, pool, nil)))
	assert.ElementsMatch(t, []string{"f1"}, ids(ranker.Rank(&requester, models.PreferenceWomen, pool, nil)))
	assert.ElementsMatch(t, []string{"m1", "f1", "o1"}, ids(ranker.Rank(&requester, models.PreferenceBoth, pool, nil)))
}

func TestRankLocalModeRadiusGate(t *testing.T) {
	requester := models.Profile{ProfileID: "alice", LocationMode: models.LocationModeLocal}
	requester.Latitude, requester.Longitude = coords(59.33, 18.07)

	near := candidateFixture("near", models.GenderFemale)
	near.Latitude, near.Longitude = coords(59.34, 18.09)
	far := candidateFixture("far", models.GenderFemale)
	far.Latitude, far.Longitude = coords(48.85, 2.35) // Paris, way past 50 km

	ranker := NewRankerService(BasisDistance)
	result := ranker.Rank(&requester, models.PreferenceBoth, []models.Profile{near, far}, nil)

	require.Len(t, result.Profiles, 1)
	assert.Equal(t, "near", result.Profiles[0].Profile.ProfileID)
	assert.Nil(t, result.Suggestion)
}

func TestRankSuggestsGlobalModeWhenRadiusEmpty(t *testing.T) {
	requester := models.Profile{ProfileID: "alice", LocationMode: models.LocationModeLocal}
	requester.Latitude, requester.Longitude = coords(59.33, 18.07)

	far := candidateFixture("far", models.GenderFemale)
	far.Latitude, far.Longitude = coords(48.85, 2.35)

	ranker := NewRankerService(BasisDistance)
	result := ranker.Rank(&requester, models.PreferenceBoth, []models.Profile{far}, nil)

	assert.Empty(t, result.Profiles)
	require.NotNil(t, result.Suggestion)
	assert.Equal(t, models.LocationModeGlobal, result.Suggestion.NewMode)
}

func TestRankNoSuggestionWhenPoolEmptyBeforeRadius(t *testing.T) {
	requester := models.Profile{ProfileID: "alice", LocationMode: models.LocationModeLocal}
	requester.Latitude, requester.Longitude = coords(59.33, 18.07)

	// The only candidate falls to the gender filter, not the radius; going
	// global would not help, so no suggestion.
	male := candidateFixture("m1", models.GenderMale)
	male.Latitude, male.Longitude = coords(48.85, 2.35)

	ranker := NewRankerService(BasisDistance)
	result := ranker.Rank(&requester, models.PreferenceWomen, []models.Profile{male}, nil)

	assert.Empty(t, result.Profiles)
	assert.Nil(t, result.Suggestion)
}

func TestRankDistanceBasisOrdering(t *testing.T) {
	requester := models.Profile{ProfileID: "alice", Keywords: []string{"hiking", "coffee"}}
	requester.Latitude, requester.Longitude = coords(59.33, 18.07)

	near := candidateFixture("near", models.GenderFemale, "coffee", "travel")
	near.Latitude, near.Longitude = coords(59.34, 18.09)
	distant := candidateFixture("distant", models.GenderFemale, "coffee", "travel")
	distant.Latitude, distant.Longitude = coords(59.90, 18.07) // ~63 km north

	ranker := NewRankerService(BasisDistance)
	result := ranker.Rank(&requester, models.PreferenceBoth, []models.Profile{distant, near}, nil)

	require.Len(t, result.Profiles, 2)
	assert.Equal(t, "near", result.Profiles[0].Profile.ProfileID)
	assert.Greater(t, result.Profiles[0].Score, result.Profiles[1].Score)
	// Equal keyword overlap: the difference is purely the proximity step,
	// 0.6*(1/3) + 0.4*(step/100).
	assert.InDelta(t, 0.6*(1.0/3.0)+0.4*1.0, result.Profiles[0].Score, 1e-9)
	assert.InDelta(t, 0.6*(1.0/3.0)+0.4*0.2, result.Profiles[1].Score, 1e-9)
}

func TestRankRelationshipBasisOrdering(t *testing.T) {
	requester := models.Profile{
		ProfileID:         "alice",
		Keywords:          []string{"hiking"},
		RelationshipTypes: []string{"serious"},
	}

	aligned := candidateFixture("aligned", models.GenderFemale, "hiking")
	aligned.RelationshipTypes = []string{"serious"}
	misaligned := candidateFixture("misaligned", models.GenderFemale, "hiking")
	misaligned.RelationshipTypes = []string{"casual"}

	ranker := NewRankerService(BasisRelationship)
	result := ranker.Rank(&requester, models.PreferenceBoth, []models.Profile{misaligned, aligned}, nil)

	require.Len(t, result.Profiles, 2)
	assert.Equal(t, "aligned", result.Profiles[0].Profile.ProfileID)
	assert.InDelta(t, 0.4*1.0+0.6*1.0, result.Profiles[0].Score, 1e-9)
	assert.InDelta(t, 0.4*1.0+0.6*0.0, result.Profiles[1].Score, 1e-9)
}

func TestRankIsDeterministic(t *testing.T) {
	requester := models.Profile{ProfileID: "alice", Keywords: []string{"coffee"}}
	pool := []models.Profile{
		candidateFixture("b", models.GenderFemale, "coffee"),
		candidateFixture("a", models.GenderFemale, "coffee"),
		candidateFixture("c", models.GenderFemale, "coffee"),
	}

	ranker := NewRankerService(BasisDistance)
	first := ranker.Rank(&requester, models.PreferenceBoth, pool, nil)
	second := ranker.Rank(&requester, models.PreferenceBoth, pool, nil)

	assert.Equal(t, first, second, "same snapshot in, same ordering out")
}

func TestNewRankerServiceDefaultsToDistance(t *testing.T) {
	assert.Equal(t, BasisDistance, NewRankerService("").Basis)
	assert.Equal(t, BasisDistance, NewRankerService("nonsense").Basis)
	assert.Equal(t, BasisRelationship, NewRankerService(BasisRelationship).Basis)
}
