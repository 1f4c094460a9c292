package services

import (
	"math"
	"sort"

	"emberly_server/models"
)

// Ranking bases. A deployment ranks either by relationship-type overlap or
// by distance; keyword overlap contributes in both.
const (
	BasisRelationship = "relationship"
	BasisDistance     = "distance"
)

const (
	earthRadiusKm = 6371.0
	localRadiusKm = 50.0
)

// RankedProfile is one scored candidate in the response.
type RankedProfile struct {
	Profile    models.Profile `json:"profile"`
	Score      float64        `json:"score"`
	DistanceKm *float64       `json:"distanceKm,omitempty"`
}

// ModeSuggestion tells a local-mode caller whose radius came up empty to
// switch to global mode rather than silently widening the search for them.
type ModeSuggestion struct {
	Type    string `json:"type"`
	NewMode string `json:"newMode"`
}

// RankResult is the ranker's output for one request.
type RankResult struct {
	Profiles   []RankedProfile
	Suggestion *ModeSuggestion
}

// RankerService filters and scores unseen candidate profiles. It is pure
// and read-only: same snapshot in, same ordering out, safe to re-run for
// pagination and to call with arbitrary parallelism.
type RankerService struct {
	Basis string
}

func NewRankerService(basis string) *RankerService {
	if basis != BasisRelationship {
		basis = BasisDistance
	}
	return &RankerService{Basis: basis}
}

// Rank runs the pipeline: interaction exclusion, gender filter, local-mode
// radius gate, composite scoring, deterministic sort.
func (rs *RankerService) Rank(
	requester *models.Profile,
	genderPreference string,
	candidates []models.Profile,
	interacted map[string]struct{},
) RankResult {
	targetGender := mapPreferredGender(genderPreference)

	localMode := requester.LocationMode == models.LocationModeLocal && requester.HasCoordinates()
	hadBeforeRadiusGate := false

	ranked := make([]RankedProfile, 0, len(candidates))
	for i := range candidates {
		candidate := candidates[i]

		if _, seen := interacted[candidate.ProfileID]; seen {
			continue
		}
		if targetGender != "" && candidate.Gender != targetGender {
			continue
		}

		var distanceKm *float64
		if requester.HasCoordinates() && candidate.HasCoordinates() {
			d := haversineKm(*requester.Latitude, *requester.Longitude, *candidate.Latitude, *candidate.Longitude)
			distanceKm = &d
		}

		if localMode && distanceKm != nil {
			hadBeforeRadiusGate = true
			if *distanceKm > localRadiusKm {
				continue
			}
		}

		ranked = append(ranked, RankedProfile{
			Profile:    candidate,
			Score:      rs.compositeScore(requester, &candidate, distanceKm),
			DistanceKm: distanceKm,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].DistanceKm != nil && ranked[j].DistanceKm != nil {
			return *ranked[i].DistanceKm < *ranked[j].DistanceKm
		}
		return false
	})

	result := RankResult{Profiles: ranked}
	if localMode && len(ranked) == 0 && hadBeforeRadiusGate {
		result.Suggestion = &ModeSuggestion{Type: "enable_global_mode", NewMode: models.LocationModeGlobal}
	}
	return result
}

func (rs *RankerService) compositeScore(requester, candidate *models.Profile, distanceKm *float64) float64 {
	kw := jaccard(requester.Keywords, candidate.Keywords)

	if rs.Basis == BasisRelationship {
		return 0.4*kw + 0.6*relationshipOverlap(requester.RelationshipTypes, candidate.RelationshipTypes)
	}

	return 0.6*kw + 0.4*(distanceStepScore(distanceKm)/100.0)
}

// jaccard computes |A ∩ B| / |A ∪ B| over normalized keyword sets; 0 when
// either set is empty.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, kw := range a {
		setA[kw] = struct{}{}
	}

	intersection := 0
	union := len(setA)
	seenB := make(map[string]struct{}, len(b))
	for _, kw := range b {
		if _, dup := seenB[kw]; dup {
			continue
		}
		seenB[kw] = struct{}{}
		if _, ok := setA[kw]; ok {
			intersection++
		} else {
			union++
		}
	}

	return float64(intersection) / float64(union)
}

// relationshipOverlap is |A ∩ B| / max(|A|, |B|); 0 when either is empty.
func relationshipOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	intersection := 0
	for _, t := range b {
		if _, ok := setA[t]; ok {
			intersection++
		}
	}

	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	return float64(intersection) / float64(larger)
}

// distanceStepScore is the proximity step function: closer buckets score
// higher, unknown distance lands in the lowest bucket.
func distanceStepScore(distanceKm *float64) float64 {
	if distanceKm == nil {
		return 10
	}
	d := *distanceKm
	switch {
	case d <= 5:
		return 100
	case d <= 10:
		return 80
	case d <= 25:
		return 60
	case d <= 50:
		return 40
	case d <= 100:
		return 20
	default:
		return 10
	}
}

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0
	rLat1 := lat1 * math.Pi / 180.0
	rLat2 := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// mapPreferredGender maps a gender preference onto the stored gender value
// it selects; empty means no filter.
func mapPreferredGender(preference string) string {
	switch preference {
	case models.PreferenceMen:
		return models.GenderMale
	case models.PreferenceWomen:
		return models.GenderFemale
	default:
		return ""
	}
}
