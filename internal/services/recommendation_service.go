package services

import (
	"context"
	"sort"
	"strings"

	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/internal/places"
	"github.com/mehrdadh/hangout_bot/internal/repositories"
	"github.com/mehrdadh/hangout_bot/pkg/errors"
	"github.com/mehrdadh/hangout_bot/pkg/geo"
	"github.com/mehrdadh/hangout_bot/pkg/logger"
)

// Candidate is a ranked recommendation. Derived per aggregation, never
// persisted.
type Candidate struct {
	Name        string
	Category    string
	PriceTier   int
	DistanceKm  float64
	Rating      float64
	Description string
	Latitude    float64
	Longitude   float64
}

// EffectiveConstraints are the group-wide limits reduced from individual
// responses: the most conservative member wins on hard limits, the median
// wins on time of day.
type EffectiveConstraints struct {
	PriceCeiling    int
	DistanceKm      float64
	TimeOfDay       float64
	PreferenceHints []string
}

type RecommendationService struct {
	search        places.Searcher
	placeRepo     *repositories.PlaceRepository
	maxCandidates int
	fallbackLimit int
}

func NewRecommendationService(search places.Searcher, placeRepo *repositories.PlaceRepository, maxCandidates, fallbackLimit int) *RecommendationService {
	return &RecommendationService{
		search:        search,
		placeRepo:     placeRepo,
		maxCandidates: maxCandidates,
		fallbackLimit: fallbackLimit,
	}
}

// Aggregate turns member locations and responses into a ranked candidate
// list. Search failure degrades to the seeded catalog; zero candidates
// within constraints is a valid empty result.
func (s *RecommendationService) Aggregate(ctx context.Context, memberLocations []geo.Point, responses []models.HangoutResponse) ([]Candidate, error) {
	centroid, ok := geo.Centroid(memberLocations)
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, "no member locations available")
	}
	if len(responses) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "no responses to aggregate")
	}

	constraints := ReduceConstraints(responses)

	found, err := s.search.Search(ctx, centroid, constraints.DistanceKm, constraints.PreferenceHints)
	if err != nil {
		logger.Warn("Place search unavailable, using fallback catalog", "error", err)
		found, err = s.fallbackPlaces()
		if err != nil {
			return nil, err
		}
	}

	return s.rank(found, centroid, constraints), nil
}

// ReduceConstraints collapses individual responses into group-wide limits.
func ReduceConstraints(responses []models.HangoutResponse) EffectiveConstraints {
	constraints := EffectiveConstraints{}

	times := make([]float64, 0, len(responses))
	var hintText strings.Builder

	for i, resp := range responses {
		if i == 0 || resp.PriceLimit < constraints.PriceCeiling {
			constraints.PriceCeiling = resp.PriceLimit
		}
		if i == 0 || resp.DistanceLimitKm < constraints.DistanceKm {
			constraints.DistanceKm = resp.DistanceLimitKm
		}
		times = append(times, resp.TimeOfDay)

		if resp.Preference != "" {
			hintText.WriteString(resp.Preference)
			hintText.WriteString(" ")
		}
	}

	constraints.TimeOfDay = median(times)
	constraints.PreferenceHints = deriveHints(hintText.String(), constraints.TimeOfDay)

	return constraints
}

func (s *RecommendationService) fallbackPlaces() ([]places.Place, error) {
	catalog, err := s.placeRepo.ListPlaces(s.fallbackLimit)
	if err != nil {
		return nil, err
	}

	converted := make([]places.Place, 0, len(catalog))
	for _, p := range catalog {
		converted = append(converted, places.Place{
			Name:        p.Name,
			Category:    p.Category,
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
			PriceTier:   p.PriceTier,
			Rating:      p.Rating,
			Description: p.Description,
		})
	}

	return converted, nil
}

// rank filters out candidates over the price ceiling or outside the
// distance ceiling, sorts by distance ascending with rating as tiebreaker,
// and caps the list.
func (s *RecommendationService) rank(found []places.Place, centroid geo.Point, constraints EffectiveConstraints) []Candidate {
	candidates := make([]Candidate, 0, len(found))

	for _, p := range found {
		if p.PriceTier > constraints.PriceCeiling {
			continue
		}

		distance := geo.HaversineKm(centroid, geo.Point{Lat: p.Latitude, Lng: p.Longitude})
		if distance > constraints.DistanceKm {
			continue
		}

		candidates = append(candidates, Candidate{
			Name:        p.Name,
			Category:    p.Category,
			PriceTier:   p.PriceTier,
			DistanceKm:  distance,
			Rating:      p.Rating,
			Description: p.Description,
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].DistanceKm != candidates[j].DistanceKm {
			return candidates[i].DistanceKm < candidates[j].DistanceKm
		}
		return candidates[i].Rating > candidates[j].Rating
	})

	if len(candidates) > s.maxCandidates {
		candidates = candidates[:s.maxCandidates]
	}

	return candidates
}

// median returns the middle value, or the mean of the two middle values for
// an even count. Robust to one outlier member.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// deriveHints tokenizes the concatenated preference text into category
// hints and appends a daypart hint from the effective time of day.
func deriveHints(text string, timeOfDay float64) []string {
	const maxHints = 10

	seen := make(map[string]bool)
	hints := make([]string, 0, maxHints)

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'()")
		if len(word) < 4 || seen[word] {
			continue
		}
		seen[word] = true
		hints = append(hints, word)
		if len(hints) == maxHints {
			break
		}
	}

	return append(hints, daypart(timeOfDay))
}

func daypart(timeOfDay float64) string {
	switch {
	case timeOfDay < 6:
		return "night"
	case timeOfDay < 12:
		return "morning"
	case timeOfDay < 17:
		return "afternoon"
	case timeOfDay < 21:
		return "evening"
	default:
		return "night"
	}
}
