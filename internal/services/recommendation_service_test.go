package services

import (
	"context"
	"testing"

	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/internal/places"
	"github.com/mehrdadh/hangout_bot/pkg/errors"
	"github.com/mehrdadh/hangout_bot/pkg/geo"
)

// searcherFunc adapts a function to the places.Searcher interface for tests.
type searcherFunc func(ctx context.Context, center geo.Point, radiusKm float64, categoryHints []string) ([]places.Place, error)

func (f searcherFunc) Search(ctx context.Context, center geo.Point, radiusKm float64, categoryHints []string) ([]places.Place, error) {
	return f(ctx, center, radiusKm, categoryHints)
}

func staticSearcher(results []places.Place) searcherFunc {
	return func(ctx context.Context, center geo.Point, radiusKm float64, categoryHints []string) ([]places.Place, error) {
		return results, nil
	}
}

func failingSearcher() searcherFunc {
	return func(ctx context.Context, center geo.Point, radiusKm float64, categoryHints []string) ([]places.Place, error) {
		return nil, errors.New(errors.ErrCodeUpstreamUnavailable, "search down")
	}
}

func responsesWith(prices []int, distances []float64, times []float64) []models.HangoutResponse {
	responses := make([]models.HangoutResponse, len(prices))
	for i := range prices {
		responses[i] = models.HangoutResponse{
			PriceLimit:      prices[i],
			DistanceLimitKm: distances[i],
			TimeOfDay:       times[i],
		}
	}
	return responses
}

func TestReduceConstraints(t *testing.T) {
	responses := responsesWith(
		[]int{20, 50, 30},
		[]float64{5, 10, 3},
		[]float64{9, 13, 20},
	)

	constraints := ReduceConstraints(responses)

	if constraints.PriceCeiling != 20 {
		t.Errorf("PriceCeiling = %d, want 20", constraints.PriceCeiling)
	}
	if constraints.DistanceKm != 3 {
		t.Errorf("DistanceKm = %f, want 3", constraints.DistanceKm)
	}
	if constraints.TimeOfDay != 13 {
		t.Errorf("TimeOfDay = %f, want 13", constraints.TimeOfDay)
	}
}

func TestReduceConstraints_EvenCountMedian(t *testing.T) {
	responses := responsesWith(
		[]int{10, 10},
		[]float64{5, 5},
		[]float64{12, 14},
	)

	if c := ReduceConstraints(responses); c.TimeOfDay != 13 {
		t.Errorf("TimeOfDay = %f, want 13 (mean of middle pair)", c.TimeOfDay)
	}
}

func TestReduceConstraints_PreferenceHints(t *testing.T) {
	responses := []models.HangoutResponse{
		{PriceLimit: 10, DistanceLimitKm: 5, TimeOfDay: 19, Preference: "Cheap pizza, board games!"},
		{PriceLimit: 10, DistanceLimitKm: 5, TimeOfDay: 19, Preference: "pizza or tea again"},
	}

	constraints := ReduceConstraints(responses)

	// "pizza" deduplicated, "or"/"tea" under the minimum token length,
	// "evening" appended from the 19:00 median
	want := map[string]bool{"cheap": true, "pizza": true, "board": true, "games": true, "again": true, "evening": true}
	for _, hint := range constraints.PreferenceHints {
		if !want[hint] {
			t.Errorf("unexpected hint %q", hint)
		}
		delete(want, hint)
	}
	for missing := range want {
		t.Errorf("missing hint %q", missing)
	}
}

func TestAggregate_EmptyLocations(t *testing.T) {
	env := newTestEnv(t)
	svc := NewRecommendationService(staticSearcher(nil), env.placeRepo, 7, 50)

	_, err := svc.Aggregate(context.Background(), nil, responsesWith([]int{10}, []float64{5}, []float64{12}))
	if !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("Aggregate() error = %v, want VALIDATION_ERROR", err)
	}
}

func TestAggregate_EmptyResponses(t *testing.T) {
	env := newTestEnv(t)
	svc := NewRecommendationService(staticSearcher(nil), env.placeRepo, 7, 50)

	_, err := svc.Aggregate(context.Background(), []geo.Point{{Lat: 35.7, Lng: 51.4}}, nil)
	if !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("Aggregate() error = %v, want VALIDATION_ERROR", err)
	}
}

func TestAggregate_FilterAndRank(t *testing.T) {
	env := newTestEnv(t)

	found := []places.Place{
		{Name: "Too Pricey", PriceTier: 9, Latitude: 35.701, Longitude: 51.401, Rating: 5},
		{Name: "Too Far", PriceTier: 1, Latitude: 36.5, Longitude: 52.0, Rating: 5},
		{Name: "Further In Range", PriceTier: 2, Latitude: 35.72, Longitude: 51.42, Rating: 3.9},
		{Name: "Nearest", PriceTier: 1, Latitude: 35.701, Longitude: 51.401, Rating: 4.2},
	}

	svc := NewRecommendationService(staticSearcher(found), env.placeRepo, 7, 50)

	candidates, err := svc.Aggregate(
		context.Background(),
		[]geo.Point{{Lat: 35.70, Lng: 51.40}},
		responsesWith([]int{3}, []float64{10}, []float64{18}),
	)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("Aggregate() returned %d candidates, want 2 (price and distance filters)", len(candidates))
	}
	if candidates[0].Name != "Nearest" {
		t.Errorf("first candidate = %q, want Nearest", candidates[0].Name)
	}
	if candidates[1].Name != "Further In Range" {
		t.Errorf("second candidate = %q, want Further In Range", candidates[1].Name)
	}
	if candidates[0].DistanceKm <= 0 || candidates[0].DistanceKm > 1 {
		t.Errorf("Nearest distance = %f km, want within 1 km", candidates[0].DistanceKm)
	}
}

func TestAggregate_TieBrokenByRating(t *testing.T) {
	env := newTestEnv(t)

	found := []places.Place{
		{Name: "Lower Rated", PriceTier: 1, Latitude: 35.701, Longitude: 51.401, Rating: 3.0},
		{Name: "Higher Rated", PriceTier: 1, Latitude: 35.701, Longitude: 51.401, Rating: 4.9},
	}

	svc := NewRecommendationService(staticSearcher(found), env.placeRepo, 7, 50)

	candidates, err := svc.Aggregate(
		context.Background(),
		[]geo.Point{{Lat: 35.70, Lng: 51.40}},
		responsesWith([]int{5}, []float64{10}, []float64{18}),
	)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if len(candidates) != 2 || candidates[0].Name != "Higher Rated" {
		t.Errorf("candidates = %+v, want Higher Rated first", candidates)
	}
}

func TestAggregate_Capped(t *testing.T) {
	env := newTestEnv(t)

	var found []places.Place
	for i := 0; i < 12; i++ {
		found = append(found, places.Place{
			Name:      string(rune('A' + i)),
			PriceTier: 1,
			Latitude:  35.701,
			Longitude: 51.401,
		})
	}

	svc := NewRecommendationService(staticSearcher(found), env.placeRepo, 7, 50)

	candidates, err := svc.Aggregate(
		context.Background(),
		[]geo.Point{{Lat: 35.70, Lng: 51.40}},
		responsesWith([]int{5}, []float64{10}, []float64{18}),
	)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if len(candidates) != 7 {
		t.Errorf("Aggregate() returned %d candidates, want cap of 7", len(candidates))
	}
}

func TestAggregate_FallbackOnSearchFailure(t *testing.T) {
	env := newTestEnv(t)
	env.seedPlaces(t)

	svc := NewRecommendationService(failingSearcher(), env.placeRepo, 7, 50)

	candidates, err := svc.Aggregate(
		context.Background(),
		[]geo.Point{{Lat: 35.70, Lng: 51.40}},
		responsesWith([]int{3}, []float64{10}, []float64{18}),
	)
	if err != nil {
		t.Fatalf("Aggregate() error = %v, want fallback, not error", err)
	}

	if len(candidates) == 0 {
		t.Fatal("Aggregate() returned no candidates from fallback catalog")
	}
	for _, c := range candidates {
		if c.PriceTier > 3 {
			t.Errorf("fallback candidate %q has tier %d over ceiling 3", c.Name, c.PriceTier)
		}
	}
}

func TestAggregate_NoCandidatesIsNotAnError(t *testing.T) {
	env := newTestEnv(t)

	svc := NewRecommendationService(staticSearcher(nil), env.placeRepo, 7, 50)

	candidates, err := svc.Aggregate(
		context.Background(),
		[]geo.Point{{Lat: 35.70, Lng: 51.40}},
		responsesWith([]int{3}, []float64{10}, []float64{18}),
	)
	if err != nil {
		t.Fatalf("Aggregate() error = %v, want empty result without error", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Aggregate() returned %d candidates, want 0", len(candidates))
	}
}

func TestDaypart(t *testing.T) {
	tests := []struct {
		timeOfDay float64
		want      string
	}{
		{timeOfDay: 2, want: "night"},
		{timeOfDay: 8.5, want: "morning"},
		{timeOfDay: 13.5, want: "afternoon"},
		{timeOfDay: 19, want: "evening"},
		{timeOfDay: 22, want: "night"},
	}

	for _, tt := range tests {
		if got := daypart(tt.timeOfDay); got != tt.want {
			t.Errorf("daypart(%f) = %q, want %q", tt.timeOfDay, got, tt.want)
		}
	}
}
