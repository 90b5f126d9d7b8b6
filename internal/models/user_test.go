package models

import (
	"reflect"
	"testing"
)

func TestInterestTags_RoundTrip(t *testing.T) {
	u := &User{}
	u.SetInterestTags([]string{"coffee", "board games", "hiking"})

	got := u.InterestTags()
	want := []string{"coffee", "board games", "hiking"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("InterestTags() = %v, want %v", got, want)
	}
}

func TestInterestTags_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		interests string
	}{
		{name: "Empty column", interests: ""},
		{name: "Corrupt JSON", interests: "{not json"},
		{name: "Wrong type", interests: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Interests: tt.interests}
			if tags := u.InterestTags(); tags != nil {
				t.Errorf("InterestTags() = %v, want nil", tags)
			}
		})
	}
}

func TestSetInterestTags_Nil(t *testing.T) {
	u := &User{}
	u.SetInterestTags(nil)

	if u.Interests != "[]" {
		t.Errorf("Interests = %q, want %q", u.Interests, "[]")
	}
}

func TestHasLocation(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{name: "No location", lat: 0, lng: 0, want: false},
		{name: "Shared location", lat: 35.6892, lng: 51.3890, want: true},
		{name: "On the equator", lat: 0, lng: 51.3890, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Latitude: tt.lat, Longitude: tt.lng}
			if got := u.HasLocation(); got != tt.want {
				t.Errorf("HasLocation() = %v, want %v", got, tt.want)
			}
		})
	}
}
