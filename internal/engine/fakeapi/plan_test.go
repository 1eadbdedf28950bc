package fakeapi

import (
	"testing"

	"github.com/rendis/tourplan/internal/model"
)

func TestPlanResolvesCoordinates(t *testing.T) {
	two := 2
	it, err := plan(DefaultFixtures(), model.ItineraryRequest{
		Wilaya:         "36.36, 6.61",
		Location:       "36.36, 6.61",
		Activities:     []string{"historical", "religious", "museum"},
		Budget:         200000,
		MaxAttractions: &two,
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if it.Days[0].Location != "Constantine" {
		t.Errorf("Expected Constantine, got %s", it.Days[0].Location)
	}
	if len(it.Days) != 2 || len(it.Days[0].Activities) != 2 || len(it.Days[1].Activities) != 1 {
		t.Errorf("Expected 2+1 activities over 2 days, got %+v", it.Days)
	}
	if it.Days[0].Activities[0].Time != "9:00" || it.Days[0].Activities[1].Time != "11:00" {
		t.Errorf("unexpected activity times")
	}
}

func TestPlanPlaceholderHotelWhenOverBudget(t *testing.T) {
	it, err := plan(DefaultFixtures(), model.ItineraryRequest{
		Wilaya:     "Ghardaia",
		Location:   "Ghardaia",
		Activities: []string{"historical"},
		Budget:     600,
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !it.Days[0].Accommodation.IsPlaceholder() {
		t.Errorf("Expected placeholder hotel, got %+v", it.Days[0].Accommodation)
	}
	if it.RemainingBudget != 100 {
		t.Errorf("Expected 100 left, got %v", it.RemainingBudget)
	}
}

func TestPlanInfeasible(t *testing.T) {
	_, err := plan(DefaultFixtures(), model.ItineraryRequest{
		Wilaya: "Oran", Location: "Oran", Activities: []string{"skiing"}, Budget: 1000,
	})
	if err == nil {
		t.Errorf("expected infeasible plan")
	}
	if _, err := plan(DefaultFixtures(), model.ItineraryRequest{Wilaya: "Atlantis", Location: "nowhere", Activities: []string{"beach"}, Budget: 10}); err == nil {
		t.Errorf("expected unknown region error")
	}
}
