package userdata

import (
	"testing"

	"github.com/joelkehle/summit-agenda/internal/session"
)

func recommendFixture() []session.Session {
	return []session.Session{
		{SessionID: "seed", Title: "Seed", Track: "Data Engineering", Level: "Advanced"},
		{SessionID: "same-track", Title: "Same Track", Track: "Data Engineering", Level: "Beginner"},
		{SessionID: "same-level", Title: "Same Level", Track: "MLOps", Level: "Advanced"},
		{SessionID: "unrelated", Title: "Unrelated", Track: "Analytics", Level: "Beginner"},
	}
}

func TestRecommendByTrackAndLevel(t *testing.T) {
	st := newTestStore(t)
	if err := st.SetRating("seed", 5, ""); err != nil {
		t.Fatal(err)
	}

	got, err := st.Recommend(recommendFixture(), 4)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.SessionID
	}
	if len(ids) != 2 || ids[0] != "same-track" || ids[1] != "same-level" {
		t.Fatalf("recommendations = %v, want [same-track same-level]", ids)
	}
}

func TestRecommendExcludesSeeds(t *testing.T) {
	st := newTestStore(t)
	if err := st.SetRating("seed", 5, ""); err != nil {
		t.Fatal(err)
	}
	got, err := st.Recommend(recommendFixture(), 4)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range got {
		if s.SessionID == "seed" {
			t.Fatal("seed session recommended back to the user")
		}
	}
}

func TestRecommendNoSeedsNoResults(t *testing.T) {
	st := newTestStore(t)
	if err := st.SetRating("seed", 2, ""); err != nil {
		t.Fatal(err)
	}
	got, err := st.Recommend(recommendFixture(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected no recommendations below the rating floor, got %v", got)
	}
}
