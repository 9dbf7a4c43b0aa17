package userdata

import (
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := NewStore(filepath.Join(t.TempDir(), "annotations.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSetRatingAndAnnotations(t *testing.T) {
	st := newTestStore(t)
	if err := st.SetRating("s1", 4, "solid talk"); err != nil {
		t.Fatalf("SetRating: %v", err)
	}

	ann, err := st.Annotations("s1")
	if err != nil {
		t.Fatalf("Annotations: %v", err)
	}
	if !ann.HasRating || ann.Rating != 4 || ann.RatingNotes != "solid talk" {
		t.Fatalf("annotations = %+v", ann)
	}
	if ann.HasInterest {
		t.Fatalf("unexpected interest on fresh rating: %+v", ann)
	}
}

func TestSetRatingReplaces(t *testing.T) {
	st := newTestStore(t)
	if err := st.SetRating("s1", 2, "meh"); err != nil {
		t.Fatal(err)
	}
	if err := st.SetRating("s1", 5, "rewatched, great"); err != nil {
		t.Fatal(err)
	}
	ann, err := st.Annotations("s1")
	if err != nil {
		t.Fatal(err)
	}
	if ann.Rating != 5 || ann.RatingNotes != "rewatched, great" {
		t.Fatalf("annotations = %+v", ann)
	}
}

func TestSetRatingValidatesRange(t *testing.T) {
	st := newTestStore(t)
	for _, bad := range []int{0, -1, 6} {
		if err := st.SetRating("s1", bad, ""); err == nil {
			t.Errorf("SetRating(%d) accepted an out-of-range rating", bad)
		}
	}
}

func TestRemoveRatingKeepsInterest(t *testing.T) {
	st := newTestStore(t)
	if err := st.SetRating("s1", 3, ""); err != nil {
		t.Fatal(err)
	}
	if err := st.SetInterest("s1", 0.8, "maybe"); err != nil {
		t.Fatal(err)
	}
	if err := st.RemoveRating("s1"); err != nil {
		t.Fatal(err)
	}

	ann, err := st.Annotations("s1")
	if err != nil {
		t.Fatal(err)
	}
	if ann.HasRating {
		t.Fatalf("rating survived removal: %+v", ann)
	}
	if !ann.HasInterest || ann.Interest != 0.8 || ann.InterestNotes != "maybe" {
		t.Fatalf("interest lost on rating removal: %+v", ann)
	}
}

func TestSetInterestZeroRemoves(t *testing.T) {
	st := newTestStore(t)
	if err := st.SetInterest("s1", 0.9, ""); err != nil {
		t.Fatal(err)
	}
	if err := st.SetInterest("s1", 0, ""); err != nil {
		t.Fatal(err)
	}
	ann, err := st.Annotations("s1")
	if err != nil {
		t.Fatal(err)
	}
	if ann.HasInterest {
		t.Fatalf("interest survived zero-level set: %+v", ann)
	}
}

func TestTagsLifecycle(t *testing.T) {
	st := newTestStore(t)
	if err := st.AddTags("s1", []string{"ml", "must-see", "ml", "  ", ""}); err != nil {
		t.Fatalf("AddTags: %v", err)
	}
	tags, err := st.TagsFor("s1")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"ml", "must-see"}; !reflect.DeepEqual(tags, want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}

	if err := st.RemoveTags("s1", []string{"ml"}); err != nil {
		t.Fatal(err)
	}
	tags, err = st.TagsFor("s1")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"must-see"}; !reflect.DeepEqual(tags, want) {
		t.Fatalf("tags after removal = %v, want %v", tags, want)
	}
}

func TestTagCounts(t *testing.T) {
	st := newTestStore(t)
	if err := st.AddTags("s1", []string{"ml", "must-see"}); err != nil {
		t.Fatal(err)
	}
	if err := st.AddTags("s2", []string{"ml"}); err != nil {
		t.Fatal(err)
	}
	counts, err := st.TagCounts()
	if err != nil {
		t.Fatal(err)
	}
	if want := map[string]int{"ml": 2, "must-see": 1}; !reflect.DeepEqual(counts, want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}
}

func TestHighlyRated(t *testing.T) {
	st := newTestStore(t)
	if err := st.SetRating("low", 2, ""); err != nil {
		t.Fatal(err)
	}
	if err := st.SetRating("high-b", 5, ""); err != nil {
		t.Fatal(err)
	}
	if err := st.SetRating("high-a", 4, ""); err != nil {
		t.Fatal(err)
	}
	got, err := st.HighlyRated(4)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"high-a", "high-b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("HighlyRated = %v, want %v", got, want)
	}
}

func TestAnnotationsForUnknownSession(t *testing.T) {
	st := newTestStore(t)
	ann, err := st.Annotations("missing")
	if err != nil {
		t.Fatalf("Annotations: %v", err)
	}
	if ann.HasRating || ann.HasInterest || len(ann.Tags) != 0 {
		t.Fatalf("expected empty annotations, got %+v", ann)
	}
}
