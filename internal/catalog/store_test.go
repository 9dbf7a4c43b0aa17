package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/joelkehle/summit-agenda/internal/session"
)

func testCandidates() []session.Session {
	return []session.Session{
		{
			SessionID:   "b-governed-tables",
			Title:       "Governed Tables",
			Track:       "Data Governance",
			Level:       "Intermediate",
			Type:        "Breakout",
			Speakers:    []string{"Jane Doe"},
			Description: "Governance in practice.",
		},
		{
			SessionID: "a-streaming-intro",
			Title:     "Streaming Intro",
			Track:     "Data Engineering",
			Type:      "Deep Dive",
		},
		{
			SessionID: "c-untracked",
			Title:     "Untracked Session",
		},
	}
}

func TestStoreWriteAndLoadRoundTrip(t *testing.T) {
	st := NewStore(t.TempDir())
	merged, err := st.Write(testCandidates())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(merged) != 3 {
		t.Fatalf("merged %d records, want 3", len(merged))
	}

	loaded, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded, merged) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", loaded, merged)
	}
}

func TestStoreWriteIdempotent(t *testing.T) {
	st := NewStore(t.TempDir())
	candidates := testCandidates()

	if _, err := st.Write(candidates); err != nil {
		t.Fatalf("first write: %v", err)
	}
	first := readCatalogueFiles(t, st.Dir())

	if _, err := st.Write(candidates); err != nil {
		t.Fatalf("second write: %v", err)
	}
	second := readCatalogueFiles(t, st.Dir())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated writes diverged:\nfirst %v\nsecond %v", keys(first), keys(second))
	}
}

func TestStorePartitionUnionEqualsPrimary(t *testing.T) {
	st := NewStore(t.TempDir())
	merged, err := st.Write(testCandidates())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	primary := map[string]bool{}
	for _, s := range merged {
		primary[s.SessionID] = true
	}

	union := map[string]bool{}
	entries, err := os.ReadDir(st.Dir())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() == primaryFile {
			continue
		}
		blob, err := os.ReadFile(filepath.Join(st.Dir(), e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		for _, line := range strings.Split(string(blob), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			id := extractID(t, line)
			if union[id] {
				t.Fatalf("session %s appears in more than one partition", id)
			}
			union[id] = true
		}
	}
	if !reflect.DeepEqual(union, primary) {
		t.Fatalf("partition union %v != primary set %v", union, primary)
	}
}

func TestStoreRemovesStalePartitions(t *testing.T) {
	st := NewStore(t.TempDir())
	if _, err := st.Write(testCandidates()); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(st.Dir(), "sessions_data_governance.jsonl")); err != nil {
		t.Fatalf("expected governance partition after first write: %v", err)
	}

	// Second run has no Data Governance sessions; its partition must go away.
	if _, err := st.Write(testCandidates()[1:]); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(st.Dir(), "sessions_data_governance.jsonl")); !os.IsNotExist(err) {
		t.Fatalf("stale partition still present (err=%v)", err)
	}
}

func TestStoreOmitsEmptyOptionalFields(t *testing.T) {
	st := NewStore(t.TempDir())
	if _, err := st.Write([]session.Session{{SessionID: "a", Title: "A", Track: "Analytics"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	blob, err := os.ReadFile(filepath.Join(st.Dir(), primaryFile))
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"category"`, `"industry"`, `"areas_of_interest"`} {
		if strings.Contains(string(blob), field) {
			t.Errorf("serialized record carries empty optional field %s: %s", field, blob)
		}
	}
}

func TestStoreCanonicalFieldOrder(t *testing.T) {
	st := NewStore(t.TempDir())
	if _, err := st.Write(testCandidates()[:1]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	blob, err := os.ReadFile(filepath.Join(st.Dir(), primaryFile))
	if err != nil {
		t.Fatal(err)
	}
	line := string(blob)
	order := []string{`"session_id"`, `"title"`, `"track"`, `"level"`, `"type"`, `"speakers"`, `"schedule"`, `"description"`}
	last := -1
	for _, field := range order {
		idx := strings.Index(line, field)
		if idx < 0 {
			t.Fatalf("field %s missing from %s", field, line)
		}
		if idx < last {
			t.Fatalf("field %s out of canonical order in %s", field, line)
		}
		last = idx
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	st := NewStore(filepath.Join(t.TempDir(), "never-written"))
	got, err := st.Load()
	if err != nil || got != nil {
		t.Fatalf("Load on missing catalogue = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestPartitionFileName(t *testing.T) {
	cases := []struct{ track, want string }{
		{"Data Engineering", "sessions_data_engineering.jsonl"},
		{"AI & ML", "sessions_ai_and_ml.jsonl"},
		{"Dev/Ops", "sessions_dev_ops.jsonl"},
		{"Other", "sessions_other.jsonl"},
	}
	for _, tc := range cases {
		if got := partitionFileName(tc.track); got != tc.want {
			t.Errorf("partitionFileName(%q) = %q, want %q", tc.track, got, tc.want)
		}
	}
}

func readCatalogueFiles(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	out := map[string]string{}
	for _, e := range entries {
		blob, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		out[e.Name()] = string(blob)
	}
	return out
}

func keys(m map[string]string) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}

func extractID(t *testing.T, line string) string {
	t.Helper()
	var rec struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("bad catalogue line %q: %v", line, err)
	}
	return rec.SessionID
}
