package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joelkehle/summit-agenda/internal/session"
)

const (
	primaryFile     = "sessions_.jsonl"
	partitionPrefix = "sessions_"
	partitionSuffix = ".jsonl"
)

// Store persists the catalogue under dir as JSONL: one primary file holding
// every record, plus one file per track partition. Every write is a full
// rewrite; there is no incremental append.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory the store writes into.
func (st *Store) Dir() string { return st.dir }

// Write merges the candidates and replaces the entire catalogue on disk.
// Stale partition files from a prior run are removed, so a partition that is
// empty this run leaves no file behind. Any write failure aborts with an
// error; a partially written catalogue never reports success.
func (st *Store) Write(candidates []session.Session) ([]session.Session, error) {
	merged := Merge(candidates)

	if err := os.MkdirAll(st.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}
	if err := st.removeStaleFiles(); err != nil {
		return nil, err
	}

	if err := writeJSONL(filepath.Join(st.dir, primaryFile), merged); err != nil {
		return nil, fmt.Errorf("write primary catalogue: %w", err)
	}
	for track, group := range Partition(merged) {
		path := filepath.Join(st.dir, partitionFileName(track))
		if err := writeJSONL(path, group); err != nil {
			return nil, fmt.Errorf("write partition %q: %w", track, err)
		}
	}
	return merged, nil
}

func (st *Store) removeStaleFiles() error {
	pattern := filepath.Join(st.dir, partitionPrefix+"*"+partitionSuffix)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("list catalogue files: %w", err)
	}
	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove stale catalogue file %s: %w", path, err)
		}
	}
	return nil
}

// writeJSONL serializes one record per line and swaps the file into place
// atomically via tmp+rename.
func writeJSONL(path string, sessions []session.Session) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, s := range sessions {
		if err := enc.Encode(s); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// partitionFileName builds a filesystem-safe file name from a track name.
func partitionFileName(track string) string {
	slug := strings.ToLower(strings.TrimSpace(track))
	slug = strings.ReplaceAll(slug, "&", "and")
	slug = strings.ReplaceAll(slug, "/", "_")
	slug = strings.Join(strings.Fields(slug), "_")
	return partitionPrefix + slug + partitionSuffix
}

// Load reads the primary catalogue file back into memory. A missing file is
// an empty catalogue, not an error.
func (st *Store) Load() ([]session.Session, error) {
	blob, err := os.ReadFile(filepath.Join(st.dir, primaryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	var out []session.Session
	for i, line := range strings.Split(string(blob), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var s session.Session
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			return nil, fmt.Errorf("parse catalogue line %d: %w", i+1, err)
		}
		out = append(out, s)
	}
	return out, nil
}
