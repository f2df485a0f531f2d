// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syncer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cryptodigest/eprint-watch/pkg/types"
)

// postedFile is the on-disk JSON shape of the store.
type postedFile struct {
	UpdatedAt string   `json:"updated_at"`
	PostedIDs []string `json:"posted_ids"`
}

// PostedStore is the set of paper IDs already delivered, persisted as a
// JSON file. The set only grows; IDs are added after successful delivery
// and never removed.
type PostedStore struct {
	path string
	ids  map[string]struct{}
}

// LoadPostedStore reads the store at path. A missing or corrupt file is
// treated as empty prior state, never as fatal: the returned store is
// always usable, and the error (if any) is advisory.
func LoadPostedStore(path string) (*PostedStore, error) {
	s := &PostedStore{
		path: path,
		ids:  make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading posted store %s: %w", path, err)
	}

	var f postedFile
	if err := json.Unmarshal(data, &f); err != nil {
		return s, fmt.Errorf("parsing posted store %s: %w", path, err)
	}

	for _, id := range f.PostedIDs {
		if id = strings.TrimSpace(id); id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s, nil
}

// Contains reports whether id has already been posted.
func (s *PostedStore) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add marks id as posted. Adding an existing ID is a no-op.
func (s *PostedStore) Add(id string) {
	s.ids[id] = struct{}{}
}

// Len returns the number of posted IDs.
func (s *PostedStore) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the posted set.
func (s *PostedStore) IDs() map[string]struct{} {
	out := make(map[string]struct{}, len(s.ids))
	for id := range s.ids {
		out[id] = struct{}{}
	}
	return out
}

// Save writes the store atomically: marshal to a temp file in the target
// directory, then rename over the previous state. IDs are persisted
// sorted by (year, sequence) for readable, stable diffs.
func (s *PostedStore) Save() error {
	f := postedFile{
		UpdatedAt: time.Now().In(types.KST).Format(time.RFC3339),
		PostedIDs: sortIDs(s.ids),
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling posted store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".posted-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing posted store: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing posted store: %w", err)
	}
	return nil
}

// sortIDs orders IDs ascending by (year, sequence number). IDs that do
// not split into year/number fall back to plain string order among
// themselves.
func sortIDs(ids map[string]struct{}) []string {
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		yi, ni, oki := splitID(out[i])
		yj, nj, okj := splitID(out[j])
		if oki && okj {
			if yi != yj {
				return yi < yj
			}
			if ni != nj {
				return ni < nj
			}
		}
		return out[i] < out[j]
	})
	return out
}

// splitID parses "<year>/<number>" into its sort key.
func splitID(id string) (year string, num int, ok bool) {
	year, rest, found := strings.Cut(id, "/")
	if !found {
		return "", 0, false
	}
	num, err := strconv.Atoi(rest)
	if err != nil {
		return "", 0, false
	}
	return year, num, true
}
