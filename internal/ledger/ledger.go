// Package ledger tracks which benchmark reports have already been uploaded.
//
// The ledger is a plain text file holding one content hash per line. It is
// read once at startup and rewritten whole after a successful upload; there
// is no cross-process locking, concurrent runs of a single-operator tool are
// out of scope.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RunID computes the deduplication key for a report: the hex SHA-256 of its
// raw bytes. Stable across runs for identical input.
func RunID(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Ledger is the persisted set of uploaded run hashes.
type Ledger struct {
	path string
	seen map[string]struct{}
}

// Load reads the ledger at path. A missing file yields an empty ledger.
func Load(path string) (*Ledger, error) {
	l := &Ledger{path: path, seen: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to read ledger %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			l.seen[line] = struct{}{}
		}
	}
	return l, nil
}

// Contains reports whether the run id has been uploaded before.
func (l *Ledger) Contains(runID string) bool {
	_, ok := l.seen[runID]
	return ok
}

// Add marks a run id as uploaded in memory. Call Save to persist it.
func (l *Ledger) Add(runID string) {
	l.seen[runID] = struct{}{}
}

// Len returns the number of recorded run ids.
func (l *Ledger) Len() int {
	return len(l.seen)
}

// Save rewrites the ledger file with all entries sorted, one per line,
// creating the containing directory if needed.
func (l *Ledger) Save() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory %s: %w", dir, err)
	}

	ids := make([]string, 0, len(l.seen))
	for id := range l.seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(l.path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write ledger %s: %w", l.path, err)
	}
	return nil
}
