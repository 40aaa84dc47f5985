package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"PaperRAG/internal/ports"
)

// FileLedger is the append-only used-papers log: one identifier per line.
// The set grows monotonically and is re-read fully at the start of each
// search cycle, so external edits between cycles are picked up.
type FileLedger struct {
	mu   sync.Mutex
	path string
}

var _ ports.UsageLedger = (*FileLedger)(nil)

// NewFileLedger records identifiers at path; the file is created on the
// first Record call.
func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path}
}

// Load reads the whole log into a set. A missing file is an empty set.
func (l *FileLedger) Load() (map[string]bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()

	used := map[string]bool{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" {
			used[id] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return used, nil
}

// Record appends one identifier. Concurrent writers are serialized.
func (l *FileLedger) Record(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger for append: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(id + "\n"); err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}
	return nil
}
