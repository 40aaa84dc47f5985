package ledger

import (
	"path/filepath"
	"sync"
	"testing"
)

func TestFileLedger(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "used_papers.txt")
	l := NewFileLedger(path)

	t.Run("missing file is an empty set", func(t *testing.T) {
		used, err := l.Load()
		if err != nil {
			t.Fatalf("load error: %v", err)
		}
		if len(used) != 0 {
			t.Fatalf("expected empty set, got %v", used)
		}
	})

	t.Run("recorded ids are members after reload", func(t *testing.T) {
		if err := l.Record("http://arxiv.org/abs/2301.00001v1"); err != nil {
			t.Fatalf("record error: %v", err)
		}
		if err := l.Record("http://arxiv.org/abs/2301.00002v1"); err != nil {
			t.Fatalf("record error: %v", err)
		}

		used, err := l.Load()
		if err != nil {
			t.Fatalf("load error: %v", err)
		}
		if !used["http://arxiv.org/abs/2301.00001v1"] || !used["http://arxiv.org/abs/2301.00002v1"] {
			t.Fatalf("expected both ids recorded, got %v", used)
		}
	})

	t.Run("membership is monotonic across concurrent writers", func(t *testing.T) {
		var wg sync.WaitGroup
		ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
		for _, id := range ids {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_ = l.Record(id)
			}(id)
		}
		wg.Wait()

		used, err := l.Load()
		if err != nil {
			t.Fatalf("load error: %v", err)
		}
		for _, id := range ids {
			if !used[id] {
				t.Fatalf("id %s missing after concurrent writes", id)
			}
		}
	})
}
