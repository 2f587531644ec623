package pages

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "pages.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenIdempotent(t *testing.T) {
	// WHAT: Open applies the schema and can be repeated over an existing file.
	// WHY: Open runs on every process start, including over a populated store.
	dir := t.TempDir()
	path := filepath.Join(dir, "pages.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	ctx := context.Background()
	if _, err := s.Save(ctx, "/home", "<html></html>", "a home page"); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get(ctx, "/home")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got == nil || got.HTMLContent != "<html></html>" {
		t.Fatalf("page lost across reopen: %+v", got)
	}
}

func TestGetAbsent(t *testing.T) {
	// WHAT: Get on a never-saved path returns nil, nil.
	// WHY: Absence drives the blank-shell branch of the router.
	s := openTestStore(t)
	got, err := s.Get(context.Background(), "/nowhere")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil page, got %+v", got)
	}
}

func TestGetExactMatch(t *testing.T) {
	// WHAT: Lookup is exact-string, no case folding or slash collapsing.
	// WHY: Path is the sole identity of a page.
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, "/About", "<html>1</html>", "p"); err != nil {
		t.Fatalf("save: %v", err)
	}
	for _, miss := range []string{"/about", "/About/", "/ About"} {
		got, err := s.Get(ctx, miss)
		if err != nil {
			t.Fatalf("get %q: %v", miss, err)
		}
		if got != nil {
			t.Errorf("get %q: expected miss, got page", miss)
		}
	}
	got, err := s.Get(ctx, "/About")
	if err != nil || got == nil {
		t.Fatalf("exact get failed: %v %v", got, err)
	}
}

func TestSaveCreatesThenAppends(t *testing.T) {
	// WHAT: First save creates the page, later saves append history and
	// overwrite content.
	// WHY: Prompt history is the page's full linear edit record.
	s := openTestStore(t)
	ctx := context.Background()

	p1, err := s.Save(ctx, "/about", "<html>v1</html>", "company about page")
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	if len(p1.PromptHistory) != 1 || p1.PromptHistory[0] != "company about page" {
		t.Fatalf("history after create: %v", p1.PromptHistory)
	}
	if p1.CreatedAt != p1.UpdatedAt {
		t.Errorf("fresh save: created_at %q != updated_at %q", p1.CreatedAt, p1.UpdatedAt)
	}

	time.Sleep(5 * time.Millisecond)

	p2, err := s.Save(ctx, "/about", "<html>v2</html>", "make header red")
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if p2.HTMLContent != "<html>v2</html>" {
		t.Errorf("content not overwritten: %q", p2.HTMLContent)
	}
	want := []string{"company about page", "make header red"}
	if len(p2.PromptHistory) != len(want) {
		t.Fatalf("history: %v", p2.PromptHistory)
	}
	for i := range want {
		if p2.PromptHistory[i] != want[i] {
			t.Errorf("history[%d]: got %q, want %q", i, p2.PromptHistory[i], want[i])
		}
	}
	if p2.CreatedAt != p1.CreatedAt {
		t.Errorf("created_at changed: %q -> %q", p1.CreatedAt, p2.CreatedAt)
	}
	if p2.UpdatedAt == p1.UpdatedAt {
		t.Errorf("updated_at did not advance: %q", p2.UpdatedAt)
	}
}

func TestSaveNeverDeduplicates(t *testing.T) {
	// WHAT: Saving twice with identical arguments records the prompt twice.
	// WHY: History always appends; it is a log, not a set.
	s := openTestStore(t)
	ctx := context.Background()

	s.Save(ctx, "/p", "<html></html>", "same prompt")
	p, err := s.Save(ctx, "/p", "<html></html>", "same prompt")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(p.PromptHistory) != 2 {
		t.Fatalf("history length: got %d, want 2", len(p.PromptHistory))
	}
}

func TestSaveHistoryWithAwkwardPrompt(t *testing.T) {
	// WHAT: Prompts containing quotes, brackets and newlines survive the
	// JSON round trip intact.
	// WHY: History is stored as a serialized JSON array; SQL-level appends
	// must not corrupt it.
	s := openTestStore(t)
	ctx := context.Background()

	nasty := `add a "quote", a ]bracket[ and
a newline`
	p, err := s.Save(ctx, "/q", "<html></html>", nasty)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if p.PromptHistory[0] != nasty {
		t.Errorf("prompt mangled: %q", p.PromptHistory[0])
	}
}

func TestConcurrentSavesSamePath(t *testing.T) {
	// WHAT: Parallel saves to one path all land in history and the stored
	// JSON stays parseable.
	// WHY: Same-path saves race on read-modify-write; the upsert must keep
	// each write atomic.
	s := openTestStore(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Save(ctx, "/race", "<html></html>", "edit"); err != nil {
				t.Errorf("save: %v", err)
			}
		}()
	}
	wg.Wait()

	p, err := s.Get(ctx, "/race")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p == nil {
		t.Fatal("page missing after concurrent saves")
	}
	if len(p.PromptHistory) != n {
		t.Errorf("history length: got %d, want %d", len(p.PromptHistory), n)
	}
}

func TestList(t *testing.T) {
	// WHAT: List returns every stored page.
	// WHY: The MCP page_list tool is built on it.
	s := openTestStore(t)
	ctx := context.Background()

	for _, path := range []string{"/a", "/b", "/c"} {
		if _, err := s.Save(ctx, path, "<html></html>", "p"); err != nil {
			t.Fatalf("save %s: %v", path, err)
		}
	}
	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("count: got %d, want 3", len(all))
	}
}

func TestTimestampsSortAsText(t *testing.T) {
	// WHAT: A whole-second timestamp compares lower than a later
	// sub-second timestamp within the same second.
	// WHY: List orders by updated_at with a text comparison, so the
	// stored format must be fixed-width; a trimmed fraction makes
	// "...05Z" sort after "...05.5...Z".
	onSecond := time.Date(2026, 4, 1, 9, 30, 5, 0, time.UTC).Format(timeLayout)
	justAfter := time.Date(2026, 4, 1, 9, 30, 5, 500_000_000, time.UTC).Format(timeLayout)
	if onSecond >= justAfter {
		t.Errorf("string order diverges from time order: %q >= %q", onSecond, justAfter)
	}
	if _, err := time.Parse(time.RFC3339, onSecond); err != nil {
		t.Errorf("timestamp %q is not ISO-8601: %v", onSecond, err)
	}
}
