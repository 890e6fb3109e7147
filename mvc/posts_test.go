package mvc

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Qoldo3/Django/api"
	"github.com/Qoldo3/Django/message"
	"github.com/Qoldo3/Django/model"
	"github.com/Qoldo3/Django/session"
	"github.com/Qoldo3/Django/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDeps(t *testing.T, baseURL string) (*session.Session, *api.Client) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	client := api.New(baseURL, time.Second, st, discardLogger())
	return session.New(client, st, discardLogger()), client
}

// runCmd executes a command tree synchronously, unwrapping batches, and
// reports every message produced.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, sub := range batch {
			msgs = append(msgs, runCmd(sub)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func TestSearchDebounceIssuesOneRequestForABurstOfKeystrokes(t *testing.T) {
	var mu sync.Mutex
	var searches []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/blog/api/v1/posts/" {
			mu.Lock()
			searches = append(searches, r.URL.Query().Get("search"))
			mu.Unlock()
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	sess, client := testDeps(t, srv.URL)
	page := InitialPostsPageModel(sess, client)

	// Five keystrokes inside the quiet window. Each schedules a timer and
	// bumps the sequence; none may fetch on its own.
	for _, r := range "gopher"[:5] {
		updated, _ := page.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		page = updated.(PostsPage)
	}

	mu.Lock()
	if len(searches) != 0 {
		mu.Unlock()
		t.Fatalf("%d requests issued before any timer fired", len(searches))
	}
	mu.Unlock()

	// All five timers eventually fire; only the last one matches the
	// current sequence.
	for seq := 1; seq <= 5; seq++ {
		updated, cmd := page.Update(searchDebounceMsg{seq: seq})
		page = updated.(PostsPage)
		runCmd(cmd)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(searches) != 1 {
		t.Fatalf("list-posts called %d times, want exactly 1", len(searches))
	}
	if searches[0] != "gophe" {
		t.Fatalf("search = %q, want the final input %q", searches[0], "gophe")
	}
}

func TestCategoryChangeResetsToPageOne(t *testing.T) {
	var mu sync.Mutex
	var pages []string
	var categories []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/blog/api/v1/posts/":
			mu.Lock()
			pages = append(pages, r.URL.Query().Get("page"))
			categories = append(categories, r.URL.Query().Get("category"))
			mu.Unlock()
			w.Write([]byte(`{"results":[],"count":30,"total_pages":3}`))
		case "/blog/api/v1/categories/":
			w.Write([]byte(`[{"id":1,"name":"tech"}]`))
		}
	}))
	defer srv.Close()

	sess, client := testDeps(t, srv.URL)
	page := InitialPostsPageModel(sess, client)

	for _, msg := range runCmd(page.reload()) {
		updated, _ := page.Update(msg)
		page = updated.(PostsPage)
	}

	// Move to page 2, then switch category: paging must reset.
	updated, cmd := page.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	page = updated.(PostsPage)
	for _, msg := range runCmd(cmd) {
		u, _ := page.Update(msg)
		page = u.(PostsPage)
	}

	updated, cmd = page.Update(tea.KeyMsg{Type: tea.KeyTab})
	page = updated.(PostsPage)
	runCmd(cmd)

	mu.Lock()
	defer mu.Unlock()
	want := []struct{ page, category string }{
		{"1", ""},     // initial load
		{"2", ""},     // pgdown
		{"1", "tech"}, // tab selects the category and resets paging
	}
	if len(pages) != len(want) {
		t.Fatalf("got %d requests (%v), want %d", len(pages), pages, len(want))
	}
	for i, w := range want {
		if pages[i] != w.page || categories[i] != w.category {
			t.Fatalf("request %d = page %q category %q, want page %q category %q",
				i, pages[i], categories[i], w.page, w.category)
		}
	}
}

func TestSnippetTruncatesOnRuneBoundaries(t *testing.T) {
	long := strings.Repeat("é", 100)
	got := snippet(model.Post{Content: "<p>" + long + "</p>"})

	if !utf8.ValidString(got) {
		t.Fatalf("snippet produced invalid UTF-8: %q", got)
	}
	if want := strings.Repeat("é", 80) + "..."; got != want {
		t.Fatalf("snippet = %q, want 80 runes plus ellipsis", got)
	}

	if short := snippet(model.Post{Content: "<p>hello</p>"}); short != "hello" {
		t.Fatalf("snippet = %q, want %q", short, "hello")
	}
}

func TestSessionExpiredResetsEveryPageToHome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	sess, client := testDeps(t, srv.URL)

	pages := []tea.Model{
		InitialPostsPageModel(sess, client),
		InitialLoginModel(sess, client),
		InitialRegisterModel(sess, client),
		InitialPostDetailModel(sess, client, 1),
		InitialComposeModel(sess, client),
		InitialMyPostsModel(sess, client),
		InitialProfileModel(sess, client),
		InitialEditProfileModel(sess, client),
		InitialResetRequestModel(sess, client),
		InitialResetConfirmModel(sess, client),
		InitialActivateModel(sess, client),
	}

	for _, page := range pages {
		updated, _ := page.Update(message.SessionExpired{})
		if _, ok := updated.(HomePage); !ok {
			t.Fatalf("%T did not reset to the home page on session expiry", page)
		}
	}
}
