package mvc

import (
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Qoldo3/Django/model"
)

func TestEditPostRedirectsAwayWhenNotTheAuthor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	sess, client := testDeps(t, srv.URL)
	sess.SetUser(&model.User{ID: 1, Email: "me@example.com"})

	page := InitialEditPostModel(sess, client, 5)
	updated, _ := page.Update(EditPostLoadedMsg{
		post: model.Post{ID: 5, Title: "not mine", Author: model.Author{ID: 2}},
	})

	if _, ok := updated.(HomePage); !ok {
		t.Fatalf("editing someone else's post returned %T, want redirect to HomePage", updated)
	}
}

func TestEditPostToleratesEitherFetchOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	post := model.Post{
		ID:       5,
		Title:    "mine",
		Content:  "<p>hello</p>",
		Author:   model.Author{ID: 1},
		Category: &model.Category{ID: 2, Name: "life"},
	}
	cats := CategoriesMsg{{ID: 1, Name: "tech"}, {ID: 2, Name: "life"}}

	run := func(t *testing.T, postFirst bool) ComposePage {
		sess, client := testDeps(t, srv.URL)
		sess.SetUser(&model.User{ID: 1})
		page := InitialEditPostModel(sess, client, 5)

		deliver := func(msg interface{}) {
			updated, _ := page.Update(msg)
			page = updated.(ComposePage)
		}

		if postFirst {
			deliver(EditPostLoadedMsg{post: post})
			deliver(cats)
		} else {
			deliver(cats)
			deliver(EditPostLoadedMsg{post: post})
		}
		return page
	}

	for _, postFirst := range []bool{true, false} {
		page := run(t, postFirst)
		if page.title.Value() != "mine" {
			t.Fatalf("postFirst=%v: title = %q", postFirst, page.title.Value())
		}
		if page.categoryID() != 2 {
			t.Fatalf("postFirst=%v: selected category = %d, want 2", postFirst, page.categoryID())
		}
	}
}

func TestCategoryCycleKeyDoesNotEditTheFocusedField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	sess, client := testDeps(t, srv.URL)
	sess.SetUser(&model.User{ID: 1})

	page := InitialComposeModel(sess, client)
	updated, _ := page.Update(CategoriesMsg{{ID: 1, Name: "tech"}, {ID: 2, Name: "life"}})
	page = updated.(ComposePage)
	page.title.SetValue("my draft title")
	page.title.CursorStart() // ctrl+k would delete everything after the cursor

	updated, _ = page.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	page = updated.(ComposePage)

	if page.title.Value() != "my draft title" {
		t.Fatalf("title = %q after cycling the category, want it untouched", page.title.Value())
	}
	if page.categoryID() != 1 {
		t.Fatalf("selected category = %d, want the first one", page.categoryID())
	}

	updated, _ = page.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	page = updated.(ComposePage)
	if page.categoryID() != 2 {
		t.Fatalf("selected category = %d, want the second one", page.categoryID())
	}
}
