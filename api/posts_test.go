package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListPostsNormalizesPaginatedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"results": [
				{"id": 1, "title": "first", "content": "<p>hi</p>", "author": {"id": 3}},
				{"id": 2, "title": "second", "content": "<p>yo</p>", "author": {"id": 4}}
			],
			"count": 42,
			"total_pages": 5
		}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, testStore(t), discardLogger())
	page, err := client.ListPosts(context.Background(), 1, "", "")
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}

	if len(page.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(page.Items))
	}
	if page.TotalCount != 42 {
		t.Fatalf("TotalCount = %d, want 42", page.TotalCount)
	}
	if page.TotalPages != 5 {
		t.Fatalf("TotalPages = %d, want 5", page.TotalPages)
	}
	if page.Items[0].Title != "first" || page.Items[1].Title != "second" {
		t.Fatalf("items decoded wrong: %+v", page.Items)
	}
}

func TestListPostsNormalizesBareList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "title": "a", "author": {"id": 3}},
			{"id": 2, "title": "b", "author": {"id": 3}},
			{"id": 3, "title": "c", "author": {"id": 3}}
		]`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, testStore(t), discardLogger())
	page, err := client.ListPosts(context.Background(), 1, "", "")
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}

	if len(page.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(page.Items))
	}
	if page.TotalCount != 0 {
		t.Fatalf("TotalCount = %d, want 0 for a bare list", page.TotalCount)
	}
	if page.TotalPages != 1 {
		t.Fatalf("TotalPages = %d, want the single implicit page", page.TotalPages)
	}
}

func TestListPostsSendsFiltersAndDefaultsPage(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"page":     q.Get("page"),
			"search":   q.Get("search"),
			"category": q.Get("category"),
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, testStore(t), discardLogger())
	if _, err := client.ListPosts(context.Background(), 0, "golang", "tech"); err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}

	if gotQuery["page"] != "1" {
		t.Fatalf("page = %q, want default 1", gotQuery["page"])
	}
	if gotQuery["search"] != "golang" || gotQuery["category"] != "tech" {
		t.Fatalf("filters = %v, want search=golang category=tech", gotQuery)
	}
}

func TestListPostsUsesServerDetailOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"detail present", http.StatusBadRequest, `{"detail":"bad page"}`, "bad page"},
		{"detail missing", http.StatusInternalServerError, `{"oops":true}`, "Failed to fetch posts"},
		{"garbage body", http.StatusBadGateway, `<html>`, "Failed to fetch posts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL, time.Second, testStore(t), discardLogger())
			_, err := client.ListPosts(context.Background(), 1, "", "")
			if err == nil {
				t.Fatalf("ListPosts() error = nil, want failure")
			}
			if err.Error() != tt.wantMsg {
				t.Fatalf("error = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestGetPostNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Not found."}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, testStore(t), discardLogger())
	_, err := client.GetPost(context.Background(), 99)
	if err == nil {
		t.Fatalf("GetPost() error = nil, want not found")
	}
	if err.Error() != "Not found." {
		t.Fatalf("error = %q, want server detail", err.Error())
	}
}

func TestFetchCategoriesFailsSoft(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		want int
	}{
		{"bare list", `[{"id":1,"name":"tech"},{"id":2,"name":"life"}]`, http.StatusOK, 2},
		{"envelope", `{"results":[{"id":1,"name":"tech"}],"count":1}`, http.StatusOK, 1},
		{"server error", `boom`, http.StatusInternalServerError, 0},
		{"garbage", `not json`, http.StatusOK, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL, time.Second, testStore(t), discardLogger())
			got := client.FetchCategories(context.Background())
			if len(got) != tt.want {
				t.Fatalf("len(categories) = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestCreatePostSendsMultipartForm(t *testing.T) {
	var gotTitle, gotContent, gotStatus, gotCategory string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
		}
		gotTitle = r.FormValue("title")
		gotContent = r.FormValue("content")
		gotStatus = r.FormValue("status")
		gotCategory = r.FormValue("category")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":10,"title":"t","author":{"id":1}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, testStore(t), discardLogger())
	post, err := client.CreatePost(context.Background(), PostInput{
		Title:      "t",
		Content:    "<p>body</p>",
		CategoryID: 3,
	})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	if post.ID != 10 {
		t.Fatalf("post.ID = %d, want 10", post.ID)
	}
	if gotTitle != "t" || gotContent != "<p>body</p>" || gotStatus != "true" || gotCategory != "3" {
		t.Fatalf("form = title=%q content=%q status=%q category=%q", gotTitle, gotContent, gotStatus, gotCategory)
	}
}

func TestUpdatePostFlattensFieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"title":["This field may not be blank."]}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, testStore(t), discardLogger())
	_, err := client.UpdatePost(context.Background(), 5, PostInput{Title: "", Content: "x"})
	if err == nil {
		t.Fatalf("UpdatePost() error = nil, want validation failure")
	}
	if err.Error() != "title: This field may not be blank." {
		t.Fatalf("error = %q", err.Error())
	}
}
