package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Qoldo3/Django/model"
)

// ListPosts fetches one page of posts, optionally filtered by free-text
// search and category name. page defaults to 1.
//
// The server answers in one of two shapes, a paginated envelope
// {results, count, total_pages} or a bare list, depending on whether
// pagination is enabled on its side. Both are normalized here so no page
// code ever sees the raw shapes: a bare list becomes a single implicit
// page with TotalCount 0.
func (c *Client) ListPosts(ctx context.Context, page int, search, category string) (model.PostPage, error) {
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("search", search)
	q.Set("category", category)

	resp, err := c.do(ctx, http.MethodGet, "/blog/api/v1/posts/?"+q.Encode(), nil, "")
	if err != nil {
		return model.PostPage{}, transportError("Failed to fetch posts", err)
	}
	raw := readBody(resp)

	if resp.StatusCode == http.StatusUnauthorized {
		return model.PostPage{}, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return model.PostPage{}, serverError(resp.StatusCode, raw, "Failed to fetch posts")
	}

	return normalizePostPage(raw)
}

type postEnvelope struct {
	Results    []model.Post `json:"results"`
	Count      int          `json:"count"`
	TotalPages int          `json:"total_pages"`
}

func normalizePostPage(raw []byte) (model.PostPage, error) {
	var env postEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Results != nil {
		pages := env.TotalPages
		if pages < 1 {
			pages = 1
		}
		return model.PostPage{Items: env.Results, TotalCount: env.Count, TotalPages: pages}, nil
	}

	var bare []model.Post
	if err := json.Unmarshal(raw, &bare); err == nil {
		return model.PostPage{Items: bare, TotalCount: 0, TotalPages: 1}, nil
	}

	return model.PostPage{}, &Error{Message: "Failed to fetch posts"}
}

// GetPost fetches one post by id.
func (c *Client) GetPost(ctx context.Context, id int) (model.Post, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/blog/api/v1/posts/%d/", id), nil, "")
	if err != nil {
		return model.Post{}, transportError("Post not found", err)
	}
	raw := readBody(resp)

	if resp.StatusCode == http.StatusUnauthorized {
		return model.Post{}, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return model.Post{}, serverError(resp.StatusCode, raw, "Post not found")
	}

	var post model.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return model.Post{}, &Error{Status: resp.StatusCode, Message: "Post not found"}
	}
	return post, nil
}

// PostInput carries a post create or update. CategoryID 0 means no
// category.
type PostInput struct {
	Title      string
	Content    string
	CategoryID int
}

func postForm(in PostInput) map[string]string {
	fields := map[string]string{
		"title":   in.Title,
		"content": in.Content,
		"status":  "true",
	}
	if in.CategoryID > 0 {
		fields["category"] = strconv.Itoa(in.CategoryID)
	}
	return fields
}

// CreatePost publishes a new post. Requires authentication.
func (c *Client) CreatePost(ctx context.Context, in PostInput) (model.Post, error) {
	body, contentType, err := multipartForm(postForm(in), "", "")
	if err != nil {
		return model.Post{}, &Error{Message: "Failed to create post", cause: err}
	}

	resp, err := c.do(ctx, http.MethodPost, "/blog/api/v1/posts/", body, contentType)
	if err != nil {
		return model.Post{}, transportError("Failed to create post", err)
	}
	raw := readBody(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return model.Post{}, ErrUnauthorized
	case resp.StatusCode == http.StatusBadRequest:
		return model.Post{}, fieldErrors(raw, "Failed to create post")
	case resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK:
		return model.Post{}, serverError(resp.StatusCode, raw, "Failed to create post")
	}

	var post model.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return model.Post{}, &Error{Status: resp.StatusCode, Message: "Failed to create post"}
	}
	return post, nil
}

// UpdatePost PATCHes an existing post. Ownership is enforced server-side;
// pages additionally check it before offering the edit action.
func (c *Client) UpdatePost(ctx context.Context, id int, in PostInput) (model.Post, error) {
	body, contentType, err := multipartForm(postForm(in), "", "")
	if err != nil {
		return model.Post{}, &Error{Message: "Failed to update post", cause: err}
	}

	resp, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/blog/api/v1/posts/%d/", id), body, contentType)
	if err != nil {
		return model.Post{}, transportError("Failed to update post", err)
	}
	raw := readBody(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return model.Post{}, ErrUnauthorized
	case resp.StatusCode == http.StatusBadRequest:
		return model.Post{}, fieldErrors(raw, "Failed to update post")
	case resp.StatusCode != http.StatusOK:
		return model.Post{}, serverError(resp.StatusCode, raw, "Failed to update post")
	}

	var post model.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return model.Post{}, &Error{Status: resp.StatusCode, Message: "Failed to update post"}
	}
	return post, nil
}

// DeletePost removes a post owned by the caller.
func (c *Client) DeletePost(ctx context.Context, id int) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/blog/api/v1/posts/%d/", id), nil, "")
	if err != nil {
		return transportError("Failed to delete post", err)
	}
	raw := readBody(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode >= 300:
		return serverError(resp.StatusCode, raw, "Failed to delete post")
	}
	return nil
}

// FetchCategories lists the flat category set. Categories are decorative:
// any failure, transport or server, degrades to an empty list instead of
// an error, and either response shape (bare list or envelope) is
// accepted.
func (c *Client) FetchCategories(ctx context.Context) []model.Category {
	resp, err := c.do(ctx, http.MethodGet, "/blog/api/v1/categories/", nil, "")
	if err != nil {
		c.log.Warn("fetching categories", "err", err)
		return nil
	}
	raw := readBody(resp)

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("fetching categories", "status", resp.StatusCode)
		return nil
	}

	var bare []model.Category
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare
	}

	var env struct {
		Results []model.Category `json:"results"`
	}
	if err := json.Unmarshal(raw, &env); err == nil {
		return env.Results
	}

	c.log.Warn("fetching categories", "err", "unrecognized response shape")
	return nil
}
