package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

func TestAdminRequiresToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t, "quota")
	defer app.Teardown(t)

	status, resp := app.do(t, http.MethodGet, "/api/admin/contestants", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", resp.Reason)

	status, _ = app.do(t, http.MethodGet, "/api/admin/contestants", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, resp = app.do(t, http.MethodGet, "/api/admin/session", nil, createAdminToken(t))
	require.Equal(t, http.StatusOK, status)

	var admin domain.Admin
	require.NoError(t, json.Unmarshal(resp.Data, &admin))
	assert.Equal(t, "integration-admin", admin.Subject)
}

func TestAdminContestantLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t, "quota")
	defer app.Teardown(t)
	token := createAdminToken(t)

	// 1. Required fields are enforced
	status, resp := app.do(t, http.MethodPost, "/api/admin/contestants", map[string]string{"name": "Nameless"}, token)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Name, description, and image are required", resp.Message)

	// 2. Create
	status, resp = app.do(t, http.MethodPost, "/api/admin/contestants", map[string]string{
		"name":        "Echo",
		"description": "New entry",
		"image":       "images/echo.jpg",
	}, token)
	require.Equal(t, http.StatusCreated, status)

	var created domain.Contestant
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.True(t, created.IsActive)
	assert.Equal(t, "current", created.Season)

	// 3. Vote, then decrement twice: the counter never goes below zero
	status, _ = app.do(t, http.MethodPost, "/api/voting/submit", map[string]string{"contestantId": created.ID.String()}, "")
	require.Equal(t, http.StatusOK, status)

	path := fmt.Sprintf("/api/admin/contestants/%s/decrement", created.ID)
	status, _ = app.do(t, http.MethodPost, path, nil, token)
	require.Equal(t, http.StatusOK, status)
	status, resp = app.do(t, http.MethodPost, path, nil, token)
	require.Equal(t, http.StatusOK, status)

	var decremented domain.Contestant
	require.NoError(t, json.Unmarshal(resp.Data, &decremented))
	assert.Equal(t, int64(0), decremented.Votes)

	// 4. Deactivate: the contestant disappears from the public list
	status, _ = app.do(t, http.MethodPut, "/api/admin/contestants/"+created.ID.String(), map[string]bool{"isActive": false}, token)
	require.Equal(t, http.StatusOK, status)

	status, resp = app.do(t, http.MethodGet, "/api/voting/contestants", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(resp.Data))

	// 5. Delete
	status, _ = app.do(t, http.MethodDelete, "/api/admin/contestants/"+created.ID.String(), nil, token)
	require.Equal(t, http.StatusOK, status)
	status, _ = app.do(t, http.MethodDelete, "/api/admin/contestants/"+created.ID.String(), nil, token)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBlogFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t, "quota")
	defer app.Teardown(t)
	token := createAdminToken(t)

	post := map[string]any{
		"title":         "Weekly Analysis",
		"slug":          "weekly-analysis",
		"excerpt":       "Who is winning hearts this week",
		"content":       "<p>Full analysis</p>",
		"category":      "analysis",
		"featuredImage": "images/post.jpg",
		"isFeatured":    true,
	}

	// 1. Create, then reject a second post with the same slug
	status, resp := app.do(t, http.MethodPost, "/api/admin/blog", post, token)
	require.Equal(t, http.StatusCreated, status)
	var created domain.BlogPost
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	status, resp = app.do(t, http.MethodPost, "/api/admin/blog", post, token)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "conflict", resp.Reason)

	// 2. Public listing and featured
	status, resp = app.do(t, http.MethodGet, "/api/blog/posts?category=analysis", nil, "")
	require.Equal(t, http.StatusOK, status)
	var page domain.PostPage
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	require.Len(t, page.Posts, 1)
	assert.Equal(t, int64(1), page.Pagination.TotalPosts)
	assert.False(t, page.Pagination.HasNext)

	status, resp = app.do(t, http.MethodGet, "/api/blog/featured", nil, "")
	require.Equal(t, http.StatusOK, status)
	var featured ports.FeaturedPosts
	require.NoError(t, json.Unmarshal(resp.Data, &featured))
	assert.Len(t, featured.Featured, 1)
	assert.Len(t, featured.Recent, 1)

	// 3. Share
	status, resp = app.do(t, http.MethodPost, "/api/blog/post/weekly-analysis/share", map[string]string{"platform": "twitter"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"shareCount":1}`, string(resp.Data))

	// 4. Comments wait for moderation
	status, resp = app.do(t, http.MethodPost, "/api/blog/post/weekly-analysis/comment", map[string]string{
		"name":    "Fan",
		"email":   "Fan@Example.com",
		"content": "Great read",
	}, "")
	require.Equal(t, http.StatusOK, status)
	var comment domain.Comment
	require.NoError(t, json.Unmarshal(resp.Data, &comment))
	assert.False(t, comment.IsApproved)

	status, resp = app.do(t, http.MethodGet, "/api/blog/post/weekly-analysis", nil, "")
	require.Equal(t, http.StatusOK, status)
	var withComments ports.PostWithComments
	require.NoError(t, json.Unmarshal(resp.Data, &withComments))
	assert.Empty(t, withComments.Comments)

	status, _ = app.do(t, http.MethodPost, "/api/admin/comments/"+comment.ID.String()+"/approve", nil, token)
	require.Equal(t, http.StatusOK, status)

	status, resp = app.do(t, http.MethodGet, "/api/blog/post/weekly-analysis", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Data, &withComments))
	require.Len(t, withComments.Comments, 1)
	assert.Equal(t, "Great read", withComments.Comments[0].Content)

	var email string
	require.NoError(t, app.DB.QueryRow(`SELECT email FROM comments WHERE id = $1`, comment.ID).Scan(&email))
	assert.Equal(t, "fan@example.com", email)

	// 5. Unpublish hides the post
	status, _ = app.do(t, http.MethodPut, "/api/admin/blog/"+created.ID.String(), map[string]bool{"isPublished": false}, token)
	require.Equal(t, http.StatusOK, status)
	status, resp = app.do(t, http.MethodGet, "/api/blog/post/weekly-analysis", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Blog post not found", resp.Message)
}
