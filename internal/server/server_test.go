package server

import (
	"net/http"
	"testing"

	"scribe/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome_Redirects(t *testing.T) {
	s, app, _ := setupTestServer(t)
	_, token := registerUser(t, s, "alice")

	resp := doRequest(t, app, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/api/posts", resp.Header.Get("Location"))

	resp = doRequest(t, app, http.MethodGet, "/", token, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/api/users/me", resp.Header.Get("Location"))
}

func TestHealthChecks(t *testing.T) {
	_, app, mr := setupTestServer(t)

	resp := doRequest(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeJSON[map[string]any](t, resp)
	assert.Equal(t, "healthy", body["status"])

	mr.Close()
	resp = doRequest(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestTags(t *testing.T) {
	s, app, _ := setupTestServer(t)
	_, token := registerUser(t, s, "alice")

	for _, tags := range []string{"Go, Web", "go", "Databases"} {
		resp := doRequest(t, app, http.MethodPost, "/api/posts", token, map[string]any{
			"title": "About " + tags, "content": "Body", "new_tags": tags,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doRequest(t, app, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tags := decodeJSON[[]models.Tag](t, resp)
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"Databases", "Go", "Web"}, names)

	resp = doRequest(t, app, http.MethodGet, "/api/tags/go/posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decodeJSON[PageResponse](t, resp)
	require.NotNil(t, page.Tag)
	assert.Equal(t, "go", page.Tag.Slug)
	assert.Equal(t, 2, page.TotalItems)

	resp = doRequest(t, app, http.MethodGet, "/api/tags/unknown/posts", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMyPosts(t *testing.T) {
	s, app, _ := setupTestServer(t)
	alice, aliceToken := registerUser(t, s, "alice")
	bob, _ := registerUser(t, s, "bobby")
	for i := 1; i <= 6; i++ {
		insertPost(t, s, alice, "mine", i)
	}
	insertPost(t, s, bob, "theirs", 10)

	resp := doRequest(t, app, http.MethodGet, "/api/users/me/posts?page=2", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decodeJSON[PageResponse](t, resp)
	assert.Equal(t, 6, page.TotalItems)
	assert.Equal(t, 2, page.CurrentPage)
	require.Len(t, page.Items, 1)
	assert.Equal(t, alice.ID, page.Items[0].UserID)

	resp = doRequest(t, app, http.MethodGet, "/api/users/me", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", decodeJSON[models.User](t, resp).Username)

	resp = doRequest(t, app, http.MethodGet, "/api/users/me/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSwaggerDocIsServed(t *testing.T) {
	_, app, _ := setupTestServer(t)

	resp := doRequest(t, app, http.MethodGet, "/api/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Scribe API")
}
