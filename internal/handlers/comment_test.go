package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"inkwell/internal/db"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentRequiresAuth(t *testing.T) {
	setupTest(t)
	r := setupRouter(t)
	author := createUser(t, "roman", "roman@example.com")

	post := models.Post{UserID: author.ID, Text: "text"}
	require.NoError(t, db.DB.Create(&post).Error)

	commentPath := fmt.Sprintf("/post/roman/%d/comment", post.ID)

	w := postForm(r, commentPath, url.Values{"text": {"blah"}}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next="+url.QueryEscape(commentPath), w.Header().Get("Location"))
	assert.EqualValues(t, 0, commentCount(t))
}

func TestAddCommentAttributedToSubmitter(t *testing.T) {
	setupTest(t)
	r := setupRouter(t)
	author := createUser(t, "roman", "roman@example.com")
	commenter := createUser(t, "greta", "greta@example.com")
	cookies := login(t, r, "greta")

	post := models.Post{UserID: author.ID, Text: "text"}
	require.NoError(t, db.DB.Create(&post).Error)

	detail := fmt.Sprintf("/post/roman/%d", post.ID)

	w := postForm(r, detail+"/comment", url.Values{"text": {"blah blah"}}, cookies)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))

	var comment models.Comment
	require.NoError(t, db.DB.First(&comment).Error)
	assert.Equal(t, commenter.ID, comment.UserID)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, "blah blah", comment.Text)
	assert.EqualValues(t, 1, commentCount(t))

	// The comment shows on the detail page.
	pageBody := get(r, detail, cookies).Body.String()
	assert.Contains(t, pageBody, "blah blah")
	assert.Contains(t, pageBody, "greta")
}

func TestAddCommentEmptyTextSilentlyDropped(t *testing.T) {
	setupTest(t)
	r := setupRouter(t)
	author := createUser(t, "roman", "roman@example.com")
	createUser(t, "greta", "greta@example.com")
	cookies := login(t, r, "greta")

	post := models.Post{UserID: author.ID, Text: "text"}
	require.NoError(t, db.DB.Create(&post).Error)

	detail := fmt.Sprintf("/post/roman/%d", post.ID)

	// Invalid input redirects exactly like a success and saves nothing.
	w := postForm(r, detail+"/comment", url.Values{"text": {""}}, cookies)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))
	assert.EqualValues(t, 0, commentCount(t))
}

func TestCommentsListedChronologically(t *testing.T) {
	setupTest(t)
	r := setupRouter(t)
	author := createUser(t, "roman", "roman@example.com")
	cookies := login(t, r, "roman")

	post := models.Post{UserID: author.ID, Text: "text"}
	require.NoError(t, db.DB.Create(&post).Error)

	detail := fmt.Sprintf("/post/roman/%d", post.ID)
	postForm(r, detail+"/comment", url.Values{"text": {"older comment"}}, cookies)
	postForm(r, detail+"/comment", url.Values{"text": {"newer comment"}}, cookies)

	body := get(r, detail, nil).Body.String()
	older := strings.Index(body, "older comment")
	newer := strings.Index(body, "newer comment")
	require.GreaterOrEqual(t, older, 0)
	require.GreaterOrEqual(t, newer, 0)
	assert.Less(t, older, newer, "older comment should render first")
}
