package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"inkwell/internal/db"
	"inkwell/internal/forms"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// indexCacheTTL matches how long a slightly stale front page is acceptable.
const indexCacheTTL = 20 * time.Second

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

func pageParam(c *gin.Context) int {
	return utils.StringToInt(c.DefaultQuery("page", "1"))
}

// invalidateIndex drops the cached first page after a post mutation so the
// change is visible immediately.
func invalidateIndex() {
	utils.GetCache().Delete("posts:index:page:1")
}

func detailPath(username string, postID uint) string {
	return fmt.Sprintf("/post/%s/%d", username, postID)
}

// resolvePost looks up a post scoped to its author's username. A stray id
// under the wrong username is a not-found.
func resolvePost(c *gin.Context) (*models.Post, bool) {
	author, err := models.UserByUsername(db.DB, c.Param("username"))
	if err != nil {
		RenderNotFound(c, "User not found")
		return nil, false
	}

	postID := utils.StringToUint(c.Param("post_id"))
	if postID == 0 {
		RenderNotFound(c, "Post not found")
		return nil, false
	}

	post, err := models.PostByAuthorAndID(db.DB, author.ID, postID)
	if err != nil {
		RenderNotFound(c, "Post not found")
		return nil, false
	}
	return post, true
}

// copyH shallow-copies cached render data. Render fills in per-request keys,
// so it must never write into the map shared through the cache.
func copyH(data gin.H) gin.H {
	out := make(gin.H, len(data)+3)
	for k, v := range data {
		out[k] = v
	}
	return out
}

func (h *PostHandler) Index(c *gin.Context) {
	total, err := models.CountPosts(db.DB, models.PostFilter{})
	if err != nil {
		RenderServerError(c)
		return
	}
	// Clamp before building the key so ?page=0 and ?page=1 share one entry.
	page := utils.NewPage(total, pageParam(c))

	cacheKey := fmt.Sprintf("posts:index:page:%d", page.Number)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if data, ok := cached.(gin.H); ok {
			Render(c, http.StatusOK, "post/list.html", copyH(data))
			return
		}
	}

	posts, err := models.ListPosts(db.DB, models.PostFilter{}, page.Offset(), page.PerPage)
	if err != nil {
		RenderServerError(c)
		return
	}

	data := gin.H{
		"Title":    "Latest posts",
		"Active":   "index",
		"Posts":    posts,
		"Page":     page,
		"BasePath": "/",
	}
	utils.GetCache().Set(cacheKey, data, indexCacheTTL)

	Render(c, http.StatusOK, "post/list.html", copyH(data))
}

func (h *PostHandler) GroupPosts(c *gin.Context) {
	group, err := models.GroupBySlug(db.DB, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RenderNotFound(c, "Group not found")
		} else {
			RenderServerError(c)
		}
		return
	}

	filter := models.PostFilter{GroupID: group.ID}
	total, err := models.CountPosts(db.DB, filter)
	if err != nil {
		RenderServerError(c)
		return
	}
	page := utils.NewPage(total, pageParam(c))

	posts, err := models.ListPosts(db.DB, filter, page.Offset(), page.PerPage)
	if err != nil {
		RenderServerError(c)
		return
	}

	Render(c, http.StatusOK, "post/list.html", gin.H{
		"Title":    group.Title,
		"Active":   "group",
		"Group":    group,
		"Posts":    posts,
		"Page":     page,
		"BasePath": "/group/" + group.Slug,
	})
}

func (h *PostHandler) ShowNew(c *gin.Context) {
	groups, err := models.AllGroups(db.DB)
	if err != nil {
		RenderServerError(c)
		return
	}

	Render(c, http.StatusOK, "post/form.html", gin.H{
		"Title":  "New post",
		"Form":   forms.NewPostForm("", "", nil),
		"Groups": groups,
	})
}

func (h *PostHandler) New(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	image, _ := c.FormFile("image")
	form := forms.NewPostForm(c.PostForm("text"), c.PostForm("group"), image)
	if !form.Valid() {
		groups, _ := models.AllGroups(db.DB)
		Render(c, http.StatusOK, "post/form.html", gin.H{
			"Title":  "New post",
			"Form":   form,
			"Groups": groups,
		})
		return
	}

	// Author comes from the session, never from the form.
	post := models.Post{
		UserID:  user.ID,
		GroupID: form.GroupID,
		Text:    form.Text,
	}

	if form.Image != nil {
		url, err := services.SaveImage(form.Image)
		if err != nil {
			RenderServerError(c)
			return
		}
		post.Image = url
	}

	if err := db.DB.Create(&post).Error; err != nil {
		RenderServerError(c)
		return
	}

	invalidateIndex()
	c.Redirect(http.StatusFound, "/")
}

func (h *PostHandler) Detail(c *gin.Context) {
	post, ok := resolvePost(c)
	if !ok {
		return
	}

	comments, err := models.CommentsForPost(db.DB, post.ID)
	if err != nil {
		RenderServerError(c)
		return
	}

	postCount, err := models.CountPosts(db.DB, models.PostFilter{AuthorID: post.UserID})
	if err != nil {
		RenderServerError(c)
		return
	}

	Render(c, http.StatusOK, "post/detail.html", gin.H{
		"Title":     fmt.Sprintf("Post by %s", post.User.Username),
		"Post":      post,
		"Author":    post.User,
		"PostCount": postCount,
		"Comments":  comments,
		"Form":      forms.NewCommentForm(""),
	})
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	post, ok := resolvePost(c)
	if !ok {
		return
	}

	// Only the author edits; everyone else is bounced to the post itself.
	if post.UserID != user.ID {
		c.Redirect(http.StatusFound, detailPath(post.User.Username, post.ID))
		return
	}

	groups, err := models.AllGroups(db.DB)
	if err != nil {
		RenderServerError(c)
		return
	}

	form := forms.NewPostForm(post.Text, "", nil)
	form.GroupID = post.GroupID

	Render(c, http.StatusOK, "post/form.html", gin.H{
		"Title":  "Edit post",
		"Edit":   true,
		"Post":   post,
		"Form":   form,
		"Groups": groups,
	})
}

func (h *PostHandler) Edit(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	post, ok := resolvePost(c)
	if !ok {
		return
	}

	if post.UserID != user.ID {
		c.Redirect(http.StatusFound, detailPath(post.User.Username, post.ID))
		return
	}

	image, _ := c.FormFile("image")
	form := forms.NewPostForm(c.PostForm("text"), c.PostForm("group"), image)
	if !form.Valid() {
		groups, _ := models.AllGroups(db.DB)
		Render(c, http.StatusOK, "post/form.html", gin.H{
			"Title":  "Edit post",
			"Edit":   true,
			"Post":   post,
			"Form":   form,
			"Groups": groups,
		})
		return
	}

	// Text, group and image are the only editable fields. Author and id
	// never change.
	post.Text = form.Text
	post.GroupID = form.GroupID
	if form.Image != nil {
		url, err := services.SaveImage(form.Image)
		if err != nil {
			RenderServerError(c)
			return
		}
		post.Image = url
	}

	if err := db.DB.Save(post).Error; err != nil {
		RenderServerError(c)
		return
	}

	invalidateIndex()
	c.Redirect(http.StatusFound, detailPath(post.User.Username, post.ID))
}

func (h *PostHandler) AddComment(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	post, ok := resolvePost(c)
	if !ok {
		return
	}

	form := forms.NewCommentForm(c.PostForm("text"))
	if form.Valid() {
		comment := models.Comment{
			PostID: post.ID,
			UserID: user.ID,
			Text:   form.Text,
		}
		if err := db.DB.Create(&comment).Error; err != nil {
			RenderServerError(c)
			return
		}
	}

	// An invalid comment is dropped and the request redirects exactly like a
	// successful one. Matches the historical behavior of this route.
	c.Redirect(http.StatusFound, detailPath(post.User.Username, post.ID))
}
