package handlers

import (
	"net/http"

	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// Profile shows an author's posts plus their follow counts.
func (h *ProfileHandler) Profile(c *gin.Context) {
	author, err := models.UserByUsername(db.DB, c.Param("username"))
	if err != nil {
		RenderNotFound(c, "User not found")
		return
	}

	filter := models.PostFilter{AuthorID: author.ID}
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

	following := false
	if viewer, ok := middleware.CurrentUser(c); ok {
		following = models.IsFollowing(db.DB, viewer.ID, author.ID)
	}

	Render(c, http.StatusOK, "user/profile.html", gin.H{
		"Title":          author.Username,
		"Author":         author,
		"Posts":          posts,
		"Page":           page,
		"BasePath":       "/profile/" + author.Username,
		"FollowerCount":  models.FollowerCount(db.DB, author.ID),
		"FollowingCount": models.FollowingCount(db.DB, author.ID),
		"Following":      following,
	})
}

// FollowIndex lists posts by every author the viewer follows. Following
// nobody yields an empty page, not an error.
func (h *ProfileHandler) FollowIndex(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	filter := models.PostFilter{FollowerID: user.ID}
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
		"Title":    "Your feed",
		"Active":   "follow",
		"Posts":    posts,
		"Page":     page,
		"BasePath": "/follow",
	})
}

// Follow creates the follow edge unless it exists or targets the follower
// themselves. Re-following is a no-op.
func (h *ProfileHandler) Follow(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	author, err := models.UserByUsername(db.DB, c.Param("username"))
	if err != nil {
		RenderNotFound(c, "User not found")
		return
	}

	if author.ID != user.ID {
		follow := models.Follow{FollowerID: user.ID, AuthorID: author.ID}
		// FirstOrCreate plus the unique index keeps concurrent requests
		// from doubling the edge.
		err := db.DB.Where("follower_id = ? AND author_id = ?", user.ID, author.ID).
			FirstOrCreate(&follow).Error
		if err != nil {
			RenderServerError(c)
			return
		}
	}

	c.Redirect(http.StatusFound, "/profile/"+author.Username)
}

// Unfollow removes the edge if present. Unfollowing a non-followed author is
// a no-op.
func (h *ProfileHandler) Unfollow(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	author, err := models.UserByUsername(db.DB, c.Param("username"))
	if err != nil {
		RenderNotFound(c, "User not found")
		return
	}

	err = db.DB.Where("follower_id = ? AND author_id = ?", user.ID, author.ID).
		Delete(&models.Follow{}).Error
	if err != nil {
		RenderServerError(c)
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+author.Username)
}
