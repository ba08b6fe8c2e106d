package middleware

import (
	"net/http"
	"net/url"

	"inkwell/internal/db"
	"inkwell/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// AuthRequired ensures a user is logged in. Anonymous requests are sent to the
// login page with the original target preserved in the next parameter.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			target := c.Request.URL.RequestURI()
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(target))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser resolves the session user and sets it on the request context.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if id, ok := userID.(uint); ok && id != 0 {
			var user models.User
			if err := db.DB.First(&user, id).Error; err == nil {
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the request's authenticated user, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(CheckUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}
