package handlers

import (
	"net/http"
	"strings"

	"inkwell/internal/db"
	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", gin.H{"Title": "Sign up", "Username": "", "Email": ""})
}

func (h *AuthHandler) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if username == "" || email == "" {
		Render(c, http.StatusOK, "auth/register.html", gin.H{
			"Title":    "Sign up",
			"Error":    "Username and email are required",
			"Username": username,
			"Email":    email,
		})
		return
	}
	if len(password) < 6 {
		Render(c, http.StatusOK, "auth/register.html", gin.H{
			"Title":    "Sign up",
			"Error":    "Password must be at least 6 characters",
			"Username": username,
			"Email":    email,
		})
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		RenderServerError(c)
		return
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		Render(c, http.StatusOK, "auth/register.html", gin.H{
			"Title":    "Sign up",
			"Error":    "That username or email is already taken",
			"Username": username,
			"Email":    email,
		})
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", gin.H{
		"Title":    "Log in",
		"Username": "",
		"Next":     c.Query("next"),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := c.PostForm("next")

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil ||
		!utils.CheckPassword(user.Password, password) {
		Render(c, http.StatusOK, "auth/login.html", gin.H{
			"Title":    "Log in",
			"Error":    "Invalid username or password",
			"Username": username,
			"Next":     next,
		})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		RenderServerError(c)
		return
	}

	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete("user_id")
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

// safeNext only follows local redirect targets.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}
