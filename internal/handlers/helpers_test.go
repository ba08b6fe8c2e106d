package handlers_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"inkwell/internal/db"
	"inkwell/internal/models"
	"inkwell/internal/router"
	"inkwell/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "password123"

// setupTest points the global DB at a fresh in-memory sqlite database and
// clears the page cache so tests cannot see each other's renders.
func setupTest(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// The in-memory database lives in a single connection.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	db.DB = gdb

	utils.GetCache().Purge()
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("inkwell_session", store))
	router.Configure(r, "../../web/templates")
	return r
}

func createUser(t *testing.T, username, email string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)
	user := &models.User{Username: username, Email: email, Password: hash}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

func createGroup(t *testing.T, title, slug string) *models.Group {
	t.Helper()

	group := &models.Group{Title: title, Slug: slug}
	require.NoError(t, db.DB.Create(group).Error)
	return group
}

// login performs a real form login and returns the session cookies.
func login(t *testing.T, r *gin.Engine, username string) []*http.Cookie {
	t.Helper()

	w := postForm(r, "/login", url.Values{
		"username": {username},
		"password": {testPassword},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func get(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// postMultipart submits fields plus an optional file under the image field.
func postMultipart(t *testing.T, r *gin.Engine, path string, fields map[string]string, filename string, file []byte, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, val := range fields {
		require.NoError(t, w.WriteField(key, val))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{G: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func postCount(t *testing.T) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.DB.Model(&models.Post{}).Count(&count).Error)
	return count
}

func commentCount(t *testing.T) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.DB.Model(&models.Comment{}).Count(&count).Error)
	return count
}

func followCount(t *testing.T) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.DB.Model(&models.Follow{}).Count(&count).Error)
	return count
}
