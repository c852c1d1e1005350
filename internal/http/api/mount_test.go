package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/islampath/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

type oneUser struct{ user *model.User }

func (o oneUser) GetUserByID(id int) (*model.User, error) {
	if o.user != nil && o.user.ID == id {
		return o.user, nil
	}
	return nil, errors.New("not found")
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r http.Handler, method, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMountGroupSkipsNilModules(t *testing.T) {
	r := gin.New()
	var missing Module
	grp := MountGroup(r, GroupConfig{Prefix: "/api"},
		ModuleFunc(func(c *Controller) {
			c.PUBLIC_GET("/ping", func(*gin.Context) (any, *APIError) { return gin.H{"ok": true}, nil })
			c.PUBLIC_DELETE("/things/:id", func(*gin.Context) (any, *APIError) { return nil, nil })
		}),
		missing,
	)
	assert.Equal(t, "/api", grp.BasePath())

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/ping").Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/api/things/1").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/ping").Code)
}

func TestMountGroupRunsGroupMiddlewareBeforeAuth(t *testing.T) {
	r := gin.New()
	users := oneUser{user: &model.User{ID: 3, Email: "editor@example.com"}}
	tag := func(c *gin.Context) { c.Header("X-Seen", "1"); c.Next() }

	MountGroup(r, GroupConfig{
		Prefix:     "/api/admin",
		Auth:       true,
		SecretKey:  "s3cret",
		Users:      users,
		Middleware: []gin.HandlerFunc{tag},
	}, ModuleFunc(func(c *Controller) {
		c.GET("/whoami", func(_ *gin.Context, u *model.User) (any, *APIError) { return gin.H{"email": u.Email}, nil })
		c.POST("/fail", func(*gin.Context, *model.User) (any, *APIError) { return nil, NotFound("missing") })
	}))

	w := serve(r, http.MethodGet, "/api/admin/whoami")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Seen"))

	token, err := middleware.GenerateJWT(3, "s3cret")
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/api/admin/whoami", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "editor@example.com")

	w = serve(r, http.MethodPost, "/api/admin/fail", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"missing"}`, w.Body.String())
}
