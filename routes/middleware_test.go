package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/lektor-lms/lektor/auth"
	"github.com/lektor-lms/lektor/courserole"
	"github.com/lektor-lms/lektor/libs/datatypes"
)

var testSecret = []byte("test-secret-not-for-production")

func init() {
	gin.SetMode(gin.TestMode)
}

func signedToken(t *testing.T, claims *TokenClaims) string {
	t.Helper()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	assert.NoError(t, err)
	return token
}

func principalCapturingRouter(captured **auth.Principal) *gin.Engine {
	r := gin.New()
	r.Use(BearerAuthMiddleware(testSecret, nil))
	r.GET("/whoami", func(c *gin.Context) {
		p, ok := PrincipalFromContext(c)
		if ok {
			*captured = p
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestBearerAuthMiddleware_BuildsPrincipal(t *testing.T) {
	uid := datatypes.NewUUIDFromStringNoErr("1e98bfc3-2721-492a-bfd3-09f7dd3c1565")
	courseID := "d113ed09-cfc5-47a5-b35c-6f60c49cbd08"

	token := signedToken(t, &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: uid.String()},
		Roles:            []string{"_user"},
		General:          map[string][]string{"organization": {"create"}},
		Dependent:        map[string]map[string][]string{"course": {courseID: {"_tutor", "_student"}}},
	})

	var p *auth.Principal
	r := principalCapturingRouter(&p)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	if !assert.NotNil(t, p) {
		return
	}
	assert.True(t, uid.Equal(p.UserID))
	assert.False(t, p.IsAdmin)
	assert.True(t, p.HasGeneral("organization", auth.ActionCreate))
	assert.True(t, p.HasCourseRole(datatypes.NewUUIDFromStringNoErr(courseID), courserole.RoleTutor))
	assert.False(t, p.HasCourseRole(datatypes.NewUUIDFromStringNoErr(courseID), courserole.RoleLecturer))
}

func TestBearerAuthMiddleware_AdminFlag(t *testing.T) {
	uid := datatypes.NewUUID()
	token := signedToken(t, &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: uid.String()},
		Admin:            true,
	})

	var p *auth.Principal
	r := principalCapturingRouter(&p)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, p) {
		assert.True(t, p.IsAdmin)
	}
}

func TestBearerAuthMiddleware_RejectsMissingToken(t *testing.T) {
	var p *auth.Principal
	r := principalCapturingRouter(&p)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, p)
}

func TestBearerAuthMiddleware_RejectsBadSignature(t *testing.T) {
	uid := datatypes.NewUUID()
	claims := &TokenClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   uid.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other secret"))
	assert.NoError(t, err)

	var p *auth.Principal
	r := principalCapturingRouter(&p)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, p)
}

func TestBearerAuthMiddleware_RejectsNonUUIDSubject(t *testing.T) {
	token := signedToken(t, &TokenClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "bob"}})

	var p *auth.Principal
	r := principalCapturingRouter(&p)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, p)
}
