package routes

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/lektor-lms/lektor/auth"
	"github.com/lektor-lms/lektor/courserole"
	"github.com/lektor-lms/lektor/libs/datatypes"
	"github.com/lektor-lms/lektor/libs/webrender"
)

const ctxKeyPrincipal = "lektor.principal"

// TokenClaims is the shape the SSO front puts into the bearer token. The
// sub claim is the user id. Claims are read once here; the Principal built
// from them is immutable for the rest of the request.
type TokenClaims struct {
	jwt.RegisteredClaims

	Admin bool     `json:"adm,omitempty"`
	Roles []string `json:"roles,omitempty"`

	// General maps resource type -> allowed actions, e.g.
	// {"organization": ["create"]}
	General map[string][]string `json:"general,omitempty"`

	// Dependent maps resource type -> resource id -> course roles, e.g.
	// {"course": {"<uuid>": ["_tutor"]}}
	Dependent map[string]map[string][]string `json:"dependent,omitempty"`
}

// PrincipalFromClaims turns verified token claims into the request
// principal.
func PrincipalFromClaims(claims *TokenClaims) (*auth.Principal, error) {
	uid, err := datatypes.NewUUIDFromString(claims.Subject)
	if err != nil {
		return nil, errors.New("token subject is not a user id")
	}

	general := make(map[auth.GeneralClaim]bool)
	for resource, actions := range claims.General {
		for _, action := range actions {
			general[auth.GeneralClaim{Resource: resource, Action: auth.Action(action)}] = true
		}
	}

	dependent := make(map[string]map[string][]courserole.Role)
	for resource, byID := range claims.Dependent {
		dependent[resource] = make(map[string][]courserole.Role, len(byID))
		for id, roles := range byID {
			rs := make([]courserole.Role, 0, len(roles))
			for _, r := range roles {
				rs = append(rs, courserole.Role(r))
			}
			dependent[resource][id] = rs
		}
	}

	return &auth.Principal{
		UserID:  uid,
		IsAdmin: claims.Admin,
		Roles:   claims.Roles,
		Claims:  auth.Claims{General: general, Dependent: dependent},
	}, nil
}

// BearerAuthMiddleware verifies the bearer token and stores the Principal in
// the request context. No token, no route.
func BearerAuthMiddleware(secret []byte, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			renderErr(c, webrender.NewErrTokenInvalid(err))
			c.Abort()
			return
		}

		claims := TokenClaims{}
		_, err = jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		})
		if err != nil {
			if logger != nil {
				logger.WithError(err).Debug("bearer token rejected")
			}
			renderErr(c, webrender.NewErrTokenInvalid(err))
			c.Abort()
			return
		}

		p, err := PrincipalFromClaims(&claims)
		if err != nil {
			renderErr(c, webrender.NewErrTokenInvalid(err))
			c.Abort()
			return
		}

		c.Set(ctxKeyPrincipal, p)
		c.Next()
	}
}

// PrincipalFromContext fetches what BearerAuthMiddleware stored.
func PrincipalFromContext(c *gin.Context) (*auth.Principal, bool) {
	v, ok := c.Get(ctxKeyPrincipal)
	if !ok {
		return nil, false
	}
	p, ok := v.(*auth.Principal)
	return p, ok
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("missing Authorization header")
	}
	toks := strings.SplitN(header, " ", 2)
	if len(toks) != 2 || !strings.EqualFold(toks[0], "Bearer") {
		return "", errors.New("Authorization header is not a bearer token")
	}
	return strings.TrimSpace(toks[1]), nil
}
