package authorization

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MiniduTH/vitalink-sub001/role"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

const (
	CookieName = "session"
	LoginPath  = "/login"
	CodeKey    = "code"
	RoleKey    = "role"
	NameKey    = "name"
)

var ErrInvalidSession = errors.New("invalid session token")

type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
	Role string `json:"role"`
}

// Manager issues and checks session tokens. With enforceAPI off, API
// requests without a session pass through untouched and only browser
// navigation is sent to the login page.
type Manager struct {
	secret     []byte
	ttl        time.Duration
	enforceAPI bool
}

func NewManager(secret string, ttl time.Duration, enforceAPI bool) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, enforceAPI: enforceAPI}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Issue(userID, name, roleCode string) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(m.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			Issuer:    "vitalink",
		},
		Name: name,
		Role: roleCode,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		log.Println("Error while signing session token: ", err)
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (m *Manager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidSession
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

/*
* Read the token from the session cookie or the bearer header
* A valid token puts code, role and name on the context
* Without one, browsers are redirected to the login page and API calls
* are rejected only when enforcement is on
 */
func (m *Manager) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := m.Parse(tokenFrom(c)); err == nil {
			c.Set(CodeKey, claims.Subject)
			c.Set(RoleKey, claims.Role)
			c.Set(NameKey, claims.Name)
			c.Next()
			return
		}

		if wantsHTML(c.Request) {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		if m.enforceAPI {
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedResponse(errors.New(util.AUTHENTICATION_REQUIRED)))
			return
		}
		c.Next()
	}
}

// Authorize checks the role catalog for the session user. It is a no-op
// when API enforcement is off.
func (m *Manager) Authorize(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enforceAPI {
			c.Next()
			return
		}
		roleCode := c.GetString(RoleKey)
		if !role.Allows(roleCode, resource, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, util.FailedResponse(errors.New(util.ACCESS_DENIED)))
			return
		}
		c.Next()
	}
}

func (m *Manager) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(m.ttl.Seconds()), "/", "", false, true)
}

func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

func tokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}
