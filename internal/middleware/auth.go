package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/interview-qa/internal/token"
	"github.com/prohmpiriya/interview-qa/pkg/logger"
	"github.com/prohmpiriya/interview-qa/pkg/response"
	"go.uber.org/zap"
)

const (
	claimsKey = "auth_claims"
	// UserIDKey holds the caller's subject id in the gin context
	UserIDKey = "user_id"

	bearerPrefix = "Bearer "
)

const (
	MsgNoToken      = "No token provided"
	MsgInvalidToken = "Invalid or expired token"
	MsgAuthError    = "Authentication error"
)

// Verifier checks a token string
type Verifier interface {
	Verify(tokenString string) token.Result
}

// AuthConfig configures the auth gate
type AuthConfig struct {
	Verifier   Verifier
	CookieName string
	Logger     *logger.Logger
}

// Auth rejects requests without a valid token. The Authorization header is
// tried first; the cookie is read only when no Bearer header is sent.
func Auth(cfg *AuthConfig) gin.HandlerFunc {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "token"
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}

	return func(c *gin.Context) {
		claims, reason, ok := authenticate(c, cfg.Verifier, cookieName, log)
		if !ok {
			response.Unauthorized(c, reason)
			return
		}

		c.Set(claimsKey, claims)
		c.Set(UserIDKey, claims.SubjectID)
		c.Request = c.Request.WithContext(token.NewContext(c.Request.Context(), claims))
		c.Next()
	}
}

// authenticate never panics; a panic while extracting or verifying
// becomes an authentication error
func authenticate(c *gin.Context, v Verifier, cookieName string, log *logger.Logger) (claims *token.Claims, msg string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Panic in auth gate",
				zap.Any("panic", r),
				zap.String("path", c.Request.URL.Path),
			)
			claims, msg, ok = nil, MsgAuthError, false
		}
	}()

	raw := extractToken(c, cookieName)
	if raw == "" {
		return nil, MsgNoToken, false
	}

	res := v.Verify(raw)
	if !res.Valid() {
		log.Debug("Token rejected",
			zap.String("reason", string(res.Reason)),
			zap.String("path", c.Request.URL.Path),
		)
		return nil, MsgInvalidToken, false
	}
	return res.Claims, "", true
}

func extractToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}

	value, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return value
}

// ClaimsFrom returns the claims attached by Auth
func ClaimsFrom(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok && claims != nil
}

// UserID returns the authenticated subject id, or "" outside Auth
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// SetAuthCookie writes the token cookie. maxAge < 0 deletes it.
func SetAuthCookie(c *gin.Context, name, value string, maxAge int, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", domain, secure, true)
}
