package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/shakedma/avatar-pipeline/config"
)

const ContextSubjectKey = "subject"

type AuthHandler interface {
	AuthMiddleware() gin.HandlerFunc
}

// authHandler protects the server either with a shared app token or,
// when a JWKS URL is configured, with verified bearer JWTs.
type authHandler struct {
	appToken string
	jwks     *keyfunc.JWKS
}

func NewAuthHandler(serverConfig *config.ServerConfig) (AuthHandler, error) {
	handler := &authHandler{appToken: serverConfig.AppToken}

	if serverConfig.JwksUrl != "" {
		jwks, err := keyfunc.Get(serverConfig.JwksUrl, keyfunc.Options{
			RefreshErrorHandler: func(err error) {
				log.Error().Err(err).Msg("JWKS refresh failed")
			},
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  time.Minute * 5,
			RefreshTimeout:    time.Second * 10,
			RefreshUnknownKID: true,
		})
		if err != nil {
			return nil, err
		}
		handler.jwks = jwks
	}

	return handler, nil
}

func (h *authHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		if h.jwks != nil {
			h.verifyJwt(c, token)
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(h.appToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

func (h *authHandler) verifyJwt(c *gin.Context, tokenString string) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, h.jwks.Keyfunc)
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.Set(ContextSubjectKey, claims.Subject)
	c.Next()
}
