package auth

import (
	"errors"
	"net/http"
	"strings"

	"propt-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

// Auth validates the bearer token and stores the caller's session on the
// request context for handlers further down the chain.
func Auth(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractBearerToken(c)
		if tokenString == "" {
			util.HandleError(c, http.StatusUnauthorized, errors.New("request does not contain an access token"))
			return
		}

		claim, err := tokens.Validate(c.Request.Context(), tokenString)
		if err != nil {
			util.HandleError(c, http.StatusUnauthorized, err)
			return
		}

		if err := SetSession(c, claim, tokenString); err != nil {
			util.HandleError(c, http.StatusUnauthorized, err)
			return
		}

		c.Next()
	}
}

// ExtractBearerToken returns the token from "Authorization: Bearer <token>".
// A bare token without the scheme is accepted too.
func ExtractBearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	if scheme, token, ok := strings.Cut(header, " "); ok {
		if !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return header
}
