package auth

import (
	"errors"
	"time"

	"propt-api-io/api/pkg/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const sessionKey = "session"

var ErrNoSession = errors.New("unauthorized: no authenticated user on this request")

type UserSession struct {
	ExpiresAt time.Time          `json:"expiresAt"`
	UserId    primitive.ObjectID `json:"userId"`
	Email     string             `json:"email"`
	Role      models.UserRole    `json:"role"`
	Token     string             `json:"-"`
}

// Checks if user session is expired.
func (s UserSession) Expired() bool {
	return s.ExpiresAt.Before(time.Now())
}

func (s UserSession) IsAdmin() bool {
	return s.Role == models.UserRoleAdmin
}

// SetSession stores the authenticated caller on the gin context.
func SetSession(c *gin.Context, claim JWTClaim, token string) error {
	userId, err := claim.GetUserObjectId()
	if err != nil {
		return err
	}

	session := UserSession{UserId: userId, Email: claim.Email, Role: claim.Role, Token: token}
	if claim.ExpiresAt != nil {
		session.ExpiresAt = claim.ExpiresAt.Time
	}
	c.Set(sessionKey, session)
	return nil
}

// GetSessionAuto returns the session placed by the Auth middleware.
func GetSessionAuto(c *gin.Context) (UserSession, error) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return UserSession{}, ErrNoSession
	}
	session, ok := value.(UserSession)
	if !ok || session.Expired() {
		return UserSession{}, ErrNoSession
	}
	return session, nil
}
