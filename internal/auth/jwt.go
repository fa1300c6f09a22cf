package auth

import (
	"context"
	"errors"
	"time"

	"propt-api-io/api/pkg/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const blacklistPrefix = "blacklist:"

var ErrTokenRevoked = errors.New("token has been revoked, please login again")

type JWTClaim struct {
	Id    string          `json:"id"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Get user object ID from JWTClaim.
func (j JWTClaim) GetUserObjectId() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(j.Id)
}

// TokenManager signs access tokens and keeps a redis blacklist of revoked ones.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
}

func NewTokenManager(secret string, ttl time.Duration, rdb *redis.Client) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, rdb: rdb}
}

// Issue signs an HS256 token for user.
func (m *TokenManager) Issue(user *models.User) (string, time.Time, error) {
	return GenerateJWT(m.secret, user, m.ttl, time.Now())
}

// Validate checks the signature, expiry and blacklist.
func (m *TokenManager) Validate(ctx context.Context, signedToken string) (JWTClaim, error) {
	claim, err := ValidateToken(m.secret, signedToken)
	if err != nil {
		return JWTClaim{}, err
	}

	err = m.rdb.Get(ctx, blacklistPrefix+signedToken).Err()
	if errors.Is(err, redis.Nil) {
		return claim, nil
	}
	if err != nil {
		return JWTClaim{}, err
	}
	return JWTClaim{}, ErrTokenRevoked
}

// Revoke blacklists the token for the rest of its lifetime. Tokens that do
// not parse are already unusable and are ignored.
func (m *TokenManager) Revoke(ctx context.Context, signedToken string) error {
	claim, err := ValidateToken(m.secret, signedToken)
	if err != nil {
		return nil
	}

	ttl := m.ttl
	if claim.ExpiresAt != nil {
		ttl = time.Until(claim.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return m.rdb.Set(ctx, blacklistPrefix+signedToken, true, ttl).Err()
}

// GenerateJWT creates a signed token for user valid for ttl from now.
func GenerateJWT(secret []byte, user *models.User, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expirationTime := now.Add(ttl)
	claims := JWTClaim{
		Id:    user.ID.Hex(),
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expirationTime, nil
}

// ValidateToken parses a signed token. Expired tokens and tokens signed with
// any other method are rejected.
func ValidateToken(secret []byte, signedToken string) (JWTClaim, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&JWTClaim{},
		func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return JWTClaim{}, err
	}

	claim, ok := token.Claims.(*JWTClaim)
	if !ok || !token.Valid {
		return JWTClaim{}, errors.New("couldn't parse claims")
	}
	return *claim, nil
}
