package services

import (
	"context"
	"strings"
	"time"

	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/util"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	users  UserStore
	tokens TokenIssuer
}

func NewUserService(users UserStore, tokens TokenIssuer) UserService {
	return &UserServiceImpl{users: users, tokens: tokens}
}

func (us *UserServiceImpl) Register(ctx context.Context, req models.RegisterUserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := us.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, errs.Conflictf("email %s is already registered", email)
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	now := time.Now()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
		Role:         models.UserRoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := us.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (us *UserServiceImpl) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := us.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.Unauthorizedf("invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errs.Unauthorizedf("invalid email or password")
	}
	if !user.IsActive {
		return nil, errs.Unauthorizedf("account is deactivated")
	}

	token, expiresAt, err := us.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := us.users.TouchLogin(ctx, user.ID, now); err != nil {
		util.LogError("services", "Login", "record last login", user.ID.Hex(), err)
	}
	user.LastLogin = &now

	return &models.LoginResponse{AccessToken: token, ExpiresAt: expiresAt, User: *user}, nil
}

func (us *UserServiceImpl) Logout(ctx context.Context, token string) error {
	return us.tokens.Revoke(ctx, token)
}

func (us *UserServiceImpl) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return us.users.FindByID(ctx, id)
}

func (us *UserServiceImpl) GetUsers(ctx context.Context) ([]models.User, error) {
	return us.users.FindAll(ctx)
}

func (us *UserServiceImpl) UpdateUserRole(ctx context.Context, id primitive.ObjectID, role models.UserRole) (*models.User, error) {
	parsed, err := models.ParseUserRole(string(role))
	if err != nil {
		return nil, errs.InvalidArgumentf("%v", err)
	}
	return us.users.SetRole(ctx, id, parsed)
}

func (us *UserServiceImpl) UpdateUserStatus(ctx context.Context, id primitive.ObjectID, active bool) (*models.User, error) {
	return us.users.SetActive(ctx, id, active)
}
