package controllers

import (
	"net/http"

	"propt-api-io/api/internal/auth"
	"propt-api-io/api/internal/helpers"
	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/services"
	"propt-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService services.UserService
}

func InitUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// Register -> POST /auth/register
func (uc *UserController) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		var req models.RegisterUserRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}

		user, err := uc.userService.Register(ctx, req)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusCreated, "Signup successful", user)
	}
}

// Login -> POST /auth/login
func (uc *UserController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		var req models.LoginRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}

		res, err := uc.userService.Login(ctx, req)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Login successful", res)
	}
}

// Logout -> DELETE /auth/logout
func (uc *UserController) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		session, err := auth.GetSessionAuto(c)
		if err != nil {
			util.HandleServiceError(c, errs.Unauthorizedf("%v", err))
			return
		}
		if err := uc.userService.Logout(ctx, session.Token); err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "Logout successful", nil)
	}
}

// Me -> GET /auth/me
func (uc *UserController) Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		myId, ok := helpers.MyId(c)
		if !ok {
			return
		}
		user, err := uc.userService.GetUser(ctx, myId)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "success", user)
	}
}

// GetUsers -> GET /users (admin)
func (uc *UserController) GetUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		users, err := uc.userService.GetUsers(ctx)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "success", users)
	}
}

// GetUser -> GET /users/:id (admin)
func (uc *UserController) GetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		user, err := uc.userService.GetUser(ctx, id)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "success", user)
	}
}

// UpdateUserRole -> PUT /users/:id/role (admin)
func (uc *UserController) UpdateUserRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		var req models.UpdateUserRoleRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}

		user, err := uc.userService.UpdateUserRole(ctx, id, req.Role)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "User role updated", user)
	}
}

// UpdateUserStatus -> PUT /users/:id/status (admin)
func (uc *UserController) UpdateUserStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := helpers.ParamObjectID(c, "id")
		if !ok {
			return
		}
		var req models.UpdateUserStatusRequest
		if !helpers.BindAndValidate(c, &req) {
			return
		}

		user, err := uc.userService.UpdateUserStatus(ctx, id, *req.IsActive)
		if err != nil {
			util.HandleServiceError(c, err)
			return
		}
		util.HandleSuccess(c, http.StatusOK, "User status updated", user)
	}
}
