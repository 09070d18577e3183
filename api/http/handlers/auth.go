package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dmoreira/login-service/api/http/presenter"
	"github.com/dmoreira/login-service/pkg/auth"
	"github.com/dmoreira/login-service/pkg/security/jwt"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
}

func NewAuthHandler(useCase auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register handles user registration.
// @Summary Register user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body registerRequest true "registration payload"
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	user, err := h.useCase.Register(c.Context(), req.Name, req.Email, req.Password, auth.ParseRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			return presenter.Error(c, http.StatusBadRequest, "name, email and password are required")
		case errors.Is(err, auth.ErrEmailTaken):
			return presenter.Error(c, http.StatusConflict, "email already registered")
		default:
			log.Printf("register: %v", err)
			return presenter.Error(c, http.StatusInternalServerError, "failed to register user")
		}
	}

	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"message": "user registered",
		"user":    user.Public(),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if auth.NormalizeEmail(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "email and password are required")
	}

	result, err := h.useCase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return presenter.Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		log.Printf("login: %v", err)
		return presenter.Error(c, http.StatusInternalServerError, "failed to login")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"message": "login successful",
		"token":   result.Token,
		"user":    result.User.Public(),
	})
}

// Me returns the authenticated user's profile.
// @Summary Current user profile
// @Tags    auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals(jwt.LocalsUserID).(string)

	user, err := h.useCase.Me(c.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "user not found")
		}
		log.Printf("me: %v", err)
		return presenter.Error(c, http.StatusInternalServerError, "failed to fetch profile")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{"user": user.Public()})
}

// AdminOnly is a role-gated probe route; the admin check itself lives in
// the middleware.
// @Summary Admin-only probe
// @Tags    auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]bool
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Router  /auth/admin-only [get]
func (h *AuthHandler) AdminOnly(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, fiber.Map{"ok": true})
}
