package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/jwt-auth-api/internal/apperror"
	"github.com/redmonkez12/jwt-auth-api/internal/auth"
	"github.com/redmonkez12/jwt-auth-api/internal/httputil"
	"github.com/redmonkez12/jwt-auth-api/internal/logging"
	"github.com/redmonkez12/jwt-auth-api/internal/user"
)

// Handler contains HTTP handlers for authentication and profile endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents the profile update request body.
// Absent fields are left unchanged.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitnil,min=1"`
	Email    *string `json:"email,omitempty" validate:"omitnil,email"`
	Password *string `json:"password,omitempty" validate:"omitnil,min=6"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Message string        `json:"message"`
	User    *user.Profile `json:"user"`
	Token   string        `json:"token"`
}

// ProfileResponse is returned by the profile endpoints
type ProfileResponse struct {
	Message string        `json:"message"`
	User    *user.Profile `json:"user,omitempty"`
}

// Routes mounts the public /auth endpoints
func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
}

// ProfileRoutes mounts the /users/me endpoints. The caller must install
// auth.Middleware.RequireAuth in front of them.
func (h *Handler) ProfileRoutes(r chi.Router) {
	r.Get("/me", h.GetProfile)
	r.Put("/me", h.UpdateProfile)
	r.Delete("/me", h.DeleteProfile)
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new account and receive a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201 {object} AuthResponse
// @Failure      400 {object} httputil.ValidationErrorResponse "Invalid request or validation error"
// @Failure      409 {object} httputil.ErrorResponse "Email already exists"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondServiceError(w, logger, err)
		return
	}

	httputil.RespondJSON(w, AuthResponse{
		Message: "User registered successfully",
		User:    result.User,
		Token:   result.Token,
	}, http.StatusCreated)
}

// Login handles user login
// @Summary      Login
// @Description  Authenticate with email and password and receive a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} AuthResponse
// @Failure      400 {object} httputil.ValidationErrorResponse "Invalid request or validation error"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, logger, err)
		return
	}

	httputil.RespondJSON(w, AuthResponse{
		Message: "Login successful",
		User:    result.User,
		Token:   result.Token,
	}, http.StatusOK)
}

// GetProfile returns the caller's profile
// @Summary      Get current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ProfileResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /users/me [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, logger, err)
		return
	}

	httputil.RespondJSON(w, ProfileResponse{
		Message: "User profile retrieved successfully",
		User:    profile,
	}, http.StatusOK)
}

// UpdateProfile changes the caller's name, email or password
// @Summary      Update current user
// @Description  Partially update the profile. At least one field is required.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Fields to change"
// @Success      200 {object} ProfileResponse
// @Failure      400 {object} httputil.ValidationErrorResponse "Invalid request or no fields"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      409 {object} httputil.ErrorResponse "Email already exists"
// @Failure      500 {object} httputil.ErrorResponse "Update failed"
// @Router       /users/me [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if req.Name == nil && req.Email == nil && req.Password == nil {
		httputil.RespondErrorWithCode(w, "at least one field (name, email or password) must be provided", httputil.CodeNoFieldsToUpdate, http.StatusBadRequest)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(w, logger, err)
		return
	}

	httputil.RespondJSON(w, ProfileResponse{
		Message: "User profile updated successfully",
		User:    profile,
	}, http.StatusOK)
}

// DeleteProfile permanently deletes the caller's account
// @Summary      Delete current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ProfileResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      500 {object} httputil.ErrorResponse "Delete failed"
// @Router       /users/me [delete]
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	if err := h.service.DeleteProfile(r.Context(), userID); err != nil {
		respondServiceError(w, logger, err)
		return
	}

	httputil.RespondJSON(w, ProfileResponse{
		Message: "User account deleted successfully",
	}, http.StatusOK)
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	logger := logging.GetLoggerFromContext(r.Context())

	if err := httputil.DecodeJSON(r, dst); err != nil {
		logger.Warn("invalid request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return false
	}

	if details := httputil.Validate(dst); len(details) > 0 {
		logger.Debug("request validation failed", "fields", len(details))
		httputil.RespondValidationError(w, details)
		return false
	}

	return true
}

// respondServiceError maps an account service error to a status and code
func respondServiceError(w http.ResponseWriter, logger *logging.Logger, err error) {
	switch apperror.KindOf(err) {
	case apperror.EmailAlreadyExists:
		httputil.RespondErrorWithCode(w, "email already exists", httputil.CodeEmailAlreadyExists, http.StatusConflict)
	case apperror.InvalidCredentials:
		httputil.RespondErrorWithCode(w, "invalid email or password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
	case apperror.UserNotFound:
		httputil.RespondErrorWithCode(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
	case apperror.UpdateFailed:
		logger.Error("profile update affected no rows", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update user profile", httputil.CodeUpdateFailed, http.StatusInternalServerError)
	case apperror.DeleteFailed:
		logger.Error("profile delete affected no rows", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete user account", httputil.CodeDeleteFailed, http.StatusInternalServerError)
	case apperror.InvalidToken:
		httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
	default:
		logger.Error("request failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
	}
}
