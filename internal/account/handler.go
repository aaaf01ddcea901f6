package account

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/account-api/internal/auth"
	"github.com/redmonkez12/account-api/internal/httputil"
	"github.com/redmonkez12/account-api/internal/logging"
)

// Handler contains HTTP handlers for account endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// RegisterResponse represents the registration response
type RegisterResponse struct {
	Message string  `json:"message"`
	User    Profile `json:"user"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the account id it was issued for
type LoginResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
}

// ProfileResponse wraps a public profile
type ProfileResponse struct {
	User Profile `json:"user"`
}

// UpdateRequest represents the profile update request body. ID defaults to
// the authenticated account.
type UpdateRequest struct {
	ID                 string `json:"id,omitempty"`
	CurrentPassword    string `json:"currentPassword"`
	NewName            string `json:"newName,omitempty"`
	NewPassword        string `json:"newPassword,omitempty"`
	ConfirmNewPassword string `json:"confirmNewPassword,omitempty"`
}

// DeleteRequest represents the account deletion request body
type DeleteRequest struct {
	ID       string `json:"id,omitempty"`
	Password string `json:"password"`
}

const somethingWentWrong = "Something went wrong, please try again later."

// Register handles account registration
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201 {object} RegisterResponse
// @Failure      400 {object} httputil.ErrorResponse "Malformed body"
// @Failure      422 {object} httputil.ErrorResponse "Validation error or email in use"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	created, err := h.service.Register(r.Context(), RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			logger.Warn("registration failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusUnprocessableEntity)
		case errors.Is(err, ErrEmailInUse):
			logger.Warn("registration failed: email already in use")
			httputil.RespondErrorWithCode(w, "This email is already in use", httputil.CodeEmailAlreadyExists, http.StatusUnprocessableEntity)
		default:
			logger.Error("registration failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, somethingWentWrong, httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("account registered", "account_id", created.ID)

	httputil.RespondJSON(w, RegisterResponse{
		Message: "User successful created",
		User:    created.Profile(),
	}, http.StatusCreated)
}

// Login handles credential checks and token issue
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} LoginResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Wrong password"
// @Failure      404 {object} httputil.ErrorResponse "Unknown email"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/user [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			logger.Warn("login failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		case errors.Is(err, ErrNotFound):
			logger.Warn("login failed: unknown email")
			httputil.RespondErrorWithCode(w, "User not found, please check your email", httputil.CodeAccountNotFound, http.StatusNotFound)
		case errors.Is(err, ErrInvalidCredentials):
			logger.Warn("login failed: invalid credentials")
			httputil.RespondErrorWithCode(w, "Email or Password incorrect", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
		case errors.Is(err, ErrCorruptCredentials):
			logger.Error("login failed: stored credentials unusable", "error", err.Error())
			httputil.RespondErrorWithCode(w, "Password data is invalid or missing", httputil.CodeCorruptCredentials, http.StatusInternalServerError)
		default:
			logger.Error("login failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, somethingWentWrong, httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("account logged in", "account_id", result.AccountID)

	httputil.RespondJSON(w, LoginResponse{Token: result.Token, ID: result.AccountID}, http.StatusOK)
}

// GetProfile returns the public profile of an account
// @Summary      Get an account profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Account ID"
// @Success      200 {object} ProfileResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid ID format"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "Account not found"
// @Router       /user/{id} [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	id := chi.URLParam(r, "id")

	profile, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidID):
			logger.Warn("profile lookup failed: invalid id", "account_id", id)
			httputil.RespondErrorWithCode(w, "Invalid ID format", httputil.CodeInvalidAccountID, http.StatusBadRequest)
		case errors.Is(err, ErrNotFound):
			logger.Warn("profile lookup failed: not found", "account_id", id)
			httputil.RespondErrorWithCode(w, "User not found", httputil.CodeAccountNotFound, http.StatusNotFound)
		default:
			logger.Error("profile lookup failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, somethingWentWrong, httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondJSON(w, ProfileResponse{User: *profile}, http.StatusOK)
}

// UpdateProfile changes the name and/or password of the authenticated account
// @Summary      Update name and/or password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateRequest true "Update data"
// @Success      201 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Wrong password or foreign account"
// @Failure      409 {object} httputil.ErrorResponse "Value unchanged"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/update [patch]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	callerID, _ := auth.AccountIDFromContext(r.Context())

	var req UpdateRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid update request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	message, err := h.service.UpdateProfile(r.Context(), callerID, UpdateInput{
		ID:                 req.ID,
		CurrentPassword:    req.CurrentPassword,
		NewName:            req.NewName,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			logger.Warn("update failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		case errors.Is(err, ErrConflict):
			logger.Warn("update failed: unchanged value", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeUnchangedValue, http.StatusConflict)
		case errors.Is(err, ErrAccountMismatch), errors.Is(err, ErrInvalidID), errors.Is(err, ErrNotFound):
			logger.Warn("update failed: account not accessible", "error", err.Error())
			httputil.RespondErrorWithCode(w, "User not found, please try again.", httputil.CodeAccountMismatch, http.StatusUnauthorized)
		case errors.Is(err, ErrInvalidCredentials):
			logger.Warn("update failed: wrong current password")
			httputil.RespondErrorWithCode(w, "Your current password is not correct, please try again.", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
		case errors.Is(err, ErrCorruptCredentials):
			logger.Error("update failed: stored credentials unusable", "error", err.Error())
			httputil.RespondErrorWithCode(w, "Password data is invalid or missing", httputil.CodeCorruptCredentials, http.StatusInternalServerError)
		default:
			logger.Error("update failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, somethingWentWrong, httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("account updated", "result", message)

	httputil.RespondMessage(w, message, http.StatusCreated)
}

// DeleteAccount removes the authenticated account
// @Summary      Delete the account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body DeleteRequest true "Password confirmation"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing password or invalid id"
// @Failure      401 {object} httputil.ErrorResponse "Wrong password or foreign account"
// @Failure      404 {object} httputil.ErrorResponse "Account not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/delete [delete]
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	callerID, _ := auth.AccountIDFromContext(r.Context())

	var req DeleteRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid delete request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	err := h.service.DeleteAccount(r.Context(), callerID, DeleteInput{ID: req.ID, Password: req.Password})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			logger.Warn("delete failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		case errors.Is(err, ErrAccountMismatch):
			logger.Warn("delete failed: foreign account")
			httputil.RespondErrorWithCode(w, "You can only delete your own account", httputil.CodeAccountMismatch, http.StatusUnauthorized)
		case errors.Is(err, ErrInvalidID):
			logger.Warn("delete failed: invalid id")
			httputil.RespondErrorWithCode(w, "Invalid ID format", httputil.CodeInvalidAccountID, http.StatusBadRequest)
		case errors.Is(err, ErrNotFound):
			logger.Warn("delete failed: not found")
			httputil.RespondErrorWithCode(w, "User not found", httputil.CodeAccountNotFound, http.StatusNotFound)
		case errors.Is(err, ErrInvalidCredentials):
			logger.Warn("delete failed: wrong password")
			httputil.RespondErrorWithCode(w, "Incorrect password. Try again.", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
		case errors.Is(err, ErrCorruptCredentials):
			logger.Error("delete failed: stored credentials unusable", "error", err.Error())
			httputil.RespondErrorWithCode(w, "Password data is invalid or missing", httputil.CodeCorruptCredentials, http.StatusInternalServerError)
		default:
			logger.Error("delete failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, somethingWentWrong, httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("account deleted")

	httputil.RespondMessage(w, "User account deleted successfully.", http.StatusOK)
}
