package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/maksv/social-network-api/internal/domain"
	"github.com/maksv/social-network-api/internal/service"
	"github.com/maksv/social-network-api/pkg/validator"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

type SigninRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	ResetPasswordToken string `json:"resetPasswordToken"`
	NewPassword        string `json:"newPassword"`
}

type ChangePasswordRequest struct {
	UserID      string `json:"userId"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type SocialLoginRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserResponse is the user payload returned by the auth endpoints. It
// never carries password or photo fields.
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type SigninResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validator.ValidateSignup(req.Username, req.Email, req.FirstName, req.LastName, req.Password); errs.HasErrors() {
		writeValidationError(w, errs)
		return
	}

	user, err := h.authService.Signup(r.Context(), service.SignupInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusForbidden, err.Error())
		default:
			log.Printf("ERROR [auth.Signup] %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeSuccess(w, userResponse(user))
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Signin(r.Context(), service.SigninInput{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusBadRequest, "Invalid username or password")
		case errors.Is(err, service.ErrAccountDisabled):
			writeError(w, http.StatusForbidden, "Account is disabled")
		default:
			log.Printf("ERROR [auth.Signin] %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeSuccess(w, SigninResponse{
		AccessToken: result.AccessToken,
		User:        userResponse(result.User),
	})
}

func (h *AuthHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	var req SocialLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validator.ValidateEmail(req.Email); errs.HasErrors() {
		writeValidationError(w, errs)
		return
	}

	result, err := h.authService.SocialLogin(r.Context(), service.SocialLoginInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		log.Printf("ERROR [auth.SocialLogin] %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeSuccess(w, SigninResponse{
		AccessToken: result.AccessToken,
		User:        userResponse(result.User),
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validator.ValidateEmail(req.Email); errs.HasErrors() {
		writeValidationError(w, errs)
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusBadRequest, "User with this email does not exist")
			return
		}
		log.Printf("ERROR [auth.ForgotPassword] %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeSuccessMessage(w, nil, "Email has been sent with further instructions")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validator.ValidateNewPassword(req.NewPassword); errs.HasErrors() {
		writeValidationError(w, errs)
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.ResetPasswordToken, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			writeError(w, http.StatusBadRequest, "Invalid reset token")
			return
		}
		log.Printf("ERROR [auth.ResetPassword] %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeSuccessMessage(w, nil, "Password has been reset")
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if errs := validator.ValidateNewPassword(req.NewPassword); errs.HasErrors() {
		writeValidationError(w, errs)
		return
	}

	if err := h.authService.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusBadRequest, "User not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusBadRequest, "Invalid username or password")
		default:
			log.Printf("ERROR [auth.ChangePassword] %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeSuccessMessage(w, nil, "Password has been changed")
}

func userResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}
