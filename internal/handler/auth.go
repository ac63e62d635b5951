package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/calendarfirst/accounts/internal/repository"
	"github.com/calendarfirst/accounts/internal/service"
)

type authHandler struct {
	registrationService *service.RegistrationService
}

func NewAuthHandler(registrationService *service.RegistrationService) *authHandler {
	return &authHandler{
		registrationService: registrationService,
	}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type signupResponse struct {
	Message          string `json:"message"`
	AccountID        string `json:"account_id"`
	VerificationSent bool   `json:"verification_sent"`
}

func (h *authHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "invalid_request")
		return
	}

	result, err := h.registrationService.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			respondError(w, http.StatusConflict, "an account with this email already exists", "duplicate_email")
		case errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrInvalidPassword),
			errors.Is(err, service.ErrInvalidName):
			respondError(w, http.StatusBadRequest, err.Error(), "validation_failed")
		default:
			slog.Error("signup failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal server error", "internal_error")
		}
		return
	}

	message := "Account registered. Please check your email for verification."
	if !result.VerificationSent {
		message = "Account registered, but the verification email could not be sent. Please request a new one."
	}

	respondJSON(w, http.StatusOK, signupResponse{
		Message:          message,
		AccountID:        result.Account.ID,
		VerificationSent: result.VerificationSent,
	})
}

type verifyResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

func (h *authHandler) Verify(w http.ResponseWriter, r *http.Request) {
	secret := r.URL.Query().Get("token")
	if secret == "" {
		respondError(w, http.StatusBadRequest, "token is required", "invalid_request")
		return
	}

	account, err := h.registrationService.Verify(r.Context(), secret)
	if err != nil {
		// Expired and replayed tokens get distinct codes so clients only
		// offer "resend link" when a new link could actually help.
		switch {
		case errors.Is(err, repository.ErrTokenNotFound):
			respondError(w, http.StatusBadRequest, "invalid verification link", "invalid_token")
		case errors.Is(err, repository.ErrTokenExpired):
			respondError(w, http.StatusGone, "verification link has expired, please request a new one", "token_expired")
		case errors.Is(err, repository.ErrTokenUsed):
			respondError(w, http.StatusGone, "verification link has already been used", "token_used")
		default:
			slog.Error("verification failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal server error", "internal_error")
		}
		return
	}

	respondJSON(w, http.StatusOK, verifyResponse{
		Message: "Email verified successfully.",
		Email:   account.Email,
	})
}

type resendRequest struct {
	Email string `json:"email"`
}

func (h *authHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "invalid_request")
		return
	}

	err = h.registrationService.ResendVerification(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			respondError(w, http.StatusBadRequest, err.Error(), "validation_failed")
			return
		}
		// Don't reveal whether the address exists
		slog.Warn("resend verification failed", "error", err)
	}

	respondJSON(w, http.StatusAccepted, map[string]string{
		"message": "If an unverified account exists for this email, a new verification link has been sent.",
	})
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotImplemented, "login is not implemented", "not_implemented")
}
