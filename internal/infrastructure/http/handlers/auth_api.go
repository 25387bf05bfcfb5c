package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/JhonatanAndres2004/TasteAI/internal/application/account"
	apperrors "github.com/JhonatanAndres2004/TasteAI/pkg/errors"
	"go.uber.org/zap"
)

// AuthHandlers handles authentication API requests
type AuthHandlers struct {
	accounts *account.Service
	logger   *zap.Logger
}

// NewAuthHandlers creates a new authentication handlers instance
func NewAuthHandlers(accounts *account.Service, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{accounts: accounts, logger: logger}
}

// SignUp handles POST /api/v1/auth/signup
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var cmd account.SignUpCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("Invalid JSON payload"))
		return
	}

	resp, err := h.accounts.SignUp(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, resp)
}

// SignIn handles POST /api/v1/auth/signin
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var cmd account.SignInCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("Invalid JSON payload"))
		return
	}

	resp, err := h.accounts.SignIn(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}
