package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/JhonatanAndres2004/TasteAI/internal/application/account"
	apperrors "github.com/JhonatanAndres2004/TasteAI/pkg/errors"
	"go.uber.org/zap"
)

// AccountHandlers handles profile management API requests
type AccountHandlers struct {
	accounts *account.Service
	logger   *zap.Logger
}

// NewAccountHandlers creates a new account handlers instance
func NewAccountHandlers(accounts *account.Service, logger *zap.Logger) *AccountHandlers {
	return &AccountHandlers{accounts: accounts, logger: logger}
}

// GetProfile handles GET /api/v1/users/{id}/profile
func (h *AccountHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := ownedUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	profile, err := h.accounts.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/users/{id}/profile
func (h *AccountHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := ownedUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var cmd account.UpdateBasicInfoCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("Invalid JSON payload"))
		return
	}

	if err := h.accounts.UpdateBasicInfo(r.Context(), userID, cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "updated"})
}

// UpdateLifestyle handles PUT /api/v1/users/{id}/lifestyle
func (h *AccountHandlers) UpdateLifestyle(w http.ResponseWriter, r *http.Request) {
	userID, err := ownedUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var cmd account.UpdateLifestyleCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("Invalid JSON payload"))
		return
	}

	if err := h.accounts.UpdateLifestyle(r.Context(), userID, cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteAccount handles DELETE /api/v1/users/{id}
func (h *AccountHandlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := ownedUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), userID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "deleted"})
}
