package handlers

import (
	"net/http"

	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/http/middleware"
	apperrors "github.com/JhonatanAndres2004/TasteAI/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ownedUserID resolves the {id} path parameter and checks it against the
// authenticated caller. Users can only operate on their own resources.
func ownedUserID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperrors.NewBadRequestError("Invalid user id")
	}

	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, apperrors.NewUnauthorizedError("")
	}
	if callerID != id {
		return uuid.Nil, apperrors.NewUnauthorizedError("Token does not match the requested user")
	}
	return id, nil
}
