package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/JhonatanAndres2004/TasteAI/internal/domain/nutrition"
	"github.com/JhonatanAndres2004/TasteAI/internal/ports/inbound"
	apperrors "github.com/JhonatanAndres2004/TasteAI/pkg/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PlannerHandlers handles the nutrition-planning API requests
type PlannerHandlers struct {
	planner inbound.PlannerService
	logger  *zap.Logger
}

// NewPlannerHandlers creates a new planner handlers instance
func NewPlannerHandlers(planner inbound.PlannerService, logger *zap.Logger) *PlannerHandlers {
	return &PlannerHandlers{planner: planner, logger: logger}
}

// weeklyMenuResponse is the wire shape of a stored plan, keyed day1..day7
type weeklyMenuResponse struct {
	UserID    string                       `json:"user_id"`
	Menu      map[string]nutrition.DayMenu `json:"menu"`
	CreatedAt time.Time                    `json:"created_at"`
}

func toWeeklyMenuResponse(menu *nutrition.WeeklyMenu) weeklyMenuResponse {
	days := make(map[string]nutrition.DayMenu, nutrition.DaysPerWeek)
	for i, day := range menu.Days {
		days[nutrition.DayKey(i+1)] = day
	}
	return weeklyMenuResponse{
		UserID:    menu.UserID.String(),
		Menu:      days,
		CreatedAt: menu.CreatedAt,
	}
}

// GenerateTargets handles POST /api/v1/users/{id}/targets
func (h *PlannerHandlers) GenerateTargets(w http.ResponseWriter, r *http.Request) {
	userID, err := ownedUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	report, err := h.planner.GenerateTargets(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, report)
}

// GenerateWeeklyMenu handles POST /api/v1/users/{id}/menu
func (h *PlannerHandlers) GenerateWeeklyMenu(w http.ResponseWriter, r *http.Request) {
	userID, err := ownedUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	menu, err := h.planner.GenerateWeeklyMenu(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, toWeeklyMenuResponse(menu))
}

// GetWeeklyMenu handles GET /api/v1/users/{id}/menu
func (h *PlannerHandlers) GetWeeklyMenu(w http.ResponseWriter, r *http.Request) {
	userID, err := ownedUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	menu, err := h.planner.GetWeeklyMenu(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toWeeklyMenuResponse(menu))
}

// reviseDayRequest is the body of a revision call
type reviseDayRequest struct {
	UserRequest string `json:"user_request"`
}

// ReviseDay handles POST /api/v1/users/{id}/menu/days/{day}
func (h *PlannerHandlers) ReviseDay(w http.ResponseWriter, r *http.Request) {
	userID, err := ownedUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("Day must be a number"))
		return
	}

	var req reviseDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("Invalid JSON payload"))
		return
	}

	result, err := h.planner.ReviseDay(r.Context(), inbound.ReviseDayCommand{
		UserID:      userID,
		Day:         day,
		UserRequest: req.UserRequest,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}

// reviewLifestyleRequest is the body of a lifestyle coherence review
type reviewLifestyleRequest struct {
	Allergies           []string `json:"allergies"`
	SportiveDescription []string `json:"sportive_description"`
	MedicalConditions   []string `json:"medical_conditions"`
}

// ReviewLifestyle handles POST /api/v1/users/{id}/lifestyle/review
func (h *PlannerHandlers) ReviewLifestyle(w http.ResponseWriter, r *http.Request) {
	userID, err := ownedUserID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req reviewLifestyleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("Invalid JSON payload"))
		return
	}

	review, err := h.planner.ReviewLifestyle(r.Context(), inbound.ReviewLifestyleCommand{
		UserID:              userID,
		Allergies:           req.Allergies,
		SportiveDescription: req.SportiveDescription,
		MedicalConditions:   req.MedicalConditions,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, review)
}
