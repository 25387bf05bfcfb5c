package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JhonatanAndres2004/TasteAI/internal/domain/nutrition"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/http/middleware"
	"github.com/JhonatanAndres2004/TasteAI/internal/ports/inbound"
	apperrors "github.com/JhonatanAndres2004/TasteAI/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// stubPlanner returns canned results per operation
type stubPlanner struct {
	targets    *inbound.TargetsReport
	targetsErr error
	menu       *nutrition.WeeklyMenu
	menuErr    error
	revision   *inbound.RevisionResult
	reviseErr  error
	review     *inbound.LifestyleReview
	reviewErr  error

	reviseCmd inbound.ReviseDayCommand
}

func (s *stubPlanner) GenerateTargets(ctx context.Context, userID uuid.UUID) (*inbound.TargetsReport, error) {
	return s.targets, s.targetsErr
}

func (s *stubPlanner) GenerateWeeklyMenu(ctx context.Context, userID uuid.UUID) (*nutrition.WeeklyMenu, error) {
	return s.menu, s.menuErr
}

func (s *stubPlanner) GetWeeklyMenu(ctx context.Context, userID uuid.UUID) (*nutrition.WeeklyMenu, error) {
	return s.menu, s.menuErr
}

func (s *stubPlanner) ReviseDay(ctx context.Context, cmd inbound.ReviseDayCommand) (*inbound.RevisionResult, error) {
	s.reviseCmd = cmd
	return s.revision, s.reviseErr
}

func (s *stubPlanner) ReviewLifestyle(ctx context.Context, cmd inbound.ReviewLifestyleCommand) (*inbound.LifestyleReview, error) {
	return s.review, s.reviewErr
}

// newPlannerRequest builds an authenticated request against a user-scoped route
func newPlannerRequest(t *testing.T, method, path, pathID string, callerID uuid.UUID, body string) *http.Request {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", pathID)
	if idx := strings.LastIndex(path, "/days/"); idx >= 0 {
		rctx.URLParams.Add("day", path[idx+len("/days/"):])
	}

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = middleware.WithUser(ctx, callerID, "user@example.com")
	return req.WithContext(ctx)
}

func TestGenerateWeeklyMenuHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("incomplete assessment maps to 412", func(t *testing.T) {
		planner := &stubPlanner{
			menuErr: apperrors.NewAssessmentIncompleteError([]string{"recommended_daily_calories"}),
		}
		h := NewPlannerHandlers(planner, zaptest.NewLogger(t))

		rec := httptest.NewRecorder()
		req := newPlannerRequest(t, http.MethodPost, "/api/v1/users/"+userID.String()+"/menu", userID.String(), userID, "")
		h.GenerateWeeklyMenu(rec, req)

		assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
		var resp apperrors.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, apperrors.CodeAssessmentIncomplete, resp.Error.Code)
	})

	t.Run("provider exhaustion maps to 503", func(t *testing.T) {
		planner := &stubPlanner{menuErr: apperrors.NewProvidersExhaustedError(3)}
		h := NewPlannerHandlers(planner, zaptest.NewLogger(t))

		rec := httptest.NewRecorder()
		req := newPlannerRequest(t, http.MethodPost, "/api/v1/users/"+userID.String()+"/menu", userID.String(), userID, "")
		h.GenerateWeeklyMenu(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("menu is keyed day1..day7 on the wire", func(t *testing.T) {
		menu := &nutrition.WeeklyMenu{UserID: userID, CreatedAt: time.Now()}
		menu.Days[0] = nutrition.DayMenu{{Type: nutrition.MealBreakfast, Hour: "07:00", Calories: 400}}
		planner := &stubPlanner{menu: menu}
		h := NewPlannerHandlers(planner, zaptest.NewLogger(t))

		rec := httptest.NewRecorder()
		req := newPlannerRequest(t, http.MethodGet, "/api/v1/users/"+userID.String()+"/menu", userID.String(), userID, "")
		h.GetWeeklyMenu(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			UserID string                       `json:"user_id"`
			Menu   map[string]nutrition.DayMenu `json:"menu"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, userID.String(), resp.UserID)
		assert.Len(t, resp.Menu, 7)
		require.Len(t, resp.Menu["day1"], 1)
		assert.Equal(t, 400, resp.Menu["day1"][0].Calories)
	})

	t.Run("foreign user id is rejected", func(t *testing.T) {
		planner := &stubPlanner{}
		h := NewPlannerHandlers(planner, zaptest.NewLogger(t))

		otherID := uuid.New()
		rec := httptest.NewRecorder()
		req := newPlannerRequest(t, http.MethodPost, "/api/v1/users/"+otherID.String()+"/menu", otherID.String(), userID, "")
		h.GenerateWeeklyMenu(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestReviseDayHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("passes day and request through", func(t *testing.T) {
		planner := &stubPlanner{
			revision: &inbound.RevisionResult{Day: 4, Notes: "Swapped the lunch.", Persisted: true},
		}
		h := NewPlannerHandlers(planner, zaptest.NewLogger(t))

		rec := httptest.NewRecorder()
		req := newPlannerRequest(t, http.MethodPost,
			"/api/v1/users/"+userID.String()+"/menu/days/4", userID.String(), userID,
			`{"user_request":"less rice at lunch"}`)
		h.ReviseDay(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 4, planner.reviseCmd.Day)
		assert.Equal(t, "less rice at lunch", planner.reviseCmd.UserRequest)

		var resp inbound.RevisionResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Persisted)
		assert.Equal(t, "Swapped the lunch.", resp.Notes)
	})

	t.Run("non-numeric day is a bad request", func(t *testing.T) {
		planner := &stubPlanner{}
		h := NewPlannerHandlers(planner, zaptest.NewLogger(t))

		rec := httptest.NewRecorder()
		req := newPlannerRequest(t, http.MethodPost,
			"/api/v1/users/"+userID.String()+"/menu/days/monday", userID.String(), userID,
			`{"user_request":"x"}`)
		h.ReviseDay(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
