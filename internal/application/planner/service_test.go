package planner

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/JhonatanAndres2004/TasteAI/internal/domain/nutrition"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/prompt"
	"github.com/JhonatanAndres2004/TasteAI/internal/ports/inbound"
	"github.com/JhonatanAndres2004/TasteAI/internal/ports/outbound"
	apperrors "github.com/JhonatanAndres2004/TasteAI/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Mocks

type mockProfiles struct{ mock.Mock }

func (m *mockProfiles) Create(ctx context.Context, p *nutrition.Profile, hash string) error {
	return m.Called(ctx, p, hash).Error(0)
}
func (m *mockProfiles) FindByID(ctx context.Context, id uuid.UUID) (*nutrition.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.Profile), args.Error(1)
}
func (m *mockProfiles) FindByEmail(ctx context.Context, email string) (*nutrition.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.Profile), args.Error(1)
}
func (m *mockProfiles) CredentialsByEmail(ctx context.Context, email string) (uuid.UUID, string, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}
func (m *mockProfiles) UpdateBasicInfo(ctx context.Context, p *nutrition.Profile) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockProfiles) UpdateLifestyle(ctx context.Context, id uuid.UUID, a, s, med, pref []string) error {
	return m.Called(ctx, id, a, s, med, pref).Error(0)
}
func (m *mockProfiles) SaveTargets(ctx context.Context, id uuid.UUID, t *nutrition.Targets) error {
	return m.Called(ctx, id, t).Error(0)
}
func (m *mockProfiles) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockMenus struct{ mock.Mock }

func (m *mockMenus) SaveWeek(ctx context.Context, menu *nutrition.WeeklyMenu) error {
	return m.Called(ctx, menu).Error(0)
}
func (m *mockMenus) FindByUserID(ctx context.Context, userID uuid.UUID) (*nutrition.WeeklyMenu, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.WeeklyMenu), args.Error(1)
}
func (m *mockMenus) FindDay(ctx context.Context, userID uuid.UUID, day int) (nutrition.DayMenu, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(nutrition.DayMenu), args.Error(1)
}
func (m *mockMenus) SaveDay(ctx context.Context, userID uuid.UUID, day int, menu nutrition.DayMenu) error {
	return m.Called(ctx, userID, day, menu).Error(0)
}
func (m *mockMenus) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type mockChats struct{ mock.Mock }

func (m *mockChats) Append(ctx context.Context, entry *nutrition.ChatEntry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockChats) RecentForDay(ctx context.Context, userID uuid.UUID, day, limit int) ([]nutrition.ChatEntry, error) {
	args := m.Called(ctx, userID, day, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]nutrition.ChatEntry), args.Error(1)
}

type mockCompleter struct{ mock.Mock }

func (m *mockCompleter) Complete(ctx context.Context, p string) (json.RawMessage, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

type mockRecall struct{ mock.Mock }

func (m *mockRecall) Remember(ctx context.Context, entry *nutrition.ChatEntry) error {
	return m.Called(ctx, entry).Error(0)
}
func (m *mockRecall) Context(ctx context.Context, userID uuid.UUID, day int, query string) []string {
	args := m.Called(ctx, userID, day, query)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

// Fixtures

func testTolerance() nutrition.Tolerance {
	return nutrition.Tolerance{Calories: 0.05, Protein: 0.05, Fats: 0.10, Carbohydrates: 0.10}
}

func assessedProfile(id uuid.UUID) *nutrition.Profile {
	return &nutrition.Profile{
		ID:        id,
		Name:      "Ana Torres",
		Email:     "ana@example.com",
		Sex:       nutrition.SexFemale,
		Age:       29,
		Weight:    62,
		Height:    168,
		Country:   "Colombia",
		Objective: nutrition.ObjectiveMaintain,
		Allergies: []string{"nuts"},
		Targets: &nutrition.Targets{
			DailyCalories:      2000,
			WaterIntake:        2.5,
			ProteinIntake:      150,
			FatsIntake:         70,
			CarbohydrateIntake: 200,
		},
	}
}

func unassessedProfile(id uuid.UUID) *nutrition.Profile {
	p := assessedProfile(id)
	p.Targets = nil
	return p
}

func balancedDay(shift int) nutrition.DayMenu {
	return nutrition.DayMenu{
		{Type: nutrition.MealBreakfast, Hour: "07:00", Ingredients: []string{"100g oats"}, Instructions: []string{"Cook"}, Calories: 500, Protein: 40 + shift, Fats: 18, Carbohydrates: 50},
		{Type: nutrition.MealLunch, Hour: "13:00", Ingredients: []string{"200g chicken"}, Instructions: []string{"Grill"}, Calories: 800, Protein: 60 + shift, Fats: 28, Carbohydrates: 80},
		{Type: nutrition.MealDinner, Hour: "19:00", Ingredients: []string{"150g salmon"}, Instructions: []string{"Bake"}, Calories: 700, Protein: 50 - 2*shift, Fats: 24, Carbohydrates: 70},
	}
}

func validWeekJSON(t *testing.T) json.RawMessage {
	t.Helper()
	week := make(map[string]nutrition.DayMenu, nutrition.DaysPerWeek)
	for day := 1; day <= nutrition.DaysPerWeek; day++ {
		week[nutrition.DayKey(day)] = balancedDay(day - 1)
	}
	raw, err := json.Marshal(week)
	require.NoError(t, err)
	return raw
}

func newTestService(t *testing.T, profiles *mockProfiles, menus *mockMenus, chats *mockChats, completer *mockCompleter, recall outbound.ConversationRecall) inbound.PlannerService {
	t.Helper()
	engine, err := prompt.NewEngine()
	require.NoError(t, err)
	return NewService(profiles, menus, chats, completer, engine, recall, testTolerance(), zaptest.NewLogger(t))
}

// Tests

func TestGenerateTargets(t *testing.T) {
	userID := uuid.New()

	t.Run("persists and returns the report", func(t *testing.T) {
		profiles := new(mockProfiles)
		completer := new(mockCompleter)
		profiles.On("FindByID", mock.Anything, userID).Return(assessedProfile(userID), nil)
		completer.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
			return len(p) > 0
		})).Return(json.RawMessage(`{
			"recommended_daily_calories": 2100,
			"recommended_water_intake": 2.6,
			"recommended_protein_intake": 145,
			"recommended_fats_intake": 68,
			"recommended_carbohydrates_intake": 230,
			"nutritional_deficiency_risks": ["iron"],
			"general_recommendation": ["sleep 8 hours"]
		}`), nil)
		profiles.On("SaveTargets", mock.Anything, userID, mock.MatchedBy(func(tg *nutrition.Targets) bool {
			return tg.DailyCalories == 2100 && tg.ProteinIntake == 145
		})).Return(nil)

		svc := newTestService(t, profiles, new(mockMenus), new(mockChats), completer, nil)
		report, err := svc.GenerateTargets(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, 2100.0, report.Targets.DailyCalories)
		assert.Equal(t, []string{"iron"}, report.Targets.DeficiencyRisks)
		profiles.AssertExpectations(t)
	})

	t.Run("report without macros is malformed", func(t *testing.T) {
		profiles := new(mockProfiles)
		completer := new(mockCompleter)
		profiles.On("FindByID", mock.Anything, userID).Return(assessedProfile(userID), nil)
		completer.On("Complete", mock.Anything, mock.Anything).
			Return(json.RawMessage(`{"recommended_daily_calories": 2100}`), nil)

		svc := newTestService(t, profiles, new(mockMenus), new(mockChats), completer, nil)
		_, err := svc.GenerateTargets(context.Background(), userID)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeMalformedOutput, apperrors.GetCode(err))
		profiles.AssertNotCalled(t, "SaveTargets", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("gateway exhaustion propagates", func(t *testing.T) {
		profiles := new(mockProfiles)
		completer := new(mockCompleter)
		profiles.On("FindByID", mock.Anything, userID).Return(assessedProfile(userID), nil)
		completer.On("Complete", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewProvidersExhaustedError(3))

		svc := newTestService(t, profiles, new(mockMenus), new(mockChats), completer, nil)
		_, err := svc.GenerateTargets(context.Background(), userID)
		assert.Equal(t, apperrors.CodeProvidersExhausted, apperrors.GetCode(err))
	})
}

func TestGenerateWeeklyMenu(t *testing.T) {
	userID := uuid.New()

	t.Run("incomplete assessment never reaches a provider", func(t *testing.T) {
		profiles := new(mockProfiles)
		completer := new(mockCompleter)
		profiles.On("FindByID", mock.Anything, userID).Return(unassessedProfile(userID), nil)

		svc := newTestService(t, profiles, new(mockMenus), new(mockChats), completer, nil)
		_, err := svc.GenerateWeeklyMenu(context.Background(), userID)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeAssessmentIncomplete, apperrors.GetCode(err))
		completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("valid week is persisted", func(t *testing.T) {
		profiles := new(mockProfiles)
		menus := new(mockMenus)
		completer := new(mockCompleter)
		profiles.On("FindByID", mock.Anything, userID).Return(assessedProfile(userID), nil)
		completer.On("Complete", mock.Anything, mock.Anything).Return(validWeekJSON(t), nil)
		menus.On("SaveWeek", mock.Anything, mock.MatchedBy(func(m *nutrition.WeeklyMenu) bool {
			return m.UserID == userID && len(m.Days[6]) == 3
		})).Return(nil)

		svc := newTestService(t, profiles, menus, new(mockChats), completer, nil)
		menu, err := svc.GenerateWeeklyMenu(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, userID, menu.UserID)
		menus.AssertExpectations(t)
	})

	t.Run("week violating the bands is malformed", func(t *testing.T) {
		profiles := new(mockProfiles)
		menus := new(mockMenus)
		completer := new(mockCompleter)
		profiles.On("FindByID", mock.Anything, userID).Return(assessedProfile(userID), nil)

		week := make(map[string]nutrition.DayMenu, nutrition.DaysPerWeek)
		for day := 1; day <= nutrition.DaysPerWeek; day++ {
			bad := balancedDay(day - 1)
			bad[0].Calories += 500
			week[nutrition.DayKey(day)] = bad
		}
		raw, err := json.Marshal(week)
		require.NoError(t, err)
		completer.On("Complete", mock.Anything, mock.Anything).Return(json.RawMessage(raw), nil)

		svc := newTestService(t, profiles, menus, new(mockChats), completer, nil)
		_, err = svc.GenerateWeeklyMenu(context.Background(), userID)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeMalformedOutput, apperrors.GetCode(err))
		menus.AssertNotCalled(t, "SaveWeek", mock.Anything, mock.Anything)
	})
}

func TestReviseDay(t *testing.T) {
	userID := uuid.New()
	cmd := inbound.ReviseDayCommand{UserID: userID, Day: 3, UserRequest: "I want more protein at breakfast"}

	setupHappyMocks := func() (*mockProfiles, *mockMenus, *mockChats, *mockCompleter) {
		profiles := new(mockProfiles)
		menus := new(mockMenus)
		chats := new(mockChats)
		completer := new(mockCompleter)
		profiles.On("FindByID", mock.Anything, userID).Return(assessedProfile(userID), nil)
		menus.On("FindDay", mock.Anything, userID, 3).Return(balancedDay(0), nil)
		chats.On("RecentForDay", mock.Anything, userID, 3, recentTurns).Return([]nutrition.ChatEntry{}, nil)
		return profiles, menus, chats, completer
	}

	t.Run("empty day array is a no-op turn", func(t *testing.T) {
		profiles, menus, chats, completer := setupHappyMocks()
		completer.On("Complete", mock.Anything, mock.Anything).
			Return(json.RawMessage(`{"day3": [], "notes": "Glad you liked it!"}`), nil)
		chats.On("Append", mock.Anything, mock.Anything).Return(int64(11), nil)

		svc := newTestService(t, profiles, menus, chats, completer, nil)
		result, err := svc.ReviseDay(context.Background(), cmd)
		require.NoError(t, err)
		assert.False(t, result.Persisted)
		assert.Empty(t, result.Menu)
		assert.Equal(t, "Glad you liked it!", result.Notes)
		menus.AssertNotCalled(t, "SaveDay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		chats.AssertCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("non-empty day array overwrites the day", func(t *testing.T) {
		profiles, menus, chats, completer := setupHappyMocks()
		revised := balancedDay(2)
		body := map[string]interface{}{"day3": revised, "notes": "I moved protein into breakfast, Ana."}
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		completer.On("Complete", mock.Anything, mock.Anything).Return(json.RawMessage(raw), nil)
		menus.On("SaveDay", mock.Anything, userID, 3, mock.MatchedBy(func(d nutrition.DayMenu) bool {
			return len(d) == 3 && d[0].Protein == 42
		})).Return(nil)
		chats.On("Append", mock.Anything, mock.Anything).Return(int64(12), nil)

		svc := newTestService(t, profiles, menus, chats, completer, nil)
		result, err := svc.ReviseDay(context.Background(), cmd)
		require.NoError(t, err)
		assert.True(t, result.Persisted)
		assert.Len(t, result.Menu, 3)
		menus.AssertExpectations(t)
	})

	t.Run("a day without a stored menu is still a conversational turn", func(t *testing.T) {
		profiles := new(mockProfiles)
		menus := new(mockMenus)
		chats := new(mockChats)
		completer := new(mockCompleter)
		profiles.On("FindByID", mock.Anything, userID).Return(assessedProfile(userID), nil)
		menus.On("FindDay", mock.Anything, userID, 3).
			Return(nil, apperrors.NewMenuNotFoundError(userID.String()))
		chats.On("RecentForDay", mock.Anything, userID, 3, recentTurns).Return([]nutrition.ChatEntry{}, nil)
		completer.On("Complete", mock.Anything, mock.Anything).
			Return(json.RawMessage(`{"day3": [], "notes": "Generate a weekly menu first."}`), nil)
		chats.On("Append", mock.Anything, mock.Anything).Return(int64(10), nil)

		svc := newTestService(t, profiles, menus, chats, completer, nil)
		result, err := svc.ReviseDay(context.Background(), cmd)
		require.NoError(t, err)
		assert.False(t, result.Persisted)
		assert.Equal(t, "Generate a weekly menu first.", result.Notes)
	})

	t.Run("missing notes is malformed", func(t *testing.T) {
		profiles, menus, chats, completer := setupHappyMocks()
		completer.On("Complete", mock.Anything, mock.Anything).
			Return(json.RawMessage(`{"day3": []}`), nil)

		svc := newTestService(t, profiles, menus, chats, completer, nil)
		_, err := svc.ReviseDay(context.Background(), cmd)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeMalformedOutput, apperrors.GetCode(err))
		chats.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("incomplete assessment is rejected before any provider call", func(t *testing.T) {
		profiles := new(mockProfiles)
		completer := new(mockCompleter)
		profiles.On("FindByID", mock.Anything, userID).Return(unassessedProfile(userID), nil)

		svc := newTestService(t, profiles, new(mockMenus), new(mockChats), completer, nil)
		_, err := svc.ReviseDay(context.Background(), cmd)
		assert.Equal(t, apperrors.CodeAssessmentIncomplete, apperrors.GetCode(err))
		completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("day out of range fails validation", func(t *testing.T) {
		svc := newTestService(t, new(mockProfiles), new(mockMenus), new(mockChats), new(mockCompleter), nil)
		_, err := svc.ReviseDay(context.Background(), inbound.ReviseDayCommand{UserID: userID, Day: 9, UserRequest: "x"})
		assert.Equal(t, apperrors.CodeValidationFailed, apperrors.GetCode(err))
	})

	t.Run("recalled turns reach the prompt and new turns are indexed", func(t *testing.T) {
		profiles, menus, chats, completer := setupHappyMocks()
		recall := new(mockRecall)
		recall.On("Context", mock.Anything, userID, 3, cmd.UserRequest).
			Return([]string{"remove dairy from lunch"})
		recall.On("Remember", mock.Anything, mock.MatchedBy(func(e *nutrition.ChatEntry) bool {
			return e.ID == 13 && e.Request == cmd.UserRequest
		})).Return(nil)
		completer.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
			return strings.Contains(p, "remove dairy from lunch")
		})).Return(json.RawMessage(`{"day3": [], "notes": "Noted."}`), nil)
		chats.On("Append", mock.Anything, mock.Anything).Return(int64(13), nil).Run(func(args mock.Arguments) {
			args.Get(1).(*nutrition.ChatEntry).ID = 13
		})

		svc := newTestService(t, profiles, menus, chats, completer, recall)
		_, err := svc.ReviseDay(context.Background(), cmd)
		require.NoError(t, err)
		recall.AssertExpectations(t)
	})
}

func TestReviewLifestyle(t *testing.T) {
	userID := uuid.New()
	cmd := inbound.ReviewLifestyleCommand{
		UserID:            userID,
		Allergies:         []string{"nutz"},
		MedicalConditions: []string{"asthma"},
	}

	t.Run("scores map onto the review", func(t *testing.T) {
		completer := new(mockCompleter)
		completer.On("Complete", mock.Anything, mock.Anything).Return(json.RawMessage(`{
			"allergies": [{"coherence_score": 2, "suggested_version": "nuts", "original_version": "nutz"}],
			"sportive_description": [],
			"medical_conditions": [{"coherence_score": 3, "suggested_version": "asthma", "original_version": "asthma"}],
			"ready_to_go": 1
		}`), nil)

		svc := newTestService(t, new(mockProfiles), new(mockMenus), new(mockChats), completer, nil)
		review, err := svc.ReviewLifestyle(context.Background(), cmd)
		require.NoError(t, err)
		assert.True(t, review.ReadyToGo)
		require.Len(t, review.Allergies, 1)
		assert.Equal(t, 2, review.Allergies[0].CoherenceScore)
		assert.Equal(t, "nuts", review.Allergies[0].SuggestedVersion)
	})

	t.Run("incomplete coverage is malformed", func(t *testing.T) {
		completer := new(mockCompleter)
		completer.On("Complete", mock.Anything, mock.Anything).Return(json.RawMessage(`{
			"allergies": [],
			"sportive_description": [],
			"medical_conditions": [],
			"ready_to_go": 1
		}`), nil)

		svc := newTestService(t, new(mockProfiles), new(mockMenus), new(mockChats), completer, nil)
		_, err := svc.ReviewLifestyle(context.Background(), cmd)
		assert.Equal(t, apperrors.CodeMalformedOutput, apperrors.GetCode(err))
	})
}
