// Package planner implements the nutrition-planning use cases on top of the
// provider gateway, the prompt engine and the persistence ports
package planner

import (
	"context"
	"encoding/json"
	"time"

	"github.com/JhonatanAndres2004/TasteAI/internal/domain/nutrition"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/prompt"
	"github.com/JhonatanAndres2004/TasteAI/internal/ports/inbound"
	"github.com/JhonatanAndres2004/TasteAI/internal/ports/outbound"
	apperrors "github.com/JhonatanAndres2004/TasteAI/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// recentTurns is how many stored chat turns reach the revision prompt
// verbatim; older turns arrive through semantic recall instead
const recentTurns = 3

// Completer abstracts the provider gateway: one prompt in, normalized JSON
// out or a terminal error
type Completer interface {
	Complete(ctx context.Context, prompt string) (json.RawMessage, error)
}

// Service implements the PlannerService use cases
type Service struct {
	profiles  outbound.ProfileRepository
	menus     outbound.MenuRepository
	chats     outbound.ChatHistoryRepository
	completer Completer
	prompts   *prompt.Engine
	recall    outbound.ConversationRecall
	tolerance nutrition.Tolerance
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewService creates the planner service. The recall port may be nil; the
// service then revises with relational history only.
func NewService(
	profiles outbound.ProfileRepository,
	menus outbound.MenuRepository,
	chats outbound.ChatHistoryRepository,
	completer Completer,
	prompts *prompt.Engine,
	recall outbound.ConversationRecall,
	tolerance nutrition.Tolerance,
	logger *zap.Logger,
) inbound.PlannerService {
	return &Service{
		profiles:  profiles,
		menus:     menus,
		chats:     chats,
		completer: completer,
		prompts:   prompts,
		recall:    recall,
		tolerance: tolerance,
		validate:  validator.New(),
		logger:    logger.Named("planner-service"),
	}
}

// targetsPayload mirrors the assessment report schema the model is asked for
type targetsPayload struct {
	DailyCalories      float64  `json:"recommended_daily_calories"`
	WaterIntake        float64  `json:"recommended_water_intake"`
	ProteinIntake      float64  `json:"recommended_protein_intake"`
	FatsIntake         float64  `json:"recommended_fats_intake"`
	CarbohydrateIntake float64  `json:"recommended_carbohydrates_intake"`
	DeficiencyRisks    []string `json:"nutritional_deficiency_risks"`
	Recommendations    []string `json:"general_recommendation"`
}

// GenerateTargets computes and persists the daily nutrition targets
func (s *Service) GenerateTargets(ctx context.Context, userID uuid.UUID) (*inbound.TargetsReport, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	promptText, err := s.prompts.Render(prompt.TemplateTargets, targetValues(profile))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to render assessment prompt")
	}

	raw, err := s.completer.Complete(ctx, promptText)
	if err != nil {
		return nil, err
	}

	var payload targetsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, apperrors.NewMalformedOutputError(err.Error())
	}

	targets := &nutrition.Targets{
		DailyCalories:      payload.DailyCalories,
		WaterIntake:        payload.WaterIntake,
		ProteinIntake:      payload.ProteinIntake,
		FatsIntake:         payload.FatsIntake,
		CarbohydrateIntake: payload.CarbohydrateIntake,
		DeficiencyRisks:    payload.DeficiencyRisks,
		Recommendations:    payload.Recommendations,
	}

	check := nutrition.Profile{Targets: targets}
	if missing := check.MissingTargetFields(); len(missing) > 0 {
		return nil, apperrors.NewMalformedOutputError("report is missing macro targets").
			WithMetadata("missing_fields", missing)
	}

	if err := s.profiles.SaveTargets(ctx, userID, targets); err != nil {
		return nil, err
	}

	s.logger.Info("nutrition targets generated",
		zap.String("user_id", userID.String()),
		zap.Float64("daily_calories", targets.DailyCalories),
	)

	return &inbound.TargetsReport{Targets: *targets}, nil
}

// weekPayload mirrors the weekly menu schema the model is asked for
type weekPayload struct {
	Day1 nutrition.DayMenu `json:"day1"`
	Day2 nutrition.DayMenu `json:"day2"`
	Day3 nutrition.DayMenu `json:"day3"`
	Day4 nutrition.DayMenu `json:"day4"`
	Day5 nutrition.DayMenu `json:"day5"`
	Day6 nutrition.DayMenu `json:"day6"`
	Day7 nutrition.DayMenu `json:"day7"`
}

// GenerateWeeklyMenu builds and persists a full seven-day plan. No provider
// is contacted while the nutritional assessment is incomplete.
func (s *Service) GenerateWeeklyMenu(ctx context.Context, userID uuid.UUID) (*nutrition.WeeklyMenu, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if missing := profile.MissingTargetFields(); len(missing) > 0 {
		return nil, apperrors.NewAssessmentIncompleteError(missing)
	}

	promptText, err := s.prompts.Render(prompt.TemplateWeeklyMenu, menuValues(profile, s.tolerance))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to render menu prompt")
	}

	raw, err := s.completer.Complete(ctx, promptText)
	if err != nil {
		return nil, err
	}

	var payload weekPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, apperrors.NewMalformedOutputError(err.Error())
	}

	menu := &nutrition.WeeklyMenu{
		UserID:    userID,
		CreatedAt: time.Now(),
		Days: [nutrition.DaysPerWeek]nutrition.DayMenu{
			payload.Day1, payload.Day2, payload.Day3,
			payload.Day4, payload.Day5, payload.Day6, payload.Day7,
		},
	}

	if err := nutrition.ValidateWeek(menu, profile.Targets, s.tolerance); err != nil {
		return nil, apperrors.NewMalformedOutputError(err.Error())
	}

	if err := s.menus.SaveWeek(ctx, menu); err != nil {
		return nil, err
	}

	s.logger.Info("weekly menu generated", zap.String("user_id", userID.String()))
	return menu, nil
}

// GetWeeklyMenu returns the stored plan
func (s *Service) GetWeeklyMenu(ctx context.Context, userID uuid.UUID) (*nutrition.WeeklyMenu, error) {
	return s.menus.FindByUserID(ctx, userID)
}

// ReviseDay applies a free-text request against one stored day. Whether the
// revision persists anything is decided solely by the returned day array:
// empty means a conversational turn, non-empty overwrites the day.
func (s *Service) ReviseDay(ctx context.Context, cmd inbound.ReviseDayCommand) (*inbound.RevisionResult, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	profile, err := s.profiles.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if missing := profile.MissingTargetFields(); len(missing) > 0 {
		return nil, apperrors.NewAssessmentIncompleteError(missing)
	}

	current, err := s.menus.FindDay(ctx, cmd.UserID, cmd.Day)
	if err != nil && apperrors.GetCode(err) != apperrors.CodeMenuNotFound {
		return nil, err
	}

	// A user may chat about a day before any menu exists; the model is told
	// there is nothing stored instead of failing the call
	currentMenu := "no menu has been generated for this day yet"
	if len(current) > 0 {
		currentJSON, err := json.Marshal(current)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to serialize current day")
		}
		currentMenu = string(currentJSON)
	}

	history := historyLine(s.priorTurns(ctx, cmd))

	values := revisionValues(profile, s.tolerance, cmd.Day, currentMenu, cmd.UserRequest, history)
	promptText, err := s.prompts.Render(prompt.TemplateDailyRevision, values)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to render revision prompt")
	}

	raw, err := s.completer.Complete(ctx, promptText)
	if err != nil {
		return nil, err
	}

	revised, notes, err := parseRevision(raw, cmd.Day)
	if err != nil {
		return nil, err
	}

	persisted := false
	if len(revised) > 0 {
		if err := s.menus.SaveDay(ctx, cmd.UserID, cmd.Day, revised); err != nil {
			return nil, err
		}
		persisted = true
	}

	s.recordTurn(ctx, cmd, notes)

	s.logger.Info("day revision completed",
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("day", cmd.Day),
		zap.Bool("persisted", persisted),
	)

	return &inbound.RevisionResult{
		Day:       cmd.Day,
		Menu:      revised,
		Notes:     notes,
		Persisted: persisted,
	}, nil
}

// parseRevision extracts the day array and the mandatory notes from a
// revision reply
func parseRevision(raw json.RawMessage, day int) (nutrition.DayMenu, string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, "", apperrors.NewMalformedOutputError(err.Error())
	}

	var notes string
	if rawNotes, ok := fields["notes"]; ok {
		if err := json.Unmarshal(rawNotes, &notes); err != nil {
			return nil, "", apperrors.NewMalformedOutputError("notes is not a string")
		}
	}
	if notes == "" {
		return nil, "", apperrors.NewMalformedOutputError("revision reply has no notes")
	}

	var revised nutrition.DayMenu
	if rawDay, ok := fields[nutrition.DayKey(day)]; ok {
		if err := json.Unmarshal(rawDay, &revised); err != nil {
			return nil, "", apperrors.NewMalformedOutputError("day array does not match the meal schema")
		}
	}

	return revised, notes, nil
}

// priorTurns gathers conversational context for the revision prompt. Older
// turns come from semantic recall, the newest from relational storage;
// failures on either path degrade to less context, never to an error.
func (s *Service) priorTurns(ctx context.Context, cmd inbound.ReviseDayCommand) []string {
	var turns []string

	if s.recall != nil {
		turns = append(turns, s.recall.Context(ctx, cmd.UserID, cmd.Day, cmd.UserRequest)...)
	}

	recent, err := s.chats.RecentForDay(ctx, cmd.UserID, cmd.Day, recentTurns)
	if err != nil {
		s.logger.Warn("failed to load recent chat history",
			zap.String("user_id", cmd.UserID.String()),
			zap.Error(err),
		)
		return turns
	}
	// RecentForDay returns newest first; the prompt wants oldest first
	for i := len(recent) - 1; i >= 0; i-- {
		turns = append(turns, recent[i].Request)
	}
	return turns
}

// recordTurn appends the revision to chat history and indexes it for
// recall. Both are best effort: the revision outcome stands even when the
// conversational record lags.
func (s *Service) recordTurn(ctx context.Context, cmd inbound.ReviseDayCommand, notes string) {
	entry := &nutrition.ChatEntry{
		UserID:  cmd.UserID,
		Day:     cmd.Day,
		Request: cmd.UserRequest,
		Notes:   notes,
	}
	if _, err := s.chats.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to append chat history",
			zap.String("user_id", cmd.UserID.String()),
			zap.Error(err),
		)
		return
	}

	if s.recall == nil {
		return
	}
	if err := s.recall.Remember(ctx, entry); err != nil {
		s.logger.Warn("failed to index chat turn for recall",
			zap.Int64("message_id", entry.ID),
			zap.Error(err),
		)
	}
}

// reviewPayload mirrors the lifestyle validation schema
type reviewPayload struct {
	Allergies           []entryPayload `json:"allergies"`
	SportiveDescription []entryPayload `json:"sportive_description"`
	MedicalConditions   []entryPayload `json:"medical_conditions"`
	ReadyToGo           int            `json:"ready_to_go"`
}

type entryPayload struct {
	CoherenceScore   int    `json:"coherence_score"`
	SuggestedVersion string `json:"suggested_version"`
	OriginalVersion  string `json:"original_version"`
}

// ReviewLifestyle scores the free-text lifestyle entries for medical
// coherence before they are accepted onto a profile
func (s *Service) ReviewLifestyle(ctx context.Context, cmd inbound.ReviewLifestyleCommand) (*inbound.LifestyleReview, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	values, err := reviewValues(cmd)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to serialize lifestyle entries")
	}

	promptText, err := s.prompts.Render(prompt.TemplateLifestyleReview, values)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to render review prompt")
	}

	raw, err := s.completer.Complete(ctx, promptText)
	if err != nil {
		return nil, err
	}

	var payload reviewPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, apperrors.NewMalformedOutputError(err.Error())
	}

	if len(payload.Allergies) != len(cmd.Allergies) ||
		len(payload.SportiveDescription) != len(cmd.SportiveDescription) ||
		len(payload.MedicalConditions) != len(cmd.MedicalConditions) {
		return nil, apperrors.NewMalformedOutputError("review does not cover every entry")
	}

	return &inbound.LifestyleReview{
		Allergies:           toEntryReviews(payload.Allergies),
		SportiveDescription: toEntryReviews(payload.SportiveDescription),
		MedicalConditions:   toEntryReviews(payload.MedicalConditions),
		ReadyToGo:           payload.ReadyToGo == 1,
	}, nil
}

func reviewValues(cmd inbound.ReviewLifestyleCommand) (map[string]string, error) {
	values := make(map[string]string, 3)
	for key, items := range map[string][]string{
		"allergies":            cmd.Allergies,
		"sportive_description": cmd.SportiveDescription,
		"medical_conditions":   cmd.MedicalConditions,
	} {
		if items == nil {
			items = []string{}
		}
		data, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		values[key] = string(data)
	}
	return values, nil
}

func toEntryReviews(entries []entryPayload) []inbound.LifestyleEntryReview {
	reviews := make([]inbound.LifestyleEntryReview, len(entries))
	for i, e := range entries {
		reviews[i] = inbound.LifestyleEntryReview{
			CoherenceScore:   e.CoherenceScore,
			SuggestedVersion: e.SuggestedVersion,
			OriginalVersion:  e.OriginalVersion,
		}
	}
	return reviews
}
