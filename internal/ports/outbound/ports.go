// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"

	"github.com/JhonatanAndres2004/TasteAI/internal/domain/nutrition"
	"github.com/google/uuid"
)

// ProfileRepository defines the interface for user profile persistence
type ProfileRepository interface {
	Create(ctx context.Context, profile *nutrition.Profile, passwordHash string) error
	FindByID(ctx context.Context, id uuid.UUID) (*nutrition.Profile, error)
	FindByEmail(ctx context.Context, email string) (*nutrition.Profile, error)
	CredentialsByEmail(ctx context.Context, email string) (uuid.UUID, string, error)
	UpdateBasicInfo(ctx context.Context, profile *nutrition.Profile) error
	UpdateLifestyle(ctx context.Context, id uuid.UUID, allergies, sportive, medical, preferences []string) error

	// SaveTargets writes the full target set in one operation so targets are
	// never partially present
	SaveTargets(ctx context.Context, id uuid.UUID, targets *nutrition.Targets) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// MenuRepository defines the interface for weekly menu persistence. Weeks are
// written whole; individual days are overwritten in place by revisions.
type MenuRepository interface {
	SaveWeek(ctx context.Context, menu *nutrition.WeeklyMenu) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*nutrition.WeeklyMenu, error)
	FindDay(ctx context.Context, userID uuid.UUID, day int) (nutrition.DayMenu, error)
	SaveDay(ctx context.Context, userID uuid.UUID, day int, menu nutrition.DayMenu) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// ChatHistoryRepository stores per-day conversational turns. The returned id
// is the chronological message identifier used as the vector-index key.
type ChatHistoryRepository interface {
	Append(ctx context.Context, entry *nutrition.ChatEntry) (int64, error)
	RecentForDay(ctx context.Context, userID uuid.UUID, day, limit int) ([]nutrition.ChatEntry, error)
}

// LLMProvider is a single foreign model vendor. The gateway is polymorphic
// over this one capability; any adapter satisfying it can join the fail-over
// chain without gateway changes.
type LLMProvider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// EmbeddingService turns text into a dense vector
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorRecord is one embedded chat turn to upsert into the index
type VectorRecord struct {
	MessageID    int64
	UserID       uuid.UUID
	Day          int
	Query        string
	CreationDate string
	Vector       []float32
}

// VectorMatch is one ranked search hit
type VectorMatch struct {
	MessageID int64
	Score     float64
	Query     string
	Day       int
}

// VectorIndex is the narrow contract against the vector store, scoped by
// user namespace and day
type VectorIndex interface {
	Upsert(ctx context.Context, record VectorRecord) error
	Query(ctx context.Context, vector []float32, userID uuid.UUID, day, topK int) ([]VectorMatch, error)
}

// ConversationRecall surfaces prior revision turns relevant to a new request.
// Both operations are best effort: recall failures degrade to an empty
// context and never block the revision itself.
type ConversationRecall interface {
	// Remember indexes a stored chat turn for future retrieval
	Remember(ctx context.Context, entry *nutrition.ChatEntry) error

	// Context returns prior requests relevant to the query, oldest first
	Context(ctx context.Context, userID uuid.UUID, day int, query string) []string
}
