package recall

import (
	"context"
	"sort"

	"github.com/JhonatanAndres2004/TasteAI/internal/domain/nutrition"
	"github.com/JhonatanAndres2004/TasteAI/internal/ports/outbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	searchTopK = 10

	// minRelevance drops weak matches; below this the turn is about
	// something else even if it mentions the same day
	minRelevance = 0.75

	// recentTurnsOverlap is how many of the newest matches to discard.
	// The newest turns reach the prompt verbatim from relational storage,
	// so returning them here would duplicate context.
	recentTurnsOverlap = 3
)

// Service implements the ConversationRecall interface over an embedder and
// a vector index
type Service struct {
	embedder outbound.EmbeddingService
	index    outbound.VectorIndex
	logger   *zap.Logger
}

// NewService creates the recall service
func NewService(embedder outbound.EmbeddingService, index outbound.VectorIndex, logger *zap.Logger) *Service {
	return &Service{
		embedder: embedder,
		index:    index,
		logger:   logger,
	}
}

// Remember embeds a stored chat turn and upserts it under the user's
// namespace, keyed by the relational message id
func (s *Service) Remember(ctx context.Context, entry *nutrition.ChatEntry) error {
	vector, err := s.embedder.Embed(ctx, entry.Request)
	if err != nil {
		return err
	}

	return s.index.Upsert(ctx, outbound.VectorRecord{
		MessageID:    entry.ID,
		UserID:       entry.UserID,
		Day:          entry.Day,
		Query:        entry.Request,
		CreationDate: entry.CreatedAt.Format("2006-01-02 15:04:05"),
		Vector:       vector,
	})
}

// Context returns prior requests about the given day that are semantically
// close to the query, oldest first. Failures degrade to no context; the
// caller proceeds without history rather than failing the revision.
func (s *Service) Context(ctx context.Context, userID uuid.UUID, day int, query string) []string {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Warn("recall embedding failed, proceeding without history",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil
	}

	matches, err := s.index.Query(ctx, vector, userID, day, searchTopK)
	if err != nil {
		s.logger.Warn("recall search failed, proceeding without history",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil
	}

	return Relevant(matches)
}

// Relevant applies the retrieval policy to raw matches: chronological order
// by message id, the newest turns removed, then weak matches filtered out.
func Relevant(matches []outbound.VectorMatch) []string {
	sorted := make([]outbound.VectorMatch, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MessageID < sorted[j].MessageID
	})

	if len(sorted) <= recentTurnsOverlap {
		return nil
	}
	sorted = sorted[:len(sorted)-recentTurnsOverlap]

	var turns []string
	for _, m := range sorted {
		if m.Score >= minRelevance {
			turns = append(turns, m.Query)
		}
	}
	return turns
}
