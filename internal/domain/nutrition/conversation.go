package nutrition

import (
	"time"

	"github.com/google/uuid"
)

// ChatEntry is one conversational turn against a specific day of the plan:
// the user's request plus the notes the reviser answered with. Entries are
// the corpus for semantic recall.
type ChatEntry struct {
	ID        int64
	UserID    uuid.UUID
	Day       int
	Request   string
	Notes     string
	CreatedAt time.Time
}
