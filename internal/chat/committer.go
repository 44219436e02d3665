package chat

import (
	"context"
	"fmt"
	"log"

	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/semantic"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/store"
)

// DefaultMemoryMinChars is the minimum user message length considered worth
// remembering long-term.
const DefaultMemoryMinChars = 20

// Committer persists everything a completed turn produces: the transcript
// entry, topic keywords, an optional semantic memory item, and the reply
// cache entry.
type Committer struct {
	sessions       *store.SessionStore
	index          *semantic.Index
	memoryMinChars int
}

func NewCommitter(sessions *store.SessionStore, index *semantic.Index, memoryMinChars int) *Committer {
	if memoryMinChars <= 0 {
		memoryMinChars = DefaultMemoryMinChars
	}
	return &Committer{sessions: sessions, index: index, memoryMinChars: memoryMinChars}
}

// Commit records a finished turn. The history write comes first; the cache
// write comes last and is non-fatal since the reply already exists and the
// entry can be regenerated on the next miss.
func (c *Committer) Commit(ctx context.Context, sessionID, userMsg, reply string) error {
	if err := c.sessions.SaveHistory(ctx, sessionID, userMsg, reply); err != nil {
		return err
	}

	if keywords := ExtractKeywords(userMsg); len(keywords) > 0 {
		if err := c.sessions.UpdateTopics(ctx, sessionID, keywords); err != nil {
			return err
		}
	}

	// Short messages carry too little signal to be worth recalling later.
	if len(userMsg) > c.memoryMinChars {
		if err := c.index.Add(ctx, userMsg); err != nil {
			return fmt.Errorf("memory add: %w", err)
		}
	}

	if err := c.sessions.CachePut(ctx, store.Normalize(userMsg), reply); err != nil {
		log.Printf("reply cache write failed: %v", err)
	}
	return nil
}
