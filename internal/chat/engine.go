package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/observability"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/semantic"
	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/store"
)

// DefaultRetrieveTopK is the number of memories recalled per request.
const DefaultRetrieveTopK = 3

// Engine runs the request pipeline: rate limit, profanity screen, reply
// cache, context assembly, model call, commit.
type Engine struct {
	sessions  *store.SessionStore
	index     *semantic.Index
	committer *Committer
	brain     Brain
	emotion   EmotionDetector
	profanity ProfanityFilter
	metrics   *observability.Metrics
	topK      int
}

func NewEngine(
	sessions *store.SessionStore,
	index *semantic.Index,
	committer *Committer,
	brain Brain,
	emotion EmotionDetector,
	profanity ProfanityFilter,
	metrics *observability.Metrics,
	topK int,
) *Engine {
	if topK <= 0 {
		topK = DefaultRetrieveTopK
	}
	return &Engine{
		sessions:  sessions,
		index:     index,
		committer: committer,
		brain:     brain,
		emotion:   emotion,
		profanity: profanity,
		metrics:   metrics,
		topK:      topK,
	}
}

// Respond handles one inbound message for a session. Profane input yields a
// refusal Reply, not an error; a model failure returns an error with no
// state committed.
func (e *Engine) Respond(ctx context.Context, sessionID, message string) (Reply, error) {
	limited, err := e.sessions.IsRateLimited(ctx, sessionID)
	if err != nil {
		e.metrics.Requests.WithLabelValues(observability.OutcomeError).Inc()
		return Reply{}, err
	}
	if limited {
		e.metrics.Requests.WithLabelValues(observability.OutcomeRateLimited).Inc()
		return Reply{}, ErrRateLimited
	}

	if e.profanity.Profane(message) {
		e.sessions.LogAbuse(ctx, sessionID, message)
		e.metrics.Requests.WithLabelValues(observability.OutcomeRefused).Inc()
		return Reply{Text: RefusalMessage, Refused: true}, nil
	}

	normalized := store.Normalize(message)
	cached, ok, err := e.sessions.CacheGet(ctx, normalized)
	if err != nil {
		e.metrics.Requests.WithLabelValues(observability.OutcomeError).Inc()
		return Reply{}, err
	}
	if ok {
		e.metrics.CacheLookups.WithLabelValues("hit").Inc()
		e.metrics.Requests.WithLabelValues(observability.OutcomeCached).Inc()
		return Reply{Text: cached, Cached: true}, nil
	}
	e.metrics.CacheLookups.WithLabelValues("miss").Inc()

	view, err := e.gather(ctx, sessionID, message)
	if err != nil {
		e.metrics.Requests.WithLabelValues(observability.OutcomeError).Inc()
		return Reply{}, err
	}
	messages := BuildContext(view)
	e.metrics.ContextMessages.Observe(float64(len(messages)))

	start := time.Now()
	reply, err := e.brain.Complete(ctx, messages)
	e.metrics.ObserveBrainLatency(time.Since(start))
	if err != nil {
		// Nothing is committed for a turn that produced no reply.
		e.metrics.Requests.WithLabelValues(observability.OutcomeError).Inc()
		return Reply{}, fmt.Errorf("model backend: %w", err)
	}

	if err := e.committer.Commit(ctx, sessionID, message, reply); err != nil {
		e.metrics.Requests.WithLabelValues(observability.OutcomeError).Inc()
		return Reply{}, fmt.Errorf("commit turn: %w", err)
	}

	e.metrics.MemoryItems.Set(float64(e.index.Count()))
	e.metrics.Requests.WithLabelValues(observability.OutcomeOK).Inc()
	return Reply{Text: reply}, nil
}

// gather prefetches everything BuildContext needs; the assembly itself is a
// pure step over this snapshot.
func (e *Engine) gather(ctx context.Context, sessionID, message string) (View, error) {
	history, err := e.sessions.GetHistory(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	prefs, err := e.sessions.GetPreferences(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	topics, err := e.sessions.GetTopics(ctx, sessionID)
	if err != nil {
		return View{}, err
	}

	return View{
		Emotion:     e.emotion.Detect(message),
		Preferences: prefs,
		Topics:      topics,
		Memories:    e.index.Retrieve(message, e.topK),
		History:     history,
		Message:     message,
	}, nil
}
