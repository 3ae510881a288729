package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/learner"
	"github.com/abhisek/logos/internal/session"
)

var (
	// ErrNotFound is returned when a learner or session does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrConcurrentUpdate is returned when a session was changed since it
	// was read.
	ErrConcurrentUpdate = errors.New("store: session was modified concurrently")
)

// LearnerRef identifies one learner's state in one language.
type LearnerRef struct {
	ID       string              `db:"id"`
	Language curriculum.Language `db:"language"`
}

// LearnerRepo loads and saves learner snapshots.
type LearnerRepo interface {
	// LoadSnapshot returns the learner's state bound to cat. It returns
	// ErrNotFound for an unknown learner.
	LoadSnapshot(ctx context.Context, learnerID string, cat *curriculum.Catalog) (*learner.Snapshot, error)

	// SaveSnapshot upserts the learner state and every record it owns.
	SaveSnapshot(ctx context.Context, snap *learner.Snapshot) error

	// ListLearners returns every stored learner and language.
	ListLearners(ctx context.Context) ([]LearnerRef, error)
}

// StoredSession is a plan with its persistence metadata.
type StoredSession struct {
	Plan     *session.Plan
	Language curriculum.Language
	Version  int
}

// SessionRepo persists session plans. Writers pass the version they read;
// a mismatch means another writer got there first.
type SessionRepo interface {
	Create(ctx context.Context, lang curriculum.Language, plan *session.Plan) (*StoredSession, error)
	Get(ctx context.Context, id string) (*StoredSession, error)
	// Latest returns the learner's most recently created session.
	Latest(ctx context.Context, learnerID string, lang curriculum.Language) (*StoredSession, error)
	// Update writes the plan if its stored version still equals
	// ss.Version, then bumps ss.Version.
	Update(ctx context.Context, ss *StoredSession) error
	SaveSummary(ctx context.Context, sum session.Summary) error
	GetSummary(ctx context.Context, sessionID string) (session.Summary, error)
}

// LLMRequestEvent captures the data for a single LLM request.
type LLMRequestEvent struct {
	ID           int64     `db:"id"`
	Provider     string    `db:"provider"`
	Model        string    `db:"model"`
	Purpose      string    `db:"purpose"`
	LearnerID    string    `db:"learner_id"`
	InputTokens  int       `db:"input_tokens"`
	OutputTokens int       `db:"output_tokens"`
	LatencyMs    int64     `db:"latency_ms"`
	Success      bool      `db:"success"`
	ErrorMessage string    `db:"error_message"`
	RequestBody  string    `db:"request_body"`
	ResponseBody string    `db:"response_body"`
	CreatedAt    time.Time `db:"-"`
}

// QueryOpts filters event queries.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	Purpose   string    // exact match when set
	LearnerID string    // exact match when set
	From      time.Time // created_at >= From
	To        time.Time // created_at <= To
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEvent) error
	// QueryLLMEvents returns matching events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error)
}
