package activity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/seitenwerk/seitenwerk/internal/logging"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// Verbs emitted by the admin services.
const (
	VerbPageCreated      = "page.created"
	VerbPageSaved        = "page.saved"
	VerbPageDeleted      = "page.deleted"
	VerbContentSaved     = "content.saved"
	VerbContentPublished = "content.published"
	VerbWordCloudSaved   = "wordcloud.saved"
)

// Recorder fans service events into an ActivitySink. A nil sink disables
// recording; sink failures are logged and never surface to the caller, an
// audit hiccup must not fail a save.
type Recorder struct {
	sink   interfaces.ActivitySink
	auth   interfaces.AuthProvider
	logger interfaces.Logger
	now    func() time.Time
}

type Option func(*Recorder)

func WithAuthProvider(auth interfaces.AuthProvider) Option {
	return func(r *Recorder) { r.auth = auth }
}

func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(r *Recorder) {
		if provider != nil {
			r.logger = logging.ModuleLogger(provider, "siteadmin.activity")
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRecorder(sink interfaces.ActivitySink, opts ...Option) *Recorder {
	recorder := &Recorder{
		sink:   sink,
		logger: logging.NoOp(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(recorder)
	}
	return recorder
}

// Record logs one activity event. The actor resolves from the auth provider
// when one is configured.
func (r *Recorder) Record(ctx context.Context, verb, objectType, objectID string, data map[string]any) {
	if r == nil || r.sink == nil {
		return
	}

	record := interfaces.ActivityRecord{
		ActorID:    r.actorID(ctx),
		Verb:       verb,
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    "admin",
		Data:       data,
		OccurredAt: r.now(),
	}
	record.UserID = record.ActorID

	if err := r.sink.Log(ctx, record); err != nil {
		r.logger.Warn("activity sink rejected event", "verb", verb, "object", objectID, "error", err)
	}
}

func (r *Recorder) actorID(ctx context.Context) uuid.UUID {
	if r.auth == nil {
		return uuid.Nil
	}
	raw, err := r.auth.CurrentUserID(ctx)
	if err != nil {
		r.logger.Warn("could not resolve current user", "error", err)
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
