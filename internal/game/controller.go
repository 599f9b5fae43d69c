package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"adventure-server/internal/domain"
	"adventure-server/internal/generation"
	"adventure-server/internal/repository"
	"adventure-server/internal/scenes"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier receives session updates, e.g. to push them to websocket clients.
type Notifier interface {
	Broadcast(messageType, topic string, payload interface{})
}

// Websocket topic and message types published by the controller.
const (
	TopicSession        = "session"
	EventSessionUpdated = "session_updated"
	EventSearchUpdated  = "search_updated"
)

// User visible messages.
const (
	sceneNotFoundFormat = "Sahne bulunamadı: %s"
	sceneLoadFormat     = "Sahne yüklenirken hata: %v"
	searchFailedFormat  = "Arama sırasında hata: %v"
)

type nopNotifier struct{}

func (nopNotifier) Broadcast(string, string, interface{}) {}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(c *Controller) { c.logger = l } }

// WithJournal sets where committed turns are recorded. Defaults to an in-memory journal.
func WithJournal(j repository.TurnRepository) Option { return func(c *Controller) { c.journal = j } }

// WithNotifier sets the receiver of session updates.
func WithNotifier(n Notifier) Option { return func(c *Controller) { c.notifier = n } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// WithIDGenerator overrides uuid.NewString for session and turn ids.
func WithIDGenerator(f func() string) Option { return func(c *Controller) { c.newID = f } }

// Controller owns the single session of the process.
//
// Every state change that makes in-flight content obsolete bumps round; a content round
// remembers the value it started with and drops its results when the value moved on.
// Searches use their own counter and never touch the scene state.
type Controller struct {
	graph    *scenes.Graph
	provider generation.Provider
	logger   *zap.Logger
	journal  repository.TurnRepository
	notifier Notifier
	now      func() time.Time
	newID    func() string

	mu       sync.Mutex
	session  domain.Session
	round    uint64
	search   uint64
	sequence int
	// idle is closed whenever no content round is in flight.
	idle chan struct{}
}

// NewController creates a controller positioned on the start scene. Call Start to load the
// start scene's content.
func NewController(graph *scenes.Graph, provider generation.Provider, opts ...Option) *Controller {
	c := &Controller{
		graph:    graph,
		provider: provider,
		logger:   zap.NewNop(),
		journal:  repository.NewMemoryTurnRepository(),
		notifier: nopNotifier{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("game")
	c.session = domain.NewSession(c.newID(), graph.StartID(), c.now())
	c.idle = make(chan struct{})
	close(c.idle)
	return c
}

// Start loads content for the current scene. It blocks until the round completes.
func (c *Controller) Start(ctx context.Context) Snapshot {
	c.mu.Lock()
	scene := c.currentSceneLocked()
	round := c.beginRoundLocked()
	req := narrativeRequest(scene, c.session)
	id := c.session.ID
	c.mu.Unlock()

	c.logger.Info("Session started", zap.String("sessionId", id), zap.String("sceneId", scene.ID))
	c.publish()
	c.loadContent(ctx, round, scene, req)
	return c.Snapshot()
}

// SelectChoice applies the choice at index of the current scene and loads the content of
// the scene it leads to. It blocks until that round completes or is superseded.
//
// It fails with domain.ErrBusy while content is loading, domain.ErrInvalidChoice for an
// out of range index and domain.ErrSceneNotFound when the target scene does not exist. In
// the last case only the session's error message changes.
func (c *Controller) SelectChoice(ctx context.Context, index int) (Snapshot, error) {
	c.mu.Lock()
	if c.session.Loading {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, domain.ErrBusy
	}

	scene := c.currentSceneLocked()
	if index < 0 || index >= len(scene.Choices) {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, fmt.Errorf("%w: index %d, scene %s has %d choices", domain.ErrInvalidChoice, index, scene.ID, len(scene.Choices))
	}
	choice := scene.Choices[index]
	out := Transition(scene, c.session.Stats, choice)

	next, err := c.graph.Get(out.Next)
	if err != nil {
		c.session.Error = fmt.Sprintf(sceneNotFoundFormat, out.Next)
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.logger.Error("Choice leads to unknown scene",
			zap.String("sceneId", scene.ID),
			zap.Int("choice", index),
			zap.String("next", out.Next),
		)
		c.publish()
		return snap, err
	}

	if out.Reset() {
		if c.sequence > 0 {
			c.session.ID = c.newID()
			c.session.StartedAt = c.now()
			c.sequence = 0
		}
		c.session.NarrativeText = ""
		c.session.ImageRef = ""
	}
	c.session.CurrentSceneID = next.ID
	c.session.Stats = out.Stats
	c.session.LastChoiceText = out.LastChoice
	c.sequence++
	turn := domain.Turn{
		ID:         c.newID(),
		SessionID:  c.session.ID,
		Sequence:   c.sequence,
		FromScene:  scene.ID,
		ToScene:    next.ID,
		ChoiceText: choice.Text,
		Effects:    choice.Effects,
		Kind:       out.Kind,
		Stats:      out.Stats,
		CreatedAt:  c.now(),
	}
	round := c.beginRoundLocked()
	req := narrativeRequest(next, c.session)
	c.mu.Unlock()

	transitionsTotal.WithLabelValues(out.Kind).Inc()
	c.logger.Info("Transition committed",
		zap.String("sessionId", turn.SessionID),
		zap.String("from", turn.FromScene),
		zap.String("to", turn.ToScene),
		zap.String("kind", out.Kind),
		zap.Any("stats", out.Stats),
	)
	if err := c.journal.Append(ctx, turn); err != nil {
		c.logger.Error("Failed to record turn", zap.String("sessionId", turn.SessionID), zap.Int("sequence", turn.Sequence), zap.Error(err))
	}
	c.publish()

	c.loadContent(ctx, round, next, req)
	return c.Snapshot(), nil
}

// Restart abandons the current game: start scene, initial stats, no last choice, no
// narrative, image, error or search results, and a new session id. It is allowed while
// content is loading; results of the abandoned round are discarded.
func (c *Controller) Restart(ctx context.Context) Snapshot {
	c.mu.Lock()
	fresh := domain.NewSession(c.newID(), c.graph.StartID(), c.now())
	fresh.Loading = c.session.Loading
	c.session = fresh
	c.sequence = 0
	c.search++
	scene := c.currentSceneLocked()
	round := c.beginRoundLocked()
	req := narrativeRequest(scene, c.session)
	c.mu.Unlock()

	restartsTotal.Inc()
	c.logger.Info("Session restarted", zap.String("sessionId", fresh.ID))
	c.publish()
	c.loadContent(ctx, round, scene, req)
	return c.Snapshot()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Await blocks until no content round is in flight and returns the resulting state.
func (c *Controller) Await(ctx context.Context) (Snapshot, error) {
	for {
		c.mu.Lock()
		idle := c.idle
		c.mu.Unlock()

		select {
		case <-idle:
			c.mu.Lock()
			loading := c.session.Loading
			snap := c.snapshotLocked()
			c.mu.Unlock()
			if !loading {
				return snap, nil
			}
		case <-ctx.Done():
			return c.Snapshot(), ctx.Err()
		}
	}
}

// History returns the journal of the current session.
func (c *Controller) History(ctx context.Context) ([]domain.Turn, error) {
	c.mu.Lock()
	id := c.session.ID
	c.mu.Unlock()
	turns, err := c.journal.ListBySession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load history of session %s: %w", id, err)
	}
	return turns, nil
}

// Graph returns the scene graph the controller plays.
func (c *Controller) Graph() *scenes.Graph {
	return c.graph
}

func (c *Controller) currentSceneLocked() domain.Scene {
	scene, err := c.graph.Get(c.session.CurrentSceneID)
	if err != nil {
		// CurrentSceneID only ever holds ids resolved through the graph.
		panic(fmt.Sprintf("game: current scene vanished: %v", err))
	}
	return scene
}

func (c *Controller) snapshotLocked() Snapshot {
	return newSnapshot(c.session, c.currentSceneLocked())
}

// beginRoundLocked invalidates any round in flight and marks the session as loading.
func (c *Controller) beginRoundLocked() uint64 {
	c.round++
	if !c.session.Loading {
		c.idle = make(chan struct{})
	}
	c.session.Loading = true
	c.session.Error = ""
	return c.round
}

func narrativeRequest(scene domain.Scene, s domain.Session) generation.NarrativeRequest {
	return generation.NarrativeRequest{
		SceneID:        scene.ID,
		Seed:           scene.NarrativeSeed,
		Stats:          s.Stats,
		LastChoiceText: s.LastChoiceText,
	}
}

// loadContent fetches the narrative, then the image, and applies each result only while
// round is still current. In-flight calls are not cancelled when the session moves on.
func (c *Controller) loadContent(ctx context.Context, round uint64, scene domain.Scene, req generation.NarrativeRequest) {
	ctx = context.WithoutCancel(ctx)

	narrative, err := c.provider.GenerateNarrative(ctx, req)
	if err == nil && strings.TrimSpace(narrative) == "" {
		err = domain.ErrEmptyResponse
	}
	errMsg := ""
	if err != nil {
		c.logger.Warn("Narrative generation failed, using seed text", zap.String("sceneId", scene.ID), zap.Error(err))
		narrative = scene.NarrativeSeed
		errMsg = fmt.Sprintf(sceneLoadFormat, err)
	}

	applied := c.apply(round, generation.OpNarrative, func(s *domain.Session) {
		s.NarrativeText = narrative
		s.Error = errMsg
		s.ImageRef = ""
		if !scene.HasImage() {
			c.finishLocked()
		}
	})
	if !applied {
		return
	}
	c.publish()
	if !scene.HasImage() {
		return
	}

	img, err := c.provider.GenerateImage(ctx, scene.ImagePrompt)
	if err != nil {
		c.logger.Warn("Image generation failed", zap.String("sceneId", scene.ID), zap.Error(err))
		img = ""
	}
	if c.apply(round, generation.OpImage, func(s *domain.Session) {
		s.ImageRef = img
		c.finishLocked()
	}) {
		c.publish()
	}
}

// apply runs fn under the lock if round is still current.
func (c *Controller) apply(round uint64, operation string, fn func(*domain.Session)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if round != c.round {
		staleResultsTotal.WithLabelValues(operation).Inc()
		c.logger.Debug("Discarding stale generation result", zap.String("operation", operation), zap.Uint64("round", round), zap.Uint64("current", c.round))
		return false
	}
	fn(&c.session)
	return true
}

func (c *Controller) finishLocked() {
	if c.session.Loading {
		c.session.Loading = false
		close(c.idle)
	}
}

func (c *Controller) publish() {
	c.notifier.Broadcast(EventSessionUpdated, TopicSession, c.Snapshot())
}
