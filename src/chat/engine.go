// Package chat runs one inbound message through commands, the emotional
// engine, the remote model and the local fallback.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"luna_chat/src/conversation"
	"luna_chat/src/emotion"
	"luna_chat/src/llm"
	"luna_chat/src/logger"
	"luna_chat/src/model"
	"luna_chat/src/persona"
	"luna_chat/src/storage"
)

const DefaultUserID = "default"

// Reply sources
const (
	SourceCommand    = "command"
	SourceModel      = "model"
	SourceExpression = "expression"
	SourceFallback   = "fallback"
)

// Journal entry types
const (
	EntryUser = "user"
	EntryLuna = "luna"
)

// ErrEmptyMessage is the validation failure for a blank message.
var ErrEmptyMessage = errors.New("message is required")

var errNoCompleter = errors.New("no remote model configured")

// StateStore persists emotional state snapshots between restarts.
type StateStore interface {
	Set(ctx context.Context, id string, data any) error
	Get(ctx context.Context, id string, dest any) error
}

type Request struct {
	Message string
	UserID  string
}

type Reply struct {
	Response       string
	UserID         string
	Timestamp      time.Time
	Context        model.ChatContext
	ConversationID string
	Source         string
}

// Engine is safe for concurrent use. The tracker lock is never held while
// the remote model is called.
type Engine struct {
	loader        *persona.Loader
	conversations *conversation.Service
	completer     llm.Completer

	detector *emotion.Detector
	registry *emotion.Registry
	composer *persona.Composer
	commands *persona.Commands
	fallback *persona.Responder
	journal  *conversation.Journal
	clock    *persona.Clock
	states   StateStore
	restored sync.Map

	userName  string
	modelName string
	direct    bool
	started   time.Time
}

type Option func(*Engine)

func WithRegistry(r *emotion.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

func WithDetector(d *emotion.Detector) Option {
	return func(e *Engine) { e.detector = d }
}

func WithJournal(j *conversation.Journal) Option {
	return func(e *Engine) { e.journal = j }
}

func WithClock(c *persona.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithPicker makes command and fallback choices deterministic.
func WithPicker(p persona.Picker) Option {
	return func(e *Engine) {
		e.commands = persona.NewCommands(p)
		e.fallback = persona.NewResponder(p)
	}
}

func WithStateStore(s StateStore) Option {
	return func(e *Engine) { e.states = s }
}

func WithUserName(name string) Option {
	return func(e *Engine) { e.userName = name }
}

func WithModelName(name string) Option {
	return func(e *Engine) { e.modelName = name }
}

// WithDirectExpressions answers with the configured expression, skipping the
// model, once intensity reaches 2.
func WithDirectExpressions(enabled bool) Option {
	return func(e *Engine) { e.direct = enabled }
}

// NewEngine wires the pipeline. completer may be nil, in which case every
// message gets the local fallback.
func NewEngine(loader *persona.Loader, conversations *conversation.Service, completer llm.Completer, opts ...Option) *Engine {
	picker := persona.NewPicker()
	e := &Engine{
		loader:        loader,
		conversations: conversations,
		completer:     completer,
		detector:      emotion.NewDetector(),
		registry:      emotion.NewRegistry(emotion.ScopeShared),
		composer:      persona.NewComposer(),
		commands:      persona.NewCommands(picker),
		fallback:      persona.NewResponder(picker),
		journal:       conversation.NewJournal(conversation.DefaultJournalSize),
		clock:         persona.SystemClock(),
		userName:      "Maurom",
		modelName:     "unknown",
		started:       time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle answers one message. Only a blank message is an error the caller
// should show to the user; remote failures are answered locally.
func (e *Engine) Handle(ctx context.Context, req Request) (Reply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return Reply{}, ErrEmptyMessage
	}
	userID := req.UserID
	if userID == "" {
		userID = DefaultUserID
	}

	tc := e.clock.Now()
	if err := e.loader.ReloadIfNeeded(); err != nil {
		logger.Warn().Err(err).Msg("Personality reload failed, keeping current personality")
	}
	p := e.loader.Personality()
	mood := emotion.DetectUserMood(req.Message)

	e.journal.Add(model.JournalEntry{
		UserID:         userID,
		Message:        req.Message,
		Timestamp:      tc.Now,
		Type:           EntryUser,
		EmotionalState: string(mood),
	})

	tracker := e.trackerFor(ctx, userID)

	var (
		response string
		source   string
		err      error
	)
	if cmd, ok := persona.ParseCommand(req.Message); ok {
		response, err = e.runCommand(ctx, cmd, p, tracker, userID)
		source = SourceCommand
	} else {
		response, source, err = e.respond(ctx, req.Message, userID, p, tracker, mood, tc)
	}
	if err != nil {
		return Reply{}, err
	}

	length, err := e.conversations.Length(ctx, userID)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to read conversation length: %w", err)
	}
	chatCtx := model.ChatContext{
		TimeOfDay:          string(tc.Bucket),
		UserEmotionalState: string(mood),
		ConversationLength: conversation.LengthBucket(length),
	}

	e.journal.Add(model.JournalEntry{
		UserID:    userID,
		Message:   response,
		Timestamp: e.clock.Now().Now,
		Type:      EntryLuna,
		Context:   &chatCtx,
	})

	logger.Info().
		Str("user_id", userID).
		Str("source", source).
		Str("time_of_day", chatCtx.TimeOfDay).
		Str("conversation_length", chatCtx.ConversationLength).
		Msg("Message answered")

	return Reply{
		Response:       response,
		UserID:         userID,
		Timestamp:      tc.Now,
		Context:        chatCtx,
		ConversationID: fmt.Sprintf("%s_%d", userID, time.Now().UnixMilli()),
		Source:         source,
	}, nil
}

func (e *Engine) runCommand(ctx context.Context, cmd persona.Command, p *persona.Personality, tracker *emotion.Tracker, userID string) (string, error) {
	recent, err := e.conversations.History(ctx, userID, 0)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to load context for command")
	}

	reply, err := e.commands.Handle(cmd, persona.CommandEnv{
		Personality: p,
		Tracker:     tracker,
		Recent:      recent,
		UserName:    e.userName,
	})
	if err != nil {
		return "", err
	}

	if cmd == persona.CommandReset {
		e.saveState(ctx, userID, tracker)
		logger.Info().Str("user_id", userID).Msg("Emotional state reset")
	}
	return reply, nil
}

func (e *Engine) respond(ctx context.Context, message, userID string, p *persona.Personality, tracker *emotion.Tracker, mood emotion.UserMood, tc persona.TimeContext) (string, string, error) {
	length, err := e.conversations.Length(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to read conversation length: %w", err)
	}

	update := tracker.UpdateAt(e.detector.Detect(message, emotion.Context{}), tc.Now)
	state := tracker.Snapshot()
	e.saveState(ctx, userID, tracker)

	if len(update.Triggers) > 0 {
		logger.Debug().
			Str("user_id", userID).
			Str("emotion", string(update.Emotion)).
			Int("intensity", update.Intensity).
			Strs("triggers", update.Triggers).
			Msg("Emotional triggers detected")
	}

	systemPrompt := e.composer.Build(p, update, state, tc, persona.UserContext{
		Name:               e.userName,
		Mood:               mood,
		ConversationLength: conversation.LengthBucket(length),
	})

	reply, source := e.complete(ctx, message, userID, p, update, systemPrompt, tc)

	if err := e.conversations.RecordExchange(ctx, userID, message, reply); err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to record exchange")
	}
	return reply, source, nil
}

func (e *Engine) complete(ctx context.Context, message, userID string, p *persona.Personality, update emotion.Update, systemPrompt string, tc persona.TimeContext) (string, string) {
	if e.direct && update.Intensity >= 2 {
		if expr, ok := persona.Expression(p, update.Emotion, update.Intensity); ok {
			return persona.Personalize(expr, e.userName), SourceExpression
		}
	}

	history, err := e.conversations.Window(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to load history window, calling model without it")
		history = nil
	}

	err = errNoCompleter
	var reply string
	if e.completer != nil {
		reply, err = e.completer.Complete(ctx, systemPrompt, history, message)
	}
	if err == nil {
		return reply, SourceModel
	}

	logger.Warn().Err(err).Str("user_id", userID).Msg("Remote model failed, using fallback response")
	return e.fallback.Fallback(p, message, tc.Bucket, e.userName), SourceFallback
}

func (e *Engine) stateKey(userID string) string {
	if e.registry.Scope() == emotion.ScopePerUser {
		return userID
	}
	return string(emotion.ScopeShared)
}

// trackerFor returns the user's tracker, restoring a persisted snapshot the
// first time a key is seen.
func (e *Engine) trackerFor(ctx context.Context, userID string) *emotion.Tracker {
	tracker := e.registry.For(userID)
	if e.states == nil {
		return tracker
	}

	key := e.stateKey(userID)
	if _, seen := e.restored.LoadOrStore(key, true); seen {
		return tracker
	}

	var state emotion.State
	err := e.states.Get(ctx, key, &state)
	switch {
	case err == nil:
		tracker.Restore(state)
		logger.Info().Str("key", key).Msg("Emotional state restored")
	case !errors.Is(err, storage.ErrNotFound):
		logger.Warn().Err(err).Str("key", key).Msg("Failed to restore emotional state")
	}
	return tracker
}

func (e *Engine) saveState(ctx context.Context, userID string, tracker *emotion.Tracker) {
	if e.states == nil {
		return
	}
	key := e.stateKey(userID)
	if err := e.states.Set(ctx, key, tracker.Snapshot()); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to persist emotional state")
	}
}
