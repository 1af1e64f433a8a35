package chat

import (
	"context"
	"time"

	"luna_chat/src/emotion"
	"luna_chat/src/logger"
	"luna_chat/src/model"
	"luna_chat/src/persona"
)

var capabilities = []string{
	"Personalidad modular adaptativa",
	"Estados emocionales dinámicos",
	"Detección de triggers específicos",
	"Adaptación contextual por hora",
	"Comandos especiales integrados",
	"Sistema de memoria conversacional",
}

type PersonalityInfo struct {
	persona.Stats
	EmotionalSystem       bool            `json:"emotional_system"`
	CurrentEmotionalState emotion.Emotion `json:"current_emotional_state"`
	EmotionalIntensity    int             `json:"emotional_intensity"`
}

type Status struct {
	Status          string          `json:"status"`
	Name            string          `json:"name"`
	Model           string          `json:"model"`
	Uptime          float64         `json:"uptime"`
	Timestamp       time.Time       `json:"timestamp"`
	PersonalityInfo PersonalityInfo `json:"personality_info"`
	Capabilities    []string        `json:"capabilities"`
	CurrentMood     string          `json:"current_mood"`
}

type EmotionalSystem struct {
	CurrentState     emotion.State            `json:"current_state"`
	States           map[string]emotion.State `json:"states,omitempty"`
	Scope            emotion.Scope            `json:"scope"`
	PersonalityFound bool                     `json:"personality_loaded"`
	LastUpdate       time.Time                `json:"last_update"`
	Active           bool                     `json:"emotional_system_active"`
}

type CurrentTime struct {
	Hour      int               `json:"hour"`
	TimeOfDay persona.TimeOfDay `json:"time_of_day"`
}

type EmotionalSnapshot struct {
	EmotionalSystem    EmotionalSystem `json:"emotional_system"`
	CurrentTime        CurrentTime     `json:"current_time"`
	ActiveUsers        int             `json:"active_users"`
	TotalConversations int             `json:"total_conversations"`
	SystemStatus       string          `json:"system_status"`
}

type Mood struct {
	Name        string            `json:"name"`
	CurrentMood string            `json:"currentMood"`
	TimeOfDay   persona.TimeOfDay `json:"timeOfDay"`
	Hour        int               `json:"hour"`
	ActiveUsers int               `json:"activeUsers"`
	LastUpdate  time.Time         `json:"lastUpdate"`
}

func (e *Engine) ModelName() string {
	return e.modelName
}

func (e *Engine) UserName() string {
	return e.userName
}

func (e *Engine) Uptime() time.Duration {
	return time.Since(e.started)
}

func (e *Engine) Status(ctx context.Context) Status {
	tc := e.clock.Now()
	state := e.registry.For(DefaultUserID).Snapshot()
	stats := e.loader.Stats()

	return Status{
		Status:    "online",
		Name:      stats.Name + " 🌙",
		Model:     e.modelName,
		Uptime:    e.Uptime().Seconds(),
		Timestamp: tc.Now,
		PersonalityInfo: PersonalityInfo{
			Stats:                 stats,
			EmotionalSystem:       true,
			CurrentEmotionalState: state.Primary,
			EmotionalIntensity:    state.Intensity,
		},
		Capabilities: capabilities,
		CurrentMood:  "Variable según contexto y hora (ahora: " + string(tc.Bucket) + ")",
	}
}

// EmotionalSnapshot dumps the tracked state with aggregate counts. In
// per_user scope CurrentState belongs to the default user.
func (e *Engine) EmotionalSnapshot(ctx context.Context) EmotionalSnapshot {
	tc := e.clock.Now()
	stats := e.loader.Stats()

	system := EmotionalSystem{
		CurrentState:     e.registry.For(DefaultUserID).Snapshot(),
		Scope:            e.registry.Scope(),
		PersonalityFound: !stats.Fallback,
		LastUpdate:       stats.LastLoaded,
		Active:           true,
	}
	if e.registry.Scope() == emotion.ScopePerUser {
		system.States = e.registry.Snapshots()
	}

	return EmotionalSnapshot{
		EmotionalSystem:    system,
		CurrentTime:        CurrentTime{Hour: tc.Hour(), TimeOfDay: tc.Bucket},
		ActiveUsers:        e.activeUsers(ctx),
		TotalConversations: e.journal.Len(),
		SystemStatus:       "Sistema emocional activo",
	}
}

func (e *Engine) Mood(ctx context.Context) Mood {
	tc := e.clock.Now()
	return Mood{
		Name:        e.loader.Personality().Name(),
		CurrentMood: tc.Bucket.MoodLabel(),
		TimeOfDay:   tc.Bucket,
		Hour:        tc.Hour(),
		ActiveUsers: e.activeUsers(ctx),
		LastUpdate:  tc.Now,
	}
}

// History returns the journal entries of userID, the most recent limit of them.
func (e *Engine) History(userID string, limit int) []model.JournalEntry {
	if userID == "" {
		userID = DefaultUserID
	}
	return e.journal.ForUser(userID, limit)
}

func (e *Engine) Healthy(ctx context.Context) error {
	return e.conversations.HealthCheck(ctx)
}

func (e *Engine) activeUsers(ctx context.Context) int {
	n, err := e.conversations.ActiveUsers(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to count active users")
		return 0
	}
	return n
}
