// Package emotion detects emotional triggers in user messages and keeps the
// bounded mood state that colors every reply.
package emotion

import (
	"fmt"
	"time"
)

// Emotion is the primary mood label
type Emotion string

const (
	Neutral    Emotion = "neutral"
	Happy      Emotion = "happy"
	Angry      Emotion = "angry"
	Sad        Emotion = "sad"
	Jealous    Emotion = "jealous"
	Frustrated Emotion = "frustrated"
)

// Priority is the order in which trigger categories compete for the primary emotion.
var Priority = []Emotion{Jealous, Angry, Frustrated, Sad, Happy}

const (
	MaxIntensity           = 3
	MaxAccumulatedTriggers = 10
	Cooldown               = 2 * time.Minute
)

// State is the mood held between messages. LastEmotionTime is nil until the
// first update.
type State struct {
	Primary             Emotion    `json:"primary"`
	Intensity           int        `json:"intensity"`
	TriggersAccumulated []string   `json:"triggers_accumulated"`
	PositiveMemory      int        `json:"positive_memory"`
	NegativeMemory      int        `json:"negative_memory"`
	LastEmotionTime     *time.Time `json:"last_emotion_time"`
}

// NewState returns the zero mood: neutral, no intensity, no memory.
func NewState() State {
	return State{Primary: Neutral, TriggersAccumulated: []string{}}
}

// MemoryBalance is positive minus negative memory
func (s State) MemoryBalance() int {
	return s.PositiveMemory - s.NegativeMemory
}

// RecentTriggers returns up to n of the most recent accumulated triggers.
func (s State) RecentTriggers(n int) []string {
	if n <= 0 || len(s.TriggersAccumulated) == 0 {
		return nil
	}
	return lastN(s.TriggersAccumulated, n)
}

func (s State) clone() State {
	out := s
	out.TriggersAccumulated = append([]string{}, s.TriggersAccumulated...)
	if s.LastEmotionTime != nil {
		t := *s.LastEmotionTime
		out.LastEmotionTime = &t
	}
	return out
}

// Update is the outcome of applying one message's triggers.
type Update struct {
	Emotion       Emotion    `json:"emotion"`
	Intensity     int        `json:"intensity"`
	Triggers      []string   `json:"triggers"`
	MemoryBalance int        `json:"memory_balance"`
	Set           TriggerSet `json:"-"`
}

// Scope decides whether users share one tracker or get their own.
type Scope string

const (
	ScopeShared  Scope = "shared"
	ScopePerUser Scope = "per_user"
)

// ParseScope validates a scope name, empty meaning shared.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeShared:
		return ScopeShared, nil
	case ScopePerUser:
		return ScopePerUser, nil
	default:
		return "", fmt.Errorf("unknown emotional state scope %q", s)
	}
}

func lastN(items []string, n int) []string {
	if len(items) <= n {
		return append([]string{}, items...)
	}
	return append([]string{}, items[len(items)-n:]...)
}
