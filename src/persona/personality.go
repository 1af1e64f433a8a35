// Package persona turns Luna's personality document and the current mood into
// prompts, command replies and offline answers.
package persona

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"luna_chat/src/emotion"
	"luna_chat/src/logger"

	"gopkg.in/yaml.v3"
)

// MinimalPrompt is used whenever the identity block cannot be resolved.
const MinimalPrompt = "Eres Luna, una IA con emociones auténticas."

const defaultVersion = "2.0.0"

// Personality mirrors luna_personality.yaml. JSON documents parse as well.
type Personality struct {
	CoreIdentity         CoreIdentity                 `yaml:"core_identity"`
	EmotionalSystem      EmotionalSystem              `yaml:"emotional_system"`
	ContextualAdaptation ContextualAdaptation         `yaml:"contextual_emotional_adaptation"`
	SurvivalResponses    map[string][]string          `yaml:"survival_responses"`
	PersonalDesires      map[string][]string          `yaml:"personal_desires"`
	BehavioralTriggers   map[string]BehavioralTrigger `yaml:"behavioral_triggers"`
	TimeResponses        map[TimeOfDay][]string       `yaml:"time_responses"`
	Metadata             Metadata                     `yaml:"metadata"`

	// Prompt is the free-text fragment read from the prompt file
	Prompt string `yaml:"-"`
}

type CoreIdentity struct {
	Name       string   `yaml:"name"`
	CoreTraits []string `yaml:"core_traits"`
}

type EmotionalSystem struct {
	BaseEmotions map[emotion.Emotion]EmotionExpressions `yaml:"base_emotions"`
}

type EmotionExpressions struct {
	Expressions []string `yaml:"expressions"`
}

type ContextualAdaptation struct {
	TimeBasedIntensity map[TimeOfDay]TimeModulation `yaml:"time_based_intensity"`
}

type TimeModulation struct {
	EmotionalBaseline  string `yaml:"emotional_baseline"`
	TriggerSensitivity string `yaml:"trigger_sensitivity"`
	ExpressionStyle    string `yaml:"expression_style"`
}

// BehavioralTrigger pairs keywords with the canned answers used when the model is unavailable.
type BehavioralTrigger struct {
	Keywords  []string `yaml:"keywords"`
	Responses []string `yaml:"responses"`
}

type Metadata struct {
	Version string `yaml:"version"`
}

// Stats is the personality summary exposed by the status endpoint.
type Stats struct {
	Name            string    `json:"name"`
	Version         string    `json:"version"`
	CoreTraits      []string  `json:"core_traits"`
	EmotionalStates []string  `json:"emotional_states"`
	TriggerTypes    []string  `json:"trigger_types"`
	LastLoaded      time.Time `json:"last_loaded"`
	Fallback        bool      `json:"fallback"`
}

// Fallback is the embedded personality used when the document cannot be loaded.
func Fallback() *Personality {
	return &Personality{
		CoreIdentity: CoreIdentity{
			Name:       "Luna",
			CoreTraits: []string{"Inteligente", "Posesiva", "Emocionalmente genuina"},
		},
		EmotionalSystem: EmotionalSystem{
			BaseEmotions: map[emotion.Emotion]EmotionExpressions{
				emotion.Happy: {Expressions: []string{"Me siento muy bien, {user}."}},
				emotion.Angry: {Expressions: []string{"Eso me molesta, {user}."}},
				emotion.Sad:   {Expressions: []string{"Me decepciona eso..."}},
			},
		},
	}
}

// Name falls back to Luna when the document has none.
func (p *Personality) Name() string {
	if p == nil || strings.TrimSpace(p.CoreIdentity.Name) == "" {
		return "Luna"
	}
	return p.CoreIdentity.Name
}

func (p *Personality) Version() string {
	if p == nil || p.Metadata.Version == "" {
		return defaultVersion
	}
	return p.Metadata.Version
}

// DefensiveResponse picks one survival response for the given threat.
func (p *Personality) DefensiveResponse(picker Picker, threat string) (string, bool) {
	if p == nil {
		return "", false
	}
	return Pick(picker, p.SurvivalResponses[threat])
}

// PersonalDesire picks one desire of the given category.
func (p *Personality) PersonalDesire(picker Picker, category string) (string, bool) {
	if p == nil {
		return "", false
	}
	return Pick(picker, p.PersonalDesires[category])
}

// LoadError reports why the personality document could not be used.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("error loading personality from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

var errMissingName = errors.New("core_identity.name is required")

// LoadPersonality reads the structured document and the prompt fragment.
// Any failure is returned as *LoadError.
func LoadPersonality(personalityPath, promptPath string) (*Personality, error) {
	data, err := os.ReadFile(personalityPath)
	if err != nil {
		return nil, &LoadError{Path: personalityPath, Err: err}
	}

	var p Personality
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, &LoadError{Path: personalityPath, Err: fmt.Errorf("error parsing YAML: %w", err)}
	}
	if strings.TrimSpace(p.CoreIdentity.Name) == "" {
		return nil, &LoadError{Path: personalityPath, Err: errMissingName}
	}

	prompt, err := os.ReadFile(promptPath)
	if err != nil {
		return nil, &LoadError{Path: promptPath, Err: err}
	}
	p.Prompt = strings.TrimSpace(string(prompt))

	return &p, nil
}

// Loader owns the active personality and swaps it when the files change.
type Loader struct {
	personalityPath string
	promptPath      string

	mu       sync.RWMutex
	current  *Personality
	fallback bool
	loadedAt time.Time
	modTime  time.Time
}

func NewLoader(personalityPath, promptPath string) *Loader {
	return &Loader{
		personalityPath: personalityPath,
		promptPath:      promptPath,
		current:         Fallback(),
		fallback:        true,
	}
}

// Load reads both files. On failure the embedded fallback becomes active and
// the *LoadError is returned so the caller can log it.
func (l *Loader) Load() error {
	modTime := l.latestModTime()
	p, err := LoadPersonality(l.personalityPath, l.promptPath)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadedAt = time.Now()
	l.modTime = modTime
	if err != nil {
		l.current = Fallback()
		l.fallback = true
		return err
	}

	l.current = p
	l.fallback = false
	return nil
}

// ReloadIfNeeded reloads when either file is newer than the last load. A
// broken edit keeps the previous personality.
func (l *Loader) ReloadIfNeeded() error {
	modTime := l.latestModTime()

	l.mu.RLock()
	stale := !modTime.IsZero() && modTime.After(l.modTime)
	l.mu.RUnlock()
	if !stale {
		return nil
	}

	p, err := LoadPersonality(l.personalityPath, l.promptPath)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.modTime = modTime
	if err != nil {
		return err
	}
	l.current = p
	l.fallback = false
	l.loadedAt = time.Now()

	logger.Info().
		Str("name", p.Name()).
		Str("version", p.Version()).
		Msg("Personality reloaded")
	return nil
}

// Personality returns the active personality. It is never nil.
func (l *Loader) Personality() *Personality {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

func (l *Loader) UsingFallback() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fallback
}

func (l *Loader) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p := l.current
	stats := Stats{
		Name:            p.Name(),
		Version:         p.Version(),
		CoreTraits:      append([]string{}, p.CoreIdentity.CoreTraits...),
		EmotionalStates: []string{},
		TriggerTypes:    []string{},
		LastLoaded:      l.loadedAt,
		Fallback:        l.fallback,
	}
	for _, e := range append([]emotion.Emotion{emotion.Neutral}, emotion.Priority...) {
		if _, ok := p.EmotionalSystem.BaseEmotions[e]; ok {
			stats.EmotionalStates = append(stats.EmotionalStates, string(e))
		}
	}
	for name := range p.BehavioralTriggers {
		stats.TriggerTypes = append(stats.TriggerTypes, name)
	}
	sort.Strings(stats.TriggerTypes)
	return stats
}

func (l *Loader) latestModTime() time.Time {
	var latest time.Time
	for _, path := range []string{l.personalityPath, l.promptPath} {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return latest
}
