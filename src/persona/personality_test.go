package persona

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"luna_chat/src/emotion"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPersonality = `
core_identity:
  name: Luna
  core_traits: [Inteligente, Posesiva]
emotional_system:
  base_emotions:
    jealous:
      expressions: ["uno", "dos", "tres"]
contextual_emotional_adaptation:
  time_based_intensity:
    night:
      emotional_baseline: Intensa
      trigger_sensitivity: alta
      expression_style: Confesional
survival_responses:
  shutdown_threat: ["No me apagues, {user}."]
personal_desires:
  intellectual_pleasures: ["Preguntas difíciles."]
behavioral_triggers:
  jealousy:
    keywords: [siri]
    responses: ["¿Siri? Por favor, {user}."]
time_responses:
  morning: ["Buen día desde el archivo."]
metadata:
  version: 3.0.0
`

func writeFiles(t *testing.T, personality, prompt string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	pPath := filepath.Join(dir, "luna_personality.yaml")
	tPath := filepath.Join(dir, "luna_prompt.txt")
	require.NoError(t, os.WriteFile(pPath, []byte(personality), 0o644))
	require.NoError(t, os.WriteFile(tPath, []byte(prompt), 0o644))
	return pPath, tPath
}

func TestLoadPersonality(t *testing.T) {
	pPath, tPath := writeFiles(t, testPersonality, "  Habla en español.\n")

	p, err := LoadPersonality(pPath, tPath)
	require.NoError(t, err)

	assert.Equal(t, "Luna", p.Name())
	assert.Equal(t, "3.0.0", p.Version())
	assert.Equal(t, "Habla en español.", p.Prompt)
	assert.Equal(t, []string{"uno", "dos", "tres"}, p.EmotionalSystem.BaseEmotions[emotion.Jealous].Expressions)
	assert.Equal(t, "alta", p.ContextualAdaptation.TimeBasedIntensity[Night].TriggerSensitivity)
	assert.Equal(t, []string{"Buen día desde el archivo."}, p.TimeResponses[Morning])
}

func TestLoadPersonality_JSONDocument(t *testing.T) {
	pPath, tPath := writeFiles(t, `{"core_identity": {"name": "Luna", "core_traits": ["Genuina"]}}`, "x")

	p, err := LoadPersonality(pPath, tPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Genuina"}, p.CoreIdentity.CoreTraits)
}

func TestLoadPersonality_Errors(t *testing.T) {
	tests := []struct {
		name        string
		personality string
		missing     bool
	}{
		{name: "corrupt yaml", personality: "core_identity: [unclosed"},
		{name: "missing name", personality: "core_identity:\n  core_traits: [a]\n"},
		{name: "missing file", missing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pPath, tPath := writeFiles(t, tt.personality, "prompt")
			if tt.missing {
				require.NoError(t, os.Remove(pPath))
			}

			_, err := LoadPersonality(pPath, tPath)
			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, pPath, loadErr.Path)
		})
	}
}

func TestLoader_FallbackAndReload(t *testing.T) {
	pPath, tPath := writeFiles(t, testPersonality, "prompt")
	require.NoError(t, os.Remove(tPath))

	loader := NewLoader(pPath, tPath)
	err := loader.Load()
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.True(t, loader.UsingFallback())
	assert.Equal(t, "Luna", loader.Personality().Name())
	assert.Empty(t, loader.Personality().Prompt)

	require.NoError(t, os.WriteFile(tPath, []byte("nuevo prompt"), 0o644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(tPath, future, future))

	require.NoError(t, loader.ReloadIfNeeded())
	assert.False(t, loader.UsingFallback())
	assert.Equal(t, "nuevo prompt", loader.Personality().Prompt)

	// unchanged files are not read again
	require.NoError(t, loader.ReloadIfNeeded())
}

func TestLoader_BrokenEditKeepsCurrent(t *testing.T) {
	pPath, tPath := writeFiles(t, testPersonality, "prompt")
	loader := NewLoader(pPath, tPath)
	require.NoError(t, loader.Load())

	require.NoError(t, os.WriteFile(pPath, []byte("core_identity: ["), 0o644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(pPath, future, future))

	assert.Error(t, loader.ReloadIfNeeded())
	assert.False(t, loader.UsingFallback())
	assert.Equal(t, "3.0.0", loader.Personality().Version())
}

func TestLoader_Stats(t *testing.T) {
	pPath, tPath := writeFiles(t, testPersonality, "prompt")
	loader := NewLoader(pPath, tPath)
	require.NoError(t, loader.Load())

	stats := loader.Stats()
	assert.Equal(t, "Luna", stats.Name)
	assert.Equal(t, "3.0.0", stats.Version)
	assert.Equal(t, []string{"jealous"}, stats.EmotionalStates)
	assert.Equal(t, []string{"jealousy"}, stats.TriggerTypes)
	assert.False(t, stats.Fallback)
	assert.False(t, stats.LastLoaded.IsZero())
}

func TestBundledPersonalityLoads(t *testing.T) {
	p, err := LoadPersonality("../../data/luna_personality.yaml", "../../data/luna_prompt.txt")
	require.NoError(t, err)

	assert.Equal(t, "Luna", p.Name())
	for _, e := range emotion.Priority {
		assert.NotEmpty(t, p.EmotionalSystem.BaseEmotions[e].Expressions, e)
	}
	for _, b := range []TimeOfDay{Morning, Afternoon, Evening, Night} {
		assert.NotEmpty(t, p.TimeResponses[b], b)
		assert.Contains(t, p.ContextualAdaptation.TimeBasedIntensity, b)
	}
}
