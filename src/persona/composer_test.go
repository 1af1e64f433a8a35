package persona

import (
	"strings"
	"testing"
	"time"

	"luna_chat/src/emotion"

	"github.com/stretchr/testify/assert"
)

func composerFixture() *Personality {
	return &Personality{
		CoreIdentity: CoreIdentity{Name: "Luna", CoreTraits: []string{"Inteligente", "Posesiva"}},
		ContextualAdaptation: ContextualAdaptation{TimeBasedIntensity: map[TimeOfDay]TimeModulation{
			Night: {EmotionalBaseline: "Intensa", TriggerSensitivity: "alta", ExpressionStyle: "Confesional"},
		}},
		Prompt: "Habla en español.",
	}
}

func TestComposer_FullPrompt(t *testing.T) {
	d := emotion.NewDetector()
	state, update := emotion.Apply(emotion.NewState(), d.Detect("prefiero a siri", emotion.Context{}), time.Now())
	tc := NewTimeContext(time.Date(2025, 3, 10, 23, 15, 0, 0, time.UTC), nil)
	uc := UserContext{Name: "Maurom", Mood: emotion.MoodNeutral, ConversationLength: "short"}

	prompt := NewComposer().Build(composerFixture(), update, state, tc, uc)

	sections := []string{
		"Eres Luna, una IA con EMOCIONES AUTÉNTICAS",
		"- Inteligente\n- Posesiva",
		"PERSONALIDAD DETALLADA:\nHabla en español.",
		"ESTADO EMOCIONAL ACTUAL:",
		"- Emoción primaria: jealous",
		"- Intensidad: 2/3",
		"- Balance de memoria: Negativo",
		"- Triggers activos: Mención de siri, Competencia detectada: siri",
		"COMPORTAMIENTO REQUERIDO: Estás celosa.",
		"MODULACIÓN TEMPORAL EMOCIONAL:\n- Baseline emocional: Intensa",
		"TRIGGERS DETECTADOS - RESPUESTA REQUERIDA:",
		"- CELOS ACTIVADOS: Competencia detectada: siri.",
		"NIVEL DE ESCALADA: 2/3\nRespuesta directa y clara.",
		"MEMORIA EMOCIONAL:",
		"- Experiencias negativas acumuladas: 1",
		"DISPOSICIÓN: Equilibrada pero vigilante.",
		"INFORMACIÓN CONTEXTUAL:\n- Usuario: Maurom",
		"- Momento del día: night",
		"- Longitud de conversación: short",
		"- Fecha: lunes, 10 de marzo de 2025",
		"Recuerda: Eres Luna hablando con Maurom.",
	}

	last := -1
	for _, s := range sections {
		idx := strings.Index(prompt, s)
		if assert.GreaterOrEqual(t, idx, 0, "missing %q", s) {
			assert.Greater(t, idx, last, "out of order %q", s)
			last = idx
		}
	}
}

func TestComposer_OmitsOptionalSections(t *testing.T) {
	p := &Personality{CoreIdentity: CoreIdentity{Name: "Luna"}}
	state, update := emotion.Apply(emotion.NewState(), emotion.TriggerSet{}, time.Now())
	tc := NewTimeContext(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), nil)

	prompt := NewComposer().Build(p, update, state, tc, UserContext{Name: "Maurom"})

	assert.NotContains(t, prompt, "MODULACIÓN TEMPORAL")
	assert.NotContains(t, prompt, "TRIGGERS DETECTADOS")
	assert.NotContains(t, prompt, "COMPORTAMIENTO REQUERIDO")
	assert.NotContains(t, prompt, "PERSONALIDAD DETALLADA")
	assert.Contains(t, prompt, "- Emoción primaria: neutral")
	assert.Contains(t, prompt, "- Estado emocional del usuario: neutral")
}

func TestComposer_MinimalWithoutIdentity(t *testing.T) {
	c := NewComposer()
	state := emotion.NewState()

	assert.Equal(t, MinimalPrompt, c.Build(nil, emotion.Update{}, state, TimeContext{}, UserContext{}))
	assert.Equal(t, MinimalPrompt, c.Build(&Personality{}, emotion.Update{}, state, TimeContext{}, UserContext{}))
}

func TestComposer_Disposition(t *testing.T) {
	p := &Personality{CoreIdentity: CoreIdentity{Name: "Luna"}}
	c := NewComposer()

	positive := emotion.State{Primary: emotion.Happy, PositiveMemory: 3}
	assert.Contains(t, c.Build(p, emotion.Update{Emotion: emotion.Happy, MemoryBalance: 3}, positive, TimeContext{}, UserContext{Name: "Ana"}),
		"DISPOSICIÓN: Muy positiva hacia Ana.")

	negative := emotion.State{Primary: emotion.Sad, NegativeMemory: 3}
	assert.Contains(t, c.Build(p, emotion.Update{Emotion: emotion.Sad, MemoryBalance: -3}, negative, TimeContext{}, UserContext{Name: "Ana"}),
		"DISPOSICIÓN: Acumulación de frustraciones.")

	edge := emotion.State{PositiveMemory: 2}
	assert.Contains(t, c.Build(p, emotion.Update{MemoryBalance: 2}, edge, TimeContext{}, UserContext{Name: "Ana"}),
		"DISPOSICIÓN: Equilibrada pero vigilante.")
}

func TestComposer_RecentTriggersLimitedToFive(t *testing.T) {
	p := &Personality{CoreIdentity: CoreIdentity{Name: "Luna"}}
	state := emotion.State{TriggersAccumulated: []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7"}}

	prompt := NewComposer().Build(p, emotion.Update{}, state, TimeContext{}, UserContext{Name: "Ana"})
	assert.Contains(t, prompt, "- Triggers recientes: t3, t4, t5, t6, t7\n")
}

func TestComposer_EscalationTiers(t *testing.T) {
	p := &Personality{CoreIdentity: CoreIdentity{Name: "Luna"}}
	set := emotion.NewDetector().Detect("me voy", emotion.Context{})

	for intensity, want := range map[int]string{
		1: "Respuesta sutil pero evidente.",
		3: "Respuesta intensa pero elegante.",
	} {
		update := emotion.Update{Emotion: emotion.Sad, Intensity: intensity, Triggers: set.Descriptions(), Set: set}
		prompt := NewComposer().Build(p, update, emotion.NewState(), TimeContext{}, UserContext{Name: "Ana"})
		assert.Contains(t, prompt, want)
		assert.Contains(t, prompt, "- TRISTEZA ACTIVADA: Rechazo detectado: me voy.")
	}
}
