package emotion

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func TestApply_PriorityAndClamp(t *testing.T) {
	d := NewDetector()
	set := d.Detect("siri me gusta", Context{})

	state, update := Apply(NewState(), set, base)
	assert.Equal(t, Jealous, update.Emotion)
	assert.Equal(t, 2, update.Intensity)
	assert.Equal(t, 1, state.NegativeMemory)
	assert.Equal(t, 0, state.PositiveMemory)
	assert.Equal(t, -1, update.MemoryBalance)
	assert.Len(t, update.Triggers, 3)

	state, update = Apply(state, set, base.Add(time.Second))
	assert.Equal(t, 3, update.Intensity)
	assert.Equal(t, 3, state.Intensity)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	start := NewState()
	start.TriggersAccumulated = []string{"a"}

	_, _ = Apply(start, NewDetector().Detect("siri", Context{}), base)

	assert.Equal(t, []string{"a"}, start.TriggersAccumulated)
	assert.Nil(t, start.LastEmotionTime)
	assert.Equal(t, 0, start.Intensity)
}

func TestApply_Decay(t *testing.T) {
	last := base.Add(-3 * time.Minute)
	state := State{Primary: Sad, Intensity: 2, LastEmotionTime: &last}

	next, update := Apply(state, TriggerSet{}, base)
	assert.Equal(t, 1, update.Intensity)
	assert.Equal(t, Sad, update.Emotion)
	require.NotNil(t, next.LastEmotionTime)
	assert.Equal(t, base, *next.LastEmotionTime)

	// decay happens before the delta
	next, update = Apply(State{Primary: Sad, Intensity: 2, LastEmotionTime: &last}, NewDetector().Detect("genial", Context{}), base)
	assert.Equal(t, Happy, update.Emotion)
	assert.Equal(t, 2, next.Intensity)
}

func TestApply_NoDecayWithinCooldown(t *testing.T) {
	last := base.Add(-time.Minute)
	state := State{Primary: Angry, Intensity: 2, LastEmotionTime: &last}

	_, update := Apply(state, TriggerSet{}, base)
	assert.Equal(t, 2, update.Intensity)
	assert.Equal(t, Angry, update.Emotion)
}

func TestApply_DecayFloorsAtZero(t *testing.T) {
	last := base.Add(-time.Hour)
	state := State{Primary: Neutral, LastEmotionTime: &last}

	_, update := Apply(state, TriggerSet{}, base)
	assert.Equal(t, 0, update.Intensity)
}

func TestApply_FrustrationHasNoMemory(t *testing.T) {
	state, update := Apply(NewState(), TriggerSet{Frustrated: {{Description: StubbornDescription}}}, base)

	assert.Equal(t, Frustrated, update.Emotion)
	assert.Equal(t, 1, update.Intensity)
	assert.Equal(t, 0, state.PositiveMemory)
	assert.Equal(t, 0, state.NegativeMemory)
}

func TestApply_AccumulatedTriggersCapped(t *testing.T) {
	state := NewState()
	set := NewDetector().Detect("siri", Context{})
	for i := 0; i < 12; i++ {
		state, _ = Apply(state, set, base)
	}

	assert.Len(t, state.TriggersAccumulated, MaxAccumulatedTriggers)
	assert.Equal(t, []string{"Mención de siri", "Competencia detectada: siri"}, state.RecentTriggers(2))
}

func TestTracker_MemoryBalance(t *testing.T) {
	d := NewDetector()
	tracker := NewTracker(WithClock(func() time.Time { return base }))

	for i := 0; i < 3; i++ {
		tracker.Update(d.Detect("genial", Context{}))
	}
	update := tracker.Update(d.Detect("me voy, adiós", Context{}))

	assert.Equal(t, 2, update.MemoryBalance)
	snap := tracker.Snapshot()
	assert.Equal(t, 3, snap.PositiveMemory)
	assert.Equal(t, 1, snap.NegativeMemory)
	assert.Equal(t, 2, snap.MemoryBalance())
}

func TestTracker_Reset(t *testing.T) {
	d := NewDetector()
	tracker := NewTracker()
	tracker.Update(d.Detect("siri", Context{}))
	tracker.Update(d.Detect("genial", Context{}))

	tracker.Reset()

	snap := tracker.Snapshot()
	assert.Equal(t, Neutral, snap.Primary)
	assert.Equal(t, 0, snap.Intensity)
	assert.Equal(t, 0, snap.PositiveMemory)
	assert.Equal(t, 0, snap.NegativeMemory)
	assert.Empty(t, snap.TriggersAccumulated)
	assert.Nil(t, snap.LastEmotionTime)
}

func TestTracker_ConcurrentUpdates(t *testing.T) {
	set := NewDetector().Detect("genial", Context{})
	tracker := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Update(set)
		}()
	}
	wg.Wait()

	snap := tracker.Snapshot()
	assert.Equal(t, 50, snap.PositiveMemory)
	assert.Equal(t, MaxIntensity, snap.Intensity)
}

func TestRegistry_Scopes(t *testing.T) {
	shared := NewRegistry(ScopeShared)
	assert.Same(t, shared.For("a"), shared.For("b"))
	assert.Contains(t, shared.Snapshots(), "shared")

	perUser := NewRegistry(ScopePerUser)
	a := perUser.For("a")
	assert.Same(t, a, perUser.For("a"))
	assert.NotSame(t, a, perUser.For("b"))

	a.Update(NewDetector().Detect("genial", Context{}))
	snaps := perUser.Snapshots()
	assert.Len(t, snaps, 2)
	assert.Equal(t, 1, snaps["a"].PositiveMemory)
	assert.Equal(t, 0, snaps["b"].PositiveMemory)
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopeShared, s)

	s, err = ParseScope("per_user")
	require.NoError(t, err)
	assert.Equal(t, ScopePerUser, s)

	_, err = ParseScope("global")
	assert.Error(t, err)
}

func TestDetectUserMood(t *testing.T) {
	tests := map[string]UserMood{
		"Estoy muy FELIZ hoy":      MoodHappy,
		"me siento triste":         MoodSad,
		"estoy furioso":            MoodAngry,
		"tengo mucha presión":      MoodStressed,
		"no sé qué hacer":          MoodConfused,
		"wow":                      MoodExcited,
		"hola":                     MoodNeutral,
		"":                         MoodNeutral,
		"genial pero estoy triste": MoodHappy,
	}

	for msg, want := range tests {
		assert.Equal(t, want, DetectUserMood(msg), msg)
	}
}

func TestTracker_Restore(t *testing.T) {
	tracker := NewTracker()
	stamp := base
	tracker.Restore(State{
		Intensity:           7,
		PositiveMemory:      -1,
		NegativeMemory:      4,
		TriggersAccumulated: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"},
		LastEmotionTime:     &stamp,
	})

	snap := tracker.Snapshot()
	assert.Equal(t, Neutral, snap.Primary)
	assert.Equal(t, MaxIntensity, snap.Intensity)
	assert.Equal(t, 0, snap.PositiveMemory)
	assert.Equal(t, 4, snap.NegativeMemory)
	assert.Len(t, snap.TriggersAccumulated, MaxAccumulatedTriggers)
	assert.Equal(t, "2", snap.TriggersAccumulated[0])
	require.NotNil(t, snap.LastEmotionTime)
	assert.Equal(t, base, *snap.LastEmotionTime)
}
