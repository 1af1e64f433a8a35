package emotion

import "time"

type transition struct {
	intensity int
	positive  int
	negative  int
}

var transitions = map[Emotion]transition{
	Jealous:    {intensity: 2, negative: 1},
	Angry:      {intensity: 1, negative: 1},
	Frustrated: {intensity: 1},
	Sad:        {intensity: 1, negative: 1},
	Happy:      {intensity: 1, positive: 1},
}

// Apply is the only transition of State. It decays intensity after the
// cooldown, lets the winning category move the mood, and records every match.
// state is not modified.
func Apply(state State, set TriggerSet, now time.Time) (State, Update) {
	next := state.clone()
	if next.Primary == "" {
		next.Primary = Neutral
	}

	if next.LastEmotionTime != nil && now.Sub(*next.LastEmotionTime) > Cooldown {
		next.Intensity = clampIntensity(next.Intensity - 1)
	}

	if winner, ok := set.Winner(); ok {
		t := transitions[winner]
		next.Primary = winner
		next.Intensity += t.intensity
		next.PositiveMemory += t.positive
		next.NegativeMemory += t.negative
	}
	next.Intensity = clampIntensity(next.Intensity)

	triggers := set.Descriptions()
	next.TriggersAccumulated = lastN(append(next.TriggersAccumulated, triggers...), MaxAccumulatedTriggers)

	stamp := now
	next.LastEmotionTime = &stamp

	return next, Update{
		Emotion:       next.Primary,
		Intensity:     next.Intensity,
		Triggers:      triggers,
		MemoryBalance: next.MemoryBalance(),
		Set:           set,
	}
}

func clampIntensity(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxIntensity {
		return MaxIntensity
	}
	return v
}
