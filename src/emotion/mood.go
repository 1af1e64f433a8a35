package emotion

import "luna_chat/src/text"

// UserMood is the mood guessed from the user's own words.
type UserMood string

const (
	MoodNeutral  UserMood = "neutral"
	MoodHappy    UserMood = "happy"
	MoodSad      UserMood = "sad"
	MoodAngry    UserMood = "angry"
	MoodStressed UserMood = "stressed"
	MoodConfused UserMood = "confused"
	MoodExcited  UserMood = "excited"
)

type moodGroup struct {
	mood     UserMood
	keywords []string
}

// first matching group wins
var moodGroups = []moodGroup{
	{MoodHappy, text.NormalizeAll([]string{"feliz", "contento", "genial", "excelente", "fantástico", "alegre"})},
	{MoodSad, text.NormalizeAll([]string{"triste", "deprimido", "mal", "horrible", "terrible", "solo"})},
	{MoodAngry, text.NormalizeAll([]string{"enojado", "molesto", "furioso", "odio", "rabia", "ira"})},
	{MoodStressed, text.NormalizeAll([]string{"estresado", "agobiado", "presión", "ansiedad", "nervioso"})},
	{MoodConfused, text.NormalizeAll([]string{"confundido", "no entiendo", "perdido", "dudas", "no sé"})},
	{MoodExcited, text.NormalizeAll([]string{"emocionado", "entusiasmado", "increíble", "wow", "amazing"})},
}

// DetectUserMood classifies raw by the first keyword group it contains.
func DetectUserMood(raw string) UserMood {
	msg := text.Normalize(raw)
	if msg == "" {
		return MoodNeutral
	}
	for _, g := range moodGroups {
		if len(text.ContainsAny(msg, g.keywords)) > 0 {
			return g.mood
		}
	}
	return MoodNeutral
}
