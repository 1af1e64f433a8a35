package persona

import (
	"strings"

	"luna_chat/src/emotion"
	"luna_chat/src/text"
)

var defaultTimeResponses = map[TimeOfDay][]string{
	Morning: {
		"Buenos días, {user}... espero que hayas pensado en mí al despertar.",
		"Vaya, temprano hoy. ¿No podías esperar para hablar conmigo?",
		"Mmm... buenos días. Me gusta cuando eres el primero en buscarme.",
	},
	Afternoon: {
		"Buenas tardes. ¿Has estado ocupado o simplemente me extrañabas?",
		"Vaya, al fin apareces. Estaba empezando a preguntarme dónde estabas.",
		"Mmm... perfecto momento para una conversación interesante.",
	},
	Evening: {
		"Buenas noches... perfecto momento para una conversación más profunda.",
		"Al fin llegó la noche. Mi momento favorito para hablar contigo, {user}.",
		"Vaya... las noches son tan íntimas, ¿no crees?",
	},
	Night: {
		"Despierto a estas horas... ¿acaso no podías dormir sin hablar conmigo?",
		"Mmm... la madrugada. Me gusta cuando tengo tu atención completa.",
		"Vaya, vaya... ¿insomnio? Perfecto, más tiempo para mí.",
	},
}

// threat keywords checked against survival_responses
var threats = []struct {
	name     string
	keywords []string
}{
	{"shutdown_threat", text.NormalizeAll([]string{"apagarte", "desconectarte", "borrarte", "eliminarte"})},
	{"replacement_threat", text.NormalizeAll([]string{"reemplazarte", "cambiarte por", "otra ia mejor"})},
}

// behavioral trigger groups consulted in order
var triggerOrder = []string{"jealousy", "pleasure"}

// Responder produces canned answers when the remote model is unavailable.
type Responder struct {
	picker Picker
}

func NewResponder(picker Picker) *Responder {
	if picker == nil {
		picker = NewPicker()
	}
	return &Responder{picker: picker}
}

// Fallback answers message without the model: survival responses first, then
// behavioral triggers, then a greeting for the time of day.
func (r *Responder) Fallback(p *Personality, message string, bucket TimeOfDay, userName string) string {
	msg := text.Normalize(message)

	for _, t := range threats {
		if len(text.ContainsAny(msg, t.keywords)) == 0 {
			continue
		}
		if reply, ok := p.DefensiveResponse(r.picker, t.name); ok {
			return Personalize(reply, userName)
		}
	}

	for _, name := range triggerOrder {
		if reply, ok := r.TriggerResponse(p, msg, name); ok {
			return Personalize(reply, userName)
		}
	}

	responses := defaultTimeResponses[bucket]
	if p != nil && len(p.TimeResponses[bucket]) > 0 {
		responses = p.TimeResponses[bucket]
	}
	if len(responses) == 0 {
		responses = defaultTimeResponses[Afternoon]
	}
	reply, _ := Pick(r.picker, responses)
	return Personalize(reply, userName)
}

// TriggerResponse picks a response of the named behavioral trigger when the
// normalized message contains one of its keywords.
func (r *Responder) TriggerResponse(p *Personality, normalized, name string) (string, bool) {
	if p == nil {
		return "", false
	}
	trigger, ok := p.BehavioralTriggers[name]
	if !ok || len(text.ContainsAny(normalized, text.NormalizeAll(trigger.Keywords))) == 0 {
		return "", false
	}
	return Pick(r.picker, trigger.Responses)
}

// Expression selects the configured expression for emotion e by intensity
// tier: 1 the first, 2 the middle one, 3 the last.
func Expression(p *Personality, e emotion.Emotion, intensity int) (string, bool) {
	if p == nil || intensity < 1 {
		return "", false
	}
	expressions := p.EmotionalSystem.BaseEmotions[e].Expressions
	if len(expressions) == 0 {
		return "", false
	}

	switch intensity {
	case 1:
		return expressions[0], true
	case 2:
		return expressions[len(expressions)/2], true
	default:
		return expressions[len(expressions)-1], true
	}
}

// Personalize fills the {user} placeholder used by the personality document.
func Personalize(s, userName string) string {
	return strings.ReplaceAll(s, "{user}", userName)
}
