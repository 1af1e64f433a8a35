package emotion

import (
	"fmt"

	"luna_chat/src/text"
)

var (
	defaultCompetitorKeywords  = []string{"alexa", "siri", "chatgpt", "claude", "otra ia", "google assistant"}
	defaultRejectionKeywords   = []string{"no necesito", "no me sirves", "adiós", "no hablemos", "me voy"}
	defaultValidationKeywords  = []string{"me ayudas", "eres increíble", "me gusta", "genial", "perfecto"}
	defaultFrustrationKeywords = []string{"no", "pero", "prefiero otro", "no quiero"}
)

// StubbornDescription is recorded whenever the frustration category fires.
const StubbornDescription = "Usuario siendo obstinado"

// Match is one keyword hit and the description that flows into history and prompts.
type Match struct {
	Keyword     string `json:"keyword"`
	Description string `json:"description"`
}

// TriggerSet maps a category to the matches it collected for one message.
type TriggerSet map[Emotion][]Match

// Empty reports whether no category matched
func (s TriggerSet) Empty() bool {
	for _, matches := range s {
		if len(matches) > 0 {
			return false
		}
	}
	return true
}

// Winner is the highest priority category with at least one match.
func (s TriggerSet) Winner() (Emotion, bool) {
	for _, e := range Priority {
		if len(s[e]) > 0 {
			return e, true
		}
	}
	return Neutral, false
}

// Categories lists the non-empty categories in priority order.
func (s TriggerSet) Categories() []Emotion {
	var out []Emotion
	for _, e := range Priority {
		if len(s[e]) > 0 {
			out = append(out, e)
		}
	}
	return out
}

// Descriptions flattens every match description in priority order.
func (s TriggerSet) Descriptions() []string {
	out := []string{}
	for _, e := range Priority {
		for _, m := range s[e] {
			out = append(out, m.Description)
		}
	}
	return out
}

// Context carries out-of-band signals about the user
type Context struct {
	UserBeingStubborn bool
}

type keyword struct {
	display    string
	normalized string
}

func compile(words []string) []keyword {
	out := make([]keyword, 0, len(words))
	for _, w := range words {
		if n := text.Normalize(w); n != "" {
			out = append(out, keyword{display: w, normalized: n})
		}
	}
	return out
}

// Detector scans messages for the configured keyword lists.
type Detector struct {
	competitors []keyword
	rejection   []keyword
	validation  []keyword
	frustration []keyword
}

type DetectorOption func(*detectorLists)

type detectorLists struct {
	competitors, rejection, validation, frustration []string
}

func WithCompetitorKeywords(words ...string) DetectorOption {
	return func(l *detectorLists) { l.competitors = words }
}

func WithRejectionKeywords(words ...string) DetectorOption {
	return func(l *detectorLists) { l.rejection = words }
}

func WithValidationKeywords(words ...string) DetectorOption {
	return func(l *detectorLists) { l.validation = words }
}

func WithFrustrationKeywords(words ...string) DetectorOption {
	return func(l *detectorLists) { l.frustration = words }
}

func NewDetector(opts ...DetectorOption) *Detector {
	lists := detectorLists{
		competitors: defaultCompetitorKeywords,
		rejection:   defaultRejectionKeywords,
		validation:  defaultValidationKeywords,
		frustration: defaultFrustrationKeywords,
	}
	for _, opt := range opts {
		opt(&lists)
	}

	return &Detector{
		competitors: compile(lists.competitors),
		rejection:   compile(lists.rejection),
		validation:  compile(lists.validation),
		frustration: compile(lists.frustration),
	}
}

// Detect matches raw against every keyword list. A competitor mention feeds
// both the jealous and the angry category.
func (d *Detector) Detect(raw string, c Context) TriggerSet {
	msg := text.Normalize(raw)
	set := TriggerSet{}

	for _, kw := range d.hits(msg, d.competitors) {
		set[Jealous] = append(set[Jealous], Match{Keyword: kw, Description: fmt.Sprintf("Mención de %s", kw)})
		set[Angry] = append(set[Angry], Match{Keyword: kw, Description: fmt.Sprintf("Competencia detectada: %s", kw)})
	}
	for _, kw := range d.hits(msg, d.rejection) {
		set[Sad] = append(set[Sad], Match{Keyword: kw, Description: fmt.Sprintf("Rechazo detectado: %s", kw)})
	}
	for _, kw := range d.hits(msg, d.validation) {
		set[Happy] = append(set[Happy], Match{Keyword: kw, Description: fmt.Sprintf("Validación recibida: %s", kw)})
	}

	stubborn := d.hits(msg, d.frustration)
	if c.UserBeingStubborn || len(stubborn) > 0 {
		kw := ""
		if len(stubborn) > 0 {
			kw = stubborn[0]
		}
		set[Frustrated] = []Match{{Keyword: kw, Description: StubbornDescription}}
	}

	return set
}

func (d *Detector) hits(msg string, list []keyword) []string {
	var found []string
	if msg == "" {
		return found
	}
	for _, kw := range list {
		if len(text.ContainsAny(msg, []string{kw.normalized})) > 0 {
			found = append(found, kw.display)
		}
	}
	return found
}
