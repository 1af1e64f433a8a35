package llm

import (
	"regexp"
	"strings"
)

const maxReplyRunes = 2800

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// CleanReply strips reasoning blocks and wrapping quotes and caps the length.
func CleanReply(reply string) string {
	reply = strings.TrimSpace(reply)
	reply = thinkBlock.ReplaceAllString(reply, "")
	reply = strings.TrimSpace(reply)

	if len(reply) >= 2 {
		quotes := []struct{ open, close string }{
			{`"`, `"`}, {`'`, `'`}, {"“", "”"}, {"‘", "’"}, {"«", "»"},
		}
		for _, q := range quotes {
			if strings.HasPrefix(reply, q.open) && strings.HasSuffix(reply, q.close) && len(reply) > len(q.open)+len(q.close) {
				reply = strings.TrimSuffix(strings.TrimPrefix(reply, q.open), q.close)
				reply = strings.TrimSpace(reply)
				break
			}
		}
	}

	if runes := []rune(reply); len(runes) > maxReplyRunes {
		reply = strings.TrimSpace(string(runes[:maxReplyRunes])) + "..."
	}

	return reply
}
