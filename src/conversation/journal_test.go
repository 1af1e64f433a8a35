package conversation

import (
	"fmt"
	"testing"
	"time"

	"luna_chat/src/model"

	"github.com/stretchr/testify/assert"
)

func TestJournal_CapsAtCapacity(t *testing.T) {
	j := NewJournal(DefaultJournalSize)
	now := time.Now()
	for i := 0; i < 1200; i++ {
		j.Add(model.JournalEntry{UserID: "default", Message: fmt.Sprintf("m%d", i), Timestamp: now, Type: "user"})
	}

	assert.Equal(t, 1000, j.Len())
	all := j.ForUser("default", 0)
	assert.Len(t, all, 1000)
	assert.Equal(t, "m200", all[0].Message)
	assert.Equal(t, "m1199", all[999].Message)
}

func TestJournal_ForUser(t *testing.T) {
	j := NewJournal(10)
	j.Add(
		model.JournalEntry{UserID: "a", Message: "a1", Type: "user"},
		model.JournalEntry{UserID: "b", Message: "b1", Type: "user"},
		model.JournalEntry{UserID: "a", Message: "a2", Type: "luna"},
		model.JournalEntry{UserID: "a", Message: "a3", Type: "user"},
	)

	got := j.ForUser("a", 2)
	assert.Equal(t, []string{"a2", "a3"}, messages(got))
	assert.Equal(t, []string{"b1"}, messages(j.ForUser("b", 50)))
	assert.Empty(t, j.ForUser("nobody", 50))
	assert.NotNil(t, j.ForUser("nobody", 50))
}

func messages(entries []model.JournalEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}
