package conversation

import (
	"sort"
	"sync"
	"time"

	"luna_chat/src/logger"
	"luna_chat/src/model"
)

// DefaultJournalSize is the number of entries the global log keeps.
const DefaultJournalSize = 1000

// Journal is the bounded, process wide log of every chat entry.
type Journal struct {
	mu    sync.RWMutex
	buf   []model.JournalEntry
	start int
	size  int

	archive   Archive
	retention time.Duration
}

type JournalOption func(*Journal)

// WithArchive writes every added entry through to archive. Entries older
// than retention are pruned on Restore; zero keeps everything.
func WithArchive(archive Archive, retention time.Duration) JournalOption {
	return func(j *Journal) {
		j.archive = archive
		j.retention = retention
	}
}

func NewJournal(capacity int, opts ...JournalOption) *Journal {
	if capacity <= 0 {
		capacity = DefaultJournalSize
	}
	j := &Journal{buf: make([]model.JournalEntry, capacity)}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Add appends entries, overwriting the oldest ones once full.
func (j *Journal) Add(entries ...model.JournalEntry) {
	j.push(entries...)
	if j.archive == nil {
		return
	}
	if err := j.archive.Save(entries...); err != nil {
		logger.Warn().Err(err).Msg("Failed to archive journal entries")
	}
}

// Restore refills the journal from its archive, newest entries winning when
// the archive holds more than the capacity.
func (j *Journal) Restore() (int, error) {
	if j.archive == nil {
		return 0, nil
	}
	users, err := j.archive.Users()
	if err != nil {
		return 0, err
	}

	var all []model.JournalEntry
	for _, userID := range users {
		if j.retention > 0 {
			if err := j.archive.Prune(userID, j.retention); err != nil {
				logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to prune journal archive")
			}
		}
		entries, err := j.archive.Load(userID)
		if err != nil {
			return 0, err
		}
		all = append(all, entries...)
	}

	sort.SliceStable(all, func(a, b int) bool { return all[a].Timestamp.Before(all[b].Timestamp) })
	if len(all) > len(j.buf) {
		all = all[len(all)-len(j.buf):]
	}
	j.push(all...)
	return len(all), nil
}

func (j *Journal) push(entries ...model.JournalEntry) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, e := range entries {
		idx := (j.start + j.size) % len(j.buf)
		j.buf[idx] = e
		if j.size < len(j.buf) {
			j.size++
		} else {
			j.start = (j.start + 1) % len(j.buf)
		}
	}
}

// ForUser returns the last limit entries of userID, oldest first. limit <= 0 means all.
func (j *Journal) ForUser(userID string, limit int) []model.JournalEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := []model.JournalEntry{}
	for i := 0; i < j.size; i++ {
		e := j.buf[(j.start+i)%len(j.buf)]
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.size
}
