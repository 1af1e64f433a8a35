package conversation

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"luna_chat/src/logger"
	"luna_chat/src/model"

	"github.com/bytedance/sonic"
)

// Archive keeps journal entries beyond the life of the process.
type Archive interface {
	Load(userID string) ([]model.JournalEntry, error)
	Save(entries ...model.JournalEntry) error
	Users() ([]string, error)
	Prune(userID string, maxAge time.Duration) error
}

// JSONArchive stores one JSON array of entries per user under baseDir.
type JSONArchive struct {
	baseDir string
	mu      sync.Mutex
}

func NewJSONArchive(baseDir string) *JSONArchive {
	return &JSONArchive{baseDir: baseDir}
}

func (a *JSONArchive) path(userID string) string {
	return filepath.Join(a.baseDir, url.PathEscape(userID)+".json")
}

// Load returns every archived entry of userID; a missing file is empty.
func (a *JSONArchive) Load(userID string) ([]model.JournalEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.load(userID)
}

func (a *JSONArchive) load(userID string) ([]model.JournalEntry, error) {
	data, err := os.ReadFile(a.path(userID))
	if os.IsNotExist(err) {
		return []model.JournalEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read journal archive: %w", err)
	}

	var entries []model.JournalEntry
	if err := sonic.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse journal archive %s: %w", userID, err)
	}
	return entries, nil
}

func (a *JSONArchive) write(userID string, entries []model.JournalEntry) error {
	data, err := sonic.ConfigDefault.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal archive: %w", err)
	}
	if err := os.WriteFile(a.path(userID), data, 0644); err != nil {
		return fmt.Errorf("failed to write journal archive: %w", err)
	}
	return nil
}

// Save appends entries to their users' files.
func (a *JSONArchive) Save(entries ...model.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	byUser := make(map[string][]model.JournalEntry)
	for _, e := range entries {
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}
	for userID, added := range byUser {
		existing, err := a.load(userID)
		if err != nil {
			logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to load journal archive, starting fresh")
			existing = nil
		}
		if err := a.write(userID, append(existing, added...)); err != nil {
			return err
		}
	}
	return nil
}

// Users lists the users with an archive file.
func (a *JSONArchive) Users() ([]string, error) {
	files, err := os.ReadDir(a.baseDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list journal archive: %w", err)
	}

	var users []string
	for _, f := range files {
		name, ok := strings.CutSuffix(f.Name(), ".json")
		if f.IsDir() || !ok {
			continue
		}
		userID, err := url.PathUnescape(name)
		if err != nil {
			continue
		}
		users = append(users, userID)
	}
	sort.Strings(users)
	return users, nil
}

// Prune drops entries of userID older than maxAge.
func (a *JSONArchive) Prune(userID string, maxAge time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries, err := a.load(userID)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	kept := entries[:0]
	for _, e := range entries {
		if e.Timestamp.After(cutoff) {
			kept = append(kept, e)
		}
	}
	removed := len(entries) - len(kept)
	if removed == 0 {
		return nil
	}

	if err := a.write(userID, kept); err != nil {
		return err
	}
	logger.Info().Int("removed", removed).Str("user_id", userID).Msg("Pruned journal archive")
	return nil
}
