// ABOUTME: Mood journal: one mood per day chosen from the catalog, with an optional note.
// ABOUTME: Wraps the generic journal with validation and date-range queries.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2389-research/breather/internal/kv"
	"github.com/2389-research/breather/internal/models"
)

// MoodKey is the storage key of the mood history. Never change it: it is
// where existing data lives.
const MoodKey = "@breather_mood_history"

var (
	// ErrInvalidMood is returned for a mood index outside the catalog.
	ErrInvalidMood = errors.New("invalid mood")

	// ErrInvalidDate is returned for a date that isn't YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
)

// MoodInput is what a user submits for today's mood.
type MoodInput struct {
	Index int
	Note  string
}

// MoodJournal is the mood history.
type MoodJournal struct {
	*Journal[models.MoodEntry]
}

// NewMoodJournal creates the mood journal on store.
func NewMoodJournal(store kv.Store, opts ...Option) *MoodJournal {
	return &MoodJournal{Journal: New[models.MoodEntry](store, MoodKey, opts...)}
}

// SaveMood records today's mood from the catalog. A blank note is stored as absent.
func (m *MoodJournal) SaveMood(ctx context.Context, in MoodInput) (models.MoodEntry, error) {
	mood, ok := models.MoodAt(in.Index)
	if !ok {
		return models.MoodEntry{}, fmt.Errorf("%w: index %d (want 0-%d)", ErrInvalidMood, in.Index, len(models.Moods)-1)
	}
	return m.SaveMoodEntry(ctx, in.Index, mood.Label, mood.Emoji, models.StringPtr(strings.TrimSpace(in.Note)))
}

// SaveMoodEntry records today's mood with caller-supplied label and emoji.
func (m *MoodJournal) SaveMoodEntry(ctx context.Context, index int, label, emoji string, note *string) (models.MoodEntry, error) {
	return m.Save(ctx, func(s models.Stamp) models.MoodEntry {
		return models.MoodEntry{
			Stamp:     s,
			MoodIndex: index,
			MoodLabel: label,
			MoodEmoji: emoji,
			Note:      note,
		}
	})
}

// ByDateRange returns the moods dated within [start, end], both inclusive.
func (m *MoodJournal) ByDateRange(start, end string) ([]models.MoodEntry, error) {
	if !models.ValidDay(start) {
		return nil, fmt.Errorf("%w: start %q", ErrInvalidDate, start)
	}
	if !models.ValidDay(end) {
		return nil, fmt.Errorf("%w: end %q", ErrInvalidDate, end)
	}
	return m.Between(start, end), nil
}

// MoodStats summarizes the mood history.
type MoodStats struct {
	Total int    `json:"total"`
	Label string `json:"most_frequent_label"`
	Emoji string `json:"most_frequent_emoji"`
	Count int    `json:"most_frequent_count"`
}

// Stats counts entries per label and picks the most frequent one. Its emoji is
// the one on the newest entry with that label, and a tie goes to the label seen
// first from newest to oldest. ok is false for an empty history.
func (m *MoodJournal) Stats() (MoodStats, bool) {
	entries := m.Entries()
	if len(entries) == 0 {
		return MoodStats{}, false
	}

	counts := make(map[string]int, len(models.Moods))
	emojis := make(map[string]string, len(models.Moods))
	var order []string
	for _, e := range entries {
		if _, seen := counts[e.MoodLabel]; !seen {
			order = append(order, e.MoodLabel)
			emojis[e.MoodLabel] = e.MoodEmoji
		}
		counts[e.MoodLabel]++
	}

	stats := MoodStats{Total: len(entries)}
	for _, label := range order {
		if counts[label] > stats.Count {
			stats.Label, stats.Emoji, stats.Count = label, emojis[label], counts[label]
		}
	}
	return stats, true
}
