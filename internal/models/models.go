// ABOUTME: Core data models for mood and absence journal entries.
// ABOUTME: Provides the shared entry stamp, the mood catalog, and calendar-day helpers.
package models

import (
	"strconv"
	"time"
)

// DateLayout is the calendar-day format used as the one-entry-per-day key.
const DateLayout = "2006-01-02"

// Entry is implemented by every journal record.
type Entry interface {
	EntryID() string
	EntryDate() string
}

// Stamp carries the identity and creation time shared by all entries.
type Stamp struct {
	ID        string `json:"id"`
	Date      string `json:"date"`      // YYYY-MM-DD, local to the journal's location
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// EntryID returns the entry's unique id.
func (s Stamp) EntryID() string { return s.ID }

// EntryDate returns the entry's calendar day.
func (s Stamp) EntryDate() string { return s.Date }

// Time returns the creation instant.
func (s Stamp) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// NewStamp builds a stamp for an entry created at now with the given numeric id.
func NewStamp(id int64, now time.Time, loc *time.Location) Stamp {
	return Stamp{
		ID:        strconv.FormatInt(id, 10),
		Date:      Day(now, loc),
		Timestamp: now.UnixMilli(),
	}
}

// Day truncates t to its calendar day in loc. A nil loc means time.Local.
func Day(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// ValidDay reports whether s is a well-formed YYYY-MM-DD calendar day.
func ValidDay(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// MoodEntry is one day's mood declaration.
type MoodEntry struct {
	Stamp
	MoodIndex int     `json:"moodIndex"`
	MoodLabel string  `json:"moodLabel"`
	MoodEmoji string  `json:"moodEmoji"`
	Note      *string `json:"note,omitempty"`
}

// AbsenceEntry is one day's absence declaration.
type AbsenceEntry struct {
	Stamp
	Justification string  `json:"justification"`
	ImageURI      *string `json:"imageUri,omitempty"`
}

// Mood is a catalog entry the user picks from.
type Mood struct {
	Emoji string
	Label string
	Color string // hex, used by the picker
}

// Moods is the fixed mood catalog. Entries store the index into this list,
// so existing positions must never move.
var Moods = []Mood{
	{Emoji: "😊", Label: "Heureux", Color: "#4CAF50"},
	{Emoji: "😌", Label: "Calme", Color: "#87CEEB"},
	{Emoji: "😐", Label: "Neutre", Color: "#9E9E9E"},
	{Emoji: "😔", Label: "Triste", Color: "#5C6BC0"},
	{Emoji: "😤", Label: "Stressé", Color: "#FF7043"},
}

// MoodAt returns the catalog mood at index i.
func MoodAt(i int) (Mood, bool) {
	if i < 0 || i >= len(Moods) {
		return Mood{}, false
	}
	return Moods[i], true
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns *p, or "" for nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
