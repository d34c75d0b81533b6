// ABOUTME: Tests for the absence journal.
// ABOUTME: Covers justification validation, image URI normalization, and persistence of optional fields.
package journal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/breather/internal/kv"
)

func openAbsences(t *testing.T, store kv.Store, clock *testClock) *AbsenceJournal {
	t.Helper()
	a := NewAbsenceJournal(store, WithClock(clock.Now), WithLocation(time.UTC))
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, a.Initialize(context.Background()))
	return a
}

func TestSaveAbsence(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock("2024-03-04")
	a := openAbsences(t, kv.NewMemoryStore(), clock)

	saved, err := a.SaveAbsence(ctx, AbsenceInput{Justification: "  Rendez-vous médical \n"})
	require.NoError(t, err)
	assert.Equal(t, "Rendez-vous médical", saved.Justification)
	assert.Nil(t, saved.ImageURI)

	got, ok := a.Today()
	require.True(t, ok)
	assert.Equal(t, saved, got)
}

func TestSaveAbsenceRequiresJustification(t *testing.T) {
	ctx := context.Background()
	a := openAbsences(t, kv.NewMemoryStore(), newTestClock("2024-03-04"))

	for _, j := range []string{"", "   ", "\t\n"} {
		_, err := a.SaveAbsence(ctx, AbsenceInput{Justification: j, ImageURI: "https://example.com/a.jpg"})
		assert.True(t, errors.Is(err, ErrJustificationRequired), "%q", j)
	}
	assert.Equal(t, 0, a.Len())
}

func TestAbsenceReplaceAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock("2024-03-04")
	store := kv.NewMemoryStore()
	a := openAbsences(t, store, clock)

	_, err := a.SaveAbsence(ctx, AbsenceInput{Justification: "Grippe"})
	require.NoError(t, err)
	clock.advance(2 * time.Hour)
	second, err := a.SaveAbsence(ctx, AbsenceInput{Justification: "Grippe, certificat joint", ImageURI: "content://media/42"})
	require.NoError(t, err)
	require.Equal(t, 1, a.Len())
	require.NotNil(t, second.ImageURI)
	assert.Equal(t, "content://media/42", *second.ImageURI)

	clock.setDay("2024-03-05")
	_, err = a.SaveAbsence(ctx, AbsenceInput{Justification: "Transport"})
	require.NoError(t, err)

	before := a.Entries()
	require.NoError(t, a.Close())

	reopened := openAbsences(t, store, clock)
	assert.Equal(t, before, reopened.Entries())
	assert.Equal(t, "2024-03-05", reopened.Entries()[0].Date)
	assert.Nil(t, reopened.Entries()[0].ImageURI)
}

func TestAbsenceDelete(t *testing.T) {
	ctx := context.Background()
	a := openAbsences(t, kv.NewMemoryStore(), newTestClock("2024-03-04"))

	saved, err := a.SaveAbsence(ctx, AbsenceInput{Justification: "Grève"})
	require.NoError(t, err)

	removed, err := a.Delete(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	_, ok := a.Today()
	assert.False(t, ok)
}

func TestNormalizeImageURI(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"blank", "  ", ""},
		{"https", "https://example.com/a.jpg", "https://example.com/a.jpg"},
		{"file uri", "file:///tmp/a.jpg", "file:///tmp/a.jpg"},
		{"content uri", "content://media/external/images/1", "content://media/external/images/1"},
		{"absolute path", "/tmp/scan.png", "file:///tmp/scan.png"},
		{"relative path", "scan.png", "file://" + filepath.ToSlash(filepath.Join(wd, "scan.png"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeImageURI(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
