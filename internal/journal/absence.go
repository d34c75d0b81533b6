// ABOUTME: Absence journal: one justified absence per day with an optional image reference.
// ABOUTME: Wraps the generic journal with justification and image URI normalization.
package journal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/2389-research/breather/internal/kv"
	"github.com/2389-research/breather/internal/models"
)

// AbsenceKey is the storage key of the absence history.
const AbsenceKey = "@breather_absence_history"

// ErrJustificationRequired is returned when an absence has no justification.
var ErrJustificationRequired = errors.New("justification is required")

// AbsenceInput is what a user submits when declaring today's absence.
type AbsenceInput struct {
	Justification string
	ImageURI      string // URI or local path; empty for none
}

// AbsenceJournal is the absence history.
type AbsenceJournal struct {
	*Journal[models.AbsenceEntry]
}

// NewAbsenceJournal creates the absence journal on store.
func NewAbsenceJournal(store kv.Store, opts ...Option) *AbsenceJournal {
	return &AbsenceJournal{Journal: New[models.AbsenceEntry](store, AbsenceKey, opts...)}
}

// SaveAbsence records today's absence. The justification is trimmed and must
// not be empty.
func (a *AbsenceJournal) SaveAbsence(ctx context.Context, in AbsenceInput) (models.AbsenceEntry, error) {
	justification := strings.TrimSpace(in.Justification)
	if justification == "" {
		return models.AbsenceEntry{}, ErrJustificationRequired
	}
	image, err := NormalizeImageURI(in.ImageURI)
	if err != nil {
		return models.AbsenceEntry{}, err
	}

	return a.Save(ctx, func(s models.Stamp) models.AbsenceEntry {
		return models.AbsenceEntry{
			Stamp:         s,
			Justification: justification,
			ImageURI:      models.StringPtr(image),
		}
	})
}

// NormalizeImageURI keeps URIs with a scheme as they are and turns local paths
// into absolute file:// URIs. Blank input yields "".
func NormalizeImageURI(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if u, err := url.Parse(ref); err == nil && len(u.Scheme) > 1 {
		return ref, nil
	}

	abs, err := filepath.Abs(ref)
	if err != nil {
		return "", fmt.Errorf("failed to resolve image path: %w", err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
