// Package model defines the canonical blast-hole and KAD drawing entities.
package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/openblast/kadview/internal/transform"
)

// ErrHorizontalHole is returned for hole angles at or beyond 90° from
// vertical, where the vertical subdrill amount has no along-axis equivalent
// (cos(angle) reaches zero).
var ErrHorizontalHole = errors.New("hole angle must be below 90 degrees from vertical")

// ErrSubdrillExceedsHole is returned when the requested subdrill would place
// the grade point above the collar.
var ErrSubdrillExceedsHole = errors.New("subdrill amount exceeds hole length")

// BlastHole is a drilled hole identified by (EntityName, HoleID). Collar,
// toe, and grade are world-space points; grade always lies on the collar-toe
// line. All derived fields are computed by the constructors so they stay
// mutually consistent; holes are never built by filling in the struct
// directly.
type BlastHole struct {
	EntityName string
	HoleID     string

	Collar transform.WorldPoint
	Toe    transform.WorldPoint
	Grade  transform.WorldPoint

	Diameter float64 // mm
	Angle    float64 // degrees from vertical
	Bearing  float64 // degrees clockwise from north

	Length         float64 // collar to toe along the axis
	BenchHeight    float64 // vertical, collar to grade
	SubdrillAmount float64 // vertical, grade to toe (signed; negative = uphole)
	SubdrillLength float64 // along the axis, grade to toe (signed)

	// Timing connector: the hole this one is initiated from, within the same
	// entity. Empty when the hole is a timing origin.
	FromHoleID string
	DelayMS    float64
}

// NewBlastHole builds a hole from collar position, total length along the
// axis, and the vertical subdrill amount. The toe and grade are derived.
func NewBlastHole(entityName, holeID string, collar transform.WorldPoint, length, angleDeg, bearingDeg, subdrill, diameter float64) (*BlastHole, error) {
	if angleDeg < 0 || angleDeg >= 90 {
		return nil, fmt.Errorf("%w: got %.1f", ErrHorizontalHole, angleDeg)
	}
	if length < 0 {
		return nil, fmt.Errorf("hole length must be non-negative, got %.3f", length)
	}

	angle := angleDeg * math.Pi / 180
	bearing := bearingDeg * math.Pi / 180

	vertical := length * math.Cos(angle)
	horizontal := length * math.Sin(angle)
	east := math.Sin(bearing) * horizontal
	north := math.Cos(bearing) * horizontal

	toe := transform.WorldPoint{
		X: collar.X + east,
		Y: collar.Y + north,
		Z: collar.Z - vertical,
	}

	h := &BlastHole{
		EntityName: entityName,
		HoleID:     holeID,
		Collar:     collar,
		Toe:        toe,
		Diameter:   diameter,
		Angle:      angleDeg,
		Bearing:    bearingDeg,
		Length:     length,
	}
	if err := h.applySubdrill(subdrill); err != nil {
		return nil, err
	}
	return h, nil
}

// NewBlastHoleToGradeZ builds a hole from collar position and the target
// bench (grade) elevation; the length follows from the bench height, the
// angle, and the subdrill.
func NewBlastHoleToGradeZ(entityName, holeID string, collar transform.WorldPoint, gradeZ, angleDeg, bearingDeg, subdrill, diameter float64) (*BlastHole, error) {
	if angleDeg < 0 || angleDeg >= 90 {
		return nil, fmt.Errorf("%w: got %.1f", ErrHorizontalHole, angleDeg)
	}
	benchHeight := collar.Z - gradeZ
	if benchHeight < 0 {
		return nil, fmt.Errorf("grade elevation %.3f is above collar %.3f", gradeZ, collar.Z)
	}

	angle := angleDeg * math.Pi / 180
	length := (benchHeight + subdrill) / math.Cos(angle)
	return NewBlastHole(entityName, holeID, collar, length, angleDeg, bearingDeg, subdrill, diameter)
}

// applySubdrill places the grade on the collar-toe line so that the vertical
// distance from grade down to toe equals the subdrill amount, then fills in
// the derived fields.
func (h *BlastHole) applySubdrill(subdrill float64) error {
	angle := h.Angle * math.Pi / 180

	gradeZ := h.Toe.Z + subdrill
	if gradeZ > h.Collar.Z {
		return fmt.Errorf("%w: grade %.3f above collar %.3f", ErrSubdrillExceedsHole, gradeZ, h.Collar.Z)
	}

	// Walk back up the axis from the toe: a vertical rise of `subdrill`
	// moves tan(angle)*subdrill horizontally against the bearing.
	horizontal := subdrill * math.Tan(angle)
	bearing := h.Bearing * math.Pi / 180
	h.Grade = transform.WorldPoint{
		X: h.Toe.X - math.Sin(bearing)*horizontal,
		Y: h.Toe.Y - math.Cos(bearing)*horizontal,
		Z: gradeZ,
	}

	h.BenchHeight = h.Collar.Z - gradeZ
	h.SubdrillAmount = subdrill
	h.SubdrillLength = subdrill / math.Cos(angle)
	return nil
}

// SetSubdrill moves the grade point along the hole axis and re-derives the
// dependent fields, keeping the collar and toe fixed.
func (h *BlastHole) SetSubdrill(subdrill float64) error {
	return h.applySubdrill(subdrill)
}

// Key returns the composite identity of the hole.
func (h *BlastHole) Key() HoleKey {
	return HoleKey{EntityName: h.EntityName, HoleID: h.HoleID}
}

// HoleKey is the composite (entity, hole) identity.
type HoleKey struct {
	EntityName string
	HoleID     string
}

func (k HoleKey) String() string {
	return k.EntityName + ":" + k.HoleID
}
