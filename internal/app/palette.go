// Package app is the Fyne shell: the plan widget, the orbit widget, the
// pattern tree, and the window wiring that binds them to one selection
// manager.
package app

import (
	"image/color"

	"github.com/openblast/kadview/internal/highlight"
)

var (
	colorSelected  = color.RGBA{R: 255, G: 200, B: 0, A: 255}
	colorActive    = color.RGBA{R: 255, G: 80, B: 80, A: 255}
	colorReference = color.RGBA{R: 120, G: 170, B: 255, A: 255}

	colorHole      = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	colorHoleTrack = color.RGBA{R: 140, G: 140, B: 140, A: 255}
	colorBackdrop  = color.RGBA{R: 24, G: 24, B: 28, A: 255}
)

func styleColor(s highlight.Style) color.Color {
	switch s {
	case highlight.StyleActive:
		return colorActive
	case highlight.StyleReference:
		return colorReference
	default:
		return colorSelected
	}
}
