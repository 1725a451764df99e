package app

import (
	"fmt"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/openblast/kadview/internal/pattern"
	"github.com/openblast/kadview/internal/pick"
	"github.com/openblast/kadview/internal/selection"
	"github.com/openblast/kadview/internal/store"
)

const defaultSnapRadius = 8.0

// App owns the main window and binds the two views, the tree, and the
// keyboard shortcuts to the session's selection manager.
type App struct {
	window  fyne.Window
	session *pattern.Session

	plan  *PlanWidget
	orbit *OrbitWidget
	tree  *PatternTree

	statusLabel *widget.Label
}

// New builds the application window for an already-loaded session.
func New(session *pattern.Session) *App {
	fa := fyneapp.New()
	a := &App{
		window:      fa.NewWindow("kadview"),
		session:     session,
		statusLabel: widget.NewLabel("Ready"),
	}

	// Watcher and save-timer callbacks must not touch the store from their
	// own goroutines; route them through the Fyne event queue.
	session.SetDispatcher(fyne.Do)

	a.plan = NewPlanWidget(session)
	a.orbit = NewOrbitWidget(session)
	a.tree = NewPatternTree(session)

	a.orbit.OnPick = func(hit pick.Hit) {
		a.statusLabel.SetText(fmt.Sprintf("%s at E %.3f N %.3f Z %.3f",
			describe(hit.Descriptor), hit.Position.X, hit.Position.Y, hit.Position.Z))
	}

	session.Selection.Subscribe(func(state selection.State) {
		a.plan.Render(a.plan.view.Width, a.plan.view.Height)
		a.orbit.Render(a.orbit.width, a.orbit.height)
		if state.Primary == nil {
			if n := len(state.Multiple); n > 0 {
				a.statusLabel.SetText(fmt.Sprintf("%d selected", n))
			} else {
				a.statusLabel.SetText("Ready")
			}
			return
		}
		a.statusLabel.SetText(describe(*state.Primary))
	})

	a.window.SetContent(a.buildLayout())
	a.window.Canvas().SetOnTypedKey(a.typedKey)
	a.window.Resize(fyne.NewSize(1400, 900))
	return a
}

func (a *App) buildLayout() fyne.CanvasObject {
	snap := widget.NewSlider(2, 24)
	snap.Value = defaultSnapRadius
	snap.OnChanged = func(v float64) {
		a.plan.SetSnapRadius(v)
		a.orbit.SetSnapRadius(v)
	}

	fitButton := widget.NewButton("Fit", func() {
		a.plan.FitContent()
		a.orbit.FitContent()
	})
	clearButton := widget.NewButton("Clear Selection", func() {
		a.session.Selection.Clear()
	})

	sidebar := container.NewBorder(
		nil,
		container.NewVBox(
			widget.NewSeparator(),
			widget.NewLabel("Snap radius (px)"),
			snap,
			fitButton,
			clearButton,
		),
		nil, nil,
		a.tree.Widget,
	)

	views := container.NewHSplit(a.plan, a.orbit)
	views.SetOffset(0.5)

	main := container.NewHSplit(sidebar, views)
	main.SetOffset(0.2)

	return container.NewBorder(nil, a.statusLabel, nil, nil, main)
}

func (a *App) typedKey(event *fyne.KeyEvent) {
	switch event.Name {
	case fyne.KeyEscape:
		a.session.Selection.Clear()
	case fyne.KeyDelete, fyne.KeyBackspace:
		a.deleteSelection()
	}
}

// deleteSelection removes the primary selection from the store: the whole
// hole or entity, or just the selected element. The manager prunes whatever
// the mutation invalidated.
func (a *App) deleteSelection() {
	state := a.session.Selection.Current()
	if state.Primary == nil {
		return
	}
	deleteDescriptor(a.session.Store, *state.Primary)

	a.session.Selection.Clear()
	a.session.Selection.Prune()
	a.tree.Refresh()
	a.plan.Render(a.plan.view.Width, a.plan.view.Height)
	a.orbit.Render(a.orbit.width, a.orbit.height)
}

// deleteDescriptor applies a Delete keypress to the store. A vertex deletes
// its element; a segment deletes its style-target element, the same element
// that property edits on the segment resolve to; entity and hole selections
// delete the whole record.
func deleteDescriptor(st *store.Store, d selection.Descriptor) {
	switch {
	case d.IsHole():
		st.DeleteHole(d.EntityName, d.HoleID)
	case d.Type == selection.TypeVertex:
		st.DeleteElement(d.EntityName, d.ElementIndex)
	case d.Type == selection.TypeSegment:
		if e, ok := st.Entity(d.EntityName); ok {
			if target, tok := e.SegmentStyleTarget(d.ElementIndex); tok {
				st.DeleteElement(d.EntityName, target)
			}
		}
	default:
		st.DeleteEntity(d.EntityName)
	}
}

// RefreshData re-renders everything after an external store change, e.g. a
// file reload.
func (a *App) RefreshData() {
	a.tree.Refresh()
	a.plan.Render(a.plan.view.Width, a.plan.view.Height)
	a.orbit.Render(a.orbit.width, a.orbit.height)
}

// ShowAndRun shows the window and enters the event loop.
func (a *App) ShowAndRun() {
	a.window.ShowAndRun()
}

func describe(d selection.Descriptor) string {
	if d.IsHole() {
		return fmt.Sprintf("Hole %s:%s", d.EntityName, d.HoleID)
	}
	switch d.Type {
	case selection.TypeVertex:
		return fmt.Sprintf("%s vertex %d", d.EntityName, d.ElementIndex)
	case selection.TypeSegment:
		return fmt.Sprintf("%s segment %d", d.EntityName, d.ElementIndex)
	default:
		return d.EntityName
	}
}
