package app

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/openblast/kadview/internal/highlight"
	"github.com/openblast/kadview/internal/model"
	"github.com/openblast/kadview/internal/pattern"
	"github.com/openblast/kadview/internal/pick"
	"github.com/openblast/kadview/internal/transform"
	"github.com/openblast/kadview/pkg/geometry"
)

const holeMarkerPx = 8

// PlanWidget draws the pattern in plan view and routes clicks through the
// 2D hit-test engine. Dragging pans, scrolling zooms about the cursor.
type PlanWidget struct {
	widget.BaseWidget
	session *pattern.Session
	engine  *pick.Engine2D

	view       pick.PlanView
	snapRadius float64

	dragStart  *fyne.Position
	isDragging bool
	fitted     bool

	objects []fyne.CanvasObject
}

// NewPlanWidget creates the plan view over the given session.
func NewPlanWidget(session *pattern.Session) *PlanWidget {
	w := &PlanWidget{
		session:    session,
		engine:     pick.NewEngine2D(session.Store, session.Transform),
		snapRadius: defaultSnapRadius,
		view:       pick.PlanView{Scale: 10},
	}
	w.ExtendBaseWidget(w)
	return w
}

// SetSnapRadius updates the pick tolerance in pixels.
func (w *PlanWidget) SetSnapRadius(px float64) {
	w.snapRadius = px
}

// FitContent re-centers and re-scales the view to frame all loaded data.
func (w *PlanWidget) FitContent() {
	bounds := localBounds(w.session)
	if bounds.IsEmpty() || w.view.Width <= 0 || w.view.Height <= 0 {
		return
	}
	center := bounds.Center()
	w.view.Center = geometry.Vector2{X: center.X, Y: center.Y}
	size := bounds.Size()
	scale := math.Inf(1)
	if size.X > 0 {
		scale = w.view.Width / size.X
	}
	if size.Y > 0 {
		scale = math.Min(scale, w.view.Height/size.Y)
	}
	if math.IsInf(scale, 1) {
		scale = 10
	}
	w.view.Scale = scale * 0.9
	w.Render(w.view.Width, w.view.Height)
}

// Render rebuilds the canvas object list for the given widget size.
func (w *PlanWidget) Render(width, height float64) {
	w.view.Width = width
	w.view.Height = height
	if !w.fitted && width > 0 {
		w.fitted = true
		bounds := localBounds(w.session)
		if !bounds.IsEmpty() {
			center := bounds.Center()
			w.view.Center = geometry.Vector2{X: center.X, Y: center.Y}
		}
	}

	objects := []fyne.CanvasObject{w.backdrop()}
	for _, e := range w.session.Store.AllEntities() {
		objects = append(objects, w.entityObjects(e)...)
	}
	for _, h := range w.session.Store.AllHoles() {
		objects = append(objects, w.holeObjects(h)...)
	}
	prims := highlight.Primitives2D(w.session.Selection.Current(), w.session.Store, w.session.Transform)
	for _, p := range prims {
		objects = append(objects, w.highlightObject(p))
	}
	w.objects = objects
	w.Refresh()
}

func (w *PlanWidget) backdrop() fyne.CanvasObject {
	bg := canvas.NewRectangle(colorBackdrop)
	bg.Resize(fyne.NewSize(float32(w.view.Width), float32(w.view.Height)))
	return bg
}

func (w *PlanWidget) local(p transform.WorldPoint) geometry.Vector2 {
	l := w.session.Transform.WorldToLocal(p)
	return geometry.Vector2{X: l.X, Y: l.Y}
}

func (w *PlanWidget) holeObjects(h *model.BlastHole) []fyne.CanvasObject {
	x, y := w.view.LocalToScreen(w.local(h.Collar))
	marker := canvas.NewCircle(color.Transparent)
	marker.StrokeColor = colorHole
	marker.StrokeWidth = 1.5
	marker.Resize(fyne.NewSize(holeMarkerPx, holeMarkerPx))
	marker.Move(fyne.NewPos(float32(x)-holeMarkerPx/2, float32(y)-holeMarkerPx/2))

	// Toe tick shows the drilled direction for inclined holes.
	tx, ty := w.view.LocalToScreen(w.local(h.Toe))
	if math.Hypot(tx-x, ty-y) < 1 {
		return []fyne.CanvasObject{marker}
	}
	tick := canvas.NewLine(colorHoleTrack)
	tick.StrokeWidth = 1
	tick.Position1 = fyne.NewPos(float32(x), float32(y))
	tick.Position2 = fyne.NewPos(float32(tx), float32(ty))
	return []fyne.CanvasObject{tick, marker}
}

func (w *PlanWidget) entityObjects(e *model.KADEntity) []fyne.CanvasObject {
	if len(e.Elements) == 0 {
		return nil
	}

	switch e.Kind {
	case model.KindPoint:
		el := e.Elements[0]
		x, y := w.view.LocalToScreen(w.local(el.Position))
		m := canvas.NewCircle(el.Color)
		m.Resize(fyne.NewSize(5, 5))
		m.Move(fyne.NewPos(float32(x)-2.5, float32(y)-2.5))
		return []fyne.CanvasObject{m}

	case model.KindCircle:
		el := e.Elements[0]
		x, y := w.view.LocalToScreen(w.local(el.Position))
		r := el.Radius * w.view.Scale
		c := canvas.NewCircle(color.Transparent)
		c.StrokeColor = el.Color
		c.StrokeWidth = float32(el.LineWidth)
		c.Resize(fyne.NewSize(float32(2*r), float32(2*r)))
		c.Move(fyne.NewPos(float32(x-r), float32(y-r)))
		return []fyne.CanvasObject{c}

	case model.KindText:
		el := e.Elements[0]
		x, y := w.view.LocalToScreen(w.local(el.Position))
		t := canvas.NewText(el.Text, el.Color)
		t.TextSize = float32(math.Max(el.FontHeight*w.view.Scale, 8))
		t.Move(fyne.NewPos(float32(x), float32(y)))
		return []fyne.CanvasObject{t}

	case model.KindLine, model.KindPoly:
		var out []fyne.CanvasObject
		for i := 0; i < e.SegmentCount(); i++ {
			a, b, _ := e.Segment(i)
			style := e.Elements[0]
			if target, ok := e.SegmentStyleTarget(i); ok {
				style = e.Elements[target]
			}
			x1, y1 := w.view.LocalToScreen(w.local(a))
			x2, y2 := w.view.LocalToScreen(w.local(b))
			line := canvas.NewLine(style.Color)
			line.StrokeWidth = float32(style.LineWidth)
			line.Position1 = fyne.NewPos(float32(x1), float32(y1))
			line.Position2 = fyne.NewPos(float32(x2), float32(y2))
			out = append(out, line)
		}
		return out
	}
	return nil
}

func (w *PlanWidget) highlightObject(p highlight.Primitive2D) fyne.CanvasObject {
	col := styleColor(p.Style)
	switch {
	case p.Marker:
		x, y := w.view.LocalToScreen(p.At)
		m := canvas.NewCircle(col)
		m.StrokeColor = color.White
		m.StrokeWidth = 1
		size := float32(holeMarkerPx)
		m.Resize(fyne.NewSize(size, size))
		m.Move(fyne.NewPos(float32(x)-size/2, float32(y)-size/2))
		return m
	case p.Radius > 0:
		x, y := w.view.LocalToScreen(p.At)
		r := p.Radius * w.view.Scale
		c := canvas.NewCircle(color.Transparent)
		c.StrokeColor = col
		c.StrokeWidth = 2
		c.Resize(fyne.NewSize(float32(2*r), float32(2*r)))
		c.Move(fyne.NewPos(float32(x-r), float32(y-r)))
		return c
	default:
		x1, y1 := w.view.LocalToScreen(p.A)
		x2, y2 := w.view.LocalToScreen(p.B)
		line := canvas.NewLine(col)
		line.StrokeWidth = 3
		line.Position1 = fyne.NewPos(float32(x1), float32(y1))
		line.Position2 = fyne.NewPos(float32(x2), float32(y2))
		return line
	}
}

// Tapped hit-tests the click; a miss clears the selection.
func (w *PlanWidget) Tapped(event *fyne.PointEvent) {
	if w.isDragging {
		return
	}
	desc := w.engine.PickAt(float64(event.Position.X), float64(event.Position.Y), w.view, w.snapRadius)
	if desc == nil {
		w.session.Selection.Clear()
		return
	}
	w.session.Selection.SelectSingle(*desc)
}

// TappedSecondary toggles the hit in the multiple-selection set.
func (w *PlanWidget) TappedSecondary(event *fyne.PointEvent) {
	desc := w.engine.PickAt(float64(event.Position.X), float64(event.Position.Y), w.view, w.snapRadius)
	if desc == nil {
		return
	}
	w.session.Selection.ToggleInMultiple(*desc)
}

// Dragged pans the view.
func (w *PlanWidget) Dragged(event *fyne.DragEvent) {
	if w.dragStart != nil {
		deltaX := float64(event.Position.X - w.dragStart.X)
		deltaY := float64(event.Position.Y - w.dragStart.Y)
		w.view.Center.X -= deltaX / w.view.Scale
		w.view.Center.Y += deltaY / w.view.Scale
		w.Render(w.view.Width, w.view.Height)
	}
	w.dragStart = &event.Position
	w.isDragging = true
}

// DragEnd ends a pan.
func (w *PlanWidget) DragEnd() {
	w.dragStart = nil
	w.isDragging = false
}

// Scrolled zooms about the cursor so the point under it stays put.
func (w *PlanWidget) Scrolled(event *fyne.ScrollEvent) {
	factor := math.Pow(1.1, float64(event.Scrolled.DY)/40)
	anchor := w.view.ScreenToLocal(float64(event.Position.X), float64(event.Position.Y))

	w.view.Scale *= factor
	if w.view.Scale < 0.01 {
		w.view.Scale = 0.01
	}

	after := w.view.ScreenToLocal(float64(event.Position.X), float64(event.Position.Y))
	w.view.Center.X += anchor.X - after.X
	w.view.Center.Y += anchor.Y - after.Y
	w.Render(w.view.Width, w.view.Height)
}

// CreateRenderer creates the renderer for the widget.
func (w *PlanWidget) CreateRenderer() fyne.WidgetRenderer {
	return &planWidgetRenderer{widget: w}
}

type planWidgetRenderer struct {
	widget  *PlanWidget
	objects []fyne.CanvasObject
}

func (r *planWidgetRenderer) Layout(size fyne.Size) {
	r.widget.Render(float64(size.Width), float64(size.Height))
}

func (r *planWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (r *planWidgetRenderer) Refresh() {
	r.objects = r.widget.objects
	canvas.Refresh(r.widget)
}

func (r *planWidgetRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *planWidgetRenderer) Destroy() {}

// localBounds frames every collar, toe, and drawing element in local space.
func localBounds(s *pattern.Session) geometry.BoundingBox {
	bounds := geometry.NewBoundingBox()
	for _, h := range s.Store.AllHoles() {
		bounds.Extend(s.Transform.WorldToLocal(h.Collar).Vec3())
		bounds.Extend(s.Transform.WorldToLocal(h.Toe).Vec3())
	}
	for _, e := range s.Store.AllEntities() {
		for _, el := range e.Elements {
			bounds.Extend(s.Transform.WorldToLocal(el.Position).Vec3())
		}
	}
	return bounds
}
