package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/openblast/kadview/internal/highlight"
	"github.com/openblast/kadview/internal/model"
	"github.com/openblast/kadview/internal/pattern"
	"github.com/openblast/kadview/internal/pick"
	"github.com/openblast/kadview/internal/selection"
	"github.com/openblast/kadview/internal/transform"
	"github.com/openblast/kadview/pkg/geometry"
	"github.com/openblast/kadview/pkg/viewer"
)

// OrbitWidget draws the pattern in 3D and routes clicks through the raycast
// engine. Dragging orbits the camera, scrolling zooms.
type OrbitWidget struct {
	widget.BaseWidget
	session *pattern.Session
	engine  *pick.Engine3D
	camera  *viewer.Camera

	overlays   *highlight.OverlaySet
	snapRadius float64

	// OnPick reports the world-space hit position of the last successful
	// pick, for the status readout.
	OnPick func(pick.Hit)

	width, height float64
	dragStart     *fyne.Position
	isDragging    bool

	objects []fyne.CanvasObject
}

// NewOrbitWidget creates the 3D view over the given session.
func NewOrbitWidget(session *pattern.Session) *OrbitWidget {
	w := &OrbitWidget{
		session:    session,
		engine:     pick.NewEngine3D(session.Transform),
		camera:     viewer.NewCamera(localBounds(session)),
		overlays:   highlight.NewOverlaySet(),
		snapRadius: defaultSnapRadius,
	}
	w.ExtendBaseWidget(w)
	return w
}

// SetSnapRadius updates the pick tolerance in pixels.
func (w *OrbitWidget) SetSnapRadius(px float64) {
	w.snapRadius = px
}

// FitContent re-frames the camera around all loaded data.
func (w *OrbitWidget) FitContent() {
	w.camera.FitBounds(localBounds(w.session))
	w.Render(w.width, w.height)
}

// sceneItems builds the pickable scene index from the store: one point item
// per hole collar, one segment item per hole track and per drawing segment,
// one point item per point-like drawing anchor.
func (w *OrbitWidget) sceneItems() []pick.SceneItem {
	local := func(p transform.WorldPoint) geometry.Vector3 {
		return w.session.Transform.WorldToLocal(p).Vec3()
	}

	var items []pick.SceneItem
	for _, h := range w.session.Store.AllHoles() {
		desc := selection.HoleDescriptor(h.EntityName, h.HoleID)
		collar, toe := local(h.Collar), local(h.Toe)
		items = append(items,
			pick.SceneItem{Descriptor: desc, A: collar, B: collar, Pickable: true},
			pick.SceneItem{Descriptor: desc, A: collar, B: toe, Segment: true, Pickable: true},
		)
	}
	for _, e := range w.session.Store.AllEntities() {
		switch e.Kind {
		case model.KindPoint, model.KindCircle, model.KindText:
			if anchor, ok := e.Anchor(); ok {
				p := local(anchor)
				items = append(items, pick.SceneItem{
					Descriptor: selection.EntityDescriptor(e),
					A:          p, B: p,
					Pickable: true,
				})
			}
		case model.KindLine, model.KindPoly:
			for i := 0; i < e.SegmentCount(); i++ {
				a, b, _ := e.Segment(i)
				items = append(items, pick.SceneItem{
					Descriptor: selection.Descriptor{
						EntityName:   e.Name,
						EntityKind:   e.Kind,
						ElementIndex: i,
						Type:         selection.TypeSegment,
					},
					A: local(a), B: local(b),
					Segment:      true,
					Pickable:     true,
					ElementCount: len(e.Elements),
				})
			}
		}
	}
	return items
}

// Render rebuilds the canvas object list: data first, then the highlight
// overlays on top.
func (w *OrbitWidget) Render(width, height float64) {
	w.width = width
	w.height = height
	if width <= 0 || height <= 0 {
		return
	}

	w.overlays.Rebuild(w.session.Selection.Current(), w.session.Store, w.session.Transform)

	objects := []fyne.CanvasObject{w.backdrop()}
	for _, item := range w.sceneItems() {
		objects = append(objects, w.itemObject(item))
	}
	for _, o := range w.overlays.Items() {
		objects = append(objects, w.overlayObject(o))
	}
	w.objects = objects
	w.Refresh()
}

func (w *OrbitWidget) backdrop() fyne.CanvasObject {
	bg := canvas.NewRectangle(colorBackdrop)
	bg.Resize(fyne.NewSize(float32(w.width), float32(w.height)))
	return bg
}

func (w *OrbitWidget) itemObject(item pick.SceneItem) fyne.CanvasObject {
	if item.Segment {
		col := color.Color(colorHoleTrack)
		width := float32(1)
		if !item.Descriptor.IsHole() {
			if e, ok := w.session.Store.Entity(item.Descriptor.EntityName); ok {
				style := e.Elements[0]
				if target, tok := e.SegmentStyleTarget(item.Descriptor.ElementIndex); tok {
					style = e.Elements[target]
				}
				col = style.Color
				width = float32(style.LineWidth)
			}
		}
		return w.segmentLine(item.A, item.B, col, width)
	}

	x, y, _ := w.camera.Project(item.A, w.width, w.height)
	col := color.Color(colorHole)
	if !item.Descriptor.IsHole() {
		if e, ok := w.session.Store.Entity(item.Descriptor.EntityName); ok && len(e.Elements) > 0 {
			col = e.Elements[0].Color
		}
	}
	m := canvas.NewCircle(col)
	size := float32(6)
	m.Resize(fyne.NewSize(size, size))
	m.Move(fyne.NewPos(float32(x)-size/2, float32(y)-size/2))
	return m
}

func (w *OrbitWidget) overlayObject(o highlight.Overlay3D) fyne.CanvasObject {
	col := styleColor(o.Style)
	if o.Segment {
		return w.segmentLine(o.A, o.B, col, 3)
	}
	x, y, _ := w.camera.Project(o.A, w.width, w.height)
	m := canvas.NewCircle(col)
	m.StrokeColor = color.White
	m.StrokeWidth = 1
	size := float32(holeMarkerPx)
	m.Resize(fyne.NewSize(size, size))
	m.Move(fyne.NewPos(float32(x)-size/2, float32(y)-size/2))
	return m
}

func (w *OrbitWidget) segmentLine(a, b geometry.Vector3, col color.Color, strokeWidth float32) fyne.CanvasObject {
	x1, y1, _ := w.camera.Project(a, w.width, w.height)
	x2, y2, _ := w.camera.Project(b, w.width, w.height)
	line := canvas.NewLine(col)
	line.StrokeWidth = strokeWidth
	line.Position1 = fyne.NewPos(float32(x1), float32(y1))
	line.Position2 = fyne.NewPos(float32(x2), float32(y2))
	return line
}

// Tapped casts a pick ray; a miss clears the selection. The overlay scene
// items ride along so the exclusion filter is exercised on every pick.
func (w *OrbitWidget) Tapped(event *fyne.PointEvent) {
	if w.isDragging {
		return
	}
	items := append(w.sceneItems(), w.overlays.SceneItems()...)
	hit := w.engine.PickAt(items, w.camera,
		float64(event.Position.X), float64(event.Position.Y),
		w.width, w.height, w.snapRadius)
	if hit == nil {
		w.session.Selection.Clear()
		return
	}
	w.session.Selection.SelectSingle(hit.Descriptor)
	if w.OnPick != nil {
		w.OnPick(*hit)
	}
}

// TappedSecondary toggles the hit in the multiple-selection set.
func (w *OrbitWidget) TappedSecondary(event *fyne.PointEvent) {
	items := append(w.sceneItems(), w.overlays.SceneItems()...)
	hit := w.engine.PickAt(items, w.camera,
		float64(event.Position.X), float64(event.Position.Y),
		w.width, w.height, w.snapRadius)
	if hit == nil {
		return
	}
	w.session.Selection.ToggleInMultiple(hit.Descriptor)
}

// Dragged orbits the camera.
func (w *OrbitWidget) Dragged(event *fyne.DragEvent) {
	if w.dragStart != nil {
		deltaX := float64(event.Position.X - w.dragStart.X)
		deltaY := float64(event.Position.Y - w.dragStart.Y)
		w.camera.Rotate(deltaX*0.01, deltaY*0.01)
		w.Render(w.width, w.height)
	}
	w.dragStart = &event.Position
	w.isDragging = true
}

// DragEnd ends an orbit.
func (w *OrbitWidget) DragEnd() {
	w.dragStart = nil
	w.isDragging = false
}

// Scrolled zooms the camera.
func (w *OrbitWidget) Scrolled(event *fyne.ScrollEvent) {
	delta := -float64(event.Scrolled.DY) * 0.001
	w.camera.Zoom(delta)
	w.Render(w.width, w.height)
}

// CreateRenderer creates the renderer for the widget.
func (w *OrbitWidget) CreateRenderer() fyne.WidgetRenderer {
	return &orbitWidgetRenderer{widget: w}
}

type orbitWidgetRenderer struct {
	widget  *OrbitWidget
	objects []fyne.CanvasObject
}

func (r *orbitWidgetRenderer) Layout(size fyne.Size) {
	r.widget.Render(float64(size.Width), float64(size.Height))
}

func (r *orbitWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (r *orbitWidgetRenderer) Refresh() {
	r.objects = r.widget.objects
	canvas.Refresh(r.widget)
}

func (r *orbitWidgetRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *orbitWidgetRenderer) Destroy() {}
