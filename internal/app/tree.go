package app

import (
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/openblast/kadview/internal/pattern"
	"github.com/openblast/kadview/internal/selection"
)

// Tree node ids. Holes group under their pattern entity; drawings are flat.
//
//	holes / holes|<entity> / hole|<entity>|<id>
//	drawings / kad|<name>
const (
	nodeHoles    = "holes"
	nodeDrawings = "drawings"
)

// PatternTree mirrors the selection manager in a widget.Tree. Clicking a
// node selects through the manager; selections made on a canvas land back
// here as the owning node. The applying flag breaks the feedback loop.
type PatternTree struct {
	Widget  *widget.Tree
	session *pattern.Session

	applying bool
}

// NewPatternTree builds the tree over the given session and wires it to the
// selection manager in both directions.
func NewPatternTree(session *pattern.Session) *PatternTree {
	t := &PatternTree{session: session}

	t.Widget = widget.NewTree(t.childIDs, t.isBranch, t.createNode, t.updateNode)
	t.Widget.OnSelected = t.onSelected

	session.Selection.Subscribe(t.applySelection)
	return t
}

func (t *PatternTree) childIDs(id widget.TreeNodeID) []widget.TreeNodeID {
	switch {
	case id == "":
		return []widget.TreeNodeID{nodeHoles, nodeDrawings}

	case id == nodeHoles:
		seen := map[string]bool{}
		var groups []string
		for _, h := range t.session.Store.AllHoles() {
			if !seen[h.EntityName] {
				seen[h.EntityName] = true
				groups = append(groups, h.EntityName)
			}
		}
		sort.Strings(groups)
		ids := make([]widget.TreeNodeID, len(groups))
		for i, g := range groups {
			ids[i] = "holes|" + g
		}
		return ids

	case id == nodeDrawings:
		var ids []widget.TreeNodeID
		for _, e := range t.session.Store.AllEntities() {
			ids = append(ids, "kad|"+e.Name)
		}
		return ids

	case strings.HasPrefix(id, "holes|"):
		entity := strings.TrimPrefix(id, "holes|")
		var ids []widget.TreeNodeID
		for _, h := range t.session.Store.AllHoles() {
			if h.EntityName == entity {
				ids = append(ids, fmt.Sprintf("hole|%s|%s", h.EntityName, h.HoleID))
			}
		}
		return ids
	}
	return nil
}

func (t *PatternTree) isBranch(id widget.TreeNodeID) bool {
	return id == "" || id == nodeHoles || id == nodeDrawings || strings.HasPrefix(id, "holes|")
}

func (t *PatternTree) createNode(bool) fyne.CanvasObject {
	return widget.NewLabel("node")
}

func (t *PatternTree) updateNode(id widget.TreeNodeID, _ bool, obj fyne.CanvasObject) {
	label := obj.(*widget.Label)
	switch {
	case id == nodeHoles:
		label.SetText("Blast holes")
	case id == nodeDrawings:
		label.SetText("Drawings")
	case strings.HasPrefix(id, "holes|"):
		label.SetText(strings.TrimPrefix(id, "holes|"))
	case strings.HasPrefix(id, "hole|"):
		parts := strings.SplitN(id, "|", 3)
		label.SetText("Hole " + parts[2])
	case strings.HasPrefix(id, "kad|"):
		name := strings.TrimPrefix(id, "kad|")
		if e, ok := t.session.Store.Entity(name); ok {
			label.SetText(fmt.Sprintf("%s (%s)", name, e.Kind))
		} else {
			label.SetText(name)
		}
	default:
		label.SetText(id)
	}
}

// onSelected maps a tree click into the selection manager.
func (t *PatternTree) onSelected(id widget.TreeNodeID) {
	if t.applying {
		return
	}
	switch {
	case strings.HasPrefix(id, "hole|"):
		parts := strings.SplitN(id, "|", 3)
		t.session.Selection.SelectSingle(selection.HoleDescriptor(parts[1], parts[2]))
	case strings.HasPrefix(id, "kad|"):
		name := strings.TrimPrefix(id, "kad|")
		if e, ok := t.session.Store.Entity(name); ok {
			t.session.Selection.SelectSingle(selection.EntityDescriptor(e))
		}
	}
}

// applySelection mirrors a manager change back into the tree. Vertex and
// segment selections highlight the owning entity node.
func (t *PatternTree) applySelection(state selection.State) {
	t.applying = true
	defer func() { t.applying = false }()

	if state.Primary == nil {
		t.Widget.UnselectAll()
		t.Widget.Refresh()
		return
	}

	id := t.nodeFor(*state.Primary)
	t.Widget.ScrollTo(id)
	t.Widget.Select(id)
}

func (t *PatternTree) nodeFor(d selection.Descriptor) widget.TreeNodeID {
	if d.IsHole() {
		return fmt.Sprintf("hole|%s|%s", d.EntityName, d.HoleID)
	}
	return "kad|" + d.EntityName
}

// Refresh re-reads the store, e.g. after a reload or deletion.
func (t *PatternTree) Refresh() {
	t.Widget.Refresh()
}
