package app

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/golabel/pkg/geometry"
)

// handle hit-test radius in pixels
const handleRadius = 8

// handleInput processes one frame of user input. Modal prompts capture the
// keyboard completely while they are open; their cancellation leaves the
// store untouched.
func (app *App) handleInput() {
	if app.UI.textActive {
		app.handleTextEntry()
		return
	}
	if app.UI.confirmActive {
		app.handleConfirm()
		return
	}

	app.handleKeys()
	app.handleMouse()
}

func (app *App) handleKeys() {
	switch {
	case rl.IsKeyPressed(rl.KeyLeft):
		app.gotoFrame(app.Session.frame - 1)
	case rl.IsKeyPressed(rl.KeyRight):
		app.gotoFrame(app.Session.frame + 1)
	case rl.IsKeyPressed(rl.KeyTab):
		app.cycleSelection()
	case rl.IsKeyPressed(rl.KeyN):
		app.openTextPrompt("New label class:", app.suggestedName(), actionAddLabel)
	case rl.IsKeyPressed(rl.KeyR):
		app.openRenamePrompt()
	case rl.IsKeyPressed(rl.KeyD), rl.IsKeyPressed(rl.KeyDelete):
		app.openDeleteConfirm()
	case rl.IsKeyPressed(rl.KeyS):
		app.save()
	case rl.IsKeyPressed(rl.KeyF5):
		if app.UI.reloadNotice {
			app.reloadFromDisk()
		}
	case rl.IsKeyPressed(rl.KeyHome):
		app.resetCamera()
	}
}

func (app *App) handleMouse() {
	pos := rl.GetMousePosition()

	switch app.Edit.gesture {
	case gestureRectDrag:
		app.updateRectDrag(pos)
		if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
			app.commitRectEdit()
			app.Edit.gesture = gestureIdle
		}
		return

	case gestureRotate:
		app.setRotation(app.sliderValueAt(pos))
		if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
			app.Edit.gesture = gestureIdle
		}
		return
	}

	// idle
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && rl.CheckCollisionPointRec(pos, app.sceneBounds()) {
		app.zoom(wheel)
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) && rl.CheckCollisionPointRec(pos, app.sceneBounds()) {
		app.orbit(rl.GetMouseDelta())
	}

	if !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		return
	}

	if rl.CheckCollisionPointRec(pos, app.sliderBounds()) {
		app.Edit.gesture = gestureRotate
		app.setRotation(app.sliderValueAt(pos))
		return
	}

	classes, _ := app.Session.store.Classes(app.Session.frame)
	for i, item := range app.labelItemBounds(len(classes)) {
		if rl.CheckCollisionPointRec(pos, item) {
			app.selectLabel(i)
			return
		}
	}

	for i := range app.views {
		if app.views[i].containsPoint(pos) {
			app.pressInView(&app.views[i], pos)
			return
		}
	}
}

// pressInView begins a rectangle drag on the selected label, or selects the
// label whose projected rectangle was clicked
func (app *App) pressInView(v *planeView, pos rl.Vector2) {
	if app.Edit.selected >= 0 {
		if rect, ok := app.labelRect(app.Edit.selected, v.plane); ok {
			if h := hitHandle(v.rectToScreen(rect), pos); h != handleNone {
				app.Edit.gesture = gestureRectDrag
				app.Edit.dragPlane = v.plane
				app.Edit.dragHandle = h
				app.Edit.dragRect = rect
				app.Edit.grabOffset = v.screenToWorld(pos).Sub(rect.Min)
				return
			}
		}
	}

	// click inside another label's rectangle selects it
	count, _ := app.Session.store.LabelCount(app.Session.frame)
	world := v.screenToWorld(pos)
	for i := 0; i < count; i++ {
		if rect, ok := app.labelRect(i, v.plane); ok && rect.Contains(world) {
			app.selectLabel(i)
			return
		}
	}
}

// hitHandle classifies a pointer position against a screen rectangle: one of
// the eight scale handles, a whole-rectangle move, or nothing
func hitHandle(r rl.Rectangle, pos rl.Vector2) int {
	for h, p := range handlePoints(r) {
		if rl.Vector2Distance(pos, p) <= handleRadius {
			return h
		}
	}
	if rl.CheckCollisionPointRec(pos, r) {
		return handleMove
	}
	return handleNone
}

// updateRectDrag recomputes the live rectangle from the pointer position.
// The store is only written on release.
func (app *App) updateRectDrag(pos rl.Vector2) {
	v := app.viewFor(app.Edit.dragPlane)
	if v == nil {
		return
	}
	world := v.screenToWorld(pos)
	r := &app.Edit.dragRect

	switch app.Edit.dragHandle {
	case handleMove:
		size := geometry.NewVector2(r.Width(), r.Height())
		r.Min = world.Sub(app.Edit.grabOffset)
		r.Max = r.Min.Add(size)
	case handleTopLeft:
		r.Min.X, r.Max.Y = world.X, world.Y
	case handleTopRight:
		r.Max.X, r.Max.Y = world.X, world.Y
	case handleBottomRight:
		r.Max.X, r.Min.Y = world.X, world.Y
	case handleBottomLeft:
		r.Min.X, r.Min.Y = world.X, world.Y
	case handleTop:
		r.Max.Y = world.Y
	case handleRight:
		r.Max.X = world.X
	case handleBottom:
		r.Min.Y = world.Y
	case handleLeft:
		r.Min.X = world.X
	}
}

// viewFor returns the viewport showing a plane
func (app *App) viewFor(plane geometry.Plane) *planeView {
	for i := range app.views {
		if app.views[i].plane == plane {
			return &app.views[i]
		}
	}
	return nil
}

// sliderValueAt converts a pointer position on the slider track to degrees
func (app *App) sliderValueAt(pos rl.Vector2) float64 {
	s := app.sliderBounds()
	t := (pos.X - s.X) / s.Width
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return float64(t) * 360
}

// openTextPrompt activates the modal text entry
func (app *App) openTextPrompt(prompt, initial string, action int) {
	app.UI.textActive = true
	app.UI.textPrompt = prompt
	app.UI.textBuffer = initial
	app.UI.textAction = action
}

func (app *App) openRenamePrompt() {
	if app.Edit.selected < 0 {
		return
	}
	classes, err := app.Session.store.Classes(app.Session.frame)
	if err != nil || app.Edit.selected >= len(classes) {
		return
	}
	app.openTextPrompt("New class name:", classes[app.Edit.selected], actionRenameLabel)
}

func (app *App) openDeleteConfirm() {
	if app.Edit.selected < 0 {
		return
	}
	classes, err := app.Session.store.Classes(app.Session.frame)
	if err != nil || app.Edit.selected >= len(classes) {
		return
	}
	app.UI.confirmActive = true
	app.UI.confirmText = fmt.Sprintf("Remove %q ?", classes[app.Edit.selected])
}

// handleTextEntry edits the modal text buffer. Enter commits the pending
// action, Escape cancels without touching the store.
func (app *App) handleTextEntry() {
	for ch := rl.GetCharPressed(); ch > 0; ch = rl.GetCharPressed() {
		if ch >= 32 {
			app.UI.textBuffer += string(ch)
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(app.UI.textBuffer) > 0 {
		runes := []rune(app.UI.textBuffer)
		app.UI.textBuffer = string(runes[:len(runes)-1])
	}

	switch {
	case rl.IsKeyPressed(rl.KeyEnter):
		app.UI.textActive = false
		switch app.UI.textAction {
		case actionAddLabel:
			if app.UI.textBuffer != "" {
				app.addLabel(app.UI.textBuffer)
			}
		case actionRenameLabel:
			app.renameSelected(app.UI.textBuffer)
		}
	case rl.IsKeyPressed(rl.KeyEscape):
		app.UI.textActive = false
	}
}

// handleConfirm resolves the delete confirmation
func (app *App) handleConfirm() {
	switch {
	case rl.IsKeyPressed(rl.KeyY):
		app.UI.confirmActive = false
		app.deleteSelected()
	case rl.IsKeyPressed(rl.KeyN), rl.IsKeyPressed(rl.KeyEscape):
		app.UI.confirmActive = false
	}
}
