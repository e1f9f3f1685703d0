package app

import (
	"log"
	"math"

	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/philipparndt/golabel/pkg/label"
)

// commitRect writes a rectangle edit from one 2-D view back to the label's
// oriented box. Only the two center coordinates and two extents shown in that
// view change; the third axis and the yaw stay untouched, and any trailing
// parameters pass through verbatim.
func commitRect(store *label.Store, frameIdx, labelIdx int, plane geometry.Plane, r geometry.Rect) error {
	p, err := store.GetBox(frameIdx, labelIdx)
	if err != nil {
		return err
	}

	r = r.Normalized()
	c := r.Center()
	switch plane {
	case geometry.PlaneXY:
		p.Box.Center.X, p.Box.Center.Y = c.X, c.Y
		p.Box.Size.X, p.Box.Size.Y = r.Width(), r.Height()
	case geometry.PlaneXZ:
		p.Box.Center.X, p.Box.Center.Z = c.X, c.Y
		p.Box.Size.X, p.Box.Size.Z = r.Width(), r.Height()
	case geometry.PlaneYZ:
		p.Box.Center.Y, p.Box.Center.Z = c.X, c.Y
		p.Box.Size.Y, p.Box.Size.Z = r.Width(), r.Height()
	}

	return store.SetBox(frameIdx, labelIdx, p)
}

// commitRotation overwrites only the yaw of the label's box, in radians
func commitRotation(store *label.Store, frameIdx, labelIdx int, degrees float64) error {
	p, err := store.GetBox(frameIdx, labelIdx)
	if err != nil {
		return err
	}
	p.Box.Yaw = degrees * math.Pi / 180
	return store.SetBox(frameIdx, labelIdx, p)
}

// rotationDegrees converts a stored yaw to the rotation control's display
// value, normalized into [0,360). The stored yaw itself is never normalized.
func rotationDegrees(yaw float64) float64 {
	deg := math.Mod(yaw*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// commitRectEdit finishes a rectangle drag gesture. A rejected write (e.g.
// a rectangle collapsed to zero size) leaves the store untouched and the
// previous geometry on screen.
func (app *App) commitRectEdit() {
	err := commitRect(app.Session.store, app.Session.frame, app.Edit.selected,
		app.Edit.dragPlane, app.Edit.dragRect)
	if err != nil {
		log.Printf("rectangle edit rejected: %v", err)
		app.UI.status = "edit rejected: " + err.Error()
		return
	}
	app.Session.dirty = true
}

// setRotation applies a rotation-control change to the selected label. The
// control commits continuously while it is dragged, not only on release.
func (app *App) setRotation(degrees float64) {
	if app.Edit.selected < 0 {
		return
	}
	if degrees == app.Edit.rotationDeg {
		return
	}
	if err := commitRotation(app.Session.store, app.Session.frame, app.Edit.selected, degrees); err != nil {
		log.Printf("rotation edit rejected: %v", err)
		return
	}
	app.Edit.rotationDeg = degrees
	app.Session.dirty = true
}

// syncRotationControl updates the rotation control's displayed value from the
// selected label's stored yaw. This is a read-only sync: it must never write
// back to the store, or selecting a label would itself edit it.
func (app *App) syncRotationControl() {
	if app.Edit.selected < 0 {
		app.Edit.rotationDeg = 0
		return
	}
	p, err := app.Session.store.GetBox(app.Session.frame, app.Edit.selected)
	if err != nil {
		app.Edit.rotationDeg = 0
		return
	}
	app.Edit.rotationDeg = rotationDegrees(p.Box.Yaw)
}
