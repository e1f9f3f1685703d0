package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/golabel/pkg/geometry"
)

const (
	panelWidth  = 260
	viewMargin  = 4
	splitRatio  = 0.55 // share of the window height given to the 3-D scene
	fitPadding  = 1.15 // world-bounds padding when fitting a 2-D view
	minViewSpan = 1e-6
)

// layout recomputes all viewport rectangles from the current window size.
// Called once per frame so window resizes just work.
func (app *App) layout() {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	split := h * splitRatio
	viewW := (w - panelWidth) / 3

	planes := [3]geometry.Plane{geometry.PlaneXY, geometry.PlaneXZ, geometry.PlaneYZ}
	for i := range app.views {
		app.views[i].plane = planes[i]
		app.views[i].bounds = rl.Rectangle{
			X:      float32(i)*viewW + viewMargin,
			Y:      split + viewMargin,
			Width:  viewW - 2*viewMargin,
			Height: h - split - 2*viewMargin,
		}
	}
}

// sceneBounds returns the 3-D scene viewport
func (app *App) sceneBounds() rl.Rectangle {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	return rl.Rectangle{X: 0, Y: 0, Width: w, Height: h * splitRatio}
}

// panelBounds returns the control column to the right of the 2-D views
func (app *App) panelBounds() rl.Rectangle {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	split := h * splitRatio
	return rl.Rectangle{X: w - panelWidth, Y: split, Width: panelWidth, Height: h - split}
}

// fitViews frames each 2-D view around the active cloud. Scale and center
// persist until the next navigation, so dragging a box does not re-zoom the
// view mid-gesture.
func (app *App) fitViews() {
	if app.Session.cloud == nil || app.Session.cloud.Len() == 0 {
		for i := range app.views {
			app.views[i].scale = 50
			app.views[i].center = geometry.Vector2{}
		}
		return
	}
	min, max := app.Session.cloud.Bounds()

	for i := range app.views {
		v := &app.views[i]
		ai, aj := v.plane.Axes()

		lo := geometry.NewVector2(min.Axis(ai), min.Axis(aj))
		hi := geometry.NewVector2(max.Axis(ai), max.Axis(aj))
		v.center = geometry.NewVector2((lo.X+hi.X)/2, (lo.Y+hi.Y)/2)

		spanX := math.Max(hi.X-lo.X, minViewSpan) * fitPadding
		spanY := math.Max(hi.Y-lo.Y, minViewSpan) * fitPadding
		v.scale = math.Min(float64(v.bounds.Width)/spanX, float64(v.bounds.Height)/spanY)
	}
}

// worldToScreen maps a world-plane point into the viewport. World Y points
// up, screen Y points down.
func (v *planeView) worldToScreen(p geometry.Vector2) rl.Vector2 {
	cx := v.bounds.X + v.bounds.Width/2
	cy := v.bounds.Y + v.bounds.Height/2
	return rl.Vector2{
		X: cx + float32((p.X-v.center.X)*v.scale),
		Y: cy - float32((p.Y-v.center.Y)*v.scale),
	}
}

// screenToWorld is the inverse of worldToScreen
func (v *planeView) screenToWorld(p rl.Vector2) geometry.Vector2 {
	cx := v.bounds.X + v.bounds.Width/2
	cy := v.bounds.Y + v.bounds.Height/2
	return geometry.Vector2{
		X: v.center.X + float64(p.X-cx)/v.scale,
		Y: v.center.Y - float64(p.Y-cy)/v.scale,
	}
}

// rectToScreen converts a world rectangle to viewport pixels
func (v *planeView) rectToScreen(r geometry.Rect) rl.Rectangle {
	tl := v.worldToScreen(geometry.NewVector2(r.Min.X, r.Max.Y))
	br := v.worldToScreen(geometry.NewVector2(r.Max.X, r.Min.Y))
	return rl.Rectangle{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}

// contains reports whether a screen point is inside the viewport
func (v *planeView) containsPoint(p rl.Vector2) bool {
	return rl.CheckCollisionPointRec(p, v.bounds)
}

// labelRect returns a label's projected bounding rectangle in world units,
// computed fresh from the store
func (app *App) labelRect(labelIdx int, plane geometry.Plane) (geometry.Rect, bool) {
	p, err := app.Session.store.GetBox(app.Session.frame, labelIdx)
	if err != nil {
		return geometry.Rect{}, false
	}
	proj := geometry.Project(p.Box.Corners(), plane)
	return geometry.BoundingRect(proj[:]), true
}
