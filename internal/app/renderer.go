package app

import (
	"fmt"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/philipparndt/golabel/pkg/label"
)

var (
	backgroundColor = rl.Color{R: 12, G: 12, B: 16, A: 255}
	pointColor      = rl.Color{R: 200, G: 200, B: 200, A: 160}
	gridColor       = rl.Color{R: 60, G: 60, B: 70, A: 255}
)

// render redraws the whole window. Every item is rebuilt from the store's
// current frame; no render-side handles survive between frames, so a box
// edited in one view cannot go stale in another.
func (app *App) render() {
	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	app.drawScene()
	for i := range app.views {
		app.drawPlaneView(&app.views[i])
	}
	app.drawPanel()
	app.drawOverlays()

	rl.EndDrawing()
}

// frameLabels decodes every label of the active frame once per redraw
func (app *App) frameLabels() []label.BoxParams {
	count, err := app.Session.store.LabelCount(app.Session.frame)
	if err != nil {
		return nil
	}
	params := make([]label.BoxParams, 0, count)
	for i := 0; i < count; i++ {
		p, err := app.Session.store.GetBox(app.Session.frame, i)
		if err != nil {
			log.Printf("skipping label %d: %v", i, err)
			continue
		}
		params = append(params, p)
	}
	return params
}

// drawScene renders the 3-D viewport: grid, cloud, wireframe boxes and
// highlighted inside points
func (app *App) drawScene() {
	bounds := app.sceneBounds()
	rl.BeginScissorMode(int32(bounds.X), int32(bounds.Y), int32(bounds.Width), int32(bounds.Height))

	app.updateCamera()
	rl.BeginMode3D(app.Camera.camera)
	rl.DrawGrid(20, 1)

	cloud := app.Session.cloud
	if cloud != nil {
		for _, p := range cloud.Points {
			rl.DrawPoint3D(toScene(p), pointColor)
		}
	}

	classes, _ := app.Session.store.Classes(app.Session.frame)
	for i, p := range app.frameLabels() {
		color := defaultColor
		if i < len(classes) {
			color = classColor(classes[i])
		}

		corners := p.Box.Corners()
		for _, e := range geometry.BoxEdges {
			rl.DrawLine3D(toScene(corners[e[0]]), toScene(corners[e[1]]), color)
		}

		if cloud == nil {
			continue
		}
		mask, err := geometry.Contains(cloud.Points, corners)
		if err != nil {
			// non-positive extents cannot pass the store's write gate
			log.Printf("containment failed for label %d: %v", i, err)
			continue
		}
		highlight := faded(color, 220)
		for j, inside := range mask {
			if inside {
				s := app.pointSize
				rl.DrawCubeV(toScene(cloud.Points[j]), rl.Vector3{X: s, Y: s, Z: s}, highlight)
			}
		}
	}

	rl.EndMode3D()
	rl.EndScissorMode()
}

// drawPlaneView renders one 2-D projection: scatter, every label's projected
// rectangle with caption, and edit handles on the selected label
func (app *App) drawPlaneView(v *planeView) {
	b := v.bounds
	rl.DrawRectangleLinesEx(b, 1, gridColor)
	rl.DrawText(v.plane.String(), int32(b.X)+6, int32(b.Y)+4, 14, rl.Gray)

	rl.BeginScissorMode(int32(b.X), int32(b.Y), int32(b.Width), int32(b.Height))
	defer rl.EndScissorMode()

	cloud := app.Session.cloud
	if cloud != nil {
		ai, aj := v.plane.Axes()
		for _, p := range cloud.Points {
			s := v.worldToScreen(geometry.NewVector2(p.Axis(ai), p.Axis(aj)))
			rl.DrawPixelV(s, pointColor)
		}
	}

	classes, _ := app.Session.store.Classes(app.Session.frame)
	for i, p := range app.frameLabels() {
		color := defaultColor
		caption := ""
		if i < len(classes) {
			color = classColor(classes[i])
			caption = classes[i]
		}

		proj := geometry.Project(p.Box.Corners(), v.plane)
		rect := geometry.BoundingRect(proj[:])
		if app.liveEdit(i, v.plane) {
			rect = app.Edit.dragRect.Normalized()
		}

		screen := v.rectToScreen(rect)
		rl.DrawRectangleLinesEx(screen, 2, color)
		rl.DrawText(caption, int32(screen.X), int32(screen.Y)-14, 12, color)

		if i == app.Edit.selected {
			for _, h := range handlePoints(screen) {
				rl.DrawRectangle(int32(h.X)-3, int32(h.Y)-3, 6, 6, color)
			}
		}
	}
}

// liveEdit reports whether the label's rectangle in this plane is being
// dragged right now, in which case the in-flight rectangle is shown instead
// of the stored one
func (app *App) liveEdit(labelIdx int, plane geometry.Plane) bool {
	return app.Edit.gesture == gestureRectDrag &&
		app.Edit.selected == labelIdx &&
		app.Edit.dragPlane == plane
}

// handlePoints returns the eight drag-handle positions of a screen rectangle
// in handle-constant order: corners first, then edge midpoints
func handlePoints(r rl.Rectangle) [8]rl.Vector2 {
	return [8]rl.Vector2{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
		{X: r.X + r.Width/2, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height/2},
		{X: r.X + r.Width/2, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height/2},
	}
}

// drawPanel renders the control column: frame info, rotation slider, label
// list, status and key help
func (app *App) drawPanel() {
	b := app.panelBounds()
	x := int32(b.X) + 12
	y := int32(b.Y) + 10

	total := app.Session.store.FrameCount()
	header := fmt.Sprintf("Frame %d / %d", app.Session.frame+1, total)
	if app.Session.dirty {
		header += " *"
	}
	rl.DrawText(header, x, y, 16, rl.RayWhite)
	y += 20
	rl.DrawText(app.Session.cloudFile, x, y, 12, rl.Gray)
	y += 24

	rl.DrawText("Rotate bbox (deg)", x, y, 14, rl.RayWhite)
	y += 18
	slider := app.sliderBounds()
	rl.DrawRectangleRec(slider, gridColor)
	knobX := slider.X + slider.Width*float32(app.Edit.rotationDeg/360)
	rl.DrawRectangle(int32(knobX)-3, int32(slider.Y)-3, 6, int32(slider.Height)+6, rl.RayWhite)
	rl.DrawText(fmt.Sprintf("%.0f", app.Edit.rotationDeg), int32(slider.X+slider.Width)+8, int32(slider.Y)-2, 12, rl.Gray)
	y += 28

	rl.DrawText("Labels", x, y, 14, rl.RayWhite)
	y += 18
	classes, _ := app.Session.store.Classes(app.Session.frame)
	for i, item := range app.labelItemBounds(len(classes)) {
		color := classColor(classes[i])
		if i == app.Edit.selected {
			rl.DrawRectangleRec(item, rl.Color{R: 50, G: 50, B: 60, A: 255})
		}
		rl.DrawText(classes[i], int32(item.X)+4, int32(item.Y)+3, 14, color)
	}

	help := "arrows: frame  tab: select  drag: edit\nn: add  r: rename  d: delete  s: save"
	rl.DrawText(help, x, int32(b.Y+b.Height)-64, 12, rl.Gray)

	if app.UI.status != "" {
		rl.DrawText(app.UI.status, 10, int32(rl.GetScreenHeight())-18, 12, rl.Yellow)
	}
	if app.UI.reloadNotice {
		rl.DrawText("annotation file changed on disk - press F5 to reload", 10, int32(rl.GetScreenHeight())-34, 12, rl.Orange)
	}
}

// sliderBounds returns the rotation slider's track rectangle
func (app *App) sliderBounds() rl.Rectangle {
	b := app.panelBounds()
	return rl.Rectangle{X: b.X + 12, Y: b.Y + 52, Width: b.Width - 70, Height: 10}
}

// labelItemBounds returns the clickable rectangle of each label list entry
func (app *App) labelItemBounds(count int) []rl.Rectangle {
	b := app.panelBounds()
	items := make([]rl.Rectangle, count)
	for i := range items {
		items[i] = rl.Rectangle{
			X:      b.X + 12,
			Y:      b.Y + 100 + float32(i)*20,
			Width:  b.Width - 24,
			Height: 18,
		}
	}
	return items
}

// drawOverlays renders the modal text prompt or confirmation, when active
func (app *App) drawOverlays() {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	if app.UI.textActive {
		box := rl.Rectangle{X: w/2 - 180, Y: h/2 - 40, Width: 360, Height: 80}
		rl.DrawRectangleRec(box, rl.Color{R: 0, G: 0, B: 0, A: 220})
		rl.DrawRectangleLinesEx(box, 1, rl.RayWhite)
		rl.DrawText(app.UI.textPrompt, int32(box.X)+12, int32(box.Y)+10, 14, rl.RayWhite)
		rl.DrawText(app.UI.textBuffer+"_", int32(box.X)+12, int32(box.Y)+38, 16, rl.Yellow)
		return
	}
	if app.UI.confirmActive {
		box := rl.Rectangle{X: w/2 - 180, Y: h/2 - 30, Width: 360, Height: 60}
		rl.DrawRectangleRec(box, rl.Color{R: 0, G: 0, B: 0, A: 220})
		rl.DrawRectangleLinesEx(box, 1, rl.RayWhite)
		rl.DrawText(app.UI.confirmText, int32(box.X)+12, int32(box.Y)+10, 14, rl.RayWhite)
		rl.DrawText("y: yes   n: no", int32(box.X)+12, int32(box.Y)+32, 14, rl.Gray)
	}
}
