package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/golabel/pkg/geometry"
)

// toScene maps a world point (Z up) into raylib's Y-up scene space
func toScene(v geometry.Vector3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Z), Z: float32(v.Y)}
}

// resetCamera centers the orbit on the active cloud
func (app *App) resetCamera() {
	app.Camera.target = toScene(app.Session.centroid)
	if app.Camera.distance == 0 {
		app.Camera.distance = 20
		app.Camera.angleX = 0.5
		app.Camera.angleY = 0.8
	}
	if app.Session.cloud != nil && app.Session.cloud.Len() > 0 {
		min, max := app.Session.cloud.Bounds()
		span := max.Sub(min).Length()
		if span > 0 {
			app.Camera.distance = float32(span)
		}
	}
	app.Camera.camera.Up = rl.Vector3{Y: 1}
	app.Camera.camera.Fovy = 45
	app.Camera.camera.Projection = rl.CameraPerspective
}

// orbit adjusts the camera angles from a mouse drag delta
func (app *App) orbit(delta rl.Vector2) {
	app.Camera.angleY += delta.X * 0.005
	app.Camera.angleX += delta.Y * 0.005

	limit := float32(math.Pi/2 - 0.01)
	if app.Camera.angleX > limit {
		app.Camera.angleX = limit
	}
	if app.Camera.angleX < -limit {
		app.Camera.angleX = -limit
	}
}

// zoom scales the orbit distance from mouse-wheel movement
func (app *App) zoom(wheel float32) {
	app.Camera.distance *= 1 - wheel*0.1
	if app.Camera.distance < 0.5 {
		app.Camera.distance = 0.5
	}
}

// updateCamera recomputes the camera position from angles and distance
func (app *App) updateCamera() {
	x := app.Camera.distance * float32(math.Cos(float64(app.Camera.angleX))) * float32(math.Sin(float64(app.Camera.angleY)))
	y := app.Camera.distance * float32(math.Sin(float64(app.Camera.angleX)))
	z := app.Camera.distance * float32(math.Cos(float64(app.Camera.angleX))) * float32(math.Cos(float64(app.Camera.angleY)))

	app.Camera.camera.Position = rl.Vector3{
		X: app.Camera.target.X + x,
		Y: app.Camera.target.Y + y,
		Z: app.Camera.target.Z + z,
	}
	app.Camera.camera.Target = app.Camera.target
}
