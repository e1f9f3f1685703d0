package app

import (
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/philipparndt/golabel/pkg/label"
	"github.com/philipparndt/golabel/pkg/pcd"
	"github.com/philipparndt/golabel/pkg/watcher"
)

// SessionState holds the annotation store and the currently displayed frame.
// The store is the single source of truth; cloud, cloudFile and centroid are
// per-frame derived data replaced wholesale on navigation.
type SessionState struct {
	store     *label.Store
	cloudDir  string
	cutoff    float64
	frame     int
	cloud     *pcd.Cloud
	cloudFile string
	centroid  geometry.Vector3
	dirty     bool // unsaved edits exist
}

// CameraState holds all 3-D camera state
type CameraState struct {
	camera   rl.Camera3D
	distance float32
	angleX   float32
	angleY   float32
	target   rl.Vector3
}

// Edit gestures. Every mutation runs synchronously on the interaction
// thread; a gesture either commits fully or not at all.
const (
	gestureIdle = iota
	gestureRectDrag
	gestureRotate
)

// Rectangle drag handles: four corners, four edge midpoints, whole-rectangle
// move. handleNone means the hit test missed.
const (
	handleNone    = -1
	handleTopLeft = iota - 1
	handleTopRight
	handleBottomRight
	handleBottomLeft
	handleTop
	handleRight
	handleBottom
	handleLeft
	handleMove
)

// EditState holds label selection and the in-flight edit gesture
type EditState struct {
	selected    int // selected label index within the frame, -1 when none
	gesture     int
	dragPlane   geometry.Plane
	dragHandle  int
	dragRect    geometry.Rect    // live rectangle in world units while dragging
	grabOffset  geometry.Vector2 // pointer offset from dragRect.Min for moves
	rotationDeg float64          // rotation control display value, [0,360)
}

// Text prompt actions
const (
	actionAddLabel = iota
	actionRenameLabel
)

// UIState holds transient interface state: prompts, confirmations and the
// status line
type UIState struct {
	textActive    bool
	textPrompt    string
	textBuffer    string
	textAction    int
	confirmActive bool
	confirmText   string
	status        string
	reloadNotice  bool
}

// planeView maps one 2-D projection plane to a screen viewport
type planeView struct {
	plane  geometry.Plane
	bounds rl.Rectangle
	scale  float64          // pixels per world unit
	center geometry.Vector2 // world point shown at the viewport center
}

// App is the editor: session, camera, edit and interface state plus the
// three 2-D views
type App struct {
	Session SessionState
	Camera  CameraState
	Edit    EditState
	UI      UIState

	views     [3]planeView
	watch     *watcher.FileWatcher
	pointSize float32 // world-unit edge of inside-point highlight cubes

	// set from the watcher goroutine, drained on the interaction thread
	fileChanged atomic.Bool
}
