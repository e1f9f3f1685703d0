// Package app is the interactive label editor: it sequences frame
// navigation, label selection and edit gestures, and renders the 3-D scene
// plus three orthogonal 2-D projections with raylib. All annotation state
// lives in the label store; everything drawn is recomputed from it.
package app

import (
	"fmt"
	"log"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/golabel/pkg/label"
	"github.com/philipparndt/golabel/pkg/reconcile"
	"github.com/philipparndt/golabel/pkg/watcher"
)

const (
	windowWidth      = 1400
	windowHeight     = 900
	watchDebounce    = 300 * time.Millisecond
	defaultPointSize = 0.03
)

// Options configures an editing session
type Options struct {
	LabelPath string
	CloudDir  string
	Cutoff    float64 // fuzzy-match cutoff for reconciliation and lookup
	PointSize float64 // world-unit size of inside-point highlight markers
	SkipSync  bool    // skip the reconciliation pass before the session
}

// Run reconciles the label file, loads the session and enters the editor
// loop. It returns when the window is closed.
func Run(opts Options) error {
	if opts.Cutoff == 0 {
		opts.Cutoff = reconcile.DefaultCutoff
	}
	if opts.PointSize <= 0 {
		opts.PointSize = defaultPointSize
	}

	if !opts.SkipSync {
		n, err := reconcile.Sync(opts.LabelPath, opts.CloudDir, opts.Cutoff)
		switch {
		case err == nil:
			log.Printf("reconciled %d records in %s", n, opts.LabelPath)
		case reconcile.IsReconciliationError(err):
			// the session may still proceed on the unreconciled data;
			// per-frame lookup falls back to fuzzy matching
			log.Printf("reconciliation skipped: %v", err)
		default:
			return err
		}
	}

	store, err := label.Load(opts.LabelPath)
	if err != nil {
		return err
	}
	if store.FrameCount() == 0 {
		return fmt.Errorf("%s contains no records", opts.LabelPath)
	}

	app := &App{
		Session: SessionState{
			store:    store,
			cloudDir: opts.CloudDir,
			cutoff:   opts.Cutoff,
			frame:    -1,
		},
		Edit:      EditState{selected: -1},
		pointSize: float32(opts.PointSize),
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "golabel")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	rl.SetExitKey(0) // Escape is used by the modal prompts

	app.layout()
	if err := app.loadFrame(0); err != nil {
		return fmt.Errorf("cannot display first frame: %w", err)
	}

	app.startWatcher()
	defer app.stopWatcher()

	for !rl.WindowShouldClose() {
		app.layout()
		if app.fileChanged.Swap(false) {
			app.UI.reloadNotice = true
		}
		app.handleInput()
		app.render()
	}
	return nil
}

// startWatcher flags external rewrites of the annotation file, e.g. by a
// second reconciliation run. Watching is best-effort; failure only disables
// the reload notice.
func (app *App) startWatcher() {
	w, err := watcher.NewFileWatcher(watchDebounce)
	if err != nil {
		log.Printf("file watching disabled: %v", err)
		return
	}
	if err := w.Watch(app.Session.store.Path(), func(string) {
		app.fileChanged.Store(true)
	}); err != nil {
		log.Printf("file watching disabled: %v", err)
		w.Close()
		return
	}
	w.Start()
	app.watch = w
}

func (app *App) stopWatcher() {
	if app.watch != nil {
		app.watch.Close()
	}
}
