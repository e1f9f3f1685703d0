package app

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/philipparndt/golabel/pkg/label"
	"github.com/philipparndt/golabel/pkg/pcd"
	"github.com/philipparndt/golabel/pkg/reconcile"
)

// loadFrame resolves and loads the point cloud for a frame, then commits the
// navigation. Everything that can fail happens before any session state
// changes, so a failed load leaves the previous frame fully intact.
func (app *App) loadFrame(idx int) error {
	fileRef, err := app.Session.store.File(idx)
	if err != nil {
		return err
	}
	cloudFile, err := reconcile.FindCloud(app.Session.cloudDir, fileRef, app.Session.cutoff)
	if err != nil {
		return err
	}
	cloud, err := pcd.Parse(filepath.Join(app.Session.cloudDir, cloudFile))
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cloudFile, err)
	}

	app.Session.frame = idx
	app.Session.cloud = cloud
	app.Session.cloudFile = cloudFile
	app.Session.centroid = cloud.Centroid()

	count, _ := app.Session.store.LabelCount(idx)
	if count > 0 {
		app.Edit.selected = 0
	} else {
		app.Edit.selected = -1
	}
	app.Edit.gesture = gestureIdle
	app.syncRotationControl()
	app.resetCamera()
	app.fitViews()
	return nil
}

// gotoFrame navigates to another frame. Out-of-range indices are ignored; a
// load failure keeps the current frame visible and reports the problem.
func (app *App) gotoFrame(idx int) {
	if idx == app.Session.frame || idx < 0 || idx >= app.Session.store.FrameCount() {
		return
	}
	if err := app.loadFrame(idx); err != nil {
		log.Printf("cannot display frame %d: %v", idx, err)
		app.UI.status = fmt.Sprintf("frame %d unavailable: %v", idx, err)
	}
}

// selectLabel changes the selected label and resynchronizes the rotation
// control from the store
func (app *App) selectLabel(idx int) {
	count, err := app.Session.store.LabelCount(app.Session.frame)
	if err != nil || idx < 0 || idx >= count {
		return
	}
	app.Edit.selected = idx
	app.syncRotationControl()
}

// cycleSelection moves the selection to the next label, wrapping around
func (app *App) cycleSelection() {
	count, _ := app.Session.store.LabelCount(app.Session.frame)
	if count == 0 {
		return
	}
	app.selectLabel((app.Edit.selected + 1) % count)
}

// suggestedName proposes a class name for a new label, following the
// numbering the known palette uses
func (app *App) suggestedName() string {
	count, _ := app.Session.store.LabelCount(app.Session.frame)
	return fmt.Sprintf("human%d", count+1)
}

// addLabel appends a label with a default unit box at the cloud centroid and
// selects it
func (app *App) addLabel(name string) {
	idx, err := app.Session.store.AddLabel(app.Session.frame, name, app.Session.centroid)
	if err != nil {
		log.Printf("add label failed: %v", err)
		return
	}
	app.Edit.selected = idx
	app.syncRotationControl()
	app.Session.dirty = true
	app.UI.status = fmt.Sprintf("added %q", name)
}

// deleteSelected removes the selected label. Later labels shift down one
// index, so the selection is clamped afterwards.
func (app *App) deleteSelected() {
	if app.Edit.selected < 0 {
		return
	}
	if err := app.Session.store.DeleteLabel(app.Session.frame, app.Edit.selected); err != nil {
		log.Printf("delete label failed: %v", err)
		return
	}
	count, _ := app.Session.store.LabelCount(app.Session.frame)
	if app.Edit.selected >= count {
		app.Edit.selected = count - 1
	}
	app.syncRotationControl()
	app.Session.dirty = true
}

// renameSelected changes the selected label's class name. Geometry is not
// touched; captions pick up the new name on the next redraw.
func (app *App) renameSelected(name string) {
	if app.Edit.selected < 0 {
		return
	}
	if err := app.Session.store.RenameLabel(app.Session.frame, app.Edit.selected, name); err != nil {
		log.Printf("rename label failed: %v", err)
		return
	}
	app.Session.dirty = true
}

// save writes the session to the derived "_edited" file, leaving the
// original input untouched
func (app *App) save() {
	out, err := app.Session.store.Save()
	if err != nil {
		log.Printf("save failed: %v", err)
		app.UI.status = "save failed: " + err.Error()
		return
	}
	app.Session.dirty = false
	app.UI.status = "saved " + out
}

// reloadFromDisk re-reads the annotation file after an external change.
// In-memory edits are discarded; the caller is expected to have confirmed.
func (app *App) reloadFromDisk() {
	store, err := label.Load(app.Session.store.Path())
	if err != nil {
		log.Printf("reload failed: %v", err)
		app.UI.status = "reload failed: " + err.Error()
		return
	}
	app.Session.store = store
	app.UI.reloadNotice = false
	app.Session.dirty = false

	idx := app.Session.frame
	if idx >= store.FrameCount() {
		idx = store.FrameCount() - 1
	}
	if idx < 0 {
		app.UI.status = "annotation file is empty after reload"
		return
	}
	if err := app.loadFrame(idx); err != nil {
		log.Printf("cannot display frame %d after reload: %v", idx, err)
		app.UI.status = fmt.Sprintf("frame %d unavailable: %v", idx, err)
		return
	}
	app.UI.status = "reloaded from disk"
}
