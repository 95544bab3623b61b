package runtime

import (
	"context"
	"time"
)

// autosaveLoop fires every interval while the session is dirty. A failed
// save leaves Dirty set, so the next tick retries it without losing the
// flag; a save that succeeds clears Dirty only if no edit landed since the
// snapshot was taken.
//
// The loop is owned by the engine instance and dies on Cancel/Complete/
// Close. It does not depend on any UI lifecycle.
func (e *Engine) autosaveLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopAutosave:
			return
		case <-ticker.C:
			e.autosaveTick()
		}
	}
}

func (e *Engine) autosaveTick() {
	e.mu.Lock()
	if e.closed || !e.state.Dirty || e.state.Saving {
		e.mu.Unlock()
		return
	}
	snapshot := e.snapshotLocked()
	gen := e.dirtyGen
	e.state.Saving = true
	e.saveWG.Add(1)
	e.mu.Unlock()
	defer e.saveWG.Done()

	// Outcome and dirty-flag bookkeeping happen inside persistSnapshot.
	// A total failure is non-fatal: the user keeps typing and the next
	// tick tries again.
	_, _ = e.persistSnapshot(context.Background(), snapshot, gen)
}

// stopAutosaveLoop is safe to call multiple times and with no loop running.
func (e *Engine) stopAutosaveLoop() {
	e.autosaveOnce.Do(func() {
		close(e.stopAutosave)
	})
}
