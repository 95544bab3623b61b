package runtime

import (
	"context"
	"fmt"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/schema"
)

// CompletionError reports a failed full-document validation. The engine
// has already moved the session to the first invalid step and populated
// its field errors when this is returned.
type CompletionError struct {
	FirstInvalidStep string
	Result           schema.DocumentResult
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("document validation failed, first invalid step: %s", e.FirstInvalidStep)
}

// Complete runs strict full-document validation and, on success, hands the
// assembled document to the completion collaborator. The draft is deleted
// only after the collaborator returns nil; any error from it propagates
// unmodified and leaves the draft intact, so a failed final submit never
// loses data.
func (e *Engine) Complete(ctx context.Context) (domain.Document, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return domain.Document{}, domain.ErrEngineClosed
	}
	data := e.state.Clone().Data
	e.mu.Unlock()

	docRes := schema.ValidateDocument(e.config.Document, data)
	if !docRes.Valid {
		return domain.Document{}, e.failCompletion(docRes)
	}

	doc := domain.AssembleDocument(data, e.now())
	doc.Status = domain.StatusPublished
	if doc.ID == "" {
		e.mu.Lock()
		doc.ID = e.state.DraftID
		e.mu.Unlock()
	}

	if e.onComplete != nil {
		if err := e.onComplete(ctx, doc); err != nil {
			// Surface unmodified; the draft stays for a later retry.
			e.track(domain.EventError, map[string]any{"op": "complete", "message": err.Error()}, "")
			return domain.Document{}, err
		}
	}

	// Success path only: the draft has served its purpose.
	e.mu.Lock()
	draftID := e.state.DraftID
	e.completed = true
	e.closed = true
	e.mu.Unlock()
	e.stopAutosaveLoop()

	// A background save still in flight must land before the delete,
	// otherwise a slow write re-creates the draft we are about to remove.
	e.saveWG.Wait()

	if draftID != "" {
		if err := e.store.Delete(ctx, e.config.Kind, e.userID, draftID); err != nil {
			e.logger.Warn("failed to delete draft after completion", "draft_id", draftID, "err", err)
		}
	}

	e.track(domain.EventWizardCompleted, map[string]any{"draftId": draftID}, "")
	return doc, nil
}

// failCompletion distributes document-level failures onto the session and
// jumps to the first invalid step so the UI lands where the fix is.
func (e *Engine) failCompletion(docRes schema.DocumentResult) error {
	firstInvalid := ""

	e.mu.Lock()
	for _, step := range e.config.Steps {
		res, ok := docRes.StepResults[step.ID]
		if !ok {
			continue
		}
		if !res.Valid {
			e.state.FieldErrors[step.ID] = res.Errors
			if firstInvalid == "" {
				firstInvalid = step.ID
			}
		}
	}

	// Cross-rule failures have no owning step schema; attribute each to
	// the first step that declares the field, or the first step at all.
	for field, msgs := range docRes.CrossErrors {
		stepID := e.stepOwningField(field)
		if e.state.FieldErrors[stepID] == nil {
			e.state.FieldErrors[stepID] = make(map[string][]string)
		}
		e.state.FieldErrors[stepID][field] = append(e.state.FieldErrors[stepID][field], msgs...)
		if firstInvalid == "" || e.config.StepIndex(stepID) < e.config.StepIndex(firstInvalid) {
			firstInvalid = stepID
		}
	}

	if firstInvalid != "" {
		e.state.CurrentStepIndex = e.config.StepIndex(firstInvalid)
		e.state.CurrentStepID = firstInvalid
	}
	e.mu.Unlock()

	if e.recorder != nil && firstInvalid != "" {
		e.recorder.TrackValidationFailure(firstInvalid, docRes.StepResults[firstInvalid].Errors)
	}

	return &CompletionError{FirstInvalidStep: firstInvalid, Result: docRes}
}

func (e *Engine) stepOwningField(field string) string {
	for _, step := range e.config.Steps {
		if step.Schema == nil {
			continue
		}
		if _, ok := step.Schema.Fields[field]; ok {
			return step.ID
		}
	}
	return e.config.Steps[0].ID
}

// Cancel ends the session without completing: no further autosave fires,
// and the existing draft is retained as-is for a future resume. An
// in-flight autosave is allowed to finish in the background.
func (e *Engine) Cancel() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.stopAutosaveLoop()
	e.track(domain.EventWizardCancelled, nil, "")
}

// Close releases the engine: stops the autosave loop and waits for
// in-flight saves. Idempotent.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	e.stopAutosaveLoop()
	e.saveWG.Wait()
}

// Completed reports whether the wizard finished successfully.
func (e *Engine) Completed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.completed
}
