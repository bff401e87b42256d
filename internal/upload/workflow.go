// Package upload drives the single-flight submission workflow: file
// ingestion, best-effort preview, submission to the processing service,
// response interpretation by the task kind captured at submit time, and the
// history append on classification success.
package upload

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	slogctx "github.com/veqryn/slog-context"

	"github.com/medicoin/imaging-client/internal/apiclient"
	"github.com/medicoin/imaging-client/internal/history"
	"github.com/medicoin/imaging-client/internal/processing"
	"github.com/medicoin/imaging-client/internal/serviceerr"
)

const processPath = "/process"

// File is an ingested image. Picker and drag-and-drop ingestion both arrive
// here; the workflow does not distinguish them.
type File struct {
	Name    string
	Content []byte
}

// Workflow is one submission state machine. At most one submission is in
// flight per instance at any time.
type Workflow struct {
	api     *apiclient.Client
	history *history.Store

	mu         sync.Mutex
	state      State
	task       processing.TaskKind
	file       *File
	preview    *Preview
	result     *processing.Result
	lastErr    error
	generation int
	closed     bool
}

func NewWorkflow(ctx context.Context, api *apiclient.Client, historyStore *history.Store) *Workflow {
	initMeters(ctx)

	return &Workflow{
		api:     api,
		history: historyStore,
		state:   StateIdle,
		task:    processing.TaskClassification,
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.state
}

func (w *Workflow) Task() processing.TaskKind {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.task
}

// Preview returns the derived preview, or nil while none has been generated.
func (w *Workflow) Preview() *Preview {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.preview
}

// Result returns the result of the last successful submission, or nil.
func (w *Workflow) Result() *processing.Result {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.result
}

// Err returns the error captured by the last Failed transition, or nil.
func (w *Workflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.lastErr
}

// SelectFile ingests a file and clears any prior result and error. The
// preview is derived asynchronously and never blocks or fails the
// FileSelected transition.
func (w *Workflow) SelectFile(ctx context.Context, name string, content []byte) error {
	w.mu.Lock()

	if w.state == StateSubmitting {
		w.mu.Unlock()
		return serviceerr.ErrSubmissionInFlight
	}

	if err := w.transitionLocked(StateFileSelected); err != nil {
		w.mu.Unlock()
		return err
	}

	w.file = &File{Name: name, Content: content}
	w.preview = nil
	w.result = nil
	w.lastErr = nil
	w.generation++
	generation := w.generation
	w.mu.Unlock()

	go w.generatePreview(ctx, generation, content)

	return nil
}

// SelectTask switches the analysis mode, clearing any prior result and error
// but never the selected file.
func (w *Workflow) SelectTask(task processing.TaskKind) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSubmitting {
		return serviceerr.ErrSubmissionInFlight
	}

	w.task = task
	w.result = nil
	w.lastErr = nil
	if IsTerminal(w.state) && w.file != nil {
		_ = w.transitionLocked(StateFileSelected)
	}

	return nil
}

// Close marks the workflow disposed. In-flight asynchronous completions are
// discarded silently instead of being applied to a disposed instance.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
}

// Submit sends the selected file for processing. Submitting with no file, or
// while another submission is in flight, is rejected locally and never
// reaches the network. The task kind is captured here, so a selector change
// while the request is in flight cannot change how the response is read.
func (w *Workflow) Submit(ctx context.Context) (*processing.Result, error) {
	w.mu.Lock()

	if w.state == StateSubmitting {
		w.mu.Unlock()
		return nil, serviceerr.ErrSubmissionInFlight
	}

	if w.file == nil {
		w.lastErr = serviceerr.ErrNoFileSelected
		_ = w.transitionLocked(StateFailed)
		w.mu.Unlock()

		return nil, serviceerr.ErrNoFileSelected
	}

	task := w.task
	file := *w.file
	w.result = nil
	w.lastErr = nil
	if err := w.transitionLocked(StateSubmitting); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	generation := w.generation
	w.mu.Unlock()

	ctx = slogctx.With(ctx, "submission_id", uuid.NewString(), "task", string(task), "file", file.Name)

	var span trace.Span
	if tracer != nil {
		ctx, span = tracer.Start(ctx, "process-submission", trace.WithAttributes(attribute.String("task", string(task))))
		defer span.End()
	}

	start := time.Now()
	slogctx.Info(ctx, "Submitting the image for processing")

	result, err := w.send(ctx, task, file)

	outcome := "succeeded"
	if err != nil {
		outcome = "failed"
	}
	recordSubmission(ctx, string(task), outcome, time.Since(start).Milliseconds())

	// The history append must be observable no later than the Succeeded
	// transition. A failed append is logged, not fatal: the result itself
	// is still valid.
	if err == nil && task == processing.TaskClassification {
		if appendErr := w.history.Append(ctx, *result.Classification); appendErr != nil {
			slogctx.Warn(ctx, "Failed to append the result to history", "error", appendErr)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// A disposed workflow, or one whose file changed mid-flight, discards
	// the completion instead of applying it to replaced state.
	if w.closed || w.generation != generation {
		slogctx.Debug(ctx, "Discarding a stale submission completion")
		return result, err
	}

	if err != nil {
		slogctx.Warn(ctx, "Submission failed", "error", err)
		w.lastErr = err
		_ = w.transitionLocked(StateFailed)

		return nil, err
	}

	slogctx.Info(ctx, "Submission succeeded")
	w.result = result
	_ = w.transitionLocked(StateSucceeded)

	return result, nil
}

// send performs the upload and interprets the response strictly by the
// captured task kind: segmentation expects a binary image, classification a
// structured JSON body.
func (w *Workflow) send(ctx context.Context, task processing.TaskKind, file File) (*processing.Result, error) {
	resp, err := w.api.PostMultipart(ctx, processPath,
		map[string]string{"task": string(task)},
		apiclient.FilePart{FieldName: "file", FileName: file.Name, Content: file.Content},
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch task {
	case processing.TaskSegmentation:
		image, err := processing.DecodeSegmentation(resp.Header.Get("Content-Type"), resp.Body)
		if err != nil {
			return nil, err
		}

		return &processing.Result{Task: task, Image: image}, nil
	default:
		result, err := processing.DecodeClassification(resp.Body)
		if err != nil {
			return nil, err
		}

		return &processing.Result{Task: task, Classification: &result}, nil
	}
}

func (w *Workflow) generatePreview(ctx context.Context, generation int, content []byte) {
	w.mu.Lock()
	if w.closed || w.generation != generation || w.state != StateFileSelected {
		w.mu.Unlock()
		return
	}
	_ = w.transitionLocked(StatePreviewing)
	w.mu.Unlock()

	preview, err := buildPreview(content)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.generation != generation {
		return
	}
	if w.state == StatePreviewing {
		_ = w.transitionLocked(StateFileSelected)
	}
	if err != nil {
		slogctx.Debug(ctx, "Preview generation failed, the file remains submittable", "error", err)
		return
	}
	w.preview = preview
}
