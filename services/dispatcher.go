package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Action selects what a submitted job does.
type Action string

const (
	// ActionFastPreview renders the HTML preview and returns it as the
	// result payload.
	ActionFastPreview Action = "fast_preview"
	// ActionSaveDocument renders the structured document to the job's
	// output path.
	ActionSaveDocument Action = "save_document"
	// ActionSavePDF renders the document to a scratch location, converts
	// it to PDF at the output path, then removes the scratch file.
	ActionSavePDF Action = "save_document_as_pdf"
)

// Result is the single completion signal of a submitted job.
type Result struct {
	OK       bool
	Canceled bool
	Message  string
	Payload  string
}

type job struct {
	record BillRecord
	action Action
	output string
	done   chan Result
}

// Dispatcher runs render and export jobs on a single background worker so
// the caller never blocks. Each submission carries its own record snapshot;
// jobs execute one at a time in submission order and emit exactly one
// Result each.
type Dispatcher struct {
	renderer  *DocRenderer
	converter Converter

	jobs      chan job
	closeOnce sync.Once

	// mu guards closed and orders submissions against Close, so a Submit
	// racing shutdown gets a failure Result instead of a send on a closed
	// channel.
	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts the worker goroutine. Close releases it.
func NewDispatcher(renderer *DocRenderer, converter Converter) *Dispatcher {
	d := &Dispatcher{
		renderer:  renderer,
		converter: converter,
		jobs:      make(chan job, 16),
	}
	go d.worker()
	return d
}

// Close stops the worker after any queued jobs finish.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.jobs)
		d.mu.Unlock()
	})
}

// Submit enqueues a job against a snapshot of the record and returns
// immediately. The returned channel delivers exactly one Result. A closed
// dispatcher or a full queue yields a failure Result instead of blocking.
// outputPath is ignored for fast-preview jobs.
func (d *Dispatcher) Submit(rec BillRecord, action Action, outputPath string) <-chan Result {
	done := make(chan Result, 1)
	j := job{record: rec, action: action, output: outputPath, done: done}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		done <- Result{Message: "report engine is shutting down"}
		close(done)
		return done
	}
	select {
	case d.jobs <- j:
	default:
		done <- Result{Message: "too many pending jobs, try again shortly"}
		close(done)
	}
	return done
}

func (d *Dispatcher) worker() {
	for j := range d.jobs {
		j.done <- d.run(j)
		close(j.done)
	}
}

// run executes one job. Panics are converted to a generic failure so the
// worker survives any renderer bug.
func (d *Dispatcher) run(j job) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("dispatcher: job %s panicked: %v", j.action, r)
			res = Result{Message: "report generation failed unexpectedly"}
		}
	}()

	rec := j.record
	rec.Gather()
	rep := BuildReport(&rec)

	switch j.action {
	case ActionFastPreview:
		html, err := RenderPreview(&rec, rep)
		if err != nil {
			return Result{Message: err.Error()}
		}
		return Result{OK: true, Message: "preview ready", Payload: html}

	case ActionSaveDocument:
		if err := d.renderer.Render(&rec, rep, j.output); err != nil {
			return Result{Message: err.Error()}
		}
		return Result{OK: true, Message: "document saved", Payload: j.output}

	case ActionSavePDF:
		if err := d.renderPDF(&rec, rep, j.output); err != nil {
			return Result{Message: err.Error()}
		}
		return Result{OK: true, Message: "PDF saved", Payload: j.output}

	default:
		return Result{Message: fmt.Sprintf("unknown action %q", j.action)}
	}
}

// renderPDF writes the document to a scratch file, converts it, and deletes
// the scratch file on success and on failure alike.
func (d *Dispatcher) renderPDF(rec *BillRecord, rep *Report, pdfPath string) error {
	scratch := filepath.Join(os.TempDir(), "billgen-"+uuid.NewString()+".docx")
	RegisterTempFile(scratch)
	defer func() {
		if err := os.Remove(scratch); err != nil && !os.IsNotExist(err) {
			log.Printf("dispatcher: remove scratch document: %v", err)
		}
	}()

	if err := d.renderer.Render(rec, rep, scratch); err != nil {
		return err
	}
	return d.converter.Convert(ConvertJob{
		DocPath: scratch,
		PDFPath: pdfPath,
		Record:  rec,
		Report:  rep,
	})
}

// ExportAll writes the document, PDF and spreadsheet for the record into
// dir, checking ctx between steps. A cancellation stops before the next
// step starts, removes the current step's partial output, and yields a
// distinct canceled outcome rather than an error. ExportAll runs on the
// caller's goroutine: it is the multi-step batch path, not a queued job.
func (d *Dispatcher) ExportAll(ctx context.Context, rec BillRecord, dir string) Result {
	rec.Gather()
	rep := BuildReport(&rec)

	base := rec.Name
	if base == "" {
		base = "bill"
	}

	steps := []struct {
		path string
		run  func(path string) error
	}{
		{filepath.Join(dir, base+".docx"), func(path string) error {
			return d.renderer.Render(&rec, rep, path)
		}},
		{filepath.Join(dir, base+".pdf"), func(path string) error {
			return d.renderPDF(&rec, rep, path)
		}},
		{filepath.Join(dir, base+".xlsx"), func(path string) error {
			data, err := GenerateLineItemsExcel(&rec)
			if err != nil {
				return err
			}
			return os.WriteFile(path, data, 0o644)
		}},
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return Result{Canceled: true, Message: fmt.Sprintf("export canceled after %d of %d files", i, len(steps))}
		}
		if err := step.run(step.path); err != nil {
			if rmErr := os.Remove(step.path); rmErr != nil && !os.IsNotExist(rmErr) {
				log.Printf("dispatcher: remove partial export %s: %v", step.path, rmErr)
			}
			return Result{Message: fmt.Sprintf("export %s: %v", filepath.Base(step.path), err)}
		}
	}
	return Result{OK: true, Message: fmt.Sprintf("exported %d files", len(steps)), Payload: dir}
}

// tempFiles is the process-wide registry of scratch artifacts; per-job
// cleanup already removes them, this is the shutdown safety net.
var (
	tempFilesMu sync.Mutex
	tempFiles   = map[string]struct{}{}
)

// RegisterTempFile records a scratch path for removal at shutdown.
func RegisterTempFile(path string) {
	tempFilesMu.Lock()
	defer tempFilesMu.Unlock()
	tempFiles[path] = struct{}{}
}

// CleanupTempFiles removes every registered scratch file that still exists.
// Called once at process shutdown.
func CleanupTempFiles() {
	tempFilesMu.Lock()
	defer tempFilesMu.Unlock()
	for path := range tempFiles {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("dispatcher: cleanup temp file %s: %v", path, err)
		}
		delete(tempFiles, path)
	}
}
