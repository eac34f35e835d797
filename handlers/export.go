package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"billgen/collections"
	"billgen/services"
)

// HandlePreview returns a handler that renders the working record's HTML
// preview through the dispatcher, so generation never runs on the request
// path's own goroutine pool unbounded.
func HandlePreview(app *pocketbase.PocketBase, d *services.Dispatcher) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec := collections.LoadLastActive(app)
		res := <-d.Submit(rec, services.ActionFastPreview, "")
		if !res.OK {
			log.Printf("preview: %s", res.Message)
			return ErrorToast(e, http.StatusInternalServerError, res.Message)
		}
		return e.HTML(http.StatusOK, res.Payload)
	}
}

// HandleExportDocument returns a handler that generates and downloads the
// filled document for the working record.
func HandleExportDocument(app *pocketbase.PocketBase, d *services.Dispatcher) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec := collections.LoadLastActive(app)
		if len(rec.Items) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "Add at least one item before exporting")
		}

		scratch := scratchPath(".docx")
		defer removeScratch(scratch)

		res := <-d.Submit(rec, services.ActionSaveDocument, scratch)
		if !res.OK {
			log.Printf("export_document: %s", res.Message)
			return ErrorToast(e, http.StatusInternalServerError, res.Message)
		}
		return serveFile(e, scratch, exportFilename(rec, "docx"),
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	}
}

// HandleExportPDF returns a handler that generates and downloads the PDF
// for the working record.
func HandleExportPDF(app *pocketbase.PocketBase, d *services.Dispatcher) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec := collections.LoadLastActive(app)
		if len(rec.Items) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "Add at least one item before exporting")
		}

		scratch := scratchPath(".pdf")
		defer removeScratch(scratch)

		res := <-d.Submit(rec, services.ActionSavePDF, scratch)
		if !res.OK {
			log.Printf("export_pdf: %s", res.Message)
			return ErrorToast(e, http.StatusInternalServerError, res.Message)
		}
		return serveFile(e, scratch, exportFilename(rec, "pdf"), "application/pdf")
	}
}

// HandleExportExcel returns a handler that generates and downloads the
// line-item spreadsheet for the working record.
func HandleExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec := collections.LoadLastActive(app)
		rec.Gather()

		xlsxBytes, err := services.GenerateLineItemsExcel(&rec)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Add at least one item before exporting")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(rec, "xlsx")))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleExportAll returns a handler that writes the document, PDF and
// spreadsheet into a directory on the server. The request context carries
// cancellation: a dropped client stops the export between steps.
func HandleExportAll(app *pocketbase.PocketBase, d *services.Dispatcher, exportDir string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec := collections.LoadLastActive(app)
		if len(rec.Items) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "Add at least one item before exporting")
		}

		dir := filepath.Join(exportDir, sanitizeFilename(rec.Name))
		if rec.Name == "" {
			dir = filepath.Join(exportDir, time.Now().Format("2006-01-02_150405"))
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("export_all: mkdir %s: %v", dir, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not create export directory")
		}

		res := d.ExportAll(e.Request.Context(), rec, dir)
		switch {
		case res.Canceled:
			return e.JSON(http.StatusOK, map[string]any{"canceled": true, "message": res.Message})
		case !res.OK:
			log.Printf("export_all: %s", res.Message)
			return ErrorToast(e, http.StatusInternalServerError, res.Message)
		}
		SetToast(e, "success", res.Message)
		return e.JSON(http.StatusOK, map[string]any{"dir": res.Payload, "message": res.Message})
	}
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

func exportFilename(rec services.BillRecord, ext string) string {
	name := sanitizeFilename(rec.Name)
	if name == "" {
		name = "bill"
	}
	return fmt.Sprintf("%s_%d.%s", name, time.Now().Year(), ext)
}

func scratchPath(ext string) string {
	path := filepath.Join(os.TempDir(), "billgen-"+uuid.NewString()+ext)
	services.RegisterTempFile(path)
	return path
}

func removeScratch(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("export: remove scratch file %s: %v", path, err)
	}
}

func serveFile(e *core.RequestEvent, path, filename, contentType string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("export: read %s: %v", path, err)
		return ErrorToast(e, http.StatusInternalServerError, "Generated file could not be read")
	}
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	e.Response.Write(data)
	return nil
}
