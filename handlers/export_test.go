package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"billgen/collections"
	"billgen/services"
	"billgen/testhelpers"
)

func testDispatcher(t *testing.T) *services.Dispatcher {
	t.Helper()
	d := services.NewDispatcher(services.NewDocRenderer(filepath.Join(t.TempDir(), "absent.docx")), services.NativeConverter{})
	t.Cleanup(d.Close)
	return d
}

func TestHandlePreview(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.SaveLastActive(app, testhelpers.SampleBill(t, 2)); err != nil {
		t.Fatalf("seed working record: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/preview", nil)
	rec := httptest.NewRecorder()
	if err := HandlePreview(app, testDispatcher(t))(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("preview handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"ABSTRACT",
		"MATERIAL CONSUMPTION STATEMENT",
		"Construction of storm water drain",
	)
}

func TestHandleExportExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.SaveLastActive(app, testhelpers.SampleBill(t, 1)); err != nil {
		t.Fatalf("seed working record: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/export/excel", nil)
	rec := httptest.NewRecorder()
	if err := HandleExportExcel(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("excel handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "test-bill") {
		t.Errorf("content disposition = %q", cd)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty spreadsheet body")
	}
}

func TestHandleExportExcelEmptyBill(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/export/excel", nil)
	rec := httptest.NewRecorder()
	HandleExportExcel(app)(newTestRequestEvent(app, req, rec))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty bill", rec.Code)
	}
}

func TestHandleExportDocumentMissingTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.SaveLastActive(app, testhelpers.SampleBill(t, 1)); err != nil {
		t.Fatalf("seed working record: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/export/document", nil)
	rec := httptest.NewRecorder()
	HandleExportDocument(app, testDispatcher(t))(newTestRequestEvent(app, req, rec))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 for missing template", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "template file not found") {
		t.Errorf("body should carry the converter message, got %q", rec.Body.String())
	}
}

func TestHandleExportDocumentEmptyBill(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/export/document", nil)
	rec := httptest.NewRecorder()
	HandleExportDocument(app, testDispatcher(t))(newTestRequestEvent(app, req, rec))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty bill", rec.Code)
	}
}

func TestHandleExportAllCreatesDirectory(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.SaveLastActive(app, testhelpers.SampleBill(t, 1)); err != nil {
		t.Fatalf("seed working record: %v", err)
	}

	exportDir := t.TempDir()
	d := testDispatcher(t)

	req := httptest.NewRequest(http.MethodPost, "/export/all", nil)
	rec := httptest.NewRecorder()
	HandleExportAll(app, d, exportDir)(newTestRequestEvent(app, req, rec))

	// The docx step fails (no template on this dispatcher), but the export
	// directory itself must exist and carry no partial artifacts.
	dir := filepath.Join(exportDir, "test-bill")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("export dir was not created: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("failed export left %d artifacts", len(entries))
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	got := sanitizeFilename(`storm drain/phase:2\final`)
	if strings.ContainsAny(got, ` /\:`) {
		t.Errorf("sanitizeFilename left unsafe characters: %q", got)
	}
}
