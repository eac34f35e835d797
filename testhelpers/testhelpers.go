// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"billgen/collections"
	"billgen/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// SampleCatalogItem returns a catalog entry whose description classifies as
// a cement-bearing material, so material and cement statements get rows.
func SampleCatalogItem() services.CatalogItem {
	return services.CatalogItem{
		Chapter:       "5",
		SSRItemNo:     "5.12",
		ReferenceNo:   "Spec. 5/12",
		Description:   "Providing and laying cast in situ M15 grade cement concrete",
		Unit:          "Cu.M.",
		CompletedRate: 4850,
	}
}

// SampleBill builds a bill record with header fields and n line items based
// on SampleCatalogItem.
func SampleBill(t *testing.T, n int) services.BillRecord {
	t.Helper()

	rec := services.DefaultBill()
	rec.Name = "test-bill"
	rec.NameWork = "Construction of storm water drain"
	rec.Contractor = "M/s. Test Constructions"
	rec.AgreementNo = "AGR/2025/17"
	rec.MBNo = "412"

	for i := 0; i < n; i++ {
		item, err := services.NewLineItem(SampleCatalogItem(), float64(i+1))
		if err != nil {
			t.Fatalf("failed to build test line item: %v", err)
		}
		rec.AddItem(item)
	}
	rec.Gather()
	return rec
}

// SaveTestBill persists a bill snapshot as a named session and returns the
// created record.
func SaveTestBill(t *testing.T, app *pocketbase.PocketBase, name string, rec services.BillRecord) *core.Record {
	t.Helper()

	record, err := collections.SaveBillSession(app, name, rec)
	if err != nil {
		t.Fatalf("failed to save test bill %q: %v", name, err)
	}
	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
