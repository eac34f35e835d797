package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"billgen/collections"
	"billgen/handlers"
	"billgen/services"
)

func main() {
	app := pocketbase.New()

	catalogPath := envOr("BILLGEN_CATALOG", "data/ssr_rates.xlsx")
	templatePath := envOr("BILLGEN_TEMPLATE", "data/bill_template.docx")
	exportDir := envOr("BILLGEN_EXPORT_DIR", "exports")

	// The catalog and template are read-only and shared by every job, so
	// both are loaded once here and injected.
	catalog, err := services.LoadRateCatalog(catalogPath)
	if err != nil {
		log.Printf("Warning: rate catalog unavailable (%v); item picker will be empty", err)
	}
	renderer := services.NewDocRenderer(templatePath)
	dispatcher := services.NewDispatcher(renderer, services.DefaultConverter())

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// ── Saved bill sessions ──────────────────────────────────
		se.Router.GET("/bills", handlers.HandleBillList(app))
		se.Router.POST("/bills", handlers.HandleBillSave(app))
		se.Router.GET("/bills/{id}", handlers.HandleBillLoad(app))
		se.Router.DELETE("/bills/{id}", handlers.HandleBillDelete(app))

		// ── Working record ───────────────────────────────────────
		se.Router.GET("/active", handlers.HandleActiveBillGet(app))
		se.Router.PUT("/active", handlers.HandleActiveBillPut(app))

		// ── Line items ───────────────────────────────────────────
		se.Router.GET("/catalog", handlers.HandleCatalogList(catalog))
		se.Router.POST("/items", handlers.HandleItemAdd(app, catalog))
		se.Router.DELETE("/items/{index}", handlers.HandleItemRemove(app))

		// ── Preview and exports ──────────────────────────────────
		se.Router.GET("/preview", handlers.HandlePreview(app, dispatcher))
		se.Router.GET("/export/document", handlers.HandleExportDocument(app, dispatcher))
		se.Router.GET("/export/pdf", handlers.HandleExportPDF(app, dispatcher))
		se.Router.GET("/export/excel", handlers.HandleExportExcel(app))
		se.Router.POST("/export/all", handlers.HandleExportAll(app, dispatcher, exportDir))

		return se.Next()
	})

	app.OnTerminate().BindFunc(func(te *core.TerminateEvent) error {
		dispatcher.Close()
		services.CleanupTempFiles()
		return te.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
