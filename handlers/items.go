package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"billgen/collections"
	"billgen/services"
)

// HandleItemAdd returns a handler that appends a catalog item to the
// working record. The item's description must match a catalog entry and the
// quantity must be a positive number; both are validated before anything is
// persisted.
func HandleItemAdd(app *pocketbase.PocketBase, catalog *services.RateCatalog) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			log.Printf("items: add: could not parse form: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		description := strings.TrimSpace(e.Request.FormValue("description"))
		if description == "" {
			return ErrorToast(e, http.StatusBadRequest, "Select an item first")
		}
		cat, ok := catalog.FindByDescription(description)
		if !ok {
			return ErrorToast(e, http.StatusBadRequest, "Unknown item: "+description)
		}

		qty, err := strconv.ParseFloat(strings.TrimSpace(e.Request.FormValue("quantity")), 64)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Quantity must be a number")
		}

		item, err := services.NewLineItem(cat, qty)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Quantity must be greater than zero")
		}

		rec := collections.LoadLastActive(app)
		rec.AddItem(item)
		rec.Gather()
		if err := collections.SaveLastActive(app, rec); err != nil {
			log.Printf("items: add: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save bill")
		}
		return e.JSON(http.StatusOK, rec)
	}
}

// HandleItemRemove returns a handler that deletes the item at the given
// zero-based index and renumbers the rest.
func HandleItemRemove(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		index, err := strconv.Atoi(e.Request.PathValue("index"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid item index")
		}

		rec := collections.LoadLastActive(app)
		if err := rec.RemoveItem(index); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "No such item")
		}
		rec.Gather()
		if err := collections.SaveLastActive(app, rec); err != nil {
			log.Printf("items: remove: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save bill")
		}
		return e.JSON(http.StatusOK, rec)
	}
}

// HandleCatalogList returns a handler that serves the item descriptions for
// the picker dropdown.
func HandleCatalogList(catalog *services.RateCatalog) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, catalog.Descriptions())
	}
}
