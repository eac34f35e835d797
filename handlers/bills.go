package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"billgen/collections"
	"billgen/services"
)

// billSessionInfo is the list representation of one saved session.
type billSessionInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
}

// HandleBillList returns a handler that lists saved bill sessions, newest
// first.
func HandleBillList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := collections.ListBillSessions(app)
		if err != nil {
			log.Printf("bills: list: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load saved bills")
		}

		sessions := make([]billSessionInfo, 0, len(records))
		for _, rec := range records {
			sessions = append(sessions, billSessionInfo{
				ID:        rec.Id,
				Name:      rec.GetString("name"),
				Timestamp: rec.GetDateTime("timestamp").Time().Format("02 Jan 2006 15:04"),
			})
		}
		return e.JSON(http.StatusOK, sessions)
	}
}

// HandleBillSave returns a handler that saves the posted record as a named
// session. Saving under an existing name replaces that session.
func HandleBillSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var rec services.BillRecord
		if err := json.NewDecoder(e.Request.Body).Decode(&rec); err != nil {
			log.Printf("bills: save: bad body: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Invalid bill data")
		}

		name := strings.TrimSpace(rec.Name)
		if name == "" {
			return ErrorToast(e, http.StatusBadRequest, "Bill name is required")
		}

		record, err := collections.SaveBillSession(app, name, rec)
		if err != nil {
			log.Printf("bills: save %q: %v", name, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save bill")
		}
		if err := collections.SaveLastActive(app, rec); err != nil {
			log.Printf("bills: save last active: %v", err)
		}

		SetToast(e, "success", "Bill saved")
		return e.JSON(http.StatusOK, map[string]string{"id": record.Id, "name": name})
	}
}

// HandleBillLoad returns a handler that hydrates a saved session and makes
// it the working record.
func HandleBillLoad(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing bill ID")
		}

		rec, err := collections.LoadBillSession(app, id)
		if err != nil {
			log.Printf("bills: load %s: %v", id, err)
			return ErrorToast(e, http.StatusNotFound, "Bill not found")
		}
		if err := collections.SaveLastActive(app, rec); err != nil {
			log.Printf("bills: load %s: save last active: %v", id, err)
		}
		return e.JSON(http.StatusOK, rec)
	}
}

// HandleBillDelete returns a handler that removes one saved session. The
// working record is untouched.
func HandleBillDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing bill ID")
		}
		if err := collections.DeleteBillSession(app, id); err != nil {
			log.Printf("bills: delete %s: %v", id, err)
			return ErrorToast(e, http.StatusNotFound, "Bill not found")
		}
		SetToast(e, "success", "Bill deleted")
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleActiveBillGet returns a handler that serves the working record; a
// fresh install gets an empty default bill.
func HandleActiveBillGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec := collections.LoadLastActive(app)
		return e.JSON(http.StatusOK, rec)
	}
}

// HandleActiveBillPut returns a handler that replaces the working record
// with the posted snapshot. Every save is a full replace.
func HandleActiveBillPut(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var rec services.BillRecord
		if err := json.NewDecoder(e.Request.Body).Decode(&rec); err != nil {
			log.Printf("bills: active: bad body: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Invalid bill data")
		}
		if err := collections.SaveLastActive(app, rec); err != nil {
			log.Printf("bills: active: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save bill")
		}
		rec.Gather()
		return e.JSON(http.StatusOK, rec)
	}
}
