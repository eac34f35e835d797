package collections

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"billgen/services"
)

// lastActiveKey is the app_state slot that tracks the bill being edited, so
// a restart resumes where the user left off.
const lastActiveKey = "last_active_bill"

// SaveBillSession persists a full snapshot of the record under the given
// name. Saving an existing name replaces that session's data and bumps its
// timestamp; a new name creates a new session.
func SaveBillSession(app *pocketbase.PocketBase, name string, rec services.BillRecord) (*core.Record, error) {
	rec.Gather()
	rec.Name = name
	raw, err := services.MarshalBill(rec)
	if err != nil {
		return nil, fmt.Errorf("sessions: marshal bill %q: %w", name, err)
	}

	existing, _ := app.FindRecordsByFilter("bills", "name = {:name}", "", 1, 0, map[string]any{"name": name})
	var record *core.Record
	if len(existing) > 0 {
		record = existing[0]
	} else {
		col, err := app.FindCollectionByNameOrId("bills")
		if err != nil {
			return nil, fmt.Errorf("sessions: could not find bills collection: %w", err)
		}
		record = core.NewRecord(col)
	}

	record.Set("name", name)
	record.Set("data", raw)
	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("sessions: save bill %q: %w", name, err)
	}
	return record, nil
}

// ListBillSessions returns every saved session, newest first.
func ListBillSessions(app *pocketbase.PocketBase) ([]*core.Record, error) {
	records, err := app.FindRecordsByFilter("bills", "id != ''", "-timestamp", 0, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("sessions: list bills: %w", err)
	}
	return records, nil
}

// LoadBillSession hydrates the record stored under the given session id.
// A corrupt snapshot self-heals to an empty default bill rather than
// failing the load; the corruption is logged.
func LoadBillSession(app *pocketbase.PocketBase, id string) (services.BillRecord, error) {
	record, err := app.FindRecordById("bills", id)
	if err != nil {
		return services.DefaultBill(), fmt.Errorf("sessions: bill %q not found: %w", id, err)
	}
	rec, err := services.LoadBill(rawJSON(record.GetString("data")))
	if err != nil {
		log.Printf("sessions: bill %q has corrupt data, resetting to default: %v", id, err)
	}
	return rec, nil
}

// rawJSON unwraps a double-encoded JSON field value. Depending on how a
// snapshot was stored the field may hold the object itself or a JSON string
// containing it.
func rawJSON(s string) string {
	var unquoted string
	if json.Unmarshal([]byte(s), &unquoted) == nil && unquoted != "" {
		return unquoted
	}
	return s
}

// DeleteBillSession removes one saved session by id.
func DeleteBillSession(app *pocketbase.PocketBase, id string) error {
	record, err := app.FindRecordById("bills", id)
	if err != nil {
		return fmt.Errorf("sessions: bill %q not found: %w", id, err)
	}
	if err := app.Delete(record); err != nil {
		return fmt.Errorf("sessions: delete bill %q: %w", id, err)
	}
	return nil
}

// SaveLastActive stores the working record in the single last-active slot.
// Every save is a full snapshot replace.
func SaveLastActive(app *pocketbase.PocketBase, rec services.BillRecord) error {
	rec.Gather()
	raw, err := services.MarshalBill(rec)
	if err != nil {
		return fmt.Errorf("sessions: marshal last active bill: %w", err)
	}

	existing, _ := app.FindRecordsByFilter("app_state", "key = {:key}", "", 1, 0, map[string]any{"key": lastActiveKey})
	var record *core.Record
	if len(existing) > 0 {
		record = existing[0]
	} else {
		col, err := app.FindCollectionByNameOrId("app_state")
		if err != nil {
			return fmt.Errorf("sessions: could not find app_state collection: %w", err)
		}
		record = core.NewRecord(col)
	}

	record.Set("key", lastActiveKey)
	record.Set("value", raw)
	if err := app.Save(record); err != nil {
		return fmt.Errorf("sessions: save last active bill: %w", err)
	}
	return nil
}

// LoadLastActive returns the last-active record, or a default bill when no
// slot exists yet or the stored snapshot is corrupt.
func LoadLastActive(app *pocketbase.PocketBase) services.BillRecord {
	existing, err := app.FindRecordsByFilter("app_state", "key = {:key}", "", 1, 0, map[string]any{"key": lastActiveKey})
	if err != nil || len(existing) == 0 {
		return services.DefaultBill()
	}

	rec, err := services.LoadBill(rawJSON(existing[0].GetString("value")))
	if err != nil {
		log.Printf("sessions: last active bill is corrupt, resetting to default: %v", err)
	}
	return rec
}
