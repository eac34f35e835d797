package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the bills and app_state
// collections exist.
//
// bills holds one record per saved session: the full bill snapshot as JSON,
// keyed by the user-chosen name. app_state is a single-record slot for the
// last active bill, so a restart resumes where the user left off.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "bills", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.JSONField{Name: "data", Required: true, MaxSize: 2 << 20})
		c.Fields.Add(&core.AutodateField{Name: "timestamp", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "app_state", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "key", Required: true})
		c.Fields.Add(&core.JSONField{Name: "value", Required: false, MaxSize: 2 << 20})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
