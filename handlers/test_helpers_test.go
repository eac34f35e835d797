package handlers

import (
	"net/http"
	"net/http/httptest"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// newTestRequestEvent binds a request/recorder pair to a test app so a bill
// route handler can be invoked directly, without registering it on a router.
// Path parameters are set on the request itself via req.SetPathValue.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	event := &core.RequestEvent{}
	event.App = app
	event.Request = req
	event.Response = rec
	return event
}
