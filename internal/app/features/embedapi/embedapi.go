// Package embedapi exposes the video link resolver over HTTP so the browser
// player and the server-rendered pages resolve links the same way.
package embedapi

import (
	"net/http"

	"github.com/dalemusser/reelsite/internal/app/system/jsonutil"
	"github.com/dalemusser/reelsite/internal/app/system/mediaurl"
	"github.com/dalemusser/reelsite/internal/app/system/network"
	"github.com/dalemusser/reelsite/internal/app/system/normalize"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router for GET /api/embed?url=&origin=.
func Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", Resolve)
	return r
}

// Resolve answers with {"kind": "iframe"|"native"|"none", "url": "..."}.
// origin defaults to the request's Origin header, then to this server's
// own origin.
func Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := normalize.QueryParam(q.Get("url"))
	if raw == "" {
		jsonutil.BadRequest(w, "Please provide a url")
		return
	}

	origin := normalize.QueryParam(q.Get("origin"))
	if origin == "" {
		origin = r.Header.Get("Origin")
	}
	if origin == "" {
		origin = network.Origin(r)
	}

	jsonutil.OK(w, mediaurl.Embed(raw, origin))
}
