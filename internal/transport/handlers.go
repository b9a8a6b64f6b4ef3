package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/timzaak/notir/internal/relay"
	"github.com/timzaak/notir/internal/version"
)

// maxPublishBodyBytes bounds the HTTP publish body the same way
// maxFrameBytes bounds WebSocket frames.
const maxPublishBodyBytes = 1 << 20

// Router builds notir's HTTP surface on top of a relay.Service.
// rootCtx is the server's lifetime context: it, not any individual
// request's context, is what session pipelines run under, so a
// session outlives the HTTP handler that created it.
type Router struct {
	svc     *relay.Service
	rootCtx context.Context
	devMode bool
}

// NewRouter returns a chi.Router serving the notir HTTP/WebSocket
// surface. assets, if non-nil, is mounted for static UI files and the
// SPA fallback, out of scope for the core and served here as the
// transport collaborator's concern.
func NewRouter(rootCtx context.Context, svc *relay.Service, devMode bool, assets http.Handler) chi.Router {
	rt := &Router{svc: svc, rootCtx: rootCtx, devMode: devMode}

	r := chi.NewRouter()
	r.Get("/single/sub", rt.subscribeSingle)
	r.Post("/single/pub", rt.publishSingle)
	r.Get("/broad/sub", rt.subscribeBroadcast)
	r.Post("/broad/pub", rt.publishBroadcast)
	r.Get("/health", rt.health)
	r.Get("/version", rt.version)
	r.Get("/connections", rt.connections)
	if assets != nil {
		r.NotFound(assets.ServeHTTP)
	}
	return r
}

func (rt *Router) subscribeSingle(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: rt.devMode})
	if err != nil {
		slog.Info("single subscribe: upgrade failed", "id", id, "error", err)
		return
	}

	session, err := rt.svc.SubscribeSingle(id, newWSSocket(conn))
	if err != nil {
		conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	go session.Run(rt.rootCtx)
}

func (rt *Router) subscribeBroadcast(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: rt.devMode})
	if err != nil {
		slog.Info("broadcast subscribe: upgrade failed", "id", id, "error", err)
		return
	}

	session, err := rt.svc.SubscribeBroadcast(id, newWSSocket(conn))
	if err != nil {
		conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	go session.Run(rt.rootCtx)
}

func (rt *Router) publishSingle(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	mode := relay.Shot
	switch r.URL.Query().Get("mode") {
	case "", "shot":
		mode = relay.Shot
	case "ping_pong":
		mode = relay.PingPong
	default:
		http.Error(w, "mode must be shot or ping_pong", http.StatusBadRequest)
		return
	}

	payload, ok := rt.readPayload(w, r)
	if !ok {
		return
	}

	reply, err := rt.svc.PublishSingle(r.Context(), id, mode, payload)
	if rt.writeErr(w, err) {
		return
	}

	if mode == relay.PingPong {
		writeFrameAsResponse(w, reply)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (rt *Router) publishBroadcast(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	payload, ok := rt.readPayload(w, r)
	if !ok {
		return
	}

	if err := rt.svc.PublishBroadcast(id, payload); rt.writeErr(w, err) {
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]int{
		"goroutines":  runtime.NumGoroutine(),
		"connections": rt.svc.TotalConnections(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}

func (rt *Router) version(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(version.Version))
}

func (rt *Router) connections(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%d", rt.svc.ConnectionCount(id))
}

// readPayload reads and classifies a publish body. It writes a 400
// response and returns ok=false if the body is too large or fails
// UTF-8 validation for a text-typed publish.
func (rt *Router) readPayload(w http.ResponseWriter, r *http.Request) (relay.Payload, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPublishBodyBytes+1))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return relay.Payload{}, false
	}
	if len(body) > maxPublishBodyBytes {
		http.Error(w, "body too large", http.StatusBadRequest)
		return relay.Payload{}, false
	}

	payload, err := relay.DecodePayload(r.Header.Get("Content-Type"), body)
	if err != nil {
		http.Error(w, "invalid UTF-8 for text content type", http.StatusBadRequest)
		return relay.Payload{}, false
	}
	return payload, true
}

// writeErr maps a core error onto the HTTP surface's status codes.
// Returns true if it wrote a response (i.e. err != nil).
func (rt *Router) writeErr(w http.ResponseWriter, err error) bool {
	switch err {
	case nil:
		return false
	case relay.ErrBadRequest:
		http.Error(w, "bad request", http.StatusBadRequest)
	case relay.ErrNotFound:
		http.Error(w, "not found", http.StatusNotFound)
	case relay.ErrTimeout:
		http.Error(w, "request timeout", http.StatusRequestTimeout)
	case relay.ErrBusy:
		http.Error(w, "busy", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
	return true
}

// writeFrameAsResponse mirrors the ping-pong reply's frame kind onto
// the response Content-Type.
func writeFrameAsResponse(w http.ResponseWriter, payload relay.Payload) {
	if payload.Kind == relay.Text {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload.Data)
}
