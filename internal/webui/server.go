// Package webui exposes the block/markup engine and the document store
// over HTTP for interactive editor frontends.
package webui

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/promptml/promptml/internal/logger"
	"github.com/promptml/promptml/internal/markup"
	"github.com/promptml/promptml/internal/store"
)

// DocumentStore is the slice of the store the server needs.
type DocumentStore interface {
	SaveDocument(rec store.DocumentRecord) (*store.DocumentRecord, error)
	GetDocument(name string) (*store.DocumentRecord, error)
	ListDocuments() ([]store.DocumentRecord, error)
	DeleteDocument(name string) error
}

// Options configures a Server.
type Options struct {
	// MaxInputBytes caps request bodies handed to the parser.
	MaxInputBytes int64
	// IndentWidth is the default render indent when a request does not
	// set one.
	IndentWidth int
}

type Server struct {
	docs      DocumentStore
	opts      Options
	startedAt time.Time
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewServer creates a Server. docs may be nil, which disables the
// document endpoints.
func NewServer(docs DocumentStore, opts Options) *Server {
	if opts.MaxInputBytes <= 0 {
		opts.MaxInputBytes = 1 << 20
	}
	return &Server{
		docs:      docs,
		opts:      opts,
		startedAt: time.Now().UTC(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/parse", s.handleParse)
	mux.HandleFunc("/api/documents", s.handleDocuments)
	mux.HandleFunc("/api/documents/", s.handleDocument)
	mux.HandleFunc("/ws", s.handleLiveRender)
	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"started_at": s.startedAt.Format(time.RFC3339),
		"uptime_sec": int(time.Since(s.startedAt).Seconds()),
	})
}

type renderRequest struct {
	Blocks      []markup.Block `json:"blocks"`
	IndentWidth *int           `json:"indent_width"`
}

type renderResponse struct {
	Markup string `json:"markup"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req renderRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, s.opts.MaxInputBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	writeJSON(w, http.StatusOK, renderResponse{Markup: s.render(req)})
}

func (s *Server) render(req renderRequest) string {
	width := s.opts.IndentWidth
	if req.IndentWidth != nil {
		width = *req.IndentWidth
	}
	return markup.Serialize(req.Blocks, markup.Options{IndentWidth: width})
}

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Blocks              []markup.Block `json:"blocks"`
	RootTag             string         `json:"root_tag,omitempty"`
	UsedFallbackWrapper bool           `json:"used_fallback_wrapper"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, s.opts.MaxInputBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read body"})
		return
	}
	if int64(len(body)) > s.opts.MaxInputBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "input too large"})
		return
	}

	var req parseRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	res, err := markup.Parse(req.Text)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{
		Blocks:              res.Blocks,
		RootTag:             res.RootTag,
		UsedFallbackWrapper: res.UsedFallbackWrapper,
	})
}

type documentPayload struct {
	Name        string         `json:"name"`
	Blocks      []markup.Block `json:"blocks"`
	IndentWidth int            `json:"indent_width"`
	UpdatedAt   string         `json:"updated_at,omitempty"`
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if s.docs == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store is not configured"})
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	recs, err := s.docs.ListDocuments()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out := make([]documentPayload, 0, len(recs))
	for _, rec := range recs {
		out = append(out, documentPayload{
			Name:        rec.Name,
			Blocks:      rec.Blocks,
			IndentWidth: rec.IndentWidth,
			UpdatedAt:   rec.UpdatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	if s.docs == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store is not configured"})
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	if name == "" || strings.Contains(name, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown document path"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := s.docs.GetDocument(name)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, documentPayload{
			Name:        rec.Name,
			Blocks:      rec.Blocks,
			IndentWidth: rec.IndentWidth,
			UpdatedAt:   rec.UpdatedAt.Format(time.RFC3339),
		})

	case http.MethodPut:
		var req documentPayload
		if err := json.NewDecoder(io.LimitReader(r.Body, s.opts.MaxInputBytes)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
			return
		}
		rec, err := s.docs.SaveDocument(store.DocumentRecord{
			Name:        name,
			Blocks:      req.Blocks,
			IndentWidth: markup.ClampIndentWidth(req.IndentWidth),
		})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, documentPayload{
			Name:        rec.Name,
			Blocks:      rec.Blocks,
			IndentWidth: rec.IndentWidth,
			UpdatedAt:   rec.UpdatedAt.Format(time.RFC3339),
		})

	case http.MethodDelete:
		if err := s.docs.DeleteDocument(name); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

type liveRenderFrame struct {
	Blocks      []markup.Block `json:"blocks"`
	IndentWidth *int           `json:"indent_width"`
}

type liveRenderReply struct {
	Markup string `json:"markup,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleLiveRender serves the editor preview channel: every frame of
// blocks is answered with its rendered markup.
func (s *Server) handleLiveRender(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var frame liveRenderFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("live render connection closed: %v", err)
			}
			return
		}
		reply := liveRenderReply{Markup: s.render(renderRequest(frame))}
		if err := conn.WriteJSON(reply); err != nil {
			logger.Debug("live render write failed: %v", err)
			return
		}
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
