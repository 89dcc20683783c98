// Package web serves the loaded fault tree to a browser: summary and
// graph JSON for visualization, the exported documents, and an SSE
// stream that announces model reloads.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/ritzau/fault-tree-analyzer/pkg/faulttree"
	"github.com/ritzau/fault-tree-analyzer/pkg/logging"
	"github.com/ritzau/fault-tree-analyzer/pkg/mef"
	"github.com/ritzau/fault-tree-analyzer/pkg/pubsub"
)

//go:embed static/*
var staticFiles embed.FS

// GraphNode represents a node in the fault tree graph
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"` // "gate", "basic-event", "house-event"
}

// GraphEdge represents a gate-to-argument edge
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphData holds the fault tree graph for visualization
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// ModelSummary is the JSON shape of /api/model.
type ModelSummary struct {
	Name        string   `json:"name"`
	Gates       int      `json:"gates"`
	BasicEvents int      `json:"basic_events"`
	HouseEvents int      `json:"house_events"`
	CcfGroups   int      `json:"ccf_groups"`
	TopGates    []string `json:"top_gates"`
}

// Server serves the current fault tree over HTTP.
type Server struct {
	router    *mux.Router
	publisher *pubsub.SSEPublisher
	nest      int

	mu   sync.RWMutex
	tree *faulttree.FaultTree
}

// NewServer creates a new web server. nest is forwarded to the XML
// export endpoint.
func NewServer(nest int) *Server {
	publisher := pubsub.NewSSEPublisher()

	// model_status: keep the last few events, replay only the current
	// state to new subscribers.
	publisher.ConfigureTopic("model_status", pubsub.TopicConfig{
		BufferSize: 10,
		ReplayAll:  false,
	})

	s := &Server{
		router:    mux.NewRouter(),
		publisher: publisher,
		nest:      nest,
	}
	s.setupRoutes()
	s.publishStatus("loading", "waiting for model", nil)
	return s
}

// SetTree swaps the served model and announces it to subscribers.
func (s *Server) SetTree(ft *faulttree.FaultTree) {
	s.mu.Lock()
	s.tree = ft
	s.mu.Unlock()

	s.publishStatus("ready", fmt.Sprintf("model %q loaded", ft.Name()), ft)
}

// SetInvalid announces a failed reload; the previous model keeps being
// served.
func (s *Server) SetInvalid(reason string) {
	s.mu.RLock()
	ft := s.tree
	s.mu.RUnlock()

	s.publishStatus("invalid", reason, ft)
}

func (s *Server) publishStatus(state, message string, ft *faulttree.FaultTree) {
	status := pubsub.ModelStatus{State: state, Message: message}
	if ft != nil {
		status.Gates = len(ft.Gates())
		status.BasicEvents = len(ft.BasicEvents())
		status.HouseEvents = len(ft.HouseEvents())
	}
	if err := s.publisher.Publish("model_status", state, status); err != nil {
		logging.Warn("failed to publish model status", "error", err)
	}
}

func (s *Server) currentTree() *faulttree.FaultTree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/subscribe/model_status", s.handleSubscribeModelStatus).Methods("GET")

	s.router.HandleFunc("/api/model", s.handleModel).Methods("GET")
	s.router.HandleFunc("/api/model/graph", s.handleModelGraph).Methods("GET")
	s.router.HandleFunc("/api/model/xml", s.handleModelXML).Methods("GET")
	s.router.HandleFunc("/api/model/shorthand", s.handleModelShorthand).Methods("GET")

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logging.Fatal("failed to load embedded static files", "error", err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

func (s *Server) handleSubscribeModelStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Initial comment establishes the connection (Safari compatibility).
	fmt.Fprintf(w, ": connected\n\n")
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	sub, err := s.publisher.Subscribe(r.Context(), "model_status")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sub.Close()

	for event := range sub.Events() {
		if err := pubsub.WriteSSE(w, event); err != nil {
			logging.DebugContext(r.Context(), "SSE client disconnected", "error", err)
			return
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	ft := s.currentTree()
	if ft == nil {
		http.Error(w, "Model not loaded yet", http.StatusServiceUnavailable)
		return
	}

	summary := ModelSummary{
		Name:        ft.Name(),
		Gates:       len(ft.Gates()),
		BasicEvents: len(ft.BasicEvents()),
		HouseEvents: len(ft.HouseEvents()),
		CcfGroups:   len(ft.CcfGroups()),
		TopGates:    []string{},
	}
	for _, g := range ft.TopGates() {
		summary.TopGates = append(summary.TopGates, g.Name())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func (s *Server) handleModelGraph(w http.ResponseWriter, r *http.Request) {
	ft := s.currentTree()
	w.Header().Set("Content-Type", "application/json")
	if ft == nil {
		json.NewEncoder(w).Encode(&GraphData{Nodes: []GraphNode{}, Edges: []GraphEdge{}})
		return
	}
	json.NewEncoder(w).Encode(buildGraphData(ft))
}

func (s *Server) handleModelXML(w http.ResponseWriter, r *http.Request) {
	ft := s.currentTree()
	if ft == nil {
		http.Error(w, "Model not loaded yet", http.StatusServiceUnavailable)
		return
	}

	nest := s.nest
	if v := r.URL.Query().Get("nest"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			http.Error(w, "nest must be a non-negative integer", http.StatusBadRequest)
			return
		}
		nest = parsed
	}

	w.Header().Set("Content-Type", "application/xml")
	if err := mef.WriteXML(w, ft, nest); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleModelShorthand(w http.ResponseWriter, r *http.Request) {
	ft := s.currentTree()
	if ft == nil {
		http.Error(w, "Model not loaded yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := mef.WriteShorthand(w, ft); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// buildGraphData flattens the fault tree into nodes and argument edges.
func buildGraphData(ft *faulttree.FaultTree) *GraphData {
	data := &GraphData{Nodes: []GraphNode{}, Edges: []GraphEdge{}}

	for _, g := range ft.Gates() {
		data.Nodes = append(data.Nodes, GraphNode{ID: g.Name(), Label: g.Name(), Type: "gate"})
	}
	for _, e := range ft.BasicEvents() {
		data.Nodes = append(data.Nodes, GraphNode{ID: e.Name(), Label: e.Name(), Type: "basic-event"})
	}
	for _, e := range ft.HouseEvents() {
		data.Nodes = append(data.Nodes, GraphNode{ID: e.Name(), Label: e.Name(), Type: "house-event"})
	}

	for _, g := range ft.Gates() {
		for _, arg := range g.GateArgs() {
			data.Edges = append(data.Edges, GraphEdge{Source: g.Name(), Target: arg.Name()})
		}
		for _, arg := range g.BasicArgs() {
			data.Edges = append(data.Edges, GraphEdge{Source: g.Name(), Target: arg.Name()})
		}
		for _, arg := range g.HouseArgs() {
			data.Edges = append(data.Edges, GraphEdge{Source: g.Name(), Target: arg.Name()})
		}
		for _, arg := range g.UndefArgs() {
			data.Edges = append(data.Edges, GraphEdge{Source: g.Name(), Target: arg.Name()})
		}
	}

	return data
}

// Start runs the HTTP server on the given port.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	handler := logging.RequestIDMiddleware(s.router)
	logging.Info("web viewer listening", "addr", addr)
	return http.ListenAndServe(addr, handler)
}
