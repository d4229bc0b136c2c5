// Package devserver is an opt-in debug HTTP server that exposes a composition
// run's result over read-only JSON endpoints and streams its stage-by-stage
// progress over a websocket, for local inspection while iterating on a document.
package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/mhus/nimbus-world-sub007/internal/composition"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server exposes a single composition run's plans over HTTP and a progress hub
// over websocket. Plans are set once, after the orchestrator call completes;
// until then /plan and /cell respond 503.
type Server struct {
	hub   *Hub
	plans map[string]composition.CellPlan // keyed by "q:r"
}

// NewServer creates a Server backed by hub, which the caller must already be
// running (go hub.Run()) before any client connects.
func NewServer(hub *Hub) *Server {
	return &Server{hub: hub}
}

// SetPlans publishes the finished composition's cell plans, making /plan and
// /cell/{q}/{r} start answering.
func (s *Server) SetPlans(plans []composition.CellPlan) {
	byPosition := make(map[string]composition.CellPlan, len(plans))
	for _, p := range plans {
		byPosition[p.Position] = p
	}
	s.plans = byPosition
}

// Router builds the mux.Router serving /plan, /cell/{q}/{r}, and /ws.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/plan", s.handlePlan).Methods("GET")
	r.HandleFunc("/cell/{q}/{r}", s.handleCell).Methods("GET")
	r.HandleFunc("/ws", s.handleWebsocket).Methods("GET")
	return r
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if s.plans == nil {
		http.Error(w, "no composition result available yet", http.StatusServiceUnavailable)
		return
	}
	plans := make([]composition.CellPlan, 0, len(s.plans))
	for _, p := range s.plans {
		plans = append(plans, p)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plans)
}

func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	if s.plans == nil {
		http.Error(w, "no composition result available yet", http.StatusServiceUnavailable)
		return
	}
	vars := mux.Vars(r)
	if _, err := strconv.Atoi(vars["q"]); err != nil {
		http.Error(w, "invalid q", http.StatusBadRequest)
		return
	}
	if _, err := strconv.Atoi(vars["r"]); err != nil {
		http.Error(w, "invalid r", http.StatusBadRequest)
		return
	}
	position := fmt.Sprintf("%s:%s", vars["q"], vars["r"])
	plan, ok := s.plans[position]
	if !ok {
		http.Error(w, "cell not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := newClient(s.hub, conn)
	s.hub.register <- client

	go client.writePump()
	go client.readPump()
}
