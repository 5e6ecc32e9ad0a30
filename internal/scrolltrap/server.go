// Package scrolltrap provides a local HTTP server that exposes one
// simulation session to a rendering layer. It runs entirely on the local
// machine: no outbound network, no persistence, no real user data.
//
// Key features:
//   - POST intent endpoints mirroring every user action the UI can emit
//   - Full session snapshot after every mutation (GET /session)
//   - Live snapshot stream over WebSocket (GET /session/stream)
//   - Reveal report and certificate snapshot once the session ends
//   - Health endpoint with server statistics
//
// Architecture:
//   The Server is a thin adapter. All simulation logic lives in the Session
//   state machine; handlers translate HTTP requests into intent method calls
//   and serialize the resulting snapshots. The rendering layer is an
//   external collaborator: any client speaking this small API can drive
//   the simulation.
package scrolltrap

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Server adapts one Session to HTTP for the rendering layer.
type Server struct {
	httpServer *http.Server
	session    *Session
	host       string
	port       int

	upgrader websocket.Upgrader

	subMu       sync.Mutex
	subscribers map[*websocket.Conn]chan []byte
}

// NewServer creates a server owning a fresh Intro-phase session.
func NewServer(port int, host string) *Server {
	config, err := LoadSimulationConfig()
	if err != nil {
		log.Printf("Warning: failed to load simulation config: %v (using defaults)", err)
		config = &SimulationConfig{}
	}

	server := &Server{
		session:     NewSession(config),
		host:        host,
		port:        port,
		subscribers: make(map[*websocket.Conn]chan []byte),
		upgrader: websocket.Upgrader{
			// Local tool: the UI may be served from any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	server.session.SetChangeListener(server.broadcastSnapshot)

	mux := http.NewServeMux()
	mux.HandleFunc("/", HandleDebugUI)
	mux.HandleFunc("/health", HandleHealth)
	mux.HandleFunc("/session", server.handleSnapshot)
	mux.HandleFunc("/session/stream", server.handleStream)
	mux.HandleFunc("/reveal", server.handleReveal)
	mux.HandleFunc("/certificate", server.handleCertificate)
	mux.HandleFunc("/intent/", server.handleIntent)

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to keep the snapshot stream open
		IdleTimeout:  60 * time.Second,
	}
	return server
}

// Start starts the server. Blocks until the server is stopped.
func (s *Server) Start() error {
	log.Printf("scrolltrap server starting on http://%s:%d", s.host, s.port)
	log.Printf("Intent endpoints: POST /intent/{name}")
	log.Printf("Snapshots: GET /session, live stream at /session/stream")
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server, cancelling the session's triggers so no
// timer outlives the process.
func (s *Server) Stop(ctx context.Context) error {
	log.Println("Stopping scrolltrap server...")
	s.session.ResetToIntro()

	s.subMu.Lock()
	for conn := range s.subscribers {
		conn.Close()
		delete(s.subscribers, conn)
	}
	s.subMu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

// GetURL returns the server URL.
func (s *Server) GetURL() string {
	return fmt.Sprintf("http://%s:%d", s.host, s.port)
}

// GetSession returns the underlying session, for testing or inspection.
func (s *Server) GetSession() *Session {
	return s.session
}

// WriteJSON serializes v with standard headers. Encoding failures are
// logged, not surfaced; by the time they happen the headers are gone.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}

// handleSnapshot serves the full current session state.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	AddRequestID(w, r)
	AddCORSHeaders(w, r)
	if r.Method == http.MethodOptions {
		HandleOptions(w, r)
		return
	}
	IncrementRequestsTotal()
	if r.Method != http.MethodGet {
		IncrementRequestsError()
		WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	IncrementRequestsSuccess()
	WriteJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleReveal serves the scoring output, available once at Reveal.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	AddRequestID(w, r)
	AddCORSHeaders(w, r)
	IncrementRequestsTotal()
	report := s.session.Reveal()
	if report == nil {
		IncrementRequestsError()
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": "session has not reached reveal"})
		return
	}
	IncrementRequestsSuccess()
	WriteJSON(w, http.StatusOK, report)
}

// handleCertificate serves the flat snapshot for the external certificate
// renderer.
func (s *Server) handleCertificate(w http.ResponseWriter, r *http.Request) {
	AddRequestID(w, r)
	AddCORSHeaders(w, r)
	IncrementRequestsTotal()
	report := s.session.Reveal()
	if report == nil {
		IncrementRequestsError()
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": "session has not reached reveal"})
		return
	}
	IncrementRequestsSuccess()
	WriteJSON(w, http.StatusOK, report.Certificate)
}

// intentRequest is the union body accepted by every intent endpoint.
// Endpoints read only the fields they need.
type intentRequest struct {
	Handle         string `json:"handle,omitempty"`
	Seconds        int    `json:"seconds,omitempty"`
	ScrollTop      int    `json:"scroll_top,omitempty"`
	ScrollHeight   int    `json:"scroll_height,omitempty"`
	ViewportHeight int    `json:"viewport_height,omitempty"`
	ItemID         int    `json:"item_id,omitempty"`
	NotificationID string `json:"notification_id,omitempty"`
	ThreadID       string `json:"thread_id,omitempty"`
	StoryID        string `json:"story_id,omitempty"`
	Text           string `json:"text,omitempty"`
	Accept         bool   `json:"accept,omitempty"`
}

// handleIntent routes POST /intent/{name} to the matching session command.
// Unknown intents 404; everything else responds with the fresh snapshot.
// Duplicate actions are no-ops, never errors.
func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	AddRequestID(w, r)
	AddCORSHeaders(w, r)
	if r.Method == http.MethodOptions {
		HandleOptions(w, r)
		return
	}
	IncrementRequestsTotal()
	if r.Method != http.MethodPost {
		IncrementRequestsError()
		WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req intentRequest
	if r.Body != nil {
		// An empty or absent body is fine for parameterless intents.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	name := r.URL.Path[len("/intent/"):]
	switch name {
	case "set_handle":
		s.session.SetAccountHandle(req.Handle)
	case "set_estimated_time":
		s.session.SetEstimatedTime(req.Seconds)
	case "start_session":
		s.session.StartSession()
	case "report_scroll":
		s.session.ReportScroll(req.ScrollTop, req.ScrollHeight, req.ViewportHeight)
	case "like":
		s.session.Like(req.ItemID)
	case "unlike":
		s.session.Unlike(req.ItemID)
	case "save":
		s.session.Save(req.ItemID)
	case "unsave":
		s.session.Unsave(req.ItemID)
	case "view_reel":
		s.session.ViewReel(req.ItemID)
	case "open_comments":
		s.session.OpenComments(req.ItemID)
	case "open_profile":
		s.session.OpenProfile(req.ItemID)
	case "share":
		s.session.ShareItem(req.ItemID)
	case "click_ad":
		s.session.ClickAd(req.ItemID)
	case "open_notifications":
		s.session.OpenNotificationsInbox()
	case "click_notification":
		s.session.ClickNotification(req.NotificationID)
	case "open_dm_inbox":
		s.session.OpenDMInbox()
	case "open_dm":
		s.session.OpenDM(req.ThreadID)
	case "send_dm_reply":
		s.session.SendDMReply(req.ThreadID, req.Text)
	case "respond_friend_request":
		s.session.RespondFriendRequest(req.Accept)
	case "view_story":
		s.session.ViewStory(req.StoryID)
	case "advance_story":
		s.session.AdvanceStoryAutomatically()
	case "click_story_poll":
		s.session.ClickStoryPoll()
	case "close_modal":
		s.session.CloseModal()
	case "end_session":
		s.session.EndSession()
	case "reset":
		s.session.ResetToIntro()
	default:
		IncrementRequestsError()
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("unknown intent %q", name)})
		return
	}

	IncrementRequestsSuccess()
	WriteJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleStream upgrades to WebSocket and pushes a snapshot after every
// mutation. Slow consumers drop frames rather than block the session.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Warning: websocket upgrade failed: %v", err)
		return
	}

	send := make(chan []byte, 8)
	s.subMu.Lock()
	s.subscribers[conn] = send
	s.subMu.Unlock()

	// Prime the client with the current state.
	if data, err := json.Marshal(s.session.Snapshot()); err == nil {
		select {
		case send <- data:
		default:
		}
	}

	go s.writePump(conn, send)
	go s.readPump(conn)
}

// writePump forwards queued snapshots to one subscriber.
func (s *Server) writePump(conn *websocket.Conn, send chan []byte) {
	for data := range send {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.dropSubscriber(conn)
			return
		}
	}
}

// readPump drains (and ignores) client frames so pings and closes are
// processed; intents arrive over HTTP, not the socket.
func (s *Server) readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.dropSubscriber(conn)
			return
		}
	}
}

func (s *Server) dropSubscriber(conn *websocket.Conn) {
	s.subMu.Lock()
	if send, ok := s.subscribers[conn]; ok {
		close(send)
		delete(s.subscribers, conn)
	}
	s.subMu.Unlock()
	conn.Close()
}

// broadcastSnapshot fans one snapshot out to every stream subscriber.
// Registered as the session's change listener.
func (s *Server) broadcastSnapshot(snapshot *SessionState) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("Warning: failed to marshal snapshot: %v", err)
		return
	}
	s.subMu.Lock()
	for _, send := range s.subscribers {
		select {
		case send <- data:
		default: // Drop the frame for slow consumers.
		}
	}
	s.subMu.Unlock()
}
