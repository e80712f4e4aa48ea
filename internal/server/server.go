package server

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Muostafa/Chat-app-system-sub001/internal/chat"
	"github.com/Muostafa/Chat-app-system-sub001/internal/logs"
	"github.com/Muostafa/Chat-app-system-sub001/internal/seq"
)

type Server struct {
	svc        chat.Service
	monitor    *seq.Monitor
	reconciler *seq.Reconciler
	hub        *Hub
	addr       string
	listener   net.Listener
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local network use
	},
}

func New(svc chat.Service, monitor *seq.Monitor, reconciler *seq.Reconciler, counters seq.CounterStore, host string, port int) *Server {
	return &Server{
		svc:        svc,
		monitor:    monitor,
		reconciler: reconciler,
		hub:        NewHub(counters),
		addr:       fmt.Sprintf("%s:%d", host, port),
	}
}

func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	var err error
	s.listener, err = net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}

	logs.Logger.Infof("chat server listening on %s", s.listener.Addr().String())

	srv := &http.Server{Handler: s.router(ctx)}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	if err := srv.Serve(s.listener); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) router(ctx context.Context) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Get("/internal/consistency", s.handleConsistency)
	r.Post("/internal/reconcile", s.handleReconcile)
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		s.handleWS(ctx, w, req)
	})

	r.Route("/api/v1/applications", func(r chi.Router) {
		r.Post("/", s.handleCreateApplication)
		r.Get("/", s.handleListApplications)
		r.Get("/{token}", s.handleGetApplication)
		r.Put("/{token}", s.handleRenameApplication)

		r.Route("/{token}/chats", func(r chi.Router) {
			r.Post("/", s.handleCreateChat)
			r.Get("/", s.handleListChats)
			r.Get("/{number}", s.handleGetChat)

			r.Route("/{number}/messages", func(r chi.Router) {
				r.Post("/", s.handleCreateMessage)
				r.Get("/", s.handleListMessages)
			})
		})
	})

	return r
}

func (s *Server) handleWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logs.Logger.Warningf("upgrade error: %v", err)
		return
	}

	client := newClient(s.hub, conn)
	s.hub.register <- client

	go client.writePump(ctx)
	go client.readPump(ctx)
}
