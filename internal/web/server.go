package web

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/On-Jun9/MetaSpy/internal/config"
	"github.com/On-Jun9/MetaSpy/internal/log"
	"github.com/On-Jun9/MetaSpy/internal/metadata"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

type Server struct {
	router    *mux.Router
	hub       *Hub
	upgrader  *websocket.Upgrader
	version   string
	cfg       *config.Config
	logger    *log.Logger
	extractor *metadata.Extractor
	cache     *metadata.Cache
	runMu     sync.Mutex
}

// NewServer shares one extractor and extraction cache across requests.
// A non-positive cache size disables the cache.
func NewServer(cfg *config.Config) *Server {
	cache, err := metadata.NewCache(cfg.CacheSize)
	if err != nil {
		cache = nil
	}

	s := &Server{
		router:    mux.NewRouter(),
		hub:       NewHub(),
		upgrader:  newUpgrader(cfg.AllowedOrigins),
		version:   "unknown",
		cfg:       cfg,
		logger:    log.Nop(),
		extractor: metadata.New(cfg.ExtractTimeout),
		cache:     cache,
	}

	go s.hub.Run()

	s.setupRoutes()
	return s
}

func (s *Server) SetVersion(v string) {
	s.version = v
}

func (s *Server) SetLogger(logger *log.Logger) {
	s.logger = logger
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/version", s.handleVersion).Methods("GET")
	api.HandleFunc("/formats", s.handleFormats).Methods("GET")
	api.HandleFunc("/analyze", s.handleAnalyze).Methods("POST")
	api.HandleFunc("/ws", s.handleWebSocket)
}

// Handler wraps the router with CORS for the configured UI origins.
func (s *Server) Handler() http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{RunIDHeader},
		MaxAge:         300,
	})(s.router)
}

func (s *Server) Start(addr string) error {
	fmt.Printf("Starting MetaSpy Web UI at http://%s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}
