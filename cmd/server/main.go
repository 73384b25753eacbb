// Package main provides the analysis API server:
// - POST /api/analyze: run a wallet analysis and persist the snapshot
// - GET  /api/wallets, /api/wallets/{wallet}, .../report: query results
// - GET  /ws: WebSocket feed broadcasting every new snapshot
// - GET  /metrics, /health, /status: operational endpoints
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"wallet-behavior-lab/internal/analyzer"
	"wallet-behavior-lab/internal/config"
	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/observability"
	"wallet-behavior-lab/internal/reporting"
	"wallet-behavior-lab/internal/storage"
	"wallet-behavior-lab/internal/storage/memory"
	"wallet-behavior-lab/internal/storage/migrations"
	pgstore "wallet-behavior-lab/internal/storage/postgres"
)

// Server holds the API server's components.
type Server struct {
	analyzer      *analyzer.Analyzer
	swapStore     storage.SwapStore
	snapshotStore storage.SnapshotStore
	hub           *wsHub
	logger        *log.Logger

	mu          sync.Mutex
	startedAt   time.Time
	analysesRun int
	lastRun     time.Time
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	configPath := flag.String("config", "", "Path to YAML config (defaults used when empty)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatalf("Failed to load config: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	swapStore, snapshotStore, cleanup, err := createStores(ctx, *postgresDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	server := &Server{
		analyzer:      analyzer.New(cfg, logger),
		swapStore:     swapStore,
		snapshotStore: snapshotStore,
		hub:           newWSHub(logger),
		logger:        logger,
		startedAt:     time.Now(),
	}

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: server.routes(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
		server.hub.closeAll()
	}()

	logger.Printf("Listening on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// createStores wires swap and snapshot stores, memory or PostgreSQL.
func createStores(ctx context.Context, postgresDSN string, useMemory bool) (storage.SwapStore, storage.SnapshotStore, func(), error) {
	if useMemory {
		return memory.NewSwapStore(), memory.NewSnapshotStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := migrations.RunPostgresMigrations(ctx, pool.Pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return pgstore.NewSwapStore(pool), pgstore.NewSnapshotStore(pool), pool.Close, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.handleStatus)

	mux.HandleFunc("/api/analyze", s.instrument("analyze", s.handleAnalyze))
	mux.HandleFunc("/api/wallets", s.instrument("wallets", s.handleListWallets))
	mux.HandleFunc("/api/wallets/", s.instrument("wallet", s.handleWallet))
	mux.HandleFunc("/ws", s.hub.handleConnect)

	return mux
}

// instrument wraps a handler with request duration metrics.
func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(sw, r)
		observability.DefaultMetrics.HTTPRequestDuration.
			WithLabelValues(route, fmt.Sprintf("%d", sw.status)).
			Observe(time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// analyzeRequest is the POST /api/analyze body. When Swaps is empty the
// server reads the wallet's swaps from the swap store instead.
type analyzeRequest struct {
	WalletAddress string        `json:"wallet_address"`
	Swaps         []swapPayload `json:"swaps,omitempty"`
}

type swapPayload struct {
	Mint      string   `json:"mint"`
	Timestamp int64    `json:"timestamp"`
	Direction string   `json:"direction"`
	Amount    float64  `json:"amount"`
	SOLValue  float64  `json:"sol_value"`
	USDCValue *float64 `json:"usdc_value,omitempty"`
}

// analyzeResponse wraps the analysis result for the API.
type analyzeResponse struct {
	SnapshotID string                    `json:"snapshot_id"`
	Persisted  bool                      `json:"persisted"`
	Metrics    *domain.BehavioralMetrics `json:"metrics"`
	Bot        *domain.BotDetectionResult `json:"bot,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.WalletAddress == "" {
		http.Error(w, "wallet_address is required", http.StatusBadRequest)
		return
	}

	records, err := s.collectSwaps(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	start := time.Now()
	res, err := s.analyzer.Analyze(req.WalletAddress, records)
	if err != nil {
		observability.RecordAnalysis("error", time.Since(start).Seconds(), len(records))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	observability.RecordAnalysis("success", time.Since(start).Seconds(), len(records))
	observability.RecordExcessSellDrops(res.Metrics.ExcessSellDropCount)
	observability.DefaultMetrics.LastSuccessfulAnalysis.SetToCurrentTime()

	bot := s.analyzer.DetectBot(res)
	if bot != nil && bot.Classification == domain.ClassificationBot {
		observability.RecordBotDetected()
	}

	snap := domain.NewMetricsSnapshot(res.Metrics)
	persisted := true
	switch err := s.snapshotStore.Insert(r.Context(), snap); {
	case errors.Is(err, storage.ErrDuplicateKey):
		persisted = false
		observability.RecordSnapshotPersisted(true)
	case err != nil:
		http.Error(w, fmt.Sprintf("persist snapshot: %v", err), http.StatusInternalServerError)
		return
	default:
		observability.RecordSnapshotPersisted(false)
	}

	s.mu.Lock()
	s.analysesRun++
	s.lastRun = time.Now()
	s.mu.Unlock()

	if persisted {
		s.hub.broadcast(snap)
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		SnapshotID: snap.SnapshotID,
		Persisted:  persisted,
		Metrics:    res.Metrics,
		Bot:        bot,
	})
}

// collectSwaps resolves the analysis input: inline swaps from the request,
// or the wallet's stored history.
func (s *Server) collectSwaps(ctx context.Context, req analyzeRequest) ([]domain.SwapRecord, error) {
	if len(req.Swaps) > 0 {
		records := make([]domain.SwapRecord, 0, len(req.Swaps))
		for _, p := range req.Swaps {
			records = append(records, domain.SwapRecord{
				WalletAddress: req.WalletAddress,
				Mint:          p.Mint,
				Timestamp:     p.Timestamp,
				Direction:     p.Direction,
				Amount:        p.Amount,
				SOLValue:      p.SOLValue,
				USDCValue:     p.USDCValue,
			})
		}
		return records, nil
	}

	rows, err := s.swapStore.GetByWallet(ctx, req.WalletAddress)
	if err != nil {
		return nil, fmt.Errorf("read swaps: %w", err)
	}
	records := make([]domain.SwapRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, *r)
	}
	return records, nil
}

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.snapshotStore.ListWallets(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"wallets": wallets})
}

// handleWallet serves /api/wallets/{wallet} and /api/wallets/{wallet}/report.
func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/wallets/")
	wallet, sub, _ := strings.Cut(rest, "/")
	if wallet == "" {
		http.Error(w, "wallet address required", http.StatusBadRequest)
		return
	}

	snap, err := s.snapshotStore.GetLatestByWallet(r.Context(), wallet)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "no snapshot for wallet", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	switch sub {
	case "":
		writeJSON(w, http.StatusOK, snap)
	case "report":
		report := reporting.BuildReport(snap.Metrics, nil, time.Now().UTC())
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(reporting.RenderMarkdown(report)))
	default:
		http.Error(w, "unknown resource", http.StatusNotFound)
	}
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status      string    `json:"status"`
	Uptime      string    `json:"uptime"`
	AnalysesRun int       `json:"analyses_run"`
	LastRun     time.Time `json:"last_run,omitempty"`
	WSClients   int       `json:"ws_clients"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Status:      "running",
		Uptime:      time.Since(s.startedAt).String(),
		AnalysesRun: s.analysesRun,
		LastRun:     s.lastRun,
	}
	s.mu.Unlock()
	resp.WSClients = s.hub.clientCount()

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// wsHub fans out persisted snapshots to connected WebSocket clients.
type wsHub struct {
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newWSHub(logger *log.Logger) *wsHub {
	return &wsHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The feed is read-only and unauthenticated; origin checks add
			// nothing here.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

func (h *wsHub) handleConnect(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	observability.DefaultMetrics.WSClientsConnected.Set(float64(n))

	// Drain reads so control frames are processed; drop the client when the
	// read loop ends.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *wsHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	n := len(h.clients)
	h.mu.Unlock()
	conn.Close()
	observability.DefaultMetrics.WSClientsConnected.Set(float64(n))
}

// broadcast sends the snapshot to every connected client. Slow or dead
// clients are dropped rather than blocking the analysis path.
func (h *wsHub) broadcast(snap *domain.MetricsSnapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		h.logger.Printf("Broadcast marshal failed: %v", err)
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(conn)
		}
	}
	observability.DefaultMetrics.WSBroadcastsTotal.Inc()
}

func (h *wsHub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *wsHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}
