package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	collectionservice "bazaar/contexts/catalog/collection-service"
	accesscontrol "bazaar/contexts/identity-access/access-control"
	exchangeservice "bazaar/contexts/trading/exchange-service"

	_ "bazaar/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	access   accesscontrol.Module
	catalog  collectionservice.Module
	exchange exchangeservice.Module
}

func New(
	access accesscontrol.Module,
	catalog collectionservice.Module,
	exchange exchangeservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		access:   access,
		catalog:  catalog,
		exchange: exchange,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/access/v1/roles/artist/grant", s.handleGrantArtistRole)
	s.mux.HandleFunc("GET /api/access/v1/roles/{role}/{account}", s.handleHasRole)

	s.mux.HandleFunc("POST /api/catalog/v1/collections", s.handleCreateCollection)
	s.mux.HandleFunc("GET /api/catalog/v1/collections/{collection_id}", s.handleGetCollection)
	s.mux.HandleFunc("POST /api/catalog/v1/items", s.handleCreateItem)
	s.mux.HandleFunc("GET /api/catalog/v1/items/{token_id}", s.handleGetItem)

	s.mux.HandleFunc("POST /api/exchange/v1/listings", s.handleListItem)
	s.mux.HandleFunc("POST /api/exchange/v1/listings/buy", s.handleBuyItem)
	s.mux.HandleFunc("POST /api/exchange/v1/listings/cancel", s.handleCancelListing)
	s.mux.HandleFunc("GET /api/exchange/v1/listings/{token_id}", s.handleGetListing)

	s.mux.HandleFunc("POST /api/exchange/v1/auctions", s.handleListItemOnAuction)
	s.mux.HandleFunc("POST /api/exchange/v1/auctions/bid", s.handleMakeBid)
	s.mux.HandleFunc("POST /api/exchange/v1/auctions/finish", s.handleFinishAuction)
	s.mux.HandleFunc("POST /api/exchange/v1/auctions/cancel", s.handleCancelAuction)
	s.mux.HandleFunc("GET /api/exchange/v1/auctions/{token_id}", s.handleGetAuction)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// resolveCaller reads the calling account address. Addresses arrive on the
// X-Account header; there is no session layer in front of this server.
func resolveCaller(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Account"))
}

func parseUintPath(r *http.Request, name string) (uint64, bool) {
	value, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
