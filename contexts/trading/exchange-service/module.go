package exchangeservice

import (
	"log/slog"
	"time"

	httpadapter "bazaar/contexts/trading/exchange-service/adapters/http"
	"bazaar/contexts/trading/exchange-service/adapters/memory"
	"bazaar/contexts/trading/exchange-service/application"
	"bazaar/contexts/trading/exchange-service/domain/services"
	"bazaar/contexts/trading/exchange-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository      ports.Repository
	Collections     ports.CollectionDirectory
	Escrow          services.Escrow
	Guard           *services.ReentrancyGuard
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	AuctionDuration time.Duration
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	guard := deps.Guard
	if guard == nil {
		guard = services.NewReentrancyGuard()
	}
	service := application.Service{
		Repo:            deps.Repository,
		Collections:     deps.Collections,
		Escrow:          deps.Escrow,
		Guard:           guard,
		Clock:           deps.Clock,
		IDGen:           deps.IDGenerator,
		AuctionDuration: deps.AuctionDuration,
		Logger:          deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(
	collections ports.CollectionDirectory,
	escrow services.Escrow,
	logger *slog.Logger,
) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Collections: collections,
		Escrow:      escrow,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
