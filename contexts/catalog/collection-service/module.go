package collectionservice

import (
	"log/slog"

	httpadapter "bazaar/contexts/catalog/collection-service/adapters/http"
	"bazaar/contexts/catalog/collection-service/adapters/memory"
	"bazaar/contexts/catalog/collection-service/application"
	"bazaar/contexts/catalog/collection-service/ports"
	"bazaar/internal/shared/chain"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository  ports.Repository
	Roles       ports.RoleChecker
	Factory     chain.ItemContractFactory
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:    deps.Repository,
		Roles:   deps.Roles,
		Factory: deps.Factory,
		Clock:   deps.Clock,
		IDGen:   deps.IDGenerator,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(roles ports.RoleChecker, factory chain.ItemContractFactory, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Roles:       roles,
		Factory:     factory,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
