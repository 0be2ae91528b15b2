// Command bchain-example runs a small item service on the serve stack. Configuration is read
// from the environment, with a .env file in the working directory loaded first when present.
package main

import (
	"net/http"
	"sync"

	"github.com/advdv/bchain"
	"github.com/advdv/bchain/middleware"
	"github.com/advdv/bchain/serve"
	_ "github.com/joho/godotenv/autoload"
	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Env is the configuration of the example service.
type Env struct {
	serve.BaseEnvironment
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"65536"`
}

type item struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Items keeps items in memory.
type Items struct {
	rt *serve.Runtime[Env]

	mu    sync.RWMutex
	items map[string]item
}

func NewItems(rt *serve.Runtime[Env]) *Items {
	return &Items{rt: rt, items: map[string]item{}}
}

func (h *Items) List(w bchain.ResponseWriter, _ *bchain.Request, _ bchain.Next) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return w.JSON(lo.Values(h.items))
}

func (h *Items) Get(w bchain.ResponseWriter, r *bchain.Request, next bchain.Next) error {
	h.mu.RLock()
	it, ok := h.items[r.Param("id")]
	h.mu.RUnlock()

	if !ok {
		next(nil)
		return nil
	}

	return w.JSON(it)
}

func (h *Items) Put(w bchain.ResponseWriter, r *bchain.Request, _ bchain.Next) error {
	it, err := middleware.Decode[item](r)
	if err != nil {
		return err
	}

	it.ID = r.Param("id")

	h.mu.Lock()
	h.items[it.ID] = it
	h.mu.Unlock()

	self, err := h.rt.Reverse("get-item", it.ID)
	if err != nil {
		return err
	}

	serve.Log(r.Context()).Info("stored item", zap.String("id", it.ID), zap.String("name", it.Name))
	w.Header().Set("Location", self)

	return w.Status(http.StatusCreated).JSON(it)
}

func main() {
	serve.NewApp[Env](func(app *bchain.Application, env Env, logger *zap.Logger, h *Items) {
		app.Use(
			middleware.RequestID(),
			middleware.AccessLog(logger, middleware.ExcludePaths(env.ReadinessCheckPath, serve.DefaultMetricsPath)),
		)

		api := bchain.NewRouter()
		api.Use(middleware.JSONBody(env.MaxBodyBytes))
		api.Get("/items", h.List)
		api.Put("/items/:id", h.Put)

		app.Get("/api/items/:id", h.Get).Named("get-item")
		app.Mount("/api", api)
	},
		serve.WithFx(fx.Provide(NewItems)),
	).Run()
}
