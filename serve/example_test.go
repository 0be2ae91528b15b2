package serve_test

import (
	"net/http"

	"github.com/advdv/bchain"
	"github.com/advdv/bchain/serve"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Env defines the environment variables for the application.
type Env struct {
	serve.BaseEnvironment
	CatalogURL string `env:"CATALOG_URL,required"`
}

// ItemHandlers depends on the runtime for configuration and outbound calls.
type ItemHandlers struct {
	rt *serve.Runtime[Env]
}

func NewItemHandlers(rt *serve.Runtime[Env]) *ItemHandlers {
	return &ItemHandlers{rt: rt}
}

func (h *ItemHandlers) GetItem(w bchain.ResponseWriter, r *bchain.Request, _ bchain.Next) error {
	id := r.Param("id")

	serve.Span(r.Context()).SetAttributes(attribute.String("item.id", id))
	serve.Log(r.Context()).Info("fetching item", zap.String("id", id))

	var item map[string]any
	if err := h.rt.NewRequest().
		BaseURL(h.rt.Env().CatalogURL).
		Pathf("/items/%s", id).
		ToJSON(&item).
		Fetch(r.Context()); err != nil {
		return bchain.NewError(bchain.CodeBadGateway, err)
	}

	self, err := h.rt.Reverse("get-item", id)
	if err != nil {
		return err
	}

	w.Header().Set("Location", self)

	return w.JSON(item)
}

func Example() {
	api := bchain.NewRouter()
	api.Use(bchain.HandlerFunc(func(w bchain.ResponseWriter, _ *bchain.Request, next bchain.Next) error {
		w.Header().Set("Cache-Control", "no-store")
		next(nil)
		return nil
	}))

	serve.NewApp[Env](func(app *bchain.Application, h *ItemHandlers) {
		app.Get("/items/:id", h.GetItem).Named("get-item")

		api.Get("/version", func(w bchain.ResponseWriter, _ *bchain.Request, _ bchain.Next) error {
			return w.JSON(map[string]string{"version": "v1"})
		})
		app.Mount("/api", api)
	},
		serve.WithFx(fx.Provide(NewItemHandlers)),
		serve.WithHealthHandler(func(w bchain.ResponseWriter, _ *bchain.Request, _ bchain.Next) error {
			return w.Status(http.StatusNoContent).End()
		}),
	).Run()
}
