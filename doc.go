// Package bchain dispatches HTTP requests through ordered chains of handlers.
//
// # Overview
//
// An [Application] holds a stack of middleware and routes. Every request walks that stack in
// registration order. Each link decides whether the request continues: it either answers, or it
// calls next to hand the request to the following link. Routers can be mounted under a base path
// so a large service is assembled from small, separately tested pieces.
//
// A minimal example:
//
//	app := bchain.NewApplication()
//	app.Get("/items/:id", func(w bchain.ResponseWriter, r *bchain.Request, next bchain.Next) error {
//	    item, ok := items[r.Param("id")]
//	    if !ok {
//	        next(nil) // fall through to the not-found handler
//	        return nil
//	    }
//	    return w.JSON(item)
//	}).Named("get-item")
//
//	_ = app.Listen(8080, nil)
//
// # Handlers and next
//
// A [Handler] receives the response, the request and a [Next] function:
//
//	func(w bchain.ResponseWriter, r *bchain.Request, next bchain.Next) error
//
// Calling next(nil) continues with the following link that applies to the request. Calling
// next(err) skips every remaining link and hands err to the error handler. Returning a non-nil
// error is the same as calling next with it, and so is a panic, which arrives as a [*PanicError].
// next takes effect at most once per handler; further calls are reported to the [Logger] and
// otherwise ignored.
//
// The chain runs synchronously. A handler that starts goroutines waits for them and calls next
// before it returns. When a handler returns without calling next the chain ends there, and once
// the whole chain has ended the response is ended implicitly if nobody did so.
//
// # Routes and patterns
//
// Routes are registered per method with [Router.Get], [Router.Post] and friends, or with
// [Router.Handle] for methods without a shorthand. Patterns consist of literal segments and
// named parameters:
//
//	/users/:id/posts/:slug
//
// A trailing slash is ignored on both sides and parameters bind the raw, still escaped, segment.
// Routes are tried in the order they were registered and the first match wins. A matching route
// may still call next(nil) to let a later route or the not-found handler answer.
//
// # Mounting
//
// [Router.Mount] installs a sub router under a base path. The prefix check is segment aware, so
// "/apix" is not under "/api", and the base itself may hold parameters:
//
//	v := bchain.NewRouter()
//	v.Get("/items/:id", getItem)
//	app.Mount("/api/:version", v)
//
// Middleware of the sub router only runs for requests under its base. When nothing in the sub
// router answers, dispatch continues in the host after the mount point. Errors raised inside it
// reach the host's error handler. Mounting a router into itself, directly or through another
// router, panics.
//
// # Responses
//
// [ResponseWriter] extends http.ResponseWriter with Express-style helpers: [ResponseWriter.Status]
// sets the status, [ResponseWriter.Send] and [ResponseWriter.JSON] write a complete body and end
// the response, and [ResponseWriter.End] ends it without a body. Writing after the response ended
// is reported as misuse, or panics when [WithStrictWrites] is enabled.
//
// # Errors
//
// [NewError] attaches a [Code] to an error so the default error handler can pick the status:
//
//	return bchain.NewError(bchain.CodeNotFound, errors.Newf("item %q not found", id))
//
// Errors without a code become 500 Internal Server Error. [Application.SetErrorHandler] replaces
// the default behavior for the whole application.
//
// # Named routes
//
// Routes can be named with [Route.Named] and turned back into paths with [Router.Reverse]:
//
//	url, err := app.Reverse("get-item", "123") // "/items/123"
//
// # Standard library handlers
//
// [Std] adapts an http.Handler into a chain link that always ends the chain, which is how
// existing handlers such as promhttp are mounted:
//
//	app.Handle(http.MethodGet, "/metrics", bchain.Std(promhttp.Handler()))
//
// Static files are served by the static sub package and a complete service runtime, with
// configuration, logging, tracing and metrics, lives in the serve sub package.
package bchain
