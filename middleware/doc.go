// Package middleware holds chain handlers that most services install in front of their routes:
// request ids, access logging and request body decoding.
//
//	app := bchain.NewApplication()
//	app.Use(
//		middleware.RequestID(),
//		middleware.AccessLog(logger, middleware.ExcludePaths("/health")),
//		middleware.JSONBody(1<<20),
//	)
//
// Body middleware stores what it read in [bchain.Request.Payload]. Handlers read it back with
// [Decode] or query it in place with [JSONPath].
package middleware
