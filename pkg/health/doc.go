// Package health serves the liveness and readiness probes of the file
// server.
//
// [LivenessHandler] always answers OK: if the process can respond, it is
// alive. [ReadinessHandler] runs named [Checks] concurrently under one
// deadline and answers 503 as soon as any dependency fails, so an
// orchestrator stops routing uploads to an instance whose backend is down.
//
// The Redis and Postgres storage backends expose Healthcheck() closures
// with the [CheckFunc] shape:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "postgres": pgStore.Healthcheck(),
//	    "redis":    redisStore.Healthcheck(),
//	}, health.WithTimeout(3*time.Second)))
//
// Responses are plain "OK"/"Service Unavailable" by default; pass
// ?format=json or Accept: application/json for per-check detail:
//
//	{"status":"unhealthy","checks":{"redis":{"status":"unhealthy","error":"connection refused"}}}
//
// The file server mounts both routes automatically; this package exists
// separately so embedders with their own router can mount them too.
package health
