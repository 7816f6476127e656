// Package handlers contains reusable pieces of the catalog HTTP service.
//
// This package provides:
//   - Health check interfaces and implementations
//   - API key authentication backed by bcrypt hashes
//   - Small middleware helpers
//
// # Health Checks
//
// The HealthChecker interface allows registering multiple named health checks
// that are executed in parallel:
//
//	checker := handlers.NewCompositeHealthChecker("v1.0.0")
//	checker.AddCheck("store", handlers.NewPingCheck(conn))
//	checker.AddCheck("cache", handlers.NewPingCheck(cache))
//
//	status := checker.Check(ctx)
//
// # Authentication
//
// Mutating catalog routes can require an API key. Configuration holds only the
// bcrypt hash:
//
//	hash, _ := handlers.HashAPIKey("s3cret", 0)
//	auth := handlers.NewAPIKeyAuth("", hash)
//	mux.Handle("POST /books", auth.Middleware(createHandler))
package handlers
