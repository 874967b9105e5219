// Package shutdown provides graceful shutdown for VoltKV.
//
// This package handles process termination:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Programmatic triggering (the SHUTDOWN command)
//   - Timeout-based forced shutdown
//   - Cleanup hook registration, executed in reverse order
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return srv.Shutdown(ctx) })
//	err := h.Wait() // blocks until a signal or h.Trigger()
package shutdown
