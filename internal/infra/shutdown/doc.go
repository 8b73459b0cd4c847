// Package shutdown coordinates process termination for respkv-server.
//
// A Handler waits for SIGINT/SIGTERM (or an explicit Trigger) and then
// runs the registered hooks in reverse registration order under a
// single timeout:
//
//	h := shutdown.NewHandler(10*time.Second, log)
//	h.OnShutdown("redis", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
