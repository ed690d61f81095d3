package signalhandler

import (
	"os"
	"os/signal"
	"syscall"
)

// SetupHandler exits cleanly on SIGINT or SIGTERM after running the given
// cleanup functions, so the debug log is flushed and closed
func SetupHandler(cleanup ...func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		for _, fn := range cleanup {
			fn()
		}
		os.Exit(130)
	}()
}
