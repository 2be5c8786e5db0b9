// Command gridstore serves an in-memory power network component store.
//
// Networks are uploaded as IIDM JSON documents, their components are updated
// through typed, schema-validated patches, and every applied update is
// streamed to live subscribers over SSE, WebSocket and MQTT.
//
//	gridstore serve --config configs/config.yaml
//	gridstore validate network.json
//	gridstore schema Line
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

func main() {
	// Cancel on Ctrl+C and SIGTERM so serve can shut down gracefully.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		cancel()
		os.Exit(1)
	}
}
