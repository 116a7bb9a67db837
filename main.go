// =============================================================================
// Retail Analytics - Main Entry Point
// =============================================================================
//
// USAGE:
//   retail-analytics analyze   - Run the cleaning and aggregation pipeline
//   retail-analytics version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/        : CLI command definitions (Cobra)
//   - internal/   : Pipeline stages (loader, cleaner, aggregator, reporter)
//   - pkg/        : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/retail-analytics/cmd"
)

func main() {
	cmd.Execute()
}
