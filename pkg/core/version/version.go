// ============================================================================
// udyr - Expression Front End
// ============================================================================
//
// Package:     version
// Description: Central version management for the CLI, service and store
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for all udyr components
const (
	// Platform version
	Platform = "0.3.0"

	// Component versions
	Scanner  = "0.3.0"
	Parser   = "0.3.0"
	Frontend = "0.2.0" // udyr.v1.Frontend gRPC service
	History  = "0.1.0" // history store schema
)

// Build metadata, set with -ldflags "-X .../version.Commit=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ServiceVersion returns the version for a given component name
func ServiceVersion(name string) string {
	switch name {
	case "scanner":
		return Scanner
	case "parser":
		return Parser
	case "frontend":
		return Frontend
	case "history":
		return History
	default:
		return Platform
	}
}

// String returns the one-line version banner
func String() string {
	return fmt.Sprintf("udyr %s (commit %s, built %s, %s %s/%s)",
		Platform, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Info returns the version data as a map for structured output
func Info() map[string]string {
	return map[string]string{
		"platform":   Platform,
		"scanner":    Scanner,
		"parser":     Parser,
		"frontend":   Frontend,
		"history":    History,
		"commit":     Commit,
		"build_date": BuildDate,
		"go":         runtime.Version(),
	}
}
