// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/lockguard/internal/adapters/bunlockb"
	_ "go.trai.ch/lockguard/internal/adapters/cas"
	_ "go.trai.ch/lockguard/internal/adapters/config"
	_ "go.trai.ch/lockguard/internal/adapters/fs"
	_ "go.trai.ch/lockguard/internal/adapters/httpfetch"
	_ "go.trai.ch/lockguard/internal/adapters/logger"
	_ "go.trai.ch/lockguard/internal/adapters/npmregistry"
	_ "go.trai.ch/lockguard/internal/adapters/shell"
	_ "go.trai.ch/lockguard/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/lockguard/internal/app"
	_ "go.trai.ch/lockguard/internal/engine/lockfile"
	_ "go.trai.ch/lockguard/internal/engine/virtual"
)
