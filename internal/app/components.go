package app

import "go.trai.ch/lockguard/internal/core/ports"

// LogControl switches the log output at runtime.
type LogControl interface {
	SetJSON(enabled bool)
	SetVerbose(enabled bool)
}

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App        *App
	Logger     ports.Logger
	LogControl LogControl
}
