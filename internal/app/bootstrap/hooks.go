// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires reelsite into the WAFFLE lifecycle. app.Run calls them in
// order, from configuration loading through graceful shutdown.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "reelsite",
	LoadConfig:     LoadConfig,     // core + REELSITE_* config
	ValidateConfig: ValidateConfig, // Mongo URI, key lengths, audit destinations
	ConnectDB:      ConnectDB,      // MongoDB client
	EnsureSchema:   EnsureSchema,   // validators and indexes
	Startup:        Startup,        // site data, seeding, background jobs
	BuildHandler:   BuildHandler,   // router + middleware stack
	Shutdown:       Shutdown,       // stop jobs, disconnect MongoDB
}
