package config

import "go.uber.org/fx"

// Module provides the loaded service configuration.
var Module = fx.Provide(Load)
