package logger

import "go.uber.org/fx"

// Module provides the shared slog logger.
var Module = fx.Provide(New)
