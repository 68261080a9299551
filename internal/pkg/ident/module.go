package ident

import "go.uber.org/fx"

// Module wires the UUID generator for dependency injection.
var Module = fx.Provide(func() Generator { return UUID{} })
