package processor

import "go.uber.org/fx"

// Module exposes the stub authorizer to the fx graph. A deployment with a
// real gateway swaps this provider for its own client.
var Module = fx.Provide(func() Authorizer { return NewStub() })
