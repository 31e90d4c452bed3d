package observability

import "go.uber.org/fx"

// Module provides the observability configuration. The tracing
// provider and HTTP metrics are wired by the server module so the
// middleware ordering stays in one place.
var Module = fx.Module("observability",
	fx.Provide(NewConfig),
)
