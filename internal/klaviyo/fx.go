package klaviyo

import "go.uber.org/fx"

// Module provides the Klaviyo API client.
var Module = fx.Module("klaviyo.client",
	fx.Provide(NewClient),
)
