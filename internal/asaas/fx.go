package asaas

import "go.uber.org/fx"

// Module provides the Asaas API client.
var Module = fx.Module("asaas.client",
	fx.Provide(NewClient),
)
