package order

import (
	"go.uber.org/fx"

	"github.com/canteenhq/restro/internal/broadcast"
	"github.com/canteenhq/restro/internal/payments"
	repo "github.com/canteenhq/restro/internal/repository/order"
)

// Module provides the order service to Fx, binding the concrete
// collaborators to the service-side capability interfaces.
var Module = fx.Options(
	fx.Provide(
		NewService,
		func(r *repo.Repository) Repository { return r },
		func(p *payments.Provider) Verifier { return p },
		func(b *broadcast.Broadcaster) Broadcaster { return b },
	),
)
