package reporting

import (
	"go.uber.org/fx"

	repo "github.com/canteenhq/restro/internal/repository/order"
)

// Module provides the reporting service to Fx.
var Module = fx.Options(
	fx.Provide(
		NewService,
		func(r *repo.Repository) Ledger { return r },
	),
)
