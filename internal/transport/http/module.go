package http

import (
	"go.uber.org/fx"

	dashboardtransport "github.com/canteenhq/restro/internal/transport/http/dashboard"
	eventstransport "github.com/canteenhq/restro/internal/transport/http/events"
	menutransport "github.com/canteenhq/restro/internal/transport/http/menu"
	ordertransport "github.com/canteenhq/restro/internal/transport/http/order"
	paymentstransport "github.com/canteenhq/restro/internal/transport/http/payments"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	ordertransport.Module,
	paymentstransport.Module,
	dashboardtransport.Module,
	eventstransport.Module,
	menutransport.Module,
)
