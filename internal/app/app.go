package app

import (
	"go.uber.org/fx"

	"github.com/canteenhq/restro/internal/broadcast"
	"github.com/canteenhq/restro/internal/cache"
	"github.com/canteenhq/restro/internal/config"
	"github.com/canteenhq/restro/internal/database"
	"github.com/canteenhq/restro/internal/logger"
	"github.com/canteenhq/restro/internal/messaging"
	"github.com/canteenhq/restro/internal/observability"
	"github.com/canteenhq/restro/internal/payments"
	repositorymenu "github.com/canteenhq/restro/internal/repository/menu"
	repositoryorder "github.com/canteenhq/restro/internal/repository/order"
	httpserver "github.com/canteenhq/restro/internal/server/http"
	servicemenu "github.com/canteenhq/restro/internal/service/menu"
	serviceorder "github.com/canteenhq/restro/internal/service/order"
	servicereporting "github.com/canteenhq/restro/internal/service/reporting"
	"github.com/canteenhq/restro/internal/store"
	transporthttp "github.com/canteenhq/restro/internal/transport/http"
	"github.com/canteenhq/restro/internal/worker"
	workerorder "github.com/canteenhq/restro/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	store.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	broadcast.Module,
	payments.Module,
	repositoryorder.Module,
	repositorymenu.Module,
	serviceorder.Module,
	servicereporting.Module,
	servicemenu.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
