package chargeback

import (
	"github.com/smallbiznis/tollgate/internal/chargeback/repository"
	"github.com/smallbiznis/tollgate/internal/chargeback/service"
	"go.uber.org/fx"
)

var Module = fx.Module("chargeback.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
