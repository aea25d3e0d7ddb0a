package apiservice

import (
	"github.com/smallbiznis/tollgate/internal/apiservice/repository"
	"github.com/smallbiznis/tollgate/internal/apiservice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("apiservice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
