package report

import (
	"github.com/andeslabs/facturador/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(service.NewRenderer),
	fx.Provide(service.NewService),
)
