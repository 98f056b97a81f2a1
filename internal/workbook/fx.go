package workbook

import (
	"github.com/andeslabs/facturador/internal/workbook/service"
	"go.uber.org/fx"
)

var Module = fx.Module("workbook.service",
	fx.Provide(service.NewService),
)
