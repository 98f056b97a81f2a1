package company

import (
	"github.com/andeslabs/facturador/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.directory",
	fx.Provide(service.NewDirectory),
)
