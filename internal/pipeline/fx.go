package pipeline

import (
	"github.com/andeslabs/facturador/internal/pipeline/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pipeline.service",
	fx.Provide(service.NewService),
)
