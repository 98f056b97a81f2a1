package ingest

import (
	"github.com/andeslabs/facturador/internal/ingest/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ingest.service",
	fx.Provide(service.NewExtractor),
	fx.Provide(service.NewService),
)
