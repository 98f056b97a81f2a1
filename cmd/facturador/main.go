package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/andeslabs/facturador/internal/aggregate"
	"github.com/andeslabs/facturador/internal/clock"
	"github.com/andeslabs/facturador/internal/company"
	"github.com/andeslabs/facturador/internal/config"
	"github.com/andeslabs/facturador/internal/ingest"
	"github.com/andeslabs/facturador/internal/observability"
	"github.com/andeslabs/facturador/internal/pipeline"
	pipelineservice "github.com/andeslabs/facturador/internal/pipeline/service"
	"github.com/andeslabs/facturador/internal/reconcile"
	"github.com/andeslabs/facturador/internal/report"
	"github.com/andeslabs/facturador/internal/server"
	"github.com/andeslabs/facturador/internal/staging"
	"github.com/andeslabs/facturador/internal/workbook"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "facturador",
		Short:   "Facturador CLI",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newServeCmd(), newRenderCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the billing API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newRenderCmd() *cobra.Command {
	var runID string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Rebuild the invoice archive from a kept run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(runID)
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "staged run ID to re-render")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}

func pipelineModules() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		clock.Module,
		company.Module,
		staging.Module,
		ingest.Module,
		reconcile.Module,
		aggregate.Module,
		workbook.Module,
		report.Module,
		pipeline.Module,
	)
}

func runServe() {
	app := fx.New(
		pipelineModules(),
		server.Module,
	)
	app.Run()
}

func runRender(runID string) error {
	var svc pipelineservice.Service
	app := fx.New(
		pipelineModules(),
		fx.Populate(&svc),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("render failed to start: %w", err)
	}
	defer func() { _ = app.Stop(context.Background()) }()

	ctx, cancelRender := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancelRender()

	outcome, err := svc.RenderStagedRun(ctx, runID)
	if err != nil {
		return err
	}
	fmt.Printf("archive %s written to %s (%d invoices, %d failed)\n",
		outcome.Name, outcome.Path, outcome.Rendered, len(outcome.Failed))
	return nil
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
