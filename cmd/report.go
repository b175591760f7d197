package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenfleet/greenfleet/config"
	"github.com/greenfleet/greenfleet/core/planner"
	"github.com/greenfleet/greenfleet/core/quota"
	"github.com/greenfleet/greenfleet/infra/logger"
	"github.com/greenfleet/greenfleet/internal/cli"
)

var (
	reportLimits []string
	reportDelay  time.Duration
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the yearly ledger of the fleet plan",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringArrayVar(&reportLimits, "limits", nil, "emission limit per year in kg CO2, repeat once per year")
	reportCmd.Flags().DurationVar(&reportDelay, "delay", 0, "optimizer delay")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	run, err := runPlan(cmd.Context(), cfg, reportLimits, reportDelay)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), cli.RenderRun(run))
	return err
}

// runPlan performs a single planning run outside of the HTTP service.
func runPlan(ctx context.Context, cfg *config.Config, limitTexts []string, delay time.Duration) (*planner.Run, error) {
	if err := configureLogging(cfg); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	svc, err := planner.NewService(planner.Options{
		Optimizer:    planner.NewStaticOptimizer(delay),
		StaticQuotas: cfg.Planner.Quotas,
		QuotaSource:  cfg.Planner.Source(),
		Logger:       logger.New("planner"),
	})
	if err != nil {
		return nil, err
	}
	var limits []float64
	if len(limitTexts) > 0 {
		if len(limitTexts) != svc.Horizon() {
			return nil, fmt.Errorf("expected %d limits, got %d", svc.Horizon(), len(limitTexts))
		}
		if limits, err = quota.ParseLimits(limitTexts); err != nil {
			return nil, err
		}
	}
	return svc.Run(ctx, planner.Request{Limits: limits})
}
