package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/cli/formatter"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/predict"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type probeResult struct {
	health    *predict.HealthStatus
	healthErr error
	info      *predict.ServiceInfo
	infoErr   error
}

// probeService queries /health and / concurrently. Probe failures are kept
// in the result, not returned, so one failing endpoint never hides the other.
func probeService(ctx context.Context, client predict.Client) probeResult {
	var r probeResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.health, r.healthErr = client.Health(gctx)
		return nil
	})
	g.Go(func() error {
		r.info, r.infoErr = client.Info(gctx)
		return nil
	})
	_ = g.Wait()
	return r
}

func newHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the prediction service is reachable and its models are loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Client == nil {
				return errors.New("prediction client not configured")
			}
			r := probeService(cmd.Context(), app.Client)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHealth(app.Endpoint, r.health, r.healthErr, r.info, r.infoErr))

			switch {
			case r.healthErr != nil:
				return r.healthErr
			case r.health == nil:
				return errors.New("prediction service returned no health status")
			case !r.health.Healthy():
				return fmt.Errorf("prediction service is %s (models loaded: %t)", r.health.Status, r.health.ModelsLoaded)
			}
			return nil
		},
	}
}
