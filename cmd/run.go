package main

import (
	"log/slog"

	"flowstore/internal/sample"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var configDir, profileDir, scenario string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a sample scenario against a store",
		Long: `The run command builds a store with the logger, metrics, journal, thunk and fake api
middleware, runs the configured scenario and logs every state change until it settles.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := NewServices(configDir, profileDir, scenario)
			if err != nil {
				return err
			}
			defer svc.Close()

			ctx := cmd.Context()
			opts := sample.Options{
				Scenario:   svc.Config.Store.Scenario,
				LoadDelay:  svc.Config.Store.LoadDelayDuration(),
				ThunkSteps: svc.Config.Store.ThunkSteps,
				Journal:    svc.Journal,
				Logger:     svc.Logger,
			}

			app, err := sample.NewApp(ctx, opts)
			if err != nil {
				return err
			}

			final, err := app.Run(ctx, func(v sample.View) {
				slog.Info("state", "load", v.Load, "counter", v.Counter)
			})
			app.Wait()
			if err != nil {
				return err
			}

			slog.Info("Done", "load", final.Load, "counter", final.Counter)
			return nil
		},
	}

	cmd.Flags().StringVar(&configDir, "config-dir", "static", "directory holding application.yml")
	cmd.Flags().StringVar(&profileDir, "profile-dir", "static", "directory holding application-<profile>.yml")
	cmd.Flags().StringVar(&scenario, "scenario", "", "scenario to run (simple-async, thunk); overrides store.scenario")
	return cmd
}
