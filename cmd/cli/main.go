package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"goab/adapters/analytic"
	"goab/adapters/excel"
	"goab/adapters/montecarlo"
	"goab/adapters/rng"
	"goab/app"
	"goab/domain/abtest"
	"goab/internal/report"
	"goab/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goab",
		Short: "Two-proportion experiment analysis and planning",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newPlanCmd(),
		newImportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newService(seed int64, resamples int) (*app.ExperimentService, error) {
	simulation := montecarlo.NewResamplingReferee(rng.NewDeterministic(), seed)
	simulation.SetResamples(resamples)
	return app.NewExperimentService(
		[]ports.RefereePort{analytic.NewReferee(), simulation}, nil)
}

func runAnalysis(name string, control, treatment abtest.Observations, alpha float64, seed int64, resamples int) error {
	service, err := newService(seed, resamples)
	if err != nil {
		return err
	}
	exp, result, err := service.Analyze(context.Background(), app.AnalyzeRequest{
		Name:      name,
		Control:   control,
		Treatment: treatment,
		Alpha:     alpha,
	})
	if err != nil {
		return err
	}
	fmt.Print(report.Markdown(exp, result))
	return nil
}

func newAnalyzeCmd() *cobra.Command {
	var (
		name               string
		controlSuccesses   int
		controlTrials      int
		treatmentSuccesses int
		treatmentTrials    int
		alpha              float64
		seed               int64
		resamples          int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compare two variations and print the analysis report",
		RunE: func(cmd *cobra.Command, args []string) error {
			control, err := abtest.NewObservations(controlSuccesses, controlTrials)
			if err != nil {
				return fmt.Errorf("control: %w", err)
			}
			treatment, err := abtest.NewObservations(treatmentSuccesses, treatmentTrials)
			if err != nil {
				return fmt.Errorf("treatment: %w", err)
			}
			return runAnalysis(name, control, treatment, alpha, seed, resamples)
		},
	}

	cmd.Flags().StringVar(&name, "name", "cli-experiment", "Experiment name")
	cmd.Flags().IntVar(&controlSuccesses, "control-successes", 0, "Successes in the control arm")
	cmd.Flags().IntVar(&controlTrials, "control-trials", 0, "Trials in the control arm")
	cmd.Flags().IntVar(&treatmentSuccesses, "treatment-successes", 0, "Successes in the treatment arm")
	cmd.Flags().IntVar(&treatmentTrials, "treatment-trials", 0, "Trials in the treatment arm")
	cmd.Flags().Float64Var(&alpha, "alpha", abtest.DefaultAlpha, "Significance threshold")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the resampling test")
	cmd.Flags().IntVar(&resamples, "resamples", montecarlo.DefaultResamples, "Monte Carlo resamples")

	return cmd
}

func newPlanCmd() *cobra.Command {
	var cfg abtest.PowerConfig

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute the per-group sample size for a planned experiment",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := abtest.RequiredSampleSize(cfg)
			if err != nil {
				return err
			}
			filled := cfg.WithDefaults()
			fmt.Printf("Detecting a change of %+.4f from baseline %.4f (alpha=%.3g, power=%.3g)\n",
				filled.Delta, filled.BaselineRate, filled.Alpha, filled.Power)
			fmt.Printf("Required sample size per group: %d\n", n)
			return nil
		},
	}

	cmd.Flags().Float64Var(&cfg.BaselineRate, "baseline", 0, "Baseline success rate in (0,1)")
	cmd.Flags().Float64Var(&cfg.Delta, "delta", 0, "Minimum detectable absolute difference")
	cmd.Flags().Float64Var(&cfg.Alpha, "alpha", abtest.DefaultAlpha, "Significance threshold")
	cmd.Flags().Float64Var(&cfg.Power, "power", abtest.DefaultPower, "Target power")

	return cmd
}

func newImportCmd() *cobra.Command {
	var (
		file      string
		alpha     float64
		seed      int64
		resamples int
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Analyze the first two variations from an Excel or CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			variations, err := excel.NewDataReader(file).ReadVariations("")
			if err != nil {
				return err
			}
			if len(variations) < 2 {
				return fmt.Errorf("file %s has %d variation rows, need at least 2", file, len(variations))
			}
			name := fmt.Sprintf("%s vs %s", variations[0].Key, variations[1].Key)
			return runAnalysis(name, variations[0].Obs, variations[1].Obs, alpha, seed, resamples)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the .xlsx or .csv file")
	cmd.Flags().Float64Var(&alpha, "alpha", abtest.DefaultAlpha, "Significance threshold")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the resampling test")
	cmd.Flags().IntVar(&resamples, "resamples", montecarlo.DefaultResamples, "Monte Carlo resamples")
	cmd.MarkFlagRequired("file")

	return cmd
}
