package main

import (
	"fmt"

	"caiso-reports/internal/config"
	"caiso-reports/internal/data"
	"caiso-reports/internal/model"
	"caiso-reports/internal/output"
	"caiso-reports/internal/pipeline"

	"github.com/spf13/cobra"
)

var renewablesCmd = &cobra.Command{
	Use:   "renewables",
	Short: "Pull Daily Renewables Watch reports",
	Long: `Download one Daily Renewables Watch report per day from --start to --end
(inclusive) and write the hourly breakdown and the generation-by-resource
tables to two files.`,
	Example: "  caiso renewables --start 2018-01-01 --end 2018-01-31 --delay 2s",
	RunE: func(cmd *cobra.Command, args []string) error {
		o := commonOverrides(cmd, cfg)
		o.Renewables.StartDate, _ = cmd.Flags().GetString("start")
		o.Renewables.EndDate, _ = cmd.Flags().GetString("end")
		o.Renewables.BreakdownOut, _ = cmd.Flags().GetString("breakdown-out")
		o.Renewables.ResourceOut, _ = cmd.Flags().GetString("resource-out")
		c := config.MergeOverrides(*cfg, o)
		if err := c.Validate(); err != nil {
			return err
		}

		start, end, err := c.RenewablesRange()
		if err != nil {
			return err
		}
		n, err := c.Normalizer()
		if err != nil {
			return err
		}
		client := data.NewClient(c.Renewables.BaseURL, c.OASIS.BaseURL, c.HTTPTimeout)
		runner := pipeline.New(client, n, c.Delay, c.FailFast)

		ctx, stop := signalContext()
		defer stop()

		res, runErr := runner.RunRenewables(ctx, start, end)
		if res == nil {
			return runErr
		}
		printSummary(res.Summary)

		breakdownPath := c.OutputPath(c.Renewables.BreakdownOut)
		resourcePath := c.OutputPath(c.Renewables.ResourceOut)
		if err := output.Write(breakdownPath, output.TableSheet("breakdown", res.Breakdown)); err != nil {
			return fmt.Errorf("write %s: %w", breakdownPath, err)
		}
		if err := output.Write(resourcePath, output.TableSheet("gen_by_resource", res.GenByResource)); err != nil {
			return fmt.Errorf("write %s: %w", resourcePath, err)
		}
		fmt.Printf("Wrote %d rows to %s\n", len(res.Breakdown.Rows), breakdownPath)
		fmt.Printf("Wrote %d rows to %s\n", len(res.GenByResource.Rows), resourcePath)
		return runErr
	},
}

func init() {
	renewablesCmd.Flags().String("start", "", "first day, YYYY-MM-DD")
	renewablesCmd.Flags().String("end", "", "last day, YYYY-MM-DD (inclusive)")
	renewablesCmd.Flags().String("breakdown-out", "", "breakdown table output (.csv or .xlsx)")
	renewablesCmd.Flags().String("resource-out", "", "generation-by-resource output (.csv or .xlsx)")
}

func printSummary(s model.RunSummary) {
	fmt.Printf("%-12s %-8s %-8s %s\n", "period", "status", "records", "detail")
	for _, p := range s.Periods {
		detail := ""
		switch {
		case p.Err != nil:
			detail = p.Err.Error()
		case len(p.Warnings) == 1:
			detail = p.Warnings[0]
		case len(p.Warnings) > 1:
			detail = fmt.Sprintf("%s (+%d more warnings)", p.Warnings[0], len(p.Warnings)-1)
		}
		fmt.Printf("%-12s %-8s %-8d %s\n", p.Period.Format("2006-01-02"), p.Status, p.Records, detail)
	}
	fmt.Printf("%s: %d periods, %d ok, %d warning, %d error, %d records in %v\n",
		s.Pipeline, len(s.Periods), s.Succeeded, s.Warned, s.Failed, s.Records, elapsed(s.Started, s.Finished))
}
