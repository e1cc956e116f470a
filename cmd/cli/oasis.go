package main

import (
	"fmt"

	"caiso-reports/internal/analysis"
	"caiso-reports/internal/config"
	"caiso-reports/internal/data"
	"caiso-reports/internal/oasis"
	"caiso-reports/internal/output"
	"caiso-reports/internal/pipeline"

	"github.com/spf13/cobra"
)

var oasisCmd = &cobra.Command{
	Use:   "oasis",
	Short: "Pull OASIS price queries",
	Long: `Download one OASIS SingleZip response per calendar month covering --start
to --end, extract the price records and write them to one file.

Supported queries are listed by "caiso queries".`,
	Example: "  caiso oasis --query PRC_RTPD_LMP --node MUSTANGS_2_B1 --start 2018-01-01 --end 2018-03-31",
	RunE: func(cmd *cobra.Command, args []string) error {
		o := commonOverrides(cmd, cfg)
		o.Timezone, _ = cmd.Flags().GetString("timezone")
		o.OASIS.Query, _ = cmd.Flags().GetString("query")
		o.OASIS.Node, _ = cmd.Flags().GetString("node")
		o.OASIS.StartDate, _ = cmd.Flags().GetString("start")
		o.OASIS.EndDate, _ = cmd.Flags().GetString("end")
		o.OASIS.Out, _ = cmd.Flags().GetString("out")
		c := config.MergeOverrides(*cfg, o)
		if err := c.Validate(); err != nil {
			return err
		}

		q, err := oasis.Lookup(c.OASIS.Query)
		if err != nil {
			return err
		}
		start, end, err := c.OASISRange()
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

		res, runErr := runner.RunOASIS(ctx, pipeline.OASISRequest{
			Query: q,
			Node:  c.OASIS.Node,
			Start: start,
			End:   end,
		})
		if res == nil {
			return runErr
		}
		printSummary(res.Summary)

		path := c.OASISOutPath(q)
		if err := output.Write(path, output.RecordsSheet(q.Name, res.Records)); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("Wrote %d records to %s\n", len(res.Records), path)

		if st := analysis.ComputeStats(res.Records); st.Count > 0 {
			fmt.Printf("%s %s: min=%.2f max=%.2f mean=%.2f p05=%.2f p95=%.2f daily spread=%.2f over %d days\n",
				q.Name, q.MarketRunID, st.Min, st.Max, st.Mean, st.P05, st.P95, st.MeanDailySpread, st.Days)
		}
		return runErr
	},
}

func init() {
	oasisCmd.Flags().String("query", "", "query name, e.g. PRC_LMP (default from config)")
	oasisCmd.Flags().String("node", "", "pricing node; not used by PRC_AS")
	oasisCmd.Flags().String("start", "", "first day, YYYY-MM-DD")
	oasisCmd.Flags().String("end", "", "last day, YYYY-MM-DD (inclusive)")
	oasisCmd.Flags().String("timezone", "", "local timezone for month boundaries and naive timestamps")
	oasisCmd.Flags().String("out", "", "output file (default {node}_{market}_{query}.csv)")
}
