package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lander/pkg/types"
)

func newChampionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "champions",
		Short: "Inspect archived champions",
	}
	cmd.AddCommand(newChampionsListCmd())
	return cmd
}

func newChampionsListCmd() *cobra.Command {
	var (
		runID         string
		limit, offset int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List champions in the order they were found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, table, err := archiveTable(types.ChampionsTable)
			if err != nil {
				return err
			}
			defer archive.Detach()

			filter := map[string]any{}
			if runID != "" {
				filter[types.FilterRunID] = runID
			}
			if limit > 0 {
				filter[types.FilterLimit] = limit
			}
			if offset > 0 {
				filter[types.FilterOffset] = offset
			}
			entities, err := table.Fetch(filter)
			if err != nil {
				return entityError("champions of run", runID, err)
			}

			views := make([]championView, 0, len(entities))
			for _, e := range entities {
				views = append(views, newChampionView(e.(*types.Champion)))
			}
			if flags.jsonMode {
				return printJSON(cmd, views)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tGENERATION\tSCORE\tSOURCE")
			for _, v := range views {
				fmt.Fprintf(tw, "%s\t%d\t%.4f\t%s\n", v.RunID, v.Generation, v.Score, v.Source)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "only champions of this run")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of champions")
	cmd.Flags().IntVar(&offset, "offset", 0, "champions to skip")
	return cmd
}
