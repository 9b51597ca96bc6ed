package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lander/pkg/types"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect archived evolution runs",
	}
	cmd.AddCommand(newRunsListCmd(), newRunsShowCmd(), newRunsDeleteCmd())
	return cmd
}

func newRunsListCmd() *cobra.Command {
	var (
		state, controller string
		limit, offset     int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, table, err := archiveTable(types.RunsTable)
			if err != nil {
				return err
			}
			defer archive.Detach()

			filter := map[string]any{}
			if state != "" {
				filter[types.FilterState] = state
			}
			if controller != "" {
				filter[types.FilterController] = controller
			}
			if limit > 0 {
				filter[types.FilterLimit] = limit
			}
			if offset > 0 {
				filter[types.FilterOffset] = offset
			}
			entities, err := table.Fetch(filter)
			if err != nil {
				return entityError("runs", "", err)
			}

			views := make([]runView, 0, len(entities))
			for _, e := range entities {
				views = append(views, newRunView(e.(*types.Run)))
			}
			if flags.jsonMode {
				return printJSON(cmd, views)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tCONTROLLER\tSTATE\tGENERATIONS\tBEST\tSTARTED")
			for _, v := range views {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.4f\t%s\n",
					v.RunID, v.Controller, v.State, v.Generations, v.BestScore, v.StartedAt)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "only runs in this state: running, finished or aborted")
	cmd.Flags().StringVar(&controller, "controller", "", "only runs of this controller kind")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of runs")
	cmd.Flags().IntVar(&offset, "offset", 0, "runs to skip")
	return cmd
}

func newRunsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a run and its champion count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, table, err := archiveTable(types.RunsTable)
			if err != nil {
				return err
			}
			defer archive.Detach()

			entity, err := table.Get(args[0])
			if err != nil {
				return entityError("run", args[0], err)
			}
			champions, err := archive.GetTable(types.ChampionsTable)
			if err != nil {
				return sysError(err)
			}
			found, err := champions.Fetch(map[string]any{types.FilterRunID: args[0]})
			if err != nil {
				return entityError("run", args[0], err)
			}

			v := newRunView(entity.(*types.Run))
			if flags.jsonMode {
				return printJSON(cmd, struct {
					runView
					Champions int `json:"champions"`
				}{v, len(found)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run:         %s\n", v.RunID)
			if v.Name != "" {
				fmt.Fprintf(out, "name:        %s\n", v.Name)
			}
			fmt.Fprintf(out, "controller:  %s\nstate:       %s\nseed:        %d\n", v.Controller, v.State, v.Seed)
			fmt.Fprintf(out, "generations: %d\nbest score:  %.4f\nchampions:   %d\n", v.Generations, v.BestScore, len(found))
			fmt.Fprintf(out, "started:     %s\n", v.StartedAt)
			if v.FinishedAt != "" {
				fmt.Fprintf(out, "finished:    %s\n", v.FinishedAt)
			}
			return nil
		},
	}
}

func newRunsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a run and its champions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, table, err := archiveTable(types.RunsTable)
			if err != nil {
				return err
			}
			defer archive.Detach()

			if err := table.Delete(args[0]); err != nil {
				return entityError("run", args[0], err)
			}
			if flags.jsonMode {
				return printJSON(cmd, map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted run %s\n", args[0])
			return nil
		},
	}
}
