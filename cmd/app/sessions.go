package main

import (
	"context"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/packaging"

	"github.com/spf13/cobra"
)

var (
	buildStationType string
	buildDryRun      bool
	buildOrders      []string
)

var buildSessionsCmd = &cobra.Command{
	Use:   "build-sessions",
	Short: "Group ready shipments into pick sessions",
	Long: `Groups shipments that have packaging and a station into fulfillment
sessions, one station at a time. With --dry-run the plan is printed and
nothing is written.`,
	RunE: func(c *cobra.Command, _ []string) error {
		var stationType *packaging.StationType
		if buildStationType != "" {
			st, err := packaging.ParseStationType(buildStationType)
			if err != nil {
				return err
			}
			stationType = &st
		}

		command, err := commands.NewBuildSessionsCommand(stationType, buildDryRun, buildOrders)
		if err != nil {
			return err
		}

		return withRoot(c.Context(), func(ctx context.Context, root *cmd.CompositionRoot) error {
			result, err := root.CreateBuildSessionsCommandHandler().Handle(ctx, command)
			if err != nil {
				return err
			}
			return printJSON(httpin.ToBuildSessionsResponse(result))
		})
	},
}

func init() {
	buildSessionsCmd.Flags().StringVar(&buildStationType, "station-type", "", "only build sessions for boxing_machine, poly_bag or hand_pack stations")
	buildSessionsCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "print the plan without creating sessions")
	buildSessionsCmd.Flags().StringSliceVar(&buildOrders, "order", nil, "restrict to these order numbers (repeatable)")
}
