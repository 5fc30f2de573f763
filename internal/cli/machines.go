package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"laundry-reservation/internal/jobstate"
	"laundry-reservation/internal/model"
	"laundry-reservation/internal/parse"
)

func newMachinesCmd(a *app) *cobra.Command {
	var floor int
	cmd := &cobra.Command{
		Use:     "machines",
		Aliases: []string{"ls"},
		Short:   "List washers and dryers on your floors",
		Long: `List washers and dryers on the floors your room may use.

Examples:
  laundryctl machines
  laundryctl machines --floor 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.FetchMachines(cmd.Context()); err != nil {
				return a.explain(cmd.Context(), err)
			}

			floors := a.store.CurrentAccessibleFloors()
			if floor != 0 {
				if !slices.Contains(floors, floor) {
					return fmt.Errorf("%d층은 이용할 수 없습니다", floor)
				}
				floors = []int{floor}
			}

			machines := a.store.MachinesOnFloors(floors)
			if len(machines) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "기기가 없습니다.")
				return nil
			}
			printMachines(cmd.OutOrStdout(), floors, machines)
			return nil
		},
	}
	cmd.Flags().IntVarP(&floor, "floor", "f", 0, "Only this floor")
	return cmd
}

func printMachines(w io.Writer, floors []int, machines []model.Machine) {
	for _, f := range floors {
		fmt.Fprintf(w, "\n%d층\n", f)
		for _, m := range machines {
			if m.Floor != f {
				continue
			}
			info := jobstate.Lookup(m.Type, m.JobState)
			remaining := ""
			if m.NextAvailableSeconds != nil && *m.NextAvailableSeconds > 0 {
				remaining = parse.FormatDuration(*m.NextAvailableSeconds)
			}
			fmt.Fprintf(w, "  %-10s %-10s %s %-8s %s\n", m.ID, m.Status, info.Icon, info.Label, remaining)
		}
	}
}
