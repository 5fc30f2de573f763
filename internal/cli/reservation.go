package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"laundry-reservation/internal/parse"
)

func newReserveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reserve <machine>",
		Short: "Reserve a machine by label, e.g. W-3-R1",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireSignIn(); err != nil {
				return err
			}
			if err := a.store.FetchMachines(ctx); err != nil {
				return a.explain(ctx, err)
			}
			if err := a.store.FetchMyInfo(ctx); err != nil {
				return a.explain(ctx, err)
			}

			r, err := a.store.CreateReservation(ctx, args[0])
			if err != nil {
				return a.explain(ctx, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s 예약 완료. %s 안에 확정하세요 (laundryctl confirm).\n",
				r.MachineID, parse.FormatDuration(r.TimeRemaining))
			return nil
		},
	}
}

func newConfirmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm",
		Short: "Confirm your reservation at the machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireSignIn(); err != nil {
				return err
			}
			if err := a.store.FetchMyInfo(ctx); err != nil {
				return a.explain(ctx, err)
			}
			if err := a.store.ConfirmReservation(ctx); err != nil {
				return a.explain(ctx, err)
			}
			r := a.store.CurrentReservation()
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s 예약이 확정되었습니다.\n", r.MachineID)
			return nil
		},
	}
}

func newCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Cancel your reservation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireSignIn(); err != nil {
				return err
			}
			if err := a.store.FetchMyInfo(ctx); err != nil {
				return a.explain(ctx, err)
			}
			if err := a.store.CancelReservation(ctx); err != nil {
				return a.explain(ctx, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "예약이 취소되었습니다.")
			return nil
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report <machine> <description...>",
		Short: "Report a broken machine",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.store.FetchMachines(ctx); err != nil {
				return a.explain(ctx, err)
			}
			if err := a.store.ReportMachine(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
				return a.explain(ctx, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s 고장 신고가 접수되었습니다.\n", args[0])
			return nil
		},
	}
}
