package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"laundry-reservation/internal/model"
)

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator commands (role is verified with the server)",
	}
	cmd.AddCommand(
		newAdminUsersCmd(a),
		newAdminRestrictCmd(a),
		newAdminUnrestrictCmd(a),
		newAdminReservationsCmd(a),
		newAdminForceCancelCmd(a),
		newAdminReportsCmd(a),
		newAdminResolveCmd(a),
		newAdminOutOfOrderCmd(a),
	)
	return cmd
}

// requireAdmin asks the server; the cached admin flag is never trusted.
func (a *app) requireAdmin(cmd *cobra.Command) error {
	if err := a.requireSignIn(); err != nil {
		return err
	}
	ok, err := a.store.VerifyAdmin(cmd.Context())
	if err != nil {
		return a.explain(cmd.Context(), err)
	}
	if !ok {
		return fmt.Errorf("관리자 권한이 필요합니다")
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func newAdminUsersCmd(a *app) *cobra.Command {
	var (
		query          string
		restrictedOnly bool
	)
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and search users",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(cmd); err != nil {
				return err
			}
			if err := a.store.FetchUsers(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "showing cached users: %v\n", err)
			}

			out := cmd.OutOrStdout()
			now := a.store.Now()
			for _, u := range a.store.FilterUsers(query, restrictedOnly) {
				fmt.Fprintf(out, "%6d  %-10s %-5s %s", u.ID, u.Name, u.RoomNumber, u.SchoolNumber)
				if remaining := u.RestrictionRemaining(now); remaining != "" {
					fmt.Fprintf(out, "  제한 %s (%s)", remaining, u.RestrictionReason)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Match name, room or school number")
	cmd.Flags().BoolVar(&restrictedOnly, "restricted", false, "Only restricted users")
	return cmd
}

func newAdminRestrictCmd(a *app) *cobra.Command {
	var (
		days   int
		reason string
	)
	cmd := &cobra.Command{
		Use:   "restrict <user-id>",
		Short: "Suspend a user's reservations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			if err := a.requireAdmin(cmd); err != nil {
				return err
			}
			until := a.store.Now().AddDate(0, 0, days)
			if err := a.store.RestrictUserOnServer(cmd.Context(), id, until, reason); err != nil {
				return a.explain(cmd.Context(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "사용자 %d: %s까지 예약 제한\n", id, until.Format(time.DateTime))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Restriction length in days")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason shown to the user")
	return cmd
}

func newAdminUnrestrictCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unrestrict <user-id>",
		Short: "Lift a restriction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireAdmin(cmd); err != nil {
				return err
			}
			if err := a.store.UnrestrictUserOnServer(cmd.Context(), id); err != nil {
				return a.explain(cmd.Context(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "사용자 %d: 제한 해제\n", id)
			return nil
		},
	}
}

func newAdminReservationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reservations",
		Short: "List every reservation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(cmd); err != nil {
				return err
			}
			list, err := a.store.FetchAllReservations(cmd.Context())
			if err != nil {
				return a.explain(cmd.Context(), err)
			}
			out := cmd.OutOrStdout()
			for _, r := range list {
				fmt.Fprintf(out, "%6d  %-10s %-5s %-10s %s\n", r.ID, r.MachineLabel, r.RoomNumber, r.Status, r.RemainingTime)
			}
			return nil
		},
	}
}

func newAdminForceCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "force-cancel <reservation-id>",
		Short: "Cancel any reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireAdmin(cmd); err != nil {
				return err
			}
			if err := a.store.ForceCancelReservation(cmd.Context(), id); err != nil {
				return a.explain(cmd.Context(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "예약 %d 취소됨\n", id)
			return nil
		},
	}
}

func newAdminReportsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List malfunction reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(cmd); err != nil {
				return err
			}
			reports, err := a.store.FetchReports(cmd.Context())
			if err != nil {
				return a.explain(cmd.Context(), err)
			}
			out := cmd.OutOrStdout()
			for _, r := range reports {
				state := "미처리"
				if r.Resolved {
					state = "처리됨"
				}
				fmt.Fprintf(out, "%6d  %-10s %-6s %s  %s\n", r.ID, r.MachineLabel, state, r.CreatedAt.Format(time.DateTime), r.Description)
			}
			return nil
		},
	}
}

func newAdminResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <report-id>",
		Short: "Mark a report as handled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireAdmin(cmd); err != nil {
				return err
			}
			if err := a.store.ResolveReport(cmd.Context(), id); err != nil {
				return a.explain(cmd.Context(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "신고 %d 처리 완료\n", id)
			return nil
		},
	}
}

func newAdminOutOfOrderCmd(a *app) *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "out-of-order <machine>",
		Short: "Flag a machine as out of order (--off to clear)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(cmd); err != nil {
				return err
			}
			if err := a.store.FetchMachines(cmd.Context()); err != nil {
				return a.explain(cmd.Context(), err)
			}
			if err := a.store.SetMachineOutOfOrder(cmd.Context(), args[0], !off); err != nil {
				return a.explain(cmd.Context(), err)
			}
			m, _ := a.store.Machine(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", m.ID, statusText(m.Status))
			return nil
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "Clear the out-of-order flag")
	return cmd
}

func statusText(s model.MachineStatus) string {
	if s == model.MachineBroken {
		return "고장 처리됨"
	}
	return "정상 (" + string(s) + ")"
}
