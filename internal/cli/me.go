package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"laundry-reservation/internal/parse"
)

func newMeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show your account, restriction and reservation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSignIn(); err != nil {
				return err
			}
			if err := a.store.FetchMyInfo(cmd.Context()); err != nil {
				return a.explain(cmd.Context(), err)
			}

			out := cmd.OutOrStdout()
			u := a.store.CurrentUser()
			fmt.Fprintf(out, "%s (%s호)\n", u.Name, u.RoomNumber)

			floors := make([]string, 0, 3)
			for _, f := range a.store.CurrentAccessibleFloors() {
				floors = append(floors, strconv.Itoa(f)+"층")
			}
			fmt.Fprintf(out, "이용 가능 층: %s\n", strings.Join(floors, ", "))

			if remaining := u.RestrictionRemaining(a.store.Now()); remaining != "" {
				fmt.Fprintf(out, "⚠ 예약 제한 중: %s 남음", remaining)
				if u.RestrictionReason != "" {
					fmt.Fprintf(out, " (%s)", u.RestrictionReason)
				}
				fmt.Fprintln(out)
			}

			r := a.store.CurrentReservation()
			if r == nil {
				fmt.Fprintln(out, "예약 없음")
				return nil
			}
			fmt.Fprintf(out, "예약: %s  %s  남은 시간 %s\n", r.MachineID, r.Status, parse.FormatDuration(r.TimeRemaining))
			return nil
		},
	}
}
