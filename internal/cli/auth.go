package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(a *app) *cobra.Command {
	var schoolNumber string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with your school number",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			in := bufio.NewReader(cmd.InOrStdin())

			if schoolNumber == "" {
				fmt.Fprint(out, "학번: ")
				line, err := in.ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				schoolNumber = strings.TrimSpace(line)
			}
			password, err := readPassword(cmd, in)
			if err != nil {
				return err
			}

			user, err := a.store.SignIn(cmd.Context(), schoolNumber, password)
			if err != nil {
				return a.explain(cmd.Context(), err)
			}
			fmt.Fprintf(out, "✅ %s님 (%s호) 로그인되었습니다.\n", user.Name, user.RoomNumber)
			return nil
		},
	}
	cmd.Flags().StringVarP(&schoolNumber, "school-number", "u", "", "School number")
	return cmd
}

// readPassword reads without echo from a terminal, or a plain line otherwise.
func readPassword(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, "비밀번호: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		return string(b), err
	}
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.SignOut(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "server sign-out failed, local session cleared anyway: %v\n", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "로그아웃되었습니다.")
			return nil
		},
	}
}
