package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/railbook/internal/infra/logger"
)

func signupCmd(g *globalOpts) *cobra.Command {
	var password string

	c := &cobra.Command{
		Use:   "signup NAME",
		Short: "Register a new user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := openSystem(g.root, withLogger(logger.L()))
			if err != nil {
				return err
			}
			defer func() { _ = sys.Close() }()
			pw, err := readPassword(cmd.InOrStdin(), password)
			if err != nil {
				return err
			}

			id, err := sys.accounts.SignUp(args[0], pw)
			if err != nil {
				return err
			}
			return printStatus(cmd.OutOrStdout(), g.format, "signup_success", id)
		},
	}

	c.Flags().StringVarP(&password, "password", "p", "", "Password (read from stdin if omitted)")
	return c
}

func loginCmd(g *globalOpts) *cobra.Command {
	var password string

	c := &cobra.Command{
		Use:   "login NAME",
		Short: "Check credentials and print the user id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := openSystem(g.root, withLogger(logger.L()), withReadOnly())
			if err != nil {
				return err
			}
			defer func() { _ = sys.Close() }()
			pw, err := readPassword(cmd.InOrStdin(), password)
			if err != nil {
				return err
			}

			id, err := sys.accounts.Login(args[0], pw)
			if err != nil {
				return err
			}
			return printStatus(cmd.OutOrStdout(), g.format, "login_success", id)
		},
	}

	c.Flags().StringVarP(&password, "password", "p", "", "Password (read from stdin if omitted)")
	return c
}

// readPassword returns flag when set, otherwise the first line of in.
func readPassword(in io.Reader, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
