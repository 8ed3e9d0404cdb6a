package cli

import (
	"github.com/spf13/cobra"

	"github.com/aalvaropc/railbook/internal/infra/logger"
)

func bookCmd(g *globalOpts) *cobra.Command {
	var userID string

	c := &cobra.Command{
		Use:   "book TRAIN_ID",
		Short: "Book one seat on a train",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := openSystem(g.root, withLogger(logger.L()))
			if err != nil {
				return err
			}
			defer func() { _ = sys.Close() }()
			t, err := sys.bookings.Book(userID, args[0])
			if err != nil {
				return err
			}
			return printTicket(cmd.OutOrStdout(), t, g.format)
		},
	}

	c.Flags().StringVarP(&userID, "user", "u", "", "User id (required)")
	_ = c.MarkFlagRequired("user")
	return c
}

func bookingsCmd(g *globalOpts) *cobra.Command {
	var userID string

	c := &cobra.Command{
		Use:   "bookings",
		Short: "List a user's tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sys, err := openSystem(g.root, withLogger(logger.L()), withReadOnly())
			if err != nil {
				return err
			}
			defer func() { _ = sys.Close() }()
			tickets, err := sys.bookings.List(userID)
			if err != nil {
				return err
			}
			return printTickets(cmd.OutOrStdout(), tickets, g.format)
		},
	}

	c.Flags().StringVarP(&userID, "user", "u", "", "User id (required)")
	_ = c.MarkFlagRequired("user")
	return c
}

func cancelCmd(g *globalOpts) *cobra.Command {
	var userID string

	c := &cobra.Command{
		Use:   "cancel TICKET_ID",
		Short: "Cancel a ticket you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := openSystem(g.root, withLogger(logger.L()))
			if err != nil {
				return err
			}
			defer func() { _ = sys.Close() }()
			if err := sys.bookings.Cancel(args[0], userID); err != nil {
				return err
			}
			return printStatus(cmd.OutOrStdout(), g.format, "cancelled", "")
		},
	}

	c.Flags().StringVarP(&userID, "user", "u", "", "User id (required)")
	_ = c.MarkFlagRequired("user")
	return c
}
