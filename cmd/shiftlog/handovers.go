package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rongwang/shiftlog-server/internal/client"
	"github.com/rongwang/shiftlog-server/internal/filter"
	"github.com/rongwang/shiftlog-server/internal/models"
)

var handoverQueryFlags = map[string]string{
	"status":   "status",
	"shift":    "shiftType",
	"operator": "operator",
	"from":     "dateFrom",
	"to":       "dateTo",
	"tz":       "tz",
}

func handoversCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handovers",
		Short: "Hand shifts over and review past handovers",
	}
	cmd.AddCommand(handoversListCmd(s))
	cmd.AddCommand(handoversCreateCmd(s))
	cmd.AddCommand(handoversAcceptCmd(s))
	cmd.AddCommand(handoverTransitionCmd(s, "complete", "Mark your pending handover as handed over", (*client.Client).CompleteHandover))
	cmd.AddCommand(handoverTransitionCmd(s, "cancel", "Withdraw your pending handover", (*client.Client).CancelHandover))
	return cmd
}

func handoversListCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List handovers, latest shift first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.authenticated()
			if err != nil {
				return err
			}
			f, err := filter.ParseHandoverQuery(flagQuery(cmd, handoverQueryFlags))
			if err != nil {
				return err
			}

			handovers := client.NewHandovers(c)
			if err := handovers.Load(cmd.Context()); err != nil {
				return err
			}
			visible := handovers.View(f)

			out := cmd.OutOrStdout()
			for _, h := range visible {
				printHandover(out, h)
			}
			fmt.Fprintln(out, dim(fmt.Sprintf("%d of %d handovers", len(visible), handovers.Len())))
			return nil
		},
	}
	cmd.Flags().String("status", "", "pending, completed or cancelled")
	cmd.Flags().String("shift", "", "day or night")
	cmd.Flags().String("operator", "", "outgoing or incoming operator name")
	cmd.Flags().String("from", "", "first shift date, YYYY-MM-DD")
	cmd.Flags().String("to", "", "last shift date, YYYY-MM-DD")
	cmd.Flags().String("tz", "", "IANA time zone for --from and --to, defaults to the local zone")
	return cmd
}

func handoversCreateCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a handover for your shift",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.authenticated()
			if err != nil {
				return err
			}
			var req models.CreateHandoverRequest
			req.ShiftDate, _ = cmd.Flags().GetString("date")
			shift, _ := cmd.Flags().GetString("shift")
			req.ShiftType = models.ShiftType(shift)
			req.OngoingWorks, _ = cmd.Flags().GetString("ongoing")
			req.SpecialInstructions, _ = cmd.Flags().GetString("instructions")
			req.Incidents, _ = cmd.Flags().GetString("incidents")

			h, err := c.CreateHandover(cmd.Context(), req)
			if err != nil {
				return err
			}
			printHandover(cmd.OutOrStdout(), *h)
			return nil
		},
	}
	cmd.Flags().String("date", "", "shift date, YYYY-MM-DD")
	cmd.Flags().String("shift", "", "day or night")
	cmd.Flags().String("ongoing", "", "works still in progress")
	cmd.Flags().String("instructions", "", "special instructions for the next shift")
	cmd.Flags().String("incidents", "", "incidents during the shift")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("shift")
	return cmd
}

func handoversAcceptCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept <handover-id>",
		Short: "Take over a pending shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.authenticated()
			if err != nil {
				return err
			}
			notes, _ := cmd.Flags().GetString("notes")
			h, err := c.AcceptHandover(cmd.Context(), args[0], models.AcceptHandoverRequest{Notes: notes})
			if err != nil {
				return err
			}
			printHandover(cmd.OutOrStdout(), *h)
			return nil
		},
	}
	cmd.Flags().String("notes", "", "acceptance notes")
	return cmd
}

type handoverTransition func(*client.Client, context.Context, string) (*models.ShiftHandover, error)

func handoverTransitionCmd(s *session, use, short string, run handoverTransition) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <handover-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.authenticated()
			if err != nil {
				return err
			}
			h, err := run(c, cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printHandover(cmd.OutOrStdout(), *h)
			return nil
		},
	}
}
