package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rongwang/shiftlog-server/internal/client"
	"github.com/rongwang/shiftlog-server/internal/filter"
	"github.com/rongwang/shiftlog-server/internal/models"
)

// entryQueryFlags maps command flags onto the query parameters the filter
// parser understands.
var entryQueryFlags = map[string]string{
	"category":  "categoryId",
	"status":    "status",
	"priority":  "priority",
	"equipment": "equipmentId",
	"location":  "locationId",
	"search":    "search",
	"from":      "dateFrom",
	"to":        "dateTo",
	"tz":        "tz",
}

func addEntryFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("category", "", "category id or code")
	cmd.Flags().String("status", "", "draft, active or cancelled")
	cmd.Flags().String("priority", "", "low, medium, high or critical")
	cmd.Flags().String("equipment", "", "equipment id")
	cmd.Flags().String("location", "", "location id")
	cmd.Flags().String("search", "", "case-insensitive text search")
	cmd.Flags().String("from", "", "first day, YYYY-MM-DD")
	cmd.Flags().String("to", "", "last day, YYYY-MM-DD")
	cmd.Flags().String("tz", "", "IANA time zone for --from and --to, defaults to the local zone")
}

// flagQuery builds filter query parameters from the command's flags. Dates
// are read in the local time zone unless --tz names another.
func flagQuery(cmd *cobra.Command, mapping map[string]string) url.Values {
	q := url.Values{}
	for flag, param := range mapping {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			q.Set(param, v)
		}
	}
	if q.Get("tz") == "" {
		if zone := localZone(); zone != "" {
			q.Set("tz", zone)
		}
	}
	return q
}

// localZone returns the IANA name of the local time zone, or "" when it
// cannot be determined and UTC applies.
func localZone() string {
	if name := time.Local.String(); name != "Local" && name != "UTC" {
		return name
	}
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil && tz != "UTC" {
			return tz
		}
		return ""
	}
	target, err := os.Readlink("/etc/localtime")
	if err != nil {
		return ""
	}
	if i := strings.Index(target, "zoneinfo/"); i >= 0 {
		name := target[i+len("zoneinfo/"):]
		if _, err := time.LoadLocation(name); err == nil {
			return name
		}
	}
	return ""
}

// entryFilterFromFlags reads --category as an id unless it names a code.
func entryFilterFromFlags(cmd *cobra.Command, categories []models.Category) (filter.EntryFilter, error) {
	f, err := filter.ParseEntryQuery(flagQuery(cmd, entryQueryFlags))
	if err != nil {
		return filter.EntryFilter{}, err
	}
	for _, c := range categories {
		if c.Code == f.CategoryID {
			f.CategoryID = c.ID
			break
		}
	}
	return f, nil
}

func entriesCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Work with operational journal entries",
	}
	cmd.AddCommand(entriesListCmd(s))
	cmd.AddCommand(entriesAddCmd(s))
	cmd.AddCommand(entriesActivateCmd(s))
	cmd.AddCommand(entriesCancelCmd(s))
	return cmd
}

func entriesListCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest first",
		Example: `  shiftlog entries list --status active
  shiftlog entries list --category emergency --from 2024-03-01 --to 2024-03-07`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.authenticated()
			if err != nil {
				return err
			}
			categories, err := c.ListCategories(cmd.Context(), false)
			if err != nil {
				return err
			}
			f, err := entryFilterFromFlags(cmd, categories)
			if err != nil {
				return err
			}

			journal := client.NewJournal(c)
			if err := journal.Load(cmd.Context()); err != nil {
				return err
			}
			entries := journal.View(f)

			out := cmd.OutOrStdout()
			for _, e := range entries {
				printEntry(out, e)
			}
			fmt.Fprintln(out, dim(fmt.Sprintf("%d of %d entries", len(entries), journal.Len())))
			return nil
		},
	}
	addEntryFilterFlags(cmd)
	return cmd
}

func entriesAddCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a journal entry",
		Example: `  shiftlog entries add --category emergency --title "Авария на ПС-12" \
    --description "КЗ на шинах 10 кВ" --priority critical --status active`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.authenticated()
			if err != nil {
				return err
			}

			var req models.CreateEntryRequest
			req.CategoryID, _ = cmd.Flags().GetString("category")
			req.Title, _ = cmd.Flags().GetString("title")
			req.Description, _ = cmd.Flags().GetString("description")
			req.EquipmentID, _ = cmd.Flags().GetString("equipment")
			req.LocationID, _ = cmd.Flags().GetString("location")
			p, _ := cmd.Flags().GetString("priority")
			req.Priority = models.Priority(p)
			st, _ := cmd.Flags().GetString("status")
			req.Status = models.EntryStatus(st)

			entry, err := c.CreateEntry(cmd.Context(), req)
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), *entry)
			return nil
		},
	}
	cmd.Flags().String("category", "", "category id or code")
	cmd.Flags().String("title", "", "short title")
	cmd.Flags().String("description", "", "full description")
	cmd.Flags().String("priority", string(models.PriorityMedium), "low, medium, high or critical")
	cmd.Flags().String("status", string(models.EntryActive), "draft or active")
	cmd.Flags().String("equipment", "", "equipment id")
	cmd.Flags().String("location", "", "location id")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func entriesActivateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <entry-id>",
		Short: "Publish a draft entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.authenticated()
			if err != nil {
				return err
			}
			entry, err := c.ActivateEntry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), *entry)
			return nil
		},
	}
}

func entriesCancelCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <entry-id>",
		Short: "Cancel an entry with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.authenticated()
			if err != nil {
				return err
			}
			var req models.CancelEntryRequest
			req.Reason, _ = cmd.Flags().GetString("reason")
			req.CancelledBy, _ = cmd.Flags().GetString("by")

			entry, err := c.CancelEntry(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), *entry)
			return nil
		},
	}
	cmd.Flags().String("reason", "", "why the entry is cancelled")
	cmd.Flags().String("by", "", "name recorded as cancelling, defaults to you")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}
