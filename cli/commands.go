// cli/commands.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"habit-pact/services"

	"github.com/spf13/cobra"
)

func NewMigrateCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			// loadApp migrates on open
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s database\n", a.Config.StorageBackend)
			return nil
		},
	}
}

func NewTriggerCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trigger-checkins",
		Short: "Send today's check-in mails once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.Job.Run(cmd.Context())
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d challenge(s), %d sent, %d failed\n",
				summary.Date, summary.Challenges, summary.Sent, summary.Failed)
			return nil
		},
	}
}

func NewTopCommand(opts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the longest current streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			top, err := a.Streaks.TopStreaks(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), top)
			}
			return writeTopTable(cmd.OutOrStdout(), top)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", services.DefaultTopStreaks, "number of entries")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTopTable(w io.Writer, top []services.TopStreak) error {
	if len(top) == 0 {
		_, err := fmt.Fprintln(w, "no active streaks")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STREAK\tPARTICIPANT\tHABIT")
	for _, e := range top {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.StreakCount, e.ParticipantEmail, e.HabitDescription)
	}
	return tw.Flush()
}
