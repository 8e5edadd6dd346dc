package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/manav-1/jobfill/internal/storage"
)

func (c *CLI) newAppsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Track job applications",
	}
	cmd.AddCommand(c.newAppsListCommand())
	cmd.AddCommand(c.newAppsAddCommand())
	cmd.AddCommand(c.newAppsStatusCommand())
	cmd.AddCommand(c.newAppsStatsCommand())
	cmd.AddCommand(c.newAppsRemoveCommand())
	return cmd
}

func (c *CLI) newAppsListCommand() *cobra.Command {
	var status string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			apps, err := store.ListApplications(status, limit)
			if err != nil {
				return err
			}

			if asJSON {
				output, err := json.MarshalIndent(apps, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(output))
				return nil
			}

			if len(apps) == 0 {
				fmt.Println("No applications tracked.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCOMPANY\tTITLE\tSTATUS\tSOURCE\tCREATED")
			for _, app := range apps {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					app.ID, app.Company, app.Title, app.Status, app.Source,
					app.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func (c *CLI) newAppsAddCommand() *cobra.Command {
	var app storage.Application

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Track a new application",
		Example: `  jobfill apps add --title "Backend Engineer" --company Acme \
    --url https://www.linkedin.com/jobs/view/12345`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			created, err := store.CreateApplication(app)
			if err != nil {
				return err
			}
			fmt.Printf("Tracked %s at %s (%s, id %s)\n", created.Title, created.Company, created.Source, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&app.Title, "title", "", "Job title")
	cmd.Flags().StringVar(&app.Company, "company", "", "Company name")
	cmd.Flags().StringVar(&app.URL, "url", "", "Posting URL")
	cmd.Flags().StringVar(&app.Location, "location", "", "Job location")
	cmd.Flags().StringVar(&app.Salary, "salary", "", "Advertised salary")
	cmd.Flags().StringVar(&app.Notes, "notes", "", "Free-form notes")
	return cmd
}

func (c *CLI) newAppsStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <draft|applied|interviewing|offer|rejected>",
		Short: "Move an application to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.UpdateStatus(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Application %s is now %s\n", args[0], args[1])
			return nil
		},
	}
}

func (c *CLI) newAppsStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize tracked applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.ApplicationStats()
			if err != nil {
				return err
			}

			fmt.Printf("Total: %d (this week %d, this month %d)\n", stats.Total, stats.ThisWeek, stats.ThisMonth)
			for status, count := range stats.ByStatus {
				fmt.Printf("  %s: %d\n", status, count)
			}
			if len(stats.Companies) > 0 {
				fmt.Printf("Companies: %d distinct\n", len(stats.Companies))
			}
			return nil
		},
	}
}

func (c *CLI) newAppsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a tracked application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteApplication(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed application %s\n", args[0])
			return nil
		},
	}
}
