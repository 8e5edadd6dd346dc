package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/manav-1/jobfill/internal/browser"
	"github.com/manav-1/jobfill/internal/storage"
)

func (c *CLI) newFillCommand() *cobra.Command {
	var planOnly bool
	var live bool
	var render bool
	var out string

	cmd := &cobra.Command{
		Use:   "fill [url-or-file]",
		Short: "Fill application form fields from the stored profile",
		Args:  cobra.MaximumNArgs(1),
		Example: `  # Print the fill plan without touching anything
  jobfill fill application.html --plan

  # Write the filled document to a file
  jobfill fill application.html --out filled.html

  # Fill the live page in a browser, dispatching real input events
  jobfill fill https://example.com/apply --live

  # Render a script-heavy page before planning
  jobfill fill https://example.com/apply --render --plan`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			engine, err := c.loadEngine(store)
			if err != nil {
				return err
			}

			prof, err := store.LoadProfile()
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no profile stored; run 'jobfill profile import' first")
			}
			if err != nil {
				return err
			}

			if live {
				if len(args) == 0 || !isURL(args[0]) {
					return fmt.Errorf("--live requires a URL argument")
				}
				url := args[0]

				drv := browser.New(c.log, c.cfg.Browser.Headless, c.cfg.Browser.Timeout)
				html, err := drv.Render(cmd.Context(), url, 0)
				if err != nil {
					return err
				}
				plan, err := engine.BuildPlan(html, prof)
				if err != nil {
					return err
				}
				count, err := drv.ExecuteFill(cmd.Context(), url, plan)
				if err != nil {
					return err
				}
				c.log.Info("live fill completed", zap.String("url", url), zap.Int("filled", count))
				fmt.Printf("Filled %d of %d planned fields\n", count, len(plan.Actions))
				return nil
			}

			htmlContent, target, err := c.pageContent(cmd, args, render)
			if err != nil || htmlContent == "" {
				return err
			}

			if planOnly {
				plan, err := engine.BuildPlan(htmlContent, prof)
				if err != nil {
					return err
				}
				output, err := json.MarshalIndent(plan, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(output))
				return nil
			}

			filled, err := engine.FillHTML(htmlContent, prof)
			if err != nil {
				return err
			}
			c.log.Info("static fill completed", zap.String("target", target), zap.Int("filled", filled.Count))

			if out != "" {
				if err := os.WriteFile(out, []byte(filled.HTML), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", out, err)
				}
				fmt.Printf("Filled %d fields, wrote %s\n", filled.Count, out)
				return nil
			}
			fmt.Println(filled.HTML)
			return nil
		},
	}

	cmd.Flags().BoolVar(&planOnly, "plan", false, "Print the fill plan as JSON instead of filling")
	cmd.Flags().BoolVar(&live, "live", false, "Fill the live page in a headless browser")
	cmd.Flags().BoolVar(&render, "render", false, "Render the page in a headless browser before planning")
	cmd.Flags().StringVar(&out, "out", "", "Write the filled document to this file")
	return cmd
}
