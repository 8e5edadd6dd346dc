package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/manav-1/jobfill"
	"github.com/manav-1/jobfill/internal/browser"
)

func (c *CLI) newDetectCommand() *cobra.Command {
	var threshold float64
	var render bool
	var watchPage bool

	cmd := &cobra.Command{
		Use:   "detect [url-or-file]",
		Short: "Detect application form fields in a URL, HTML file, or stdin",
		Args:  cobra.MaximumNArgs(1),
		Example: `  # Detect fields on a posting
  jobfill detect https://example.com/careers/apply

  # Detect fields in a saved page
  jobfill detect application.html

  # Pipe HTML content
  curl -s https://example.com/apply | jobfill detect

  # Render script-heavy pages in a headless browser first
  jobfill detect https://example.com/apply --render

  # Keep watching the page and re-detect after dynamic changes
  jobfill detect https://example.com/apply --watch

  # Use a custom score threshold
  jobfill detect application.html --threshold 0.5`,
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
			if cmd.Flags().Changed("threshold") {
				engine.SetThreshold(threshold)
			}

			if watchPage {
				if len(args) == 0 || !isURL(args[0]) {
					return fmt.Errorf("--watch requires a URL argument")
				}
				return c.watchAndDetect(cmd.Context(), engine, args[0])
			}

			htmlContent, target, err := c.pageContent(cmd, args, render)
			if err != nil || htmlContent == "" {
				return err
			}

			start := time.Now()
			report, err := engine.Detect(htmlContent)
			if err != nil {
				return err
			}
			c.log.Debug("detection completed",
				zap.String("target", target),
				zap.Int("controls", report.Controls),
				zap.Int("fields", len(report.Fields)),
				zap.Duration("duration", time.Since(start)),
			)

			return printReport(report)
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0.6, "Minimum match score")
	cmd.Flags().BoolVar(&render, "render", false, "Render the page in a headless browser before detection")
	cmd.Flags().BoolVar(&watchPage, "watch", false, "Watch the page and re-detect after dynamic changes")
	return cmd
}

func (c *CLI) watchAndDetect(ctx context.Context, engine *jobfill.Engine, url string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	drv := browser.New(c.log, c.cfg.Browser.Headless, c.cfg.Browser.Timeout)
	err := drv.Watch(ctx, url, func(html string) {
		report, err := engine.Detect(html)
		if err != nil {
			c.log.Warn("re-detection failed", zap.Error(err))
			return
		}
		if err := printReport(report); err != nil {
			c.log.Warn("printing report", zap.Error(err))
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// pageContent resolves the page HTML from an argument or stdin. An empty
// content return with nil error means help was printed.
func (c *CLI) pageContent(cmd *cobra.Command, args []string, render bool) (content, target string, err error) {
	if len(args) == 0 {
		if isStdinTerminal() {
			return "", "", cmd.Help()
		}
		return c.readFromStdin(render)
	}

	target = args[0]
	if isURL(target) && render {
		drv := browser.New(c.log, c.cfg.Browser.Headless, c.cfg.Browser.Timeout)
		content, err = drv.Render(cmd.Context(), target, 0)
		return content, target, err
	}

	c.log.Debug("fetching page", zap.String("target", target))
	content, err = fetchHTML(target)
	return content, target, err
}

func printReport(report *jobfill.Report) error {
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isStdinTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func fetchHTML(target string) (string, error) {
	if isURL(target) {
		resp, err := http.Get(target)
		if err != nil {
			return "", fmt.Errorf("fetch URL: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read response: %w", err)
		}
		return string(body), nil
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

func (c *CLI) readFromStdin(render bool) (string, string, error) {
	c.log.Debug("reading from stdin")
	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	content := strings.TrimSpace(string(body))
	if content == "" {
		return "", "", fmt.Errorf("stdin is empty")
	}

	if isURL(content) {
		c.log.Debug("stdin contains URL", zap.String("url", content))
		if render {
			drv := browser.New(c.log, c.cfg.Browser.Headless, c.cfg.Browser.Timeout)
			html, err := drv.Render(context.Background(), content, 0)
			return html, content, err
		}
		html, err := fetchHTML(content)
		return html, content, err
	}

	return content, "stdin", nil
}
