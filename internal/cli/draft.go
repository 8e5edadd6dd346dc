package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/manav-1/jobfill/internal/ai"
	"github.com/manav-1/jobfill/internal/logger"
)

func (c *CLI) newDraftCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Generate cover letters and interview prep with an LLM",
	}
	cmd.AddCommand(c.newDraftLetterCommand())
	cmd.AddCommand(c.newDraftQuestionsCommand())
	return cmd
}

func (c *CLI) newDraftLetterCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "letter <application-id>",
		Short: "Generate a cover letter for a tracked application",
		Args:  cobra.ExactArgs(1),
		Example: `  jobfill draft letter 4f7c2e
  jobfill draft letter 4f7c2e --reason "Long-time user of their product"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			app, err := store.GetApplication(args[0])
			if err != nil {
				return err
			}
			prof, err := store.LoadProfile()
			if err != nil {
				return fmt.Errorf("no profile stored; run 'jobfill profile import' first")
			}

			provider, err := c.provider(cmd.Context())
			if err != nil {
				return err
			}

			letter, err := provider.GenerateCoverLetter(cmd.Context(), ai.JobInfo{
				Title:   app.Title,
				Company: app.Company,
				Reason:  reason,
			}, prof)
			if err != nil {
				return err
			}

			if err := store.SetCoverLetter(app.ID, letter); err != nil {
				return err
			}

			c.log.Debug("cover letter generated",
				zap.String("application", app.ID),
				zap.String("provider", provider.Name()),
				zap.String("preview", logger.Truncate(letter, 120)),
			)
			fmt.Println(letter)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Personal reason for interest in the role")
	return cmd
}

func (c *CLI) newDraftQuestionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "questions <application-id>",
		Short: "Generate likely interview questions for a tracked application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			app, err := store.GetApplication(args[0])
			if err != nil {
				return err
			}
			prof, err := store.LoadProfile()
			if err != nil {
				return fmt.Errorf("no profile stored; run 'jobfill profile import' first")
			}

			provider, err := c.provider(cmd.Context())
			if err != nil {
				return err
			}

			questions, err := provider.GenerateInterviewQuestions(cmd.Context(), app.Title, prof)
			if err != nil {
				return err
			}

			encoded, err := ai.QuestionsJSON(questions)
			if err != nil {
				return err
			}
			if err := store.SetQuestions(app.ID, encoded); err != nil {
				return err
			}

			for i, q := range questions {
				fmt.Printf("%2d. [%s] %s\n", i+1, q.Category, q.Question)
			}
			return nil
		},
	}
}
