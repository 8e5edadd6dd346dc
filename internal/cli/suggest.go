package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav-1/jobfill/classifier"
	"github.com/manav-1/jobfill/internal/storage"
	"github.com/manav-1/jobfill/profile"
)

func (c *CLI) newSuggestCommand() *cobra.Command {
	var info classifier.FieldInfo

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest profile values for one form field",
		Example: `  # Suggest values for a field by its name attribute
  jobfill suggest --name fname

  # Labels and placeholders count as signals too
  jobfill suggest --label "City of residence"
  jobfill suggest --placeholder "Current employer"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			prof, err := store.LoadProfile()
			if errors.Is(err, storage.ErrNotFound) {
				prof = profile.Default()
			} else if err != nil {
				return err
			}

			suggestions := classifier.Suggest(info, prof)
			if suggestions == nil {
				suggestions = []classifier.Suggestion{}
			}
			output, err := json.MarshalIndent(suggestions, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(output))
			return nil
		},
	}

	cmd.Flags().StringVar(&info.FieldName, "name", "", "Field name attribute")
	cmd.Flags().StringVar(&info.FieldID, "id", "", "Field id attribute")
	cmd.Flags().StringVar(&info.Placeholder, "placeholder", "", "Field placeholder text")
	cmd.Flags().StringVar(&info.Label, "label", "", "Field label text")
	return cmd
}
