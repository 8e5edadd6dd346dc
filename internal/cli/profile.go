package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/manav-1/jobfill/internal/storage"
	"github.com/manav-1/jobfill/profile"
)

func (c *CLI) newProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the stored applicant profile",
	}
	cmd.AddCommand(c.newProfileShowCommand())
	cmd.AddCommand(c.newProfileImportCommand())
	cmd.AddCommand(c.newProfileSetCommand())
	cmd.AddCommand(c.newProfileResumeCommand())
	return cmd
}

func (c *CLI) newProfileShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored profile as JSON",
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

			output, err := json.MarshalIndent(prof, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(output))
			return nil
		},
	}
}

func (c *CLI) newProfileImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <profile.json>",
		Short: "Import a profile from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			var prof profile.Profile
			if err := json.Unmarshal(data, &prof); err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SaveProfile(&prof); err != nil {
				return err
			}
			fmt.Printf("Imported profile for %s\n", prof.FullName())
			return nil
		},
	}
}

// settable maps profile set keys to personal info fields.
var settable = map[string]func(pi *profile.PersonalInfo, v string){
	"firstName": func(pi *profile.PersonalInfo, v string) { pi.FirstName = v },
	"lastName":  func(pi *profile.PersonalInfo, v string) { pi.LastName = v },
	"email":     func(pi *profile.PersonalInfo, v string) { pi.Email = v },
	"phone":     func(pi *profile.PersonalInfo, v string) { pi.Phone = v },
	"address":   func(pi *profile.PersonalInfo, v string) { pi.Address = v },
	"city":      func(pi *profile.PersonalInfo, v string) { pi.City = v },
	"state":     func(pi *profile.PersonalInfo, v string) { pi.State = v },
	"zipCode":   func(pi *profile.PersonalInfo, v string) { pi.ZipCode = v },
	"country":   func(pi *profile.PersonalInfo, v string) { pi.Country = v },
	"linkedin":  func(pi *profile.PersonalInfo, v string) { pi.LinkedIn = v },
	"github":    func(pi *profile.PersonalInfo, v string) { pi.GitHub = v },
	"website":   func(pi *profile.PersonalInfo, v string) { pi.Website = v },
}

func (c *CLI) newProfileSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Set one personal info field",
		Example: `  jobfill profile set firstName Ada
  jobfill profile set email ada@example.com`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			setter, ok := settable[args[0]]
			if !ok {
				keys := make([]string, 0, len(settable))
				for k := range settable {
					keys = append(keys, k)
				}
				return fmt.Errorf("unknown field %q (valid: %s)", args[0], strings.Join(keys, ", "))
			}

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

			setter(&prof.PersonalInfo, args[1])
			if err := store.SaveProfile(prof); err != nil {
				return err
			}
			fmt.Printf("Set %s\n", args[0])
			return nil
		},
	}
}

func (c *CLI) newProfileResumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <resume.pdf>",
		Short: "Extract text from a resume PDF into the profile summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := extractPDFText(args[0])
			if err != nil {
				return err
			}

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

			prof.Summary = text
			seeded := seedFromResume(prof, text)
			if err := store.SaveProfile(prof); err != nil {
				return err
			}

			c.log.Info("resume imported",
				zap.String("file", args[0]),
				zap.Int("chars", len(text)),
				zap.Strings("seeded", seeded),
			)
			fmt.Printf("Imported %d characters of resume text\n", len(text))
			if len(seeded) > 0 {
				fmt.Printf("Seeded fields: %s\n", strings.Join(seeded, ", "))
			}
			return nil
		},
	}
}

var (
	emailRe    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d()\-\s.]{7,}\d`)
	linkedinRe = regexp.MustCompile(`(?:https?://)?(?:www\.)?linkedin\.com/in/[A-Za-z0-9\-_%]+`)
	githubRe   = regexp.MustCompile(`(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9\-_]+`)
)

// seedFromResume fills empty contact fields from values found in the resume
// text. Fields the user already set are never overwritten. Returns the names
// of the fields that were seeded.
func seedFromResume(prof *profile.Profile, text string) []string {
	var seeded []string
	pi := &prof.PersonalInfo

	if pi.Email == "" {
		if m := emailRe.FindString(text); m != "" {
			pi.Email = m
			seeded = append(seeded, "email")
		}
	}
	if pi.Phone == "" {
		if m := phoneRe.FindString(text); m != "" {
			pi.Phone = strings.TrimSpace(m)
			seeded = append(seeded, "phone")
		}
	}
	if pi.LinkedIn == "" {
		if m := linkedinRe.FindString(text); m != "" {
			pi.LinkedIn = m
			seeded = append(seeded, "linkedin")
		}
	}
	if pi.GitHub == "" {
		if m := githubRe.FindString(text); m != "" {
			pi.GitHub = m
			seeded = append(seeded, "github")
		}
	}
	return seeded
}

func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("reading text from %s: %w", path, err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", fmt.Errorf("%s contains no extractable text", path)
	}
	return text, nil
}
