package cli

import (
	"testing"

	"github.com/manav-1/jobfill/profile"
)

func TestSeedFromResume(t *testing.T) {
	text := `Ada Lovelace
Lead Engineer
ada@example.com | +1 (555) 010-0123
linkedin.com/in/ada-lovelace
github.com/adal`

	prof := profile.Default()
	seeded := seedFromResume(prof, text)
	if len(seeded) != 4 {
		t.Fatalf("seeded = %v, want 4 fields", seeded)
	}

	pi := prof.PersonalInfo
	if pi.Email != "ada@example.com" {
		t.Errorf("email = %q", pi.Email)
	}
	if pi.Phone == "" {
		t.Error("phone not seeded")
	}
	if pi.LinkedIn != "linkedin.com/in/ada-lovelace" {
		t.Errorf("linkedin = %q", pi.LinkedIn)
	}
	if pi.GitHub != "github.com/adal" {
		t.Errorf("github = %q", pi.GitHub)
	}
}

func TestSeedFromResumeKeepsExistingValues(t *testing.T) {
	prof := profile.Default()
	prof.PersonalInfo.Email = "kept@example.com"

	seeded := seedFromResume(prof, "other@example.com")
	if len(seeded) != 0 {
		t.Errorf("seeded = %v, want none", seeded)
	}
	if prof.PersonalInfo.Email != "kept@example.com" {
		t.Errorf("existing email overwritten: %q", prof.PersonalInfo.Email)
	}
}

func TestSeedFromResumeNoMatches(t *testing.T) {
	prof := profile.Default()
	if seeded := seedFromResume(prof, "plain resume text with no contacts"); len(seeded) != 0 {
		t.Errorf("seeded = %v, want none", seeded)
	}
}
