package storage

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// knownSources maps registrable job-board domains to display names.
var knownSources = map[string]string{
	"linkedin.com":      "LinkedIn",
	"indeed.com":        "Indeed",
	"glassdoor.com":     "Glassdoor",
	"monster.com":       "Monster",
	"ziprecruiter.com":  "ZipRecruiter",
	"careerbuilder.com": "CareerBuilder",
	"simplyhired.com":   "SimplyHired",
	"dice.com":          "Dice",
	"stackoverflow.com": "Stack Overflow Jobs",
	"github.com":        "GitHub Jobs",
	"angel.co":          "AngelList",
	"wellfound.com":     "Wellfound",
}

// SourceFromURL derives a job-board name from a posting URL. Unknown boards
// report their registrable domain; unparseable input reports "unknown".
func SourceFromURL(raw string) string {
	if raw == "" {
		return "unknown"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}

	host := strings.ToLower(u.Hostname())
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		domain = host
	}
	if name, ok := knownSources[domain]; ok {
		return name
	}
	return domain
}

// CreateApplication stores a new tracked application. A missing ID gets a
// generated one, a missing status starts as draft and the source is derived
// from the URL.
func (s *Store) CreateApplication(app Application) (Application, error) {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = StatusDraft
	}
	if app.Title == "" {
		app.Title = "Unknown Position"
	}
	if app.Company == "" {
		app.Company = "Unknown Company"
	}
	if app.Source == "" {
		app.Source = SourceFromURL(app.URL)
	}
	if app.Questions == "" {
		app.Questions = "[]"
	}
	app.CreatedAt = time.Now().UTC()
	app.UpdatedAt = app.CreatedAt

	_, err := s.db.Exec(`
		INSERT INTO applications (id, title, company, url, source, status, notes, salary, location, cover_letter, questions, applied_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID, app.Title, app.Company, app.URL, app.Source, app.Status,
		app.Notes, app.Salary, app.Location, app.CoverLetter, app.Questions,
		nullableTime(app.AppliedAt), app.CreatedAt.Format(time.RFC3339), app.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Application{}, err
	}
	return app, nil
}

// GetApplication returns one tracked application by id.
func (s *Store) GetApplication(id string) (Application, error) {
	row := s.db.QueryRow(`
		SELECT id, title, company, url, source, status, notes, salary, location, cover_letter, questions, applied_at, created_at, updated_at
		FROM applications WHERE id = ?`, id)
	return scanApplication(row)
}

// ListApplications returns tracked applications, newest first. An empty
// status matches all statuses; limit <= 0 means no limit.
func (s *Store) ListApplications(status string, limit int) ([]Application, error) {
	query := `
		SELECT id, title, company, url, source, status, notes, salary, location, cover_letter, questions, applied_at, created_at, updated_at
		FROM applications`
	var args []interface{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, app)
	}
	return results, rows.Err()
}

// UpdateStatus moves an application to a new status. Moving to applied
// records the applied timestamp.
func (s *Store) UpdateStatus(id, status string) error {
	var res sql.Result
	var err error
	if status == StatusApplied {
		res, err = s.db.Exec(`UPDATE applications SET status = ?, applied_at = ?, updated_at = ? WHERE id = ?`,
			status, now(), now(), id)
	} else {
		res, err = s.db.Exec(`UPDATE applications SET status = ?, updated_at = ? WHERE id = ?`,
			status, now(), id)
	}
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetCoverLetter attaches a generated cover letter to an application.
func (s *Store) SetCoverLetter(id, text string) error {
	res, err := s.db.Exec(`UPDATE applications SET cover_letter = ?, updated_at = ? WHERE id = ?`, text, now(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetQuestions attaches generated interview questions (a JSON array) to an
// application.
func (s *Store) SetQuestions(id, questionsJSON string) error {
	res, err := s.db.Exec(`UPDATE applications SET questions = ?, updated_at = ? WHERE id = ?`, questionsJSON, now(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetNotes replaces the free-form notes on an application.
func (s *Store) SetNotes(id, notes string) error {
	res, err := s.db.Exec(`UPDATE applications SET notes = ?, updated_at = ? WHERE id = ?`, notes, now(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteApplication removes an application.
func (s *Store) DeleteApplication(id string) error {
	res, err := s.db.Exec(`DELETE FROM applications WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ApplicationStats summarizes all tracked applications.
func (s *Store) ApplicationStats() (Stats, error) {
	apps, err := s.ListApplications("", 0)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{ByStatus: make(map[string]int)}
	seen := make(map[string]bool)
	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	monthAgo := time.Now().UTC().AddDate(0, 0, -30)

	for _, app := range apps {
		stats.Total++
		stats.ByStatus[app.Status]++
		if app.CreatedAt.After(weekAgo) {
			stats.ThisWeek++
		}
		if app.CreatedAt.After(monthAgo) {
			stats.ThisMonth++
		}
		if app.Company != "" && !seen[app.Company] {
			seen[app.Company] = true
			stats.Companies = append(stats.Companies, app.Company)
		}
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (Application, error) {
	var app Application
	var appliedAt sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(
		&app.ID, &app.Title, &app.Company, &app.URL, &app.Source, &app.Status,
		&app.Notes, &app.Salary, &app.Location, &app.CoverLetter, &app.Questions,
		&appliedAt, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return Application{}, ErrNotFound
	}
	if err != nil {
		return Application{}, err
	}

	if appliedAt.Valid && appliedAt.String != "" {
		if app.AppliedAt, err = time.Parse(time.RFC3339, appliedAt.String); err != nil {
			return Application{}, fmt.Errorf("parsing applied_at: %w", err)
		}
	}
	if app.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return Application{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if app.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return Application{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return app, nil
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
