package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/manav-1/jobfill/internal/ai"
	"github.com/manav-1/jobfill/internal/storage"
	"github.com/manav-1/jobfill/profile"
)

type stubProvider struct {
	letter string
	err    error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) GenerateCoverLetter(ctx context.Context, job ai.JobInfo, p *profile.Profile) (string, error) {
	return s.letter, s.err
}

func (s *stubProvider) GenerateInterviewQuestions(ctx context.Context, jobTitle string, p *profile.Profile) ([]ai.Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []ai.Question{{Question: "Why us?", Category: "company"}}, nil
}

func newTestServer(t *testing.T, provider ai.Provider) (*Server, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv, err := New(Deps{Store: store, Provider: provider})
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}
	srv.saveDelay = 10 * time.Millisecond
	return srv, store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	w := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("health = %d", w.Code)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	// Unset profile reads as an empty one, not an error.
	w := doJSON(t, h, http.MethodGet, "/profile", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get empty profile = %d", w.Code)
	}

	p := &profile.Profile{PersonalInfo: profile.PersonalInfo{FirstName: "Ada", Email: "ada@example.com"}}
	if w := doJSON(t, h, http.MethodPut, "/profile", p); w.Code != http.StatusOK {
		t.Fatalf("put profile = %d: %s", w.Code, w.Body)
	}

	w = doJSON(t, h, http.MethodGet, "/profile", nil)
	var got profile.Profile
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding profile: %v", err)
	}
	if got.PersonalInfo.FirstName != "Ada" {
		t.Errorf("profile = %+v", got.PersonalInfo)
	}
}

func TestClassifyEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	body := map[string]string{"html": `<form><label for="em">Email</label><input type="email" id="em" name="email"/></form>`}
	w := doJSON(t, srv.Handler(), http.MethodPost, "/classify", body)
	if w.Code != http.StatusOK {
		t.Fatalf("classify = %d: %s", w.Code, w.Body)
	}

	var report struct {
		Controls int `json:"controls"`
		Fields   []struct {
			Type string `json:"type"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report.Controls != 1 || len(report.Fields) == 0 {
		t.Errorf("report = %+v", report)
	}
	found := false
	for _, f := range report.Fields {
		if f.Type == "email" {
			found = true
		}
	}
	if !found {
		t.Errorf("email type not detected: %+v", report.Fields)
	}
}

func TestFillUsesStoredProfile(t *testing.T) {
	srv, store := newTestServer(t, nil)
	if err := store.SaveProfile(&profile.Profile{
		PersonalInfo: profile.PersonalInfo{Email: "ada@example.com"},
	}); err != nil {
		t.Fatal(err)
	}

	body := map[string]string{"html": `<form><label for="em">Email</label><input type="email" id="em" name="email"/></form>`}
	w := doJSON(t, srv.Handler(), http.MethodPost, "/fill", body)
	if w.Code != http.StatusOK {
		t.Fatalf("fill = %d: %s", w.Code, w.Body)
	}

	var resp struct {
		HTML  string `json:"html"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 {
		t.Errorf("count = %d, want 1", resp.Count)
	}
	if !bytes.Contains([]byte(resp.HTML), []byte("ada@example.com")) {
		t.Error("filled html missing email value")
	}
}

func TestSuggestionsCarryRequestID(t *testing.T) {
	srv, store := newTestServer(t, nil)
	store.SaveProfile(&profile.Profile{PersonalInfo: profile.PersonalInfo{FirstName: "Ada"}})

	h := srv.Handler()
	first := doJSON(t, h, http.MethodPost, "/suggestions", map[string]string{"fieldName": "fname"})
	second := doJSON(t, h, http.MethodPost, "/suggestions", map[string]string{"fieldName": "fname"})

	var a, b suggestionsResponse
	json.Unmarshal(first.Body.Bytes(), &a)
	json.Unmarshal(second.Body.Bytes(), &b)

	if b.RequestID <= a.RequestID {
		t.Errorf("request ids not monotonic: %d then %d", a.RequestID, b.RequestID)
	}
	if len(b.Suggestions) != 1 || b.Suggestions[0].Value != "Ada" {
		t.Errorf("suggestions = %+v", b.Suggestions)
	}
}

func TestFieldValueSaveIsDebounced(t *testing.T) {
	srv, store := newTestServer(t, nil)
	h := srv.Handler()

	// Simulated keystrokes; only the last value should be persisted.
	for _, v := range []string{"9", "90", "900", "90000"} {
		w := doJSON(t, h, http.MethodPost, "/field-values", map[string]string{"key": "salary", "value": v})
		if w.Code != http.StatusAccepted {
			t.Fatalf("save = %d", w.Code)
		}
	}

	if _, err := store.GetFieldValue("salary"); !errors.Is(err, storage.ErrNotFound) {
		t.Error("value persisted before the quiet period elapsed")
	}

	time.Sleep(50 * time.Millisecond)
	got, err := store.GetFieldValue("salary")
	if err != nil {
		t.Fatalf("GetFieldValue: %v", err)
	}
	if got != "90000" {
		t.Errorf("persisted value = %q, want last write", got)
	}
}

func TestFillResultRecorded(t *testing.T) {
	srv, store := newTestServer(t, nil)

	w := doJSON(t, srv.Handler(), http.MethodPost, "/fill-result", map[string]interface{}{
		"url": "https://example.com/apply", "filled": 3, "total": 5,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("fill-result = %d: %s", w.Code, w.Body)
	}

	got, err := store.GetSetting("last_fill_result")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if !bytes.Contains([]byte(got), []byte(`"filled":3`)) {
		t.Errorf("recorded result = %s", got)
	}
}

func TestApplicationEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	w := doJSON(t, h, http.MethodPost, "/applications", map[string]string{
		"Title":   "Backend Engineer",
		"Company": "Acme",
		"URL":     "https://www.linkedin.com/jobs/view/1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", w.Code, w.Body)
	}
	var created storage.Application
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == "" || created.Source != "LinkedIn" {
		t.Errorf("created = %+v", created)
	}

	if w := doJSON(t, h, http.MethodPatch, "/applications/"+created.ID+"/status", map[string]string{"status": "applied"}); w.Code != http.StatusOK {
		t.Fatalf("status update = %d: %s", w.Code, w.Body)
	}

	w = doJSON(t, h, http.MethodGet, "/applications?status=applied", nil)
	var list []storage.Application
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 1 {
		t.Errorf("applied list = %+v", list)
	}

	if w := doJSON(t, h, http.MethodGet, "/applications/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing application = %d", w.Code)
	}

	if w := doJSON(t, h, http.MethodDelete, "/applications/"+created.ID, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete = %d", w.Code)
	}
}

func TestCoverLetterEndpoint(t *testing.T) {
	srv, store := newTestServer(t, &stubProvider{letter: "Dear Acme team,"})
	h := srv.Handler()

	app, err := store.CreateApplication(storage.Application{Title: "Engineer", Company: "Acme"})
	if err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, h, http.MethodPost, "/applications/"+app.ID+"/cover-letter", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cover letter = %d: %s", w.Code, w.Body)
	}

	stored, _ := store.GetApplication(app.ID)
	if stored.CoverLetter != "Dear Acme team," {
		t.Errorf("stored letter = %q", stored.CoverLetter)
	}
}

func TestDraftsWithoutProvider(t *testing.T) {
	srv, store := newTestServer(t, nil)
	app, _ := store.CreateApplication(storage.Application{Title: "Engineer"})

	w := doJSON(t, srv.Handler(), http.MethodPost, "/applications/"+app.ID+"/cover-letter", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("draft without provider = %d, want 503", w.Code)
	}
}

func TestBearerAuth(t *testing.T) {
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	srv, err := New(Deps{Store: store, Token: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}
