package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/manav-1/jobfill"
	"github.com/manav-1/jobfill/classifier"
	"github.com/manav-1/jobfill/internal/ai"
	"github.com/manav-1/jobfill/internal/logger"
	"github.com/manav-1/jobfill/internal/storage"
	"github.com/manav-1/jobfill/internal/watch"
	"github.com/manav-1/jobfill/profile"
)

const maxBodySize = 10 << 20 // 10MB; rendered pages can be large

// --- Profile ---

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Store.LoadProfile()
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusOK, profile.Default())
		return
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, "loading profile: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var p profile.Profile
	if err := decodeBody(w, r, &p); err != nil {
		return
	}
	if err := s.deps.Store.SaveProfile(&p); err != nil {
		httpError(w, http.StatusInternalServerError, "saving profile: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// --- Mapping ---

func (s *Server) handleGetMapping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.currentEngine().Mapping())
}

func (s *Server) handlePutMapping(w http.ResponseWriter, r *http.Request) {
	var m classifier.Mapping
	if err := decodeBody(w, r, &m); err != nil {
		return
	}
	if err := s.deps.Store.SaveMapping(m); err != nil {
		httpError(w, http.StatusInternalServerError, "saving mapping: %v", err)
		return
	}

	s.mu.Lock()
	s.engine = jobfill.New(m)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// --- Classification and filling ---

type pageRequest struct {
	HTML string `json:"html"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	report, err := s.currentEngine().Detect(req.HTML)
	if err != nil {
		httpError(w, http.StatusBadRequest, "classifying page: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleFillPlan(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	p, err := s.loadProfileOrEmpty()
	if err != nil {
		httpError(w, http.StatusInternalServerError, "loading profile: %v", err)
		return
	}

	plan, err := s.currentEngine().BuildPlan(req.HTML, p)
	if err != nil {
		httpError(w, http.StatusBadRequest, "planning fill: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	p, err := s.loadProfileOrEmpty()
	if err != nil {
		httpError(w, http.StatusInternalServerError, "loading profile: %v", err)
		return
	}

	filled, err := s.currentEngine().FillHTML(req.HTML, p)
	if err != nil {
		httpError(w, http.StatusBadRequest, "filling page: %v", err)
		return
	}

	s.log.Info("page filled", zap.Int("count", filled.Count))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"html":  filled.HTML,
		"count": filled.Count,
	})
}

type fillResult struct {
	URL    string `json:"url"`
	Filled int    `json:"filled"`
	Total  int    `json:"total"`
}

// handleFillResult records the outcome reported by the extension after a
// fill pass. The result is logged and kept as the last-fill setting; no UI
// is rendered here.
func (s *Server) handleFillResult(w http.ResponseWriter, r *http.Request) {
	var res fillResult
	if err := decodeBody(w, r, &res); err != nil {
		return
	}

	s.log.Info("fill result reported",
		zap.String("url", res.URL),
		zap.Int("filled", res.Filled),
		zap.Int("total", res.Total),
	)

	encoded, err := json.Marshal(res)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "encoding result: %v", err)
		return
	}
	if err := s.deps.Store.SetSetting("last_fill_result", string(encoded)); err != nil {
		httpError(w, http.StatusInternalServerError, "recording result: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// --- Suggestions ---

type suggestionsResponse struct {
	RequestID   uint64                  `json:"requestId"`
	Stale       bool                    `json:"stale"`
	Suggestions []classifier.Suggestion `json:"suggestions"`
}

// handleSuggestions computes suggestions for one focused field. Each
// request invalidates earlier in-flight ones; a request overtaken by a
// newer one reports itself stale so the client drops the result.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var info classifier.FieldInfo
	if err := decodeBody(w, r, &info); err != nil {
		return
	}

	id := s.serial.Next()

	p, err := s.loadProfileOrEmpty()
	if err != nil {
		httpError(w, http.StatusInternalServerError, "loading profile: %v", err)
		return
	}

	suggestions := classifier.Suggest(info, p)
	if suggestions == nil {
		suggestions = []classifier.Suggestion{}
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{
		RequestID:   id,
		Stale:       !s.serial.Current(id),
		Suggestions: suggestions,
	})
}

// --- Field values ---

type fieldValueRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// handleSaveFieldValue persists a typed value after the save delay. Rapid
// successive writes to the same key collapse into one persisted value, so
// keystroke-by-keystroke updates do not hammer the store.
func (s *Server) handleSaveFieldValue(w http.ResponseWriter, r *http.Request) {
	var req fieldValueRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if req.Key == "" {
		httpError(w, http.StatusBadRequest, "key is required")
		return
	}

	s.saveMu.Lock()
	deb, ok := s.savers[req.Key]
	if !ok {
		deb = watch.NewDebouncer(s.saveDelay)
		s.savers[req.Key] = deb
	}
	s.saveMu.Unlock()

	key, value := req.Key, req.Value
	deb.Trigger(func() {
		if err := s.deps.Store.SaveFieldValue(key, value); err != nil {
			s.log.Warn("saving field value", zap.String("key", key), zap.Error(err))
		}
	})

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleListFieldValues(w http.ResponseWriter, r *http.Request) {
	values, err := s.deps.Store.ListFieldValues()
	if err != nil {
		httpError(w, http.StatusInternalServerError, "listing field values: %v", err)
		return
	}
	if values == nil {
		values = []storage.FieldValue{}
	}
	writeJSON(w, http.StatusOK, values)
}

// --- Applications ---

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid limit %q", raw)
			return
		}
		limit = n
	}

	apps, err := s.deps.Store.ListApplications(r.URL.Query().Get("status"), limit)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "listing applications: %v", err)
		return
	}
	if apps == nil {
		apps = []storage.Application{}
	}
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var app storage.Application
	if err := decodeBody(w, r, &app); err != nil {
		return
	}

	created, err := s.deps.Store.CreateApplication(app)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "creating application: %v", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.deps.Store.GetApplication(chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		httpError(w, http.StatusNotFound, "application not found")
		return
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, "loading application: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	err := s.deps.Store.UpdateStatus(chi.URLParam(r, "id"), req.Status)
	if errors.Is(err, storage.ErrNotFound) {
		httpError(w, http.StatusNotFound, "application not found")
		return
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, "updating status: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	err := s.deps.Store.DeleteApplication(chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		httpError(w, http.StatusNotFound, "application not found")
		return
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, "deleting application: %v", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApplicationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Store.ApplicationStats()
	if err != nil {
		httpError(w, http.StatusInternalServerError, "computing stats: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// --- Drafts ---

func (s *Server) handleCoverLetter(w http.ResponseWriter, r *http.Request) {
	if s.deps.Provider == nil {
		httpError(w, http.StatusServiceUnavailable, "no ai provider configured")
		return
	}

	id := chi.URLParam(r, "id")
	app, err := s.deps.Store.GetApplication(id)
	if errors.Is(err, storage.ErrNotFound) {
		httpError(w, http.StatusNotFound, "application not found")
		return
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, "loading application: %v", err)
		return
	}

	p, err := s.loadProfileOrEmpty()
	if err != nil {
		httpError(w, http.StatusInternalServerError, "loading profile: %v", err)
		return
	}

	letter, err := s.deps.Provider.GenerateCoverLetter(r.Context(), ai.JobInfo{
		Title:   app.Title,
		Company: app.Company,
	}, p)
	if err != nil {
		httpError(w, http.StatusBadGateway, "generating cover letter: %v", err)
		return
	}

	if err := s.deps.Store.SetCoverLetter(id, letter); err != nil {
		httpError(w, http.StatusInternalServerError, "saving cover letter: %v", err)
		return
	}

	s.log.Info("cover letter generated",
		zap.String("application", id),
		zap.String("provider", s.deps.Provider.Name()),
		zap.String("preview", logger.Truncate(letter, 80)),
	)
	writeJSON(w, http.StatusOK, map[string]string{"coverLetter": letter})
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if s.deps.Provider == nil {
		httpError(w, http.StatusServiceUnavailable, "no ai provider configured")
		return
	}

	id := chi.URLParam(r, "id")
	app, err := s.deps.Store.GetApplication(id)
	if errors.Is(err, storage.ErrNotFound) {
		httpError(w, http.StatusNotFound, "application not found")
		return
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, "loading application: %v", err)
		return
	}

	p, err := s.loadProfileOrEmpty()
	if err != nil {
		httpError(w, http.StatusInternalServerError, "loading profile: %v", err)
		return
	}

	questions, err := s.deps.Provider.GenerateInterviewQuestions(r.Context(), app.Title, p)
	if err != nil {
		httpError(w, http.StatusBadGateway, "generating questions: %v", err)
		return
	}

	encoded, err := ai.QuestionsJSON(questions)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "encoding questions: %v", err)
		return
	}
	if err := s.deps.Store.SetQuestions(id, encoded); err != nil {
		httpError(w, http.StatusInternalServerError, "saving questions: %v", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

// --- Helpers ---

func (s *Server) loadProfileOrEmpty() (*profile.Profile, error) {
	p, err := s.deps.Store.LoadProfile()
	if errors.Is(err, storage.ErrNotFound) {
		return profile.Default(), nil
	}
	return p, err
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return err
	}
	return nil
}
