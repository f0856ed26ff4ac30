package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"glossa/internal/api"
	"glossa/internal/config"
	"glossa/internal/ingest"
	"glossa/internal/logging"
	"glossa/internal/services"
	"glossa/internal/store"
)

// maxUploadBytes bounds multipart upload memory/disk use. Field recordings
// run long; an hour of 48 kHz stereo FLAC stays well under this.
const maxUploadBytes = 1 << 30

type apiServer struct {
	bind       string
	logger     *slog.Logger
	daemon     *Daemon
	catalogSvc *api.CatalogService

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:       bind,
		logger:     logging.NewComponentLogger(logger, "api"),
		daemon:     d,
		catalogSvc: api.NewCatalogService(d.store, d.blobs),
	}

	token := strings.TrimSpace(cfg.Paths.APIToken)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", authMiddleware(token, srv.handleStatus))
	mux.HandleFunc("/api/recordings", authMiddleware(token, srv.handleRecordings))
	mux.HandleFunc("/api/recordings/", authMiddleware(token, srv.handleRecordingItem))
	mux.HandleFunc("/api/contributors", authMiddleware(token, srv.handleContributors))
	mux.HandleFunc("/api/contributors/", authMiddleware(token, srv.handleContributorItem))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) log() *slog.Logger {
	if s == nil || s.logger == nil {
		return logging.NewNop()
	}
	return s.logger
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	depStatuses := make([]api.DependencyStatus, len(status.Dependencies))
	for i, dep := range status.Dependencies {
		depStatuses[i] = api.DependencyStatus{
			Name:        dep.Name,
			Command:     dep.Command,
			Description: dep.Description,
			Optional:    dep.Optional,
			Available:   dep.Available,
			Detail:      dep.Detail,
		}
	}
	counts := make(map[string]int, len(status.RecordingCounts))
	for st, n := range status.RecordingCounts {
		counts[string(st)] = n
	}
	s.writeJSON(w, http.StatusOK, api.DaemonStatus{
		Running:         status.Running,
		PID:             status.PID,
		DatabasePath:    status.DatabasePath,
		LockFilePath:    status.LockFilePath,
		StorageBackend:  status.StorageBackend,
		RecordingCounts: counts,
		Dependencies:    depStatuses,
	})
}

func (s *apiServer) handleRecordings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listRecordings(w, r)
	case http.MethodPost:
		s.createRecording(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) listRecordings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.RecordingFilter{
		Query:         strings.TrimSpace(query.Get("q")),
		ContributorID: strings.TrimSpace(query.Get("contributor_id")),
	}
	if status := strings.TrimSpace(query.Get("status")); status != "" {
		if !store.ValidStatus(store.Status(status)) {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", status))
			return
		}
		filter.Status = store.Status(status)
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(query.Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	recordings, err := s.catalogSvc.ListRecordings(r.Context(), filter)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.RecordingListResponse{Recordings: recordings})
}

func (s *apiServer) createRecording(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("parse multipart form: %v", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	// The canonical file field is raw_recording; audio is accepted for
	// older clients.
	file, header, err := r.FormFile("raw_recording")
	if err != nil {
		file, header, err = r.FormFile("audio")
	}
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing raw_recording file field")
		return
	}
	defer file.Close()

	params := ingest.Params{
		ContributorID:         strings.TrimSpace(r.FormValue("contributor_id")),
		Title:                 r.FormValue("title"),
		Theme:                 r.FormValue("theme"),
		TranscriptionOriginal: r.FormValue("transcription_original"),
		TranscriptionEnglish:  r.FormValue("transcription_english"),
		Filename:              header.Filename,
		Source:                file,
	}
	if params.ContributorID == "" {
		s.writeError(w, http.StatusBadRequest, "contributor_id is required")
		return
	}

	rec, err := s.daemon.ingestor.Ingest(r.Context(), params)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrValidation) {
			status = http.StatusBadRequest
		}
		// A failed row still tells the client what happened to its upload.
		if rec.ID != "" {
			s.writeJSON(w, status, api.RecordingResponse{Recording: api.FromStoreRecording(rec)})
			return
		}
		s.writeError(w, status, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, api.RecordingResponse{Recording: api.FromStoreRecording(rec)})
}

func (s *apiServer) handleRecordingItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/recordings/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || strings.Contains(action, "/") {
		s.writeError(w, http.StatusNotFound, "recording not found")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.describeRecording(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		s.deleteRecording(w, r, id)
	case action == "stream" && r.Method == http.MethodGet:
		s.streamRecording(w, r, id)
	case action == "reprocess" && r.Method == http.MethodPost:
		s.reprocessRecording(w, r, id)
	case action == "":
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	default:
		s.writeError(w, http.StatusNotFound, "recording not found")
	}
}

func (s *apiServer) describeRecording(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := s.catalogSvc.DescribeRecording(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		s.writeError(w, http.StatusNotFound, "recording not found")
		return
	}
	s.writeJSON(w, http.StatusOK, api.RecordingResponse{Recording: *rec})
}

func (s *apiServer) streamRecording(w http.ResponseWriter, r *http.Request, id string) {
	links, err := s.catalogSvc.StreamLinks(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if links == nil {
		s.writeError(w, http.StatusNotFound, "recording not found")
		return
	}
	s.writeJSON(w, http.StatusOK, links)
}

func (s *apiServer) reprocessRecording(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := s.daemon.ingestor.Reprocess(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "recording not found")
			return
		}
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrValidation) {
			status = http.StatusBadRequest
		}
		if rec.ID != "" {
			s.writeJSON(w, status, api.RecordingResponse{Recording: api.FromStoreRecording(rec)})
			return
		}
		s.writeError(w, status, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.RecordingResponse{Recording: api.FromStoreRecording(rec)})
}

func (s *apiServer) deleteRecording(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.daemon.ingestor.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "recording not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleContributors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		contributors, err := s.catalogSvc.ListContributors(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, api.ContributorListResponse{Contributors: contributors})
	case http.MethodPost:
		var payload struct {
			Name     string `json:"name"`
			AgeRange string `json:"ageRange"`
			Gender   string `json:"gender"`
			Location string `json:"location"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("decode body: %v", err))
			return
		}
		created, err := s.daemon.store.CreateContributor(r.Context(), store.Contributor{
			Name:     payload.Name,
			AgeRange: payload.AgeRange,
			Gender:   payload.Gender,
			Location: payload.Location,
		})
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, api.ContributorResponse{Contributor: api.FromStoreContributor(created)})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleContributorItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/contributors/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "contributor not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		contributor, err := s.catalogSvc.DescribeContributor(r.Context(), id)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if contributor == nil {
			s.writeError(w, http.StatusNotFound, "contributor not found")
			return
		}
		s.writeJSON(w, http.StatusOK, api.ContributorResponse{Contributor: *contributor})
	case http.MethodPut:
		existing, err := s.daemon.store.GetContributor(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "contributor not found")
			return
		}
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		var payload struct {
			Name     *string `json:"name"`
			AgeRange *string `json:"ageRange"`
			Gender   *string `json:"gender"`
			Location *string `json:"location"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("decode body: %v", err))
			return
		}
		if payload.Name != nil {
			existing.Name = *payload.Name
		}
		if payload.AgeRange != nil {
			existing.AgeRange = *payload.AgeRange
		}
		if payload.Gender != nil {
			existing.Gender = *payload.Gender
		}
		if payload.Location != nil {
			existing.Location = *payload.Location
		}
		updated, err := s.daemon.store.UpdateContributor(r.Context(), existing)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, api.ContributorResponse{Contributor: api.FromStoreContributor(updated)})
	case http.MethodDelete:
		if err := s.daemon.store.DeleteContributor(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				s.writeError(w, http.StatusNotFound, "contributor not found")
				return
			}
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
