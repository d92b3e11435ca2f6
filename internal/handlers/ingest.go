package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Drbrilliant360/courier-insight-ai/internal/audit"
	"github.com/Drbrilliant360/courier-insight-ai/internal/httpx"
	"github.com/Drbrilliant360/courier-insight-ai/internal/ingest"
	"github.com/Drbrilliant360/courier-insight-ai/internal/middleware"
)

type ingestJSONBody struct {
	Data     []ingest.UploadedRecord `json:"data"`
	Filename string                  `json:"filename"`
	FileSize int64                   `json:"fileSize"`
}

type ingestSyncResponse struct {
	Success   bool      `json:"success"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	Errors    int       `json:"errors"`
	JobID     uuid.UUID `json:"job_id"`
}

type ingestBackgroundResponse struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Total      int       `json:"total"`
	JobID      uuid.UUID `json:"job_id"`
	Background bool      `json:"background"`
}

// PostIngestions accepts a delivery dataset either as a JSON record array or
// as a multipart CSV upload and runs it through the ingestion pipeline.
func (s *Server) PostIngestions(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	req, errMsg := s.parseIngestRequest(r)
	if errMsg != "" {
		httpx.WriteError(w, http.StatusBadRequest, errMsg)
		return
	}
	if s.Config.IngestMaxRows > 0 && len(req.Records) > s.Config.IngestMaxRows {
		httpx.WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("dataset exceeds the %d record limit", s.Config.IngestMaxRows))
		return
	}
	req.UploadedBy = caller.TokenID

	summary, err := s.Ingest.Ingest(r.Context(), req)
	if err != nil {
		s.Logger.Error("ingestion failed", "error", err, "filename", req.Filename)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to store ingestion job")
		return
	}

	actorID := caller.TokenID
	jobID := summary.JobID
	_ = s.Audit.Log(r.Context(), audit.Entry{
		ActorID:    &actorID,
		Action:     "ingest.started",
		EntityType: "ingestion_job",
		EntityID:   &jobID,
		RequestID:  middleware.RequestIDFromContext(r.Context()),
		Metadata: map[string]any{
			"filename":   req.Filename,
			"file_size":  req.FileSize,
			"total":      summary.Total,
			"background": summary.Background,
		},
	})

	if summary.Background {
		httpx.WriteJSON(w, http.StatusAccepted, ingestBackgroundResponse{
			Success:    true,
			Message:    "background processing started",
			Total:      summary.Total,
			JobID:      summary.JobID,
			Background: true,
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ingestSyncResponse{
		Success:   true,
		Processed: summary.Processed,
		Total:     summary.Total,
		Errors:    summary.Errors,
		JobID:     summary.JobID,
	})
}

// parseIngestRequest returns the parsed request or a client-facing error
// message. Multipart uploads carry the CSV file; anything else is treated as
// the JSON body shape.
func (s *Server) parseIngestRequest(r *http.Request) (ingest.Request, string) {
	contentType := strings.ToLower(r.Header.Get("Content-Type"))
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return s.parseCSVUpload(r)
	}

	var body ingestJSONBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return ingest.Request{}, "malformed JSON body"
	}
	return ingest.Request{
		Records:  body.Data,
		Filename: body.Filename,
		FileSize: body.FileSize,
	}, ""
}

func (s *Server) parseCSVUpload(r *http.Request) (ingest.Request, string) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return ingest.Request{}, "failed to parse multipart form"
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return ingest.Request{}, "file is required"
	}
	defer file.Close()

	if s.Config.IngestMaxFileBytes > 0 && header.Size > s.Config.IngestMaxFileBytes {
		return ingest.Request{}, "uploaded file is too large"
	}

	records, columns, err := ingest.ParseCSV(file)
	if err != nil {
		return ingest.Request{}, err.Error()
	}

	return ingest.Request{
		Records:  records,
		Filename: header.Filename,
		FileSize: header.Size,
		Columns:  columns,
	}, ""
}

type jobResponse struct {
	ID               uuid.UUID       `json:"id"`
	UploadedBy       uuid.UUID       `json:"uploaded_by"`
	Filename         string          `json:"filename"`
	FileSize         int64           `json:"file_size"`
	TotalRecords     int32           `json:"total_records"`
	ProcessedRecords int32           `json:"processed_records"`
	ProcessingStatus string          `json:"processing_status"`
	Metadata         json.RawMessage `json:"metadata"`
	UploadDate       string          `json:"upload_date"`
}

// GetIngestionJob serves the persisted job record for progress polling.
func (s *Server) GetIngestionJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "jobId"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := s.Store.GetIngestionJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			httpx.WriteError(w, http.StatusNotFound, "ingestion job not found")
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load ingestion job")
		return
	}

	metadata := job.Metadata
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}
	httpx.WriteJSON(w, http.StatusOK, jobResponse{
		ID:               job.ID,
		UploadedBy:       job.UploadedBy,
		Filename:         job.Filename,
		FileSize:         job.FileSize,
		TotalRecords:     job.TotalRecords,
		ProcessedRecords: job.ProcessedRecords,
		ProcessingStatus: job.ProcessingStatus,
		Metadata:         metadata,
		UploadDate:       job.UploadDate.UTC().Format(time.RFC3339),
	})
}
