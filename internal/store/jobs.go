package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type IngestionJob struct {
	ID               uuid.UUID
	UploadedBy       uuid.UUID
	Filename         string
	FileSize         int64
	TotalRecords     int32
	ProcessedRecords int32
	ProcessingStatus string
	Metadata         []byte
	UploadDate       time.Time
}

type CreateIngestionJobParams struct {
	UploadedBy   uuid.UUID
	Filename     string
	FileSize     int64
	TotalRecords int32
	Metadata     []byte
}

const jobColumns = `id, uploaded_by, filename, file_size, total_records, processed_records, processing_status, metadata, upload_date`

func (s *Store) CreateIngestionJob(ctx context.Context, params CreateIngestionJobParams) (IngestionJob, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO ingestion_jobs (uploaded_by, filename, file_size, total_records, processed_records, processing_status, metadata)
		VALUES ($1, $2, $3, $4, 0, 'processing', $5)
		RETURNING `+jobColumns+`
	`, params.UploadedBy, params.Filename, params.FileSize, params.TotalRecords, params.Metadata)
	return scanJob(row)
}

func (s *Store) GetIngestionJob(ctx context.Context, id uuid.UUID) (IngestionJob, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+jobColumns+`
		FROM ingestion_jobs
		WHERE id = $1
	`, id)
	return scanJob(row)
}

// UpdateJobProgress writes the cumulative processed count. Batches run
// sequentially so the count only ever grows.
func (s *Store) UpdateJobProgress(ctx context.Context, id uuid.UUID, processed int32) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE ingestion_jobs SET processed_records = $2 WHERE id = $1
	`, id, processed)
	return err
}

func (s *Store) FinalizeIngestionJob(ctx context.Context, id uuid.UUID, processed int32, status string, metadata []byte) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE ingestion_jobs
		SET processed_records = $2, processing_status = $3, metadata = $4
		WHERE id = $1
	`, id, processed, status, metadata)
	return err
}

func scanJob(row rowScanner) (IngestionJob, error) {
	var j IngestionJob
	err := row.Scan(
		&j.ID,
		&j.UploadedBy,
		&j.Filename,
		&j.FileSize,
		&j.TotalRecords,
		&j.ProcessedRecords,
		&j.ProcessingStatus,
		&j.Metadata,
		&j.UploadDate,
	)
	return j, err
}
