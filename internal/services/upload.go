// Package services contains the coordinators that move state between the
// local store and the Tia backend: uploads, deletions, chat, auth, and
// session-start rehydration. Each coordinator catches its own backend
// failures and reports them as values; nothing here panics the caller.
package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tiadocs/tia/internal/api"
	"github.com/tiadocs/tia/internal/filetype"
	"github.com/tiadocs/tia/internal/logging"
	"github.com/tiadocs/tia/internal/models"
	"github.com/tiadocs/tia/internal/store"
)

// FileCandidate is one file offered for upload. Open is called at submission
// time so large files are streamed, not held in memory for the whole batch.
type FileCandidate struct {
	Name     string
	MIMEType string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// CandidateFromPath builds a FileCandidate for a file on disk. The MIME type
// is derived from the extension; unknown extensions yield an empty type,
// which the size check then decides.
func CandidateFromPath(path string) (FileCandidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileCandidate{}, err
	}
	if info.IsDir() {
		return FileCandidate{}, fmt.Errorf("%s is a directory", path)
	}
	return FileCandidate{
		Name:     filepath.Base(path),
		MIMEType: mime.TypeByExtension(filepath.Ext(path)),
		Size:     info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FileError pairs a filename with the reason it failed.
type FileError struct {
	Name   string
	Reason string
}

// UploadReport is the aggregate outcome of one upload batch: how many files
// made it, how many the backend rejected, and how many never left the client
// because validation skipped them.
type UploadReport struct {
	Uploaded int
	Failed   int
	Skipped  int
	Failures []FileError
}

// UploadService pushes files to the backend and merges confirmed uploads
// into the local store.
type UploadService struct {
	client      api.Client
	store       *store.Store
	log         logging.Logger
	concurrency int
}

// NewUploadService builds an upload coordinator. Concurrency below 1 is
// treated as 1, which reproduces strictly sequential submission.
func NewUploadService(client api.Client, st *store.Store, log logging.Logger, concurrency int) *UploadService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &UploadService{client: client, store: st, log: log, concurrency: concurrency}
}

// UploadBatch validates the candidates, submits the valid ones through a
// bounded worker pool, and merges each confirmed file into the target
// collection. A failing file never aborts the rest of the batch; the caller
// gets one aggregate report at the end.
func (s *UploadService) UploadBatch(ctx context.Context, userID, collectionID string, files []FileCandidate) (*UploadReport, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if _, err := s.store.Get(collectionID); err != nil {
		return nil, err
	}

	report := &UploadReport{}

	valid := make([]FileCandidate, 0, len(files))
	for _, f := range files {
		if err := filetype.ValidateUpload(f.MIMEType, f.Size); err != nil {
			report.Skipped++
			s.log.Warn(ctx, "file skipped by validation", "file", f.Name, "mime", f.MIMEType, "size", f.Size)
			continue
		}
		valid = append(valid, f)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, f := range valid {
		f := f
		g.Go(func() error {
			if err := s.uploadOne(gctx, userID, collectionID, f); err != nil {
				mu.Lock()
				report.Failed++
				report.Failures = append(report.Failures, FileError{Name: f.Name, Reason: err.Error()})
				mu.Unlock()
				s.log.Error(gctx, "upload failed", "file", f.Name, "error", err)
				return nil // per-file failures do not cancel the batch
			}
			mu.Lock()
			report.Uploaded++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info(ctx, "upload batch finished",
		"uploaded", report.Uploaded, "failed", report.Failed, "skipped", report.Skipped)
	return report, nil
}

// uploadOne submits a single file and, on backend confirmation, upserts the
// document into the collection with status completed.
func (s *UploadService) uploadOne(ctx context.Context, userID, collectionID string, f FileCandidate) error {
	r, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer r.Close()

	res, err := s.client.Upload(ctx, userID, f.Name, r)
	if err != nil {
		return err
	}

	doc := models.Document{
		ID:        res.Filename,
		Name:      res.Filename,
		Type:      filetype.Detect(res.Filename),
		SizeBytes: f.Size,
		SizeLabel: models.FormatSize(f.Size),
		AddedAt:   time.Now(),
		Status:    models.StatusCompleted,
	}
	return s.store.UpsertDocument(collectionID, doc)
}
