package services

import (
	"context"
	"sync"

	"github.com/tiadocs/tia/internal/api"
	"github.com/tiadocs/tia/internal/logging"
	"github.com/tiadocs/tia/internal/store"
)

// DeleteReport is the outcome of one delete batch. Deleted counts only files
// the backend confirmed; everything else stays in the local store.
type DeleteReport struct {
	Deleted        int
	OverallMessage string
	Failures       []FileError
}

// DeleteService removes documents through the backend and reconciles the
// local store with the per-file verdicts. At most one delete may be in
// flight per document name; a second request for the same name is rejected
// until the first resolves.
type DeleteService struct {
	client api.Client
	store  *store.Store
	log    logging.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewDeleteService(client api.Client, st *store.Store, log logging.Logger) *DeleteService {
	return &DeleteService{
		client:   client,
		store:    st,
		log:      log,
		inFlight: make(map[string]struct{}),
	}
}

// InFlight reports whether a delete for the named document is outstanding.
// Views use this to disable the per-row delete action.
func (s *DeleteService) InFlight(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[name]
	return ok
}

// DeleteDocuments issues one batched delete for the named files and removes
// from the collection exactly those the backend reports as deleted. Files
// the backend could not delete stay in place and are reported with the
// backend's message as the reason.
func (s *DeleteService) DeleteDocuments(ctx context.Context, userID, collectionID string, names []string) (*DeleteReport, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if len(names) == 0 {
		return nil, ErrNoFiles
	}
	if _, err := s.store.Get(collectionID); err != nil {
		return nil, err
	}

	if err := s.begin(names); err != nil {
		return nil, err
	}
	defer s.end(names)

	res, err := s.client.Delete(ctx, userID, names)
	if err != nil {
		return nil, err
	}

	report := &DeleteReport{OverallMessage: res.OverallMessage}
	for _, fs := range res.FilesStatus {
		if !fs.Succeeded() {
			report.Failures = append(report.Failures, FileError{Name: fs.Filename, Reason: failureReason(fs)})
			s.log.Warn(ctx, "delete not confirmed", "file", fs.Filename, "status", fs.Status)
			continue
		}
		if err := s.store.RemoveDocument(collectionID, fs.Filename); err != nil {
			return nil, err
		}
		report.Deleted++
	}

	s.log.Info(ctx, "delete batch finished",
		"requested", len(names), "deleted", report.Deleted, "failed", len(report.Failures))
	return report, nil
}

// begin marks every name in the batch in-flight, or rejects the whole batch
// if any of them already is.
func (s *DeleteService) begin(names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range names {
		if _, ok := s.inFlight[n]; ok {
			return ErrDeleteInFlight
		}
	}
	for _, n := range names {
		s.inFlight[n] = struct{}{}
	}
	return nil
}

func (s *DeleteService) end(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range names {
		delete(s.inFlight, n)
	}
}

func failureReason(fs api.FileDeleteStatus) string {
	if fs.Message != "" {
		return fs.Message
	}
	return fs.Status
}
