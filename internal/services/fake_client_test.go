package services

import (
	"context"
	"io"
	"sync"

	"github.com/tiadocs/tia/internal/api"
	"github.com/tiadocs/tia/internal/models"
)

// fakeClient implements api.Client for coordinator unit tests. Behavior is
// injected per method; calls and arguments are recorded for assertions.
type fakeClient struct {
	mu sync.Mutex

	UploadFn func(userID, filename string) (*api.UploadResult, error)
	DeleteFn func(userID string, filenames []string) (*api.DeleteResult, error)
	QueryFn  func(userID, question string, topK int) (*api.QueryResult, error)
	LoginFn  func(username, password string) (*models.Identity, error)
	SignupFn func(req api.SignupRequest) (*models.Identity, error)
	ListFn   func(userID string) ([]api.RemoteDocument, error)

	UploadedNames []string
	LastDeleted   []string
	LastQuestion  string
	Queries       int
}

func (f *fakeClient) Upload(_ context.Context, userID, filename string, body io.Reader) (*api.UploadResult, error) {
	if body != nil {
		_, _ = io.Copy(io.Discard, body)
	}
	f.mu.Lock()
	f.UploadedNames = append(f.UploadedNames, filename)
	f.mu.Unlock()

	if f.UploadFn != nil {
		return f.UploadFn(userID, filename)
	}
	return &api.UploadResult{Filename: filename, UserID: userID, Message: "ok"}, nil
}

func (f *fakeClient) Delete(_ context.Context, userID string, filenames []string) (*api.DeleteResult, error) {
	f.mu.Lock()
	f.LastDeleted = append([]string(nil), filenames...)
	f.mu.Unlock()

	if f.DeleteFn != nil {
		return f.DeleteFn(userID, filenames)
	}
	statuses := make([]api.FileDeleteStatus, 0, len(filenames))
	for _, n := range filenames {
		statuses = append(statuses, api.FileDeleteStatus{Filename: n, Status: "deleted_from_storage"})
	}
	return &api.DeleteResult{UserID: userID, FilesStatus: statuses}, nil
}

func (f *fakeClient) Query(_ context.Context, userID, question string, topK int) (*api.QueryResult, error) {
	f.mu.Lock()
	f.LastQuestion = question
	f.Queries++
	f.mu.Unlock()

	if f.QueryFn != nil {
		return f.QueryFn(userID, question, topK)
	}
	return &api.QueryResult{Question: question, Answer: "answer", UserID: userID}, nil
}

func (f *fakeClient) Login(_ context.Context, username, password string) (*models.Identity, error) {
	if f.LoginFn != nil {
		return f.LoginFn(username, password)
	}
	return &models.Identity{Username: username, Role: models.RoleReader}, nil
}

func (f *fakeClient) Signup(_ context.Context, req api.SignupRequest) (*models.Identity, error) {
	if f.SignupFn != nil {
		return f.SignupFn(req)
	}
	return &models.Identity{Username: req.Username, FullName: req.FullName, Role: req.Role}, nil
}

func (f *fakeClient) ListDocuments(_ context.Context, userID string) ([]api.RemoteDocument, error) {
	if f.ListFn != nil {
		return f.ListFn(userID)
	}
	return nil, nil
}

func (f *fakeClient) Ping(_ context.Context) error { return nil }

func (f *fakeClient) uploaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.UploadedNames...)
}
