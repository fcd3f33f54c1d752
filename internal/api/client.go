package api

import (
	"context"
	"io"
	"strings"

	"github.com/tiadocs/tia/internal/models"
)

// Client is the transport-agnostic contract with the Tia backend. The
// concrete implementation is HTTPClient; tests substitute fakes.
type Client interface {
	// Upload submits one file (multipart) for processing and indexing.
	Upload(ctx context.Context, userID, filename string, body io.Reader) (*UploadResult, error)

	// Delete requests removal of the named files. The per-file statuses in
	// the result are authoritative; a nil error only means the request
	// itself went through.
	Delete(ctx context.Context, userID string, filenames []string) (*DeleteResult, error)

	// Query asks a question against the user's indexed documents.
	Query(ctx context.Context, userID, question string, topK int) (*QueryResult, error)

	// Login exchanges credentials for the user's identity.
	Login(ctx context.Context, username, password string) (*models.Identity, error)

	// Signup registers a new account. It does not authenticate; a separate
	// Login is required afterwards.
	Signup(ctx context.Context, req SignupRequest) (*models.Identity, error)

	// ListDocuments returns the user's processed documents, used to
	// rehydrate local state at session start.
	ListDocuments(ctx context.Context, userID string) ([]RemoteDocument, error)

	// Ping checks backend liveness.
	Ping(ctx context.Context) error
}

// UploadResult is the backend's response to a single file upload.
type UploadResult struct {
	Filename              string `json:"filename"`
	Message               string `json:"message"`
	UserID                string `json:"user_id"`
	TotalChunksProcessed  int    `json:"total_chunks_processed"`
	TableChunksExtracted  int    `json:"table_chunks_extracted"`
	TextSectionsExtracted int    `json:"text_sections_extracted"`
}

// FileDeleteStatus is the backend's verdict for one file in a delete batch.
type FileDeleteStatus struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

// Succeeded reports whether the backend confirmed removal. The backend emits
// statuses like "deleted_from_storage" and "deleted_from_vectorstore" on
// success, "not_found" or "error" otherwise.
func (s FileDeleteStatus) Succeeded() bool {
	return strings.HasPrefix(s.Status, "deleted")
}

// DeleteResult is the backend's response to a batched delete.
type DeleteResult struct {
	UserID         string             `json:"user_id"`
	OverallMessage string             `json:"overall_message"`
	FilesStatus    []FileDeleteStatus `json:"files_status"`
}

// QueryResult is the backend's answer to a question, with citations.
type QueryResult struct {
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	Sources  []models.Source `json:"sources"`
	UserID   string          `json:"user_id"`
}

// SignupRequest carries the fields of a new account.
type SignupRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	FullName string      `json:"full_name,omitempty"`
	Role     models.Role `json:"role"`
}

// RemoteDocument is one row of the backend's processed-documents listing.
type RemoteDocument struct {
	Filename     string `json:"filename"`
	Size         int64  `json:"size"`
	ModifiedDate string `json:"modified_date"`
}
