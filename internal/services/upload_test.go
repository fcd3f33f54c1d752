package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiadocs/tia/internal/api"
	"github.com/tiadocs/tia/internal/models"
)

func candidate(name, mime string, size int64) FileCandidate {
	return FileCandidate{
		Name:     name,
		MIMEType: mime,
		Size:     size,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(make([]byte, 16))), nil
		},
	}
}

func TestUploadBatch_RequiresIdentity(t *testing.T) {
	st, colID := setupStore(t)
	svc := NewUploadService(&fakeClient{}, st, testLogger(t), 1)

	_, err := svc.UploadBatch(context.Background(), "", colID, []FileCandidate{candidate("a.pdf", "application/pdf", 10)})
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUploadBatch_EmptyBatchRejected(t *testing.T) {
	st, colID := setupStore(t)
	svc := NewUploadService(&fakeClient{}, st, testLogger(t), 1)

	_, err := svc.UploadBatch(context.Background(), "alice", colID, nil)
	require.ErrorIs(t, err, ErrNoFiles)
}

func TestUploadBatch_SkipsInvalidWithoutBlockingValid(t *testing.T) {
	st, colID := setupStore(t, doc("A.pdf"))
	fc := &fakeClient{}
	svc := NewUploadService(fc, st, testLogger(t), 1)

	files := []FileCandidate{
		candidate("B.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", 1024),
		candidate("huge.exe", "application/x-msdownload", 60<<20), // wrong type AND over limit
	}

	report, err := svc.UploadBatch(context.Background(), "alice", colID, files)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Uploaded)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, []string{"B.docx"}, fc.uploaded())

	c, err := st.Get(colID)
	require.NoError(t, err)
	require.Equal(t, 2, c.DocumentCount)
	assert.Equal(t, "A.pdf", c.Documents[0].Name)
	assert.Equal(t, "B.docx", c.Documents[1].Name)
}

func TestUploadBatch_ReuploadSameNameReplacesNotDuplicates(t *testing.T) {
	st, colID := setupStore(t)
	svc := NewUploadService(&fakeClient{}, st, testLogger(t), 1)

	for i := 0; i < 2; i++ {
		_, err := svc.UploadBatch(context.Background(), "alice", colID,
			[]FileCandidate{candidate("report.pdf", "application/pdf", int64(100*(i+1)))})
		require.NoError(t, err)
	}

	c, err := st.Get(colID)
	require.NoError(t, err)
	require.Equal(t, 1, c.DocumentCount)
	assert.Equal(t, "report.pdf", c.Documents[0].Name)
	assert.Equal(t, int64(200), c.Documents[0].SizeBytes) // most recent metadata wins
}

func TestUploadBatch_PerFileFailureDoesNotAbortBatch(t *testing.T) {
	st, colID := setupStore(t)
	fc := &fakeClient{
		UploadFn: func(userID, filename string) (*api.UploadResult, error) {
			if filename == "bad.pdf" {
				return nil, errors.New("backend exploded")
			}
			return &api.UploadResult{Filename: filename, UserID: userID}, nil
		},
	}
	svc := NewUploadService(fc, st, testLogger(t), 1)

	files := []FileCandidate{
		candidate("ok1.pdf", "application/pdf", 10),
		candidate("bad.pdf", "application/pdf", 10),
		candidate("ok2.pdf", "application/pdf", 10),
	}
	report, err := svc.UploadBatch(context.Background(), "alice", colID, files)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Uploaded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "bad.pdf", report.Failures[0].Name)
	assert.Contains(t, report.Failures[0].Reason, "backend exploded")

	// the failed file never entered the collection
	c, err := st.Get(colID)
	require.NoError(t, err)
	assert.Equal(t, 2, c.DocumentCount)
	for _, d := range c.Documents {
		assert.NotEqual(t, "bad.pdf", d.Name)
	}
}

func TestUploadBatch_MergedDocumentsAreCompleted(t *testing.T) {
	st, colID := setupStore(t)
	svc := NewUploadService(&fakeClient{}, st, testLogger(t), 1)

	_, err := svc.UploadBatch(context.Background(), "alice", colID,
		[]FileCandidate{candidate("notes.txt", "text/plain", 42)})
	require.NoError(t, err)

	c, err := st.Get(colID)
	require.NoError(t, err)
	require.Len(t, c.Documents, 1)
	d := c.Documents[0]
	assert.Equal(t, models.StatusCompleted, d.Status)
	assert.True(t, d.IsProcessed())
	assert.Equal(t, models.DocumentTypeText, d.Type)
}

func TestUploadBatch_BoundedConcurrencyUploadsAll(t *testing.T) {
	st, colID := setupStore(t)
	fc := &fakeClient{}
	svc := NewUploadService(fc, st, testLogger(t), 4)

	files := make([]FileCandidate, 0, 8)
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files = append(files, candidate(n+".pdf", "application/pdf", 10))
	}

	report, err := svc.UploadBatch(context.Background(), "alice", colID, files)
	require.NoError(t, err)
	assert.Equal(t, 8, report.Uploaded)
	assert.Len(t, fc.uploaded(), 8)

	c, err := st.Get(colID)
	require.NoError(t, err)
	assert.Equal(t, 8, c.DocumentCount)
}
