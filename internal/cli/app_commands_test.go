package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tiadocs/tia/internal/api"
	"github.com/tiadocs/tia/internal/events"
	"github.com/tiadocs/tia/internal/logging"
	"github.com/tiadocs/tia/internal/models"
	"github.com/tiadocs/tia/internal/repositories/metadata"
	"github.com/tiadocs/tia/internal/repositories/sessions"
	"github.com/tiadocs/tia/internal/services"
	"github.com/tiadocs/tia/internal/store"

	_ "modernc.org/sqlite"
)

// ------------ helpers ------------

// stubClient implements api.Client with injectable behavior per method.
type stubClient struct {
	UploadFn func(userID, filename string) (*api.UploadResult, error)
	DeleteFn func(userID string, filenames []string) (*api.DeleteResult, error)
	QueryFn  func(userID, question string, topK int) (*api.QueryResult, error)
	LoginFn  func(username, password string) (*models.Identity, error)
	ListFn   func(userID string) ([]api.RemoteDocument, error)
}

func (s *stubClient) Upload(_ context.Context, userID, filename string, body io.Reader) (*api.UploadResult, error) {
	if body != nil {
		_, _ = io.Copy(io.Discard, body)
	}
	if s.UploadFn != nil {
		return s.UploadFn(userID, filename)
	}
	return &api.UploadResult{Filename: filename, UserID: userID}, nil
}

func (s *stubClient) Delete(_ context.Context, userID string, filenames []string) (*api.DeleteResult, error) {
	if s.DeleteFn != nil {
		return s.DeleteFn(userID, filenames)
	}
	statuses := make([]api.FileDeleteStatus, 0, len(filenames))
	for _, n := range filenames {
		statuses = append(statuses, api.FileDeleteStatus{Filename: n, Status: "deleted_from_storage"})
	}
	return &api.DeleteResult{UserID: userID, FilesStatus: statuses}, nil
}

func (s *stubClient) Query(_ context.Context, userID, question string, topK int) (*api.QueryResult, error) {
	if s.QueryFn != nil {
		return s.QueryFn(userID, question, topK)
	}
	return &api.QueryResult{Question: question, Answer: "answer", UserID: userID}, nil
}

func (s *stubClient) Login(_ context.Context, username, password string) (*models.Identity, error) {
	if s.LoginFn != nil {
		return s.LoginFn(username, password)
	}
	return &models.Identity{Username: username, Role: models.RoleReader}, nil
}

func (s *stubClient) Signup(_ context.Context, req api.SignupRequest) (*models.Identity, error) {
	return &models.Identity{Username: req.Username, FullName: req.FullName, Role: req.Role}, nil
}

func (s *stubClient) ListDocuments(_ context.Context, userID string) ([]api.RemoteDocument, error) {
	if s.ListFn != nil {
		return s.ListFn(userID)
	}
	return nil, nil
}

func (s *stubClient) Ping(_ context.Context) error { return nil }

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL);
CREATE TABLE saved_sessions (
  id TEXT PRIMARY KEY, name TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL, messages BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

// newTestApp wires an App around a stub backend and an in-memory database.
func newTestApp(t *testing.T, client api.Client) *App {
	t.Helper()
	log := logging.NewZapLogger(zaptest.NewLogger(t))
	db := testDB(t)
	meta := metadata.NewSQLiteRepository(db)
	sessionRepo := sessions.NewSQLiteRepository(db)
	st := store.New()

	a := &App{
		log:        log,
		db:         db,
		store:      st,
		uploads:    services.NewUploadService(client, st, log, 1),
		deletes:    services.NewDeleteService(client, st, log),
		chat:       services.NewChatService(client, sessionRepo, log, 5),
		auth:       services.NewAuthService(client, meta, log),
		settings:   services.NewSettingsService(meta, log),
		sync:       services.NewSyncService(client, st, log),
		highlights: events.NewBus[events.DocumentHighlighted](),
		reader:     bufio.NewReader(strings.NewReader("")),
	}
	col, err := st.CreateCollection(defaultCollectionName)
	require.NoError(t, err)
	a.activeCol = col.ID
	a.identity = &models.Identity{Username: "alice", Role: models.RoleReader}
	a.prefs = models.DefaultSettings()
	return a
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ------------ tests ------------

func TestLogin_SetsIdentityFromPrompts(t *testing.T) {
	silencePrintln(t)

	var gotUser, gotPass string
	client := &stubClient{
		LoginFn: func(username, password string) (*models.Identity, error) {
			gotUser, gotPass = username, password
			return &models.Identity{Username: username, Role: models.RoleAdmin}, nil
		},
	}
	a := newTestApp(t, client)
	a.identity = nil
	a.reader = bufio.NewReader(strings.NewReader("alice\n"))

	origText, origPass := getSimpleText, getPassword
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPass })
	getSimpleText = func(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
		return GetSimpleText(reader, prompt, io.Discard)
	}
	getPassword = func(io.Writer) (string, error) { return "s3cret", nil }

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "alice", gotUser)
	assert.Equal(t, "s3cret", gotPass)
	require.True(t, a.isLoggedIn())
	assert.Equal(t, models.RoleAdmin, a.identity.Role)
}

func TestLogout_ClearsIdentityAndChat(t *testing.T) {
	silencePrintln(t)

	a := newTestApp(t, &stubClient{})
	_, err := a.chat.Ask(context.Background(), "alice", "hello")
	require.NoError(t, err)

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, a.chat.Messages())
	assert.Equal(t, "", a.userID())
}

func TestUpload_AddsDocumentsToActiveCollection(t *testing.T) {
	a := newTestApp(t, &stubClient{})
	path := writeTempFile(t, "notes.txt", "hello")

	require.NoError(t, a.Upload(context.Background(), []string{path}))

	c, err := a.store.Get(a.activeCol)
	require.NoError(t, err)
	require.Equal(t, 1, c.DocumentCount)
	assert.Equal(t, "notes.txt", c.Documents[0].Name)
	assert.Equal(t, models.StatusCompleted, c.Documents[0].Status)
}

func TestUpload_MissingPathFailsBeforeAnyRequest(t *testing.T) {
	uploads := 0
	client := &stubClient{
		UploadFn: func(userID, filename string) (*api.UploadResult, error) {
			uploads++
			return &api.UploadResult{Filename: filename}, nil
		},
	}
	a := newTestApp(t, client)

	err := a.Upload(context.Background(), []string{"/no/such/file.pdf"})
	require.Error(t, err)
	assert.Equal(t, 0, uploads)
}

func TestDelete_RemovesConfirmedDocuments(t *testing.T) {
	a := newTestApp(t, &stubClient{})
	path := writeTempFile(t, "notes.txt", "hello")
	require.NoError(t, a.Upload(context.Background(), []string{path}))

	require.NoError(t, a.Delete(context.Background(), []string{"notes.txt"}))

	c, err := a.store.Get(a.activeCol)
	require.NoError(t, err)
	assert.Equal(t, 0, c.DocumentCount)
}

func TestAsk_PublishesHighlightPerSource(t *testing.T) {
	silencePrintln(t)

	client := &stubClient{
		QueryFn: func(userID, question string, topK int) (*api.QueryResult, error) {
			return &api.QueryResult{
				Answer: "see the policy",
				Sources: []models.Source{
					{Filename: "policy.pdf", Page: 2},
					{Filename: "annex.pdf"},
				},
			}, nil
		},
	}
	a := newTestApp(t, client)

	var got []events.DocumentHighlighted
	a.highlights.Subscribe(func(ev events.DocumentHighlighted) { got = append(got, ev) })

	require.NoError(t, a.Ask(context.Background(), "where is it?"))
	require.Len(t, got, 2)
	assert.Equal(t, "policy.pdf", got[0].Filename)
	assert.Equal(t, 2, got[0].Page)
	assert.Equal(t, a.activeCol, got[0].CollectionID)
}

func TestCollectionCommands(t *testing.T) {
	silencePrintln(t)

	a := newTestApp(t, &stubClient{})
	ctx := context.Background()

	require.NoError(t, a.NewCollection(ctx, "Contracts"))
	created := a.activeCol

	require.NoError(t, a.UseCollection(ctx, defaultCollectionName))
	assert.NotEqual(t, created, a.activeCol)

	require.NoError(t, a.RenameCollection(ctx, []string{"Contracts", "Legal"}))
	_, err := a.store.FindByName("Legal")
	require.NoError(t, err)

	require.ErrorIs(t, a.RenameCollection(ctx, []string{"only-one-arg"}), errUsage)
}

func TestDeleteCollection_ActiveFallsBackToFirst(t *testing.T) {
	silencePrintln(t)

	a := newTestApp(t, &stubClient{})
	ctx := context.Background()

	require.NoError(t, a.NewCollection(ctx, "Contracts"))
	require.NoError(t, a.DeleteCollection(ctx, "Contracts"))

	c, err := a.store.Get(a.activeCol)
	require.NoError(t, err)
	assert.Equal(t, defaultCollectionName, c.Name)
}

func TestDeleteCollection_LastOneRecreatesDefault(t *testing.T) {
	silencePrintln(t)

	a := newTestApp(t, &stubClient{})
	require.NoError(t, a.DeleteCollection(context.Background(), defaultCollectionName))

	c, err := a.store.Get(a.activeCol)
	require.NoError(t, err)
	assert.Equal(t, defaultCollectionName, c.Name)
}

func TestSync_RehydratesActiveCollection(t *testing.T) {
	client := &stubClient{
		ListFn: func(userID string) ([]api.RemoteDocument, error) {
			return []api.RemoteDocument{{Filename: "a.pdf", Size: 10}}, nil
		},
	}
	a := newTestApp(t, client)

	require.NoError(t, a.Sync(context.Background()))
	c, err := a.store.Get(a.activeCol)
	require.NoError(t, err)
	assert.Equal(t, 1, c.DocumentCount)
}

func TestSettings_UpdatePersists(t *testing.T) {
	a := newTestApp(t, &stubClient{})
	ctx := context.Background()

	require.NoError(t, a.Settings(ctx, []string{"theme", "dark"}))
	require.NoError(t, a.Settings(ctx, []string{"font-size", "18"}))
	require.Error(t, a.Settings(ctx, []string{"font-size", "big"}))
	require.Error(t, a.Settings(ctx, []string{"bogus", "x"}))

	loaded := a.settings.Load(ctx)
	assert.Equal(t, "dark", loaded.Theme)
	assert.Equal(t, 18, loaded.FontSize)
}

func TestStatus(t *testing.T) {
	a := newTestApp(t, &stubClient{})
	assert.Equal(t, "alice@"+defaultCollectionName, a.status())

	a.identity = nil
	assert.Equal(t, "logged out", a.status())
}
