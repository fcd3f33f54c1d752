// Package cli is the interactive terminal front end of the Tia client. It
// wires the coordinators together and drives them from a small REPL.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/tiadocs/tia/internal/api"
	"github.com/tiadocs/tia/internal/config"
	"github.com/tiadocs/tia/internal/events"
	"github.com/tiadocs/tia/internal/localdb"
	"github.com/tiadocs/tia/internal/logging"
	"github.com/tiadocs/tia/internal/models"
	"github.com/tiadocs/tia/internal/repositories/metadata"
	"github.com/tiadocs/tia/internal/repositories/sessions"
	"github.com/tiadocs/tia/internal/services"
	"github.com/tiadocs/tia/internal/store"
)

// defaultCollectionName holds the documents rehydrated from the backend at
// session start.
const defaultCollectionName = "My Documents"

// App holds the state of one interactive session: the authenticated
// identity, the active collection, and every coordinator.
type App struct {
	cfg *config.Config
	log logging.Logger
	db  *sql.DB

	store      *store.Store
	uploads    *services.UploadService
	deletes    *services.DeleteService
	chat       *services.ChatService
	auth       *services.AuthService
	settings   *services.SettingsService
	sync       *services.SyncService
	highlights *events.Bus[events.DocumentHighlighted]

	identity  *models.Identity
	prefs     models.Settings
	activeCol string

	reader *bufio.Reader
}

// NewApp wires the full client: local database, backend client, store,
// coordinators, and the highlight bus.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := localdb.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	client := api.NewHTTPClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	meta := metadata.NewSQLiteRepository(db)
	sessionRepo := sessions.NewSQLiteRepository(db)
	st := store.New()

	a := &App{
		cfg:        cfg,
		log:        log,
		db:         db,
		store:      st,
		uploads:    services.NewUploadService(client, st, log, cfg.Upload.Concurrency),
		deletes:    services.NewDeleteService(client, st, log),
		chat:       services.NewChatService(client, sessionRepo, log, cfg.Backend.TopK),
		auth:       services.NewAuthService(client, meta, log),
		settings:   services.NewSettingsService(meta, log),
		sync:       services.NewSyncService(client, st, log),
		highlights: events.NewBus[events.DocumentHighlighted](),
		reader:     bufio.NewReader(os.Stdin),
	}

	col, err := st.CreateCollection(defaultCollectionName)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.activeCol = col.ID

	return a, nil
}

// Close releases the local database.
func (a *App) Close() error {
	return a.db.Close()
}

// Run restores persisted state and enters the REPL until EOF or exit.
func (a *App) Run(ctx context.Context) error {
	a.prefs = a.settings.Load(ctx)

	ident, err := a.auth.Restore(ctx)
	if err != nil {
		return err
	}
	if ident != nil {
		a.identity = ident
		fmt.Printf("Welcome back, %s.\n", ident.Username)
		if _, err := a.sync.Rehydrate(ctx, ident.Username, a.activeCol); err != nil {
			// Offline start is fine; the store just begins empty.
			a.log.Warn(ctx, "could not rehydrate documents", "error", err)
		}
	}

	unsubscribe := a.highlights.Subscribe(func(ev events.DocumentHighlighted) {
		if ev.Page > 0 {
			fmt.Printf("  ↳ see %s, page %d\n", ev.Filename, ev.Page)
		} else {
			fmt.Printf("  ↳ see %s\n", ev.Filename)
		}
	})
	defer unsubscribe()

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.identity != nil
}

// userID returns the identity scoping backend calls, or "" when logged out.
func (a *App) userID() string {
	if a.identity == nil {
		return ""
	}
	return a.identity.Username
}

// status renders the prompt suffix: "username@collection" when logged in.
func (a *App) status() string {
	if a.identity == nil {
		return "logged out"
	}
	name := a.activeCollectionName()
	return fmt.Sprintf("%s@%s", a.identity.Username, name)
}

func (a *App) activeCollectionName() string {
	c, err := a.store.Get(a.activeCol)
	if err != nil {
		return "?"
	}
	return c.Name
}
