package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/api"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/config"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/guard"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/listsync"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/persist"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/services"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/session"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/storage"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
	"github.com/dmitrijs2005/knowledgekeeper/internal/filex"
	"github.com/dmitrijs2005/knowledgekeeper/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	store *session.Store
	guard *guard.Guard

	knowledge  services.KnowledgeService
	list       *listsync.Controller[models.Knowledge]
	listLoaded bool
	chat       services.ChatService
	files      services.FileService
	prompts    services.PromptService

	reader *bufio.Reader
	out    *notifier
}

// NewApp opens the local database under cfg.DataDir and wires every
// component. Logs go to logOut at cfg.LogLevel.
func NewApp(ctx context.Context, cfg *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	log := logging.New(cfg.LogLevel, logOut)

	if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := storage.InitDatabase(ctx, cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	creds := persist.NewCredentialStore(db, log)
	client, err := api.NewClient(cfg.BaseURL,
		api.WithTokenSource(creds),
		api.WithLogger(log),
		api.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := session.NewStore(client, creds, log)
	knowledge := services.NewKnowledgeService(client)
	transcript := persist.NewTranscriptStore(persist.NewAdapter(storage.NewSQLiteRepository(db), log))

	return &App{
		config:    cfg,
		log:       log,
		db:        db,
		store:     store,
		guard:     guard.New(store, log, guard.WithRevalidation(cfg.VerifyOnStart)),
		knowledge: knowledge,
		list: listsync.New[models.Knowledge](knowledge, listsync.Config{
			PageSize:        cfg.PageSize,
			BulkConcurrency: cfg.BulkConcurrency,
		}, log),
		chat:    services.NewChatService(client, transcript),
		files:   services.NewFileService(client),
		prompts: services.NewPromptService(client),
		reader:  bufio.NewReader(in),
		out:     newNotifier(out),
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// exec runs one command from the table, behind the guard when protected,
// and reports its outcome exactly once.
func (a *App) exec(ctx context.Context, name string, args []string) error {
	c, ok := lookup(name)
	if !ok {
		a.out.Error("unknown command %q (type 'help')", name)
		return fmt.Errorf("unknown command %q", name)
	}
	if len(args) < c.minArgs {
		a.out.Error("usage: %s", c.usageLine())
		return fmt.Errorf("%w: usage: %s", common.ErrValidation, c.usageLine())
	}

	ctx = session.NewContext(ctx, a.store)
	run := func(ctx context.Context) error { return c.run(a, ctx, args) }

	var err error
	if c.protected {
		err = a.guard.Protect(ctx, run)
	} else {
		err = run(ctx)
	}
	a.report(err)
	return err
}

// report prints err, or else any error left on the session, and clears
// what the session holds so the same message is not shown twice.
func (a *App) report(err error) {
	pending := a.store.Snapshot().Error
	if pending == "" {
		pending = a.store.Users().Error
	}
	a.store.ClearError()
	a.store.ClearUsersError()

	switch {
	case err != nil:
		a.out.Error("%s", describe(err))
	case pending != "":
		a.out.Error("%s", pending)
	}
}

func describe(err error) string {
	var (
		redirect *guard.RedirectError
		bulk     *listsync.BulkDeleteError
	)
	switch {
	case errors.As(err, &redirect), errors.As(err, &bulk):
		return err.Error()
	case errors.Is(err, guard.ErrPending):
		return "authentication in progress, try again"
	case errors.Is(err, session.ErrAlreadyAuthenticated):
		return "already logged in, run \"logout\" first"
	}
	return api.Message(err, err.Error())
}
