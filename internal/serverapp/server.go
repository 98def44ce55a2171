package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/nathan71370/rabbit-clicker-sub000/internal/building"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/config"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/crate"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/game"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/prestige"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/rabbit"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/savegame"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/upgrade"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/wallet"
	staticfiles "github.com/nathan71370/rabbit-clicker-sub000/static"
)

type Options struct {
	Config  *config.Config
	DataDir string
	Logger  *log.Logger
	Clock   game.Clock
	RNG     game.RandomSource
}

// App wires the stores, engine, persistence, and HTTP surface together. The
// handlers are thin: every economic decision lives in the engine.
type App struct {
	cfg    *config.Config
	logger *log.Logger
	clock  game.Clock

	engine *game.Engine
	stores savegame.Stores
	saves  *savegame.FileRepo

	mux *http.ServeMux
}

func New(opts Options) (*App, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = game.RealClock{}
	}
	if opts.DataDir == "" {
		opts.DataDir = opts.Config.Server.DataDir
	}

	stores := savegame.Stores{
		Wallet:    wallet.NewMemoryRepo(),
		Buildings: building.NewMemoryRepo(),
		Upgrades:  upgrade.NewMemoryRepo(),
		Rabbits:   rabbit.NewMemoryRepo(),
		Gacha:     crate.NewMemoryRepo(),
		Prestige:  prestige.NewMemoryRepo(),
	}

	saves, err := savegame.NewFileRepo(opts.DataDir)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if blob, ok, err := saves.Load(ctx); err != nil {
		// A broken save must never prevent play; start fresh.
		opts.Logger.Printf("serverapp: discarding unreadable save: %v", err)
	} else if ok {
		if err := savegame.Restore(ctx, stores, blob); err != nil {
			opts.Logger.Printf("serverapp: discarding incompatible save: %v", err)
		}
	}

	engine, err := game.New(game.Options{
		Config:    opts.Config,
		Wallet:    stores.Wallet,
		Buildings: stores.Buildings,
		Upgrades:  stores.Upgrades,
		Rabbits:   stores.Rabbits,
		Gacha:     stores.Gacha,
		Prestige:  stores.Prestige,
		Clock:     opts.Clock,
		RNG:       opts.RNG,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    opts.Config,
		logger: opts.Logger,
		clock:  opts.Clock,
		engine: engine,
		stores: stores,
		saves:  saves,
		mux:    http.NewServeMux(),
	}
	a.routes()
	return a, nil
}

// Engine exposes the core for tests and embedding callers.
func (a *App) Engine() *game.Engine { return a.engine }

func (a *App) Handler() http.Handler { return a.mux }

// Run drives the periodic tick and autosave until ctx is cancelled, then
// performs a final save.
func (a *App) Run(ctx context.Context) error {
	if _, err := a.engine.ReconcileOffline(ctx); err != nil {
		a.logger.Printf("serverapp: offline reconcile: %v", err)
	}

	tick := time.NewTicker(time.Duration(a.cfg.Server.TickSeconds * float64(time.Second)))
	defer tick.Stop()
	autosave := time.NewTicker(time.Duration(a.cfg.Server.AutosaveSeconds * float64(time.Second)))
	defer autosave.Stop()

	last := a.clock.Now()
	for {
		select {
		case <-ctx.Done():
			a.save(context.Background())
			return ctx.Err()
		case <-tick.C:
			now := a.clock.Now()
			dt := now.Sub(last).Seconds()
			last = now
			if _, err := a.engine.Tick(ctx, dt); err != nil {
				a.logger.Printf("serverapp: tick: %v", err)
			}
		case <-autosave.C:
			a.save(ctx)
		}
	}
}

func (a *App) save(ctx context.Context) {
	if err := a.engine.Touch(ctx); err != nil {
		a.logger.Printf("serverapp: save: %v", err)
		return
	}
	blob, err := savegame.Capture(ctx, a.stores, a.clock.Now())
	if err != nil {
		a.logger.Printf("serverapp: save: %v", err)
		return
	}
	if err := a.saves.Save(ctx, blob); err != nil {
		a.logger.Printf("serverapp: save: %v", err)
	}
}

func (a *App) routes() {
	// Serving from disk instead of the embedded copy shortens the edit loop
	// when working on the client.
	if dir := a.cfg.Server.UseDiskStaticDir; dir != "" {
		a.mux.Handle("/", http.FileServer(http.Dir(dir)))
	} else {
		a.mux.Handle("/", http.FileServer(http.FS(staticfiles.EmbeddedFS())))
	}

	a.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "rabbit-clicker",
			"time":    a.clock.Now().UTC().Format(time.RFC3339),
		})
	})

	a.mux.HandleFunc("/api/state", a.handleState)
	a.mux.HandleFunc("/api/click", a.handleClick)
	a.mux.HandleFunc("/api/buy/building", a.handleBuyBuilding)
	a.mux.HandleFunc("/api/buy/upgrade", a.handleBuyUpgrade)
	a.mux.HandleFunc("/api/crate/open", a.handleOpenCrate)
	a.mux.HandleFunc("/api/team", a.handleSetTeam)
	a.mux.HandleFunc("/api/prestige", a.handlePrestige)
	a.mux.HandleFunc("/api/sync", a.handleSync)
	a.mux.HandleFunc("/api/save/export", a.handleExport)
	a.mux.HandleFunc("/api/save/import", a.handleImport)
	a.mux.HandleFunc("/api/reset", a.handleReset)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrUnknownID):
		code = http.StatusNotFound
	case errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrAlreadyOwned),
		errors.Is(err, game.ErrPrerequisite),
		errors.Is(err, game.ErrNotOwned),
		errors.Is(err, game.ErrTeamTooLarge),
		errors.Is(err, game.ErrNotEligible):
		code = http.StatusConflict
	}
	writeJSON(w, code, map[string]any{"ok": false, "error": err.Error()})
}
