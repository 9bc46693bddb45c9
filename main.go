package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"Loadsheet/internal/aircraft"
	"Loadsheet/internal/auth"
	"Loadsheet/internal/calc/batch"
	"Loadsheet/internal/calc/importer"
	"Loadsheet/internal/calc/report"
	"Loadsheet/internal/calc/wb"
	"Loadsheet/internal/config"
	"Loadsheet/internal/logging"
	"Loadsheet/internal/profile"
	"Loadsheet/internal/repo"
)

const profileTTL = 10 * time.Minute

var wg sync.WaitGroup

// storage is implemented by both the Postgres and the in-memory repository.
type storage interface {
	repo.Repository
	repo.AircraftStore
	repo.CalculationLog
}

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

// catalog layers stored specs over PROFILES_DIR files over the built-in types.
func catalog(cfg config.Config, store storage) (aircraft.Catalog, error) {
	files := aircraft.NewStatic()
	if cfg.ProfilesDir != "" {
		specs, err := aircraft.LoadDir(cfg.ProfilesDir)
		if err != nil {
			return nil, fmt.Errorf("load profiles: %w", err)
		}
		for _, s := range specs {
			files.Put(s)
		}
	}
	return aircraft.Chain{store, files, aircraft.Builtin()}, nil
}

func HandleList(mux *mux.Router, cfg config.Config, store storage, cat aircraft.Catalog, log *slog.Logger) {
	cache := aircraft.NewCache(cat, cfg.ProfileCacheSize, profileTTL)

	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Repo: store, Admins: auth.AdminSet(cfg.Admins), Log: log}
	profileH := &profile.ProfileHandler{Store: store, Catalog: cat, Reserved: aircraft.Builtin(), Cache: cache, Log: log}
	wbH := &wb.Handler{Profiles: cache, Calcs: store, Log: log}
	reportH := &report.Handler{Calc: wbH}
	importH := &importer.Handler{Runner: &batch.Runner{Profiles: cache, Workers: cfg.BatchWorkers, Log: log}}

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	secureApi.HandleFunc("/aircraft", profileH.List).Methods("GET")
	secureApi.HandleFunc("/aircraft/{name}", profileH.GetProfile).Methods("GET")
	secureApi.HandleFunc("/aircraft/{name}", profileH.UpdateProfile).Methods("PUT")

	secureApi.HandleFunc("/tools/wb/calc", wbH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/wb/report/pdf", reportH.Generate).Methods("POST")
	secureApi.HandleFunc("/tools/wb/import", importH.Import).Methods("POST")
	secureApi.HandleFunc("/calculations", wbH.History).Methods("GET")

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods("GET")
}

func openStorage(ctx context.Context, cfg config.Config, log *slog.Logger) (storage, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL is not set, using in-memory storage")
		return repo.NewMemory(), func() {}, nil
	}
	db, err := repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	r := repo.NewPostgresUserDB(db)
	if err := r.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return r, func() { db.Close() }, nil
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	lg, err := logging.New("loadsheet", cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return err
	}
	defer lg.Close()
	log := lg.Logger

	store, closeDB, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	cat, err := catalog(cfg, store)
	if err != nil {
		return err
	}

	mux := mux.NewRouter()
	HandleList(mux, cfg, store, cat, log)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           CORS(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting server", "addr", cfg.ListenAddr)
	serveErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutdown signal received, closing connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	wg.Wait()
	log.Info("server stopped")
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "loadsheet:", err)
		os.Exit(1)
	}
}
