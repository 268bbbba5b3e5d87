// sentiric-contacts-service/internal/app/app.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/sentiric/sentiric-contacts-service/internal/call"
	"github.com/sentiric/sentiric-contacts-service/internal/config"
	"github.com/sentiric/sentiric-contacts-service/internal/database"
	"github.com/sentiric/sentiric-contacts-service/internal/dialer"
	"github.com/sentiric/sentiric-contacts-service/internal/logger"
	"github.com/sentiric/sentiric-contacts-service/internal/repository"
	"github.com/sentiric/sentiric-contacts-service/internal/repository/memory"
	"github.com/sentiric/sentiric-contacts-service/internal/repository/sqlstore"
	"github.com/sentiric/sentiric-contacts-service/internal/server"
	"github.com/sentiric/sentiric-contacts-service/internal/service"
	"github.com/sentiric/sentiric-contacts-service/internal/theme"
	"github.com/sentiric/sentiric-contacts-service/internal/watch"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Cfg *config.Config
	Log zerolog.Logger
}

func NewApp(cfg *config.Config, log zerolog.Logger) *App {
	return &App{Cfg: cfg, Log: log}
}

// Run serves until SIGINT or SIGTERM, or until a server fails.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Altyapı: kişi deposu
	store, db, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	// 2. DI: Store -> Service -> Handler
	locale, err := language.Parse(a.Cfg.Locale)
	if err != nil {
		a.Log.Warn().Err(err).Str("locale", a.Cfg.Locale).Msg("Geçersiz dil etiketi, varsayılan kullanılacak")
		locale = language.English
	}
	var groupOpts []service.GroupOption
	if a.Cfg.SeedGroups {
		groupOpts = append(groupOpts, service.WithSeedGroups())
	}
	groups := service.NewGroupManager(a.Log, groupOpts...)
	contacts := service.NewContactService(store, a.Log,
		service.WithLocale(locale),
		service.WithPruner(groups))

	d := dialer.New(dialer.NewLogOpener(a.Log, a.Cfg.DialerSchemes...), dialer.Platform(a.Cfg.Platform))
	calls := call.NewRegistry(d, a.Log, call.Options{
		ConnectDelay: a.Cfg.CallConnectDelay,
		DismissDelay: a.Cfg.CallDismissDelay,
	})
	defer calls.CloseAll()
	prefs := theme.New(theme.FileStore{Path: a.Cfg.ThemeFile}, theme.StaticAppearance(a.Cfg.Appearance), a.Log)

	// 3. Server katmanı
	grpcServer, err := server.NewGrpcServer(a.Cfg, a.Log)
	if err != nil {
		return fmt.Errorf("gRPC sunucusu oluşturulamadı: %w", err)
	}
	handler := server.NewHTTPHandler(server.Deps{
		Contacts: contacts,
		Groups:   groups,
		Calls:    calls,
		Dialer:   d,
		Theme:    prefs,
	}, "contacts-service", a.Cfg.ServiceVersion, a.Log)
	httpServer := server.NewHTTPServer(a.Cfg.HTTPPort, handler)

	reloader := &servingReloader{contacts: contacts, grpc: grpcServer}
	// İlk yükleme başarısız olsa da servis ayakta kalır; /contacts/reload ile tekrar denenebilir.
	if err := reloader.Reload(ctx); err != nil {
		a.Log.Warn().Err(err).Msg("İlk kişi yüklemesi başarısız")
	}

	// 4. Sunucuları başlat
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info().Str("port", a.Cfg.HTTPPort).Msg("HTTP sunucusu dinleniyor")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP sunucusu başlatılamadı: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return grpcServer.Listen(a.Cfg.GRPCPort)
	})
	if a.Cfg.StoreDriver == config.DriverSQLite {
		w, err := watch.New(a.Cfg.SQLitePath, a.Cfg.WatchDebounce, reloader, a.Log)
		if err != nil {
			a.Log.Warn().Err(err).Msg("Kişi deposu izlenemiyor, dış değişiklikler otomatik yüklenmeyecek")
		} else {
			g.Go(func() error { return w.Run(gctx) })
		}
	}

	// 5. Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		a.Log.Warn().Msg("Kapatma sinyali alındı, servisler durduruluyor...")
		return a.shutdown(grpcServer, httpServer)
	})

	err = g.Wait()
	a.Log.Info().
		Str("event", logger.EventSystemShutdown).
		Dict("attributes", zerolog.Dict().
			Bool("clean", err == nil)).
		Msg("Servis durduruldu.")
	return err
}

func (a *App) shutdown(grpcSrv *server.GrpcServer, httpSrv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	grpcSrv.Stop()
	a.Log.Info().Msg("gRPC sunucusu durduruldu.")

	if err := httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP sunucusu düzgün kapatılamadı: %w", err)
	}
	a.Log.Info().Msg("HTTP sunucusu durduruldu.")
	return nil
}

// openStore returns the configured contact store. db is nil for the memory
// driver.
func (a *App) openStore(ctx context.Context) (repository.ContactStore, *sql.DB, error) {
	var (
		db      *sql.DB
		dialect sqlstore.Dialect
		err     error
	)
	switch a.Cfg.StoreDriver {
	case config.DriverMemory:
		a.Log.Info().Msg("Bellek içi kişi deposu kullanılıyor.")
		return memory.New(), nil, nil
	case config.DriverSQLite:
		db, err = database.OpenSQLite(ctx, a.Cfg.SQLitePath, a.Log)
		dialect = sqlstore.SQLite
	case config.DriverPostgres:
		db, err = database.Connect(ctx, a.Cfg.DatabaseURL, a.Cfg.MaxDBRetries, a.Log)
		dialect = sqlstore.Postgres
	default:
		return nil, nil, fmt.Errorf("geçersiz STORE_DRIVER: %q", a.Cfg.StoreDriver)
	}
	if err != nil {
		return nil, nil, err
	}

	store := sqlstore.New(db, dialect, a.Log)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, db, nil
}

// servingReloader keeps gRPC health in step with the collection: SERVING
// once a load has succeeded.
type servingReloader struct {
	contacts *service.ContactService
	grpc     *server.GrpcServer
}

func (r *servingReloader) Reload(ctx context.Context) error {
	err := r.contacts.Reload(ctx)
	r.grpc.SetServing(r.contacts.Loaded())
	return err
}
