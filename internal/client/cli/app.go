package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/client/client"
	"github.com/dmitrijs2005/moodiary/internal/client/config"
	"github.com/dmitrijs2005/moodiary/internal/client/models"
	"github.com/dmitrijs2005/moodiary/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/moodiary/internal/client/services"
	"github.com/dmitrijs2005/moodiary/internal/client/session"
	"github.com/dmitrijs2005/moodiary/internal/filex"
	"github.com/dmitrijs2005/moodiary/internal/logging"
	"github.com/redis/go-redis/v9"
)

const redisNamespace = "session"

type App struct {
	config  *config.Config
	log     logging.Logger
	session *session.Manager
	auth    services.AuthService
	diary   services.DiaryService

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	loggedIn atomic.Bool
	mu       sync.Mutex
	profile  models.Profile

	closers []io.Closer
}

// NewApp opens the persistent session storage selected by c and wires the
// session manager, the REST client and the services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	persistent, closer, err := openPersistent(ctx, c)
	if err != nil {
		return nil, err
	}

	api, err := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	a := &App{
		config:  c,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		now:     time.Now,
		closers: []io.Closer{closer},
	}

	store := session.NewScopedStore(metadata.NewMemoryRepository(), persistent)
	a.session = session.NewManager(store, api,
		session.WithLogger(log),
		session.WithNavigator(a),
		session.WithLoginRoute(c.LoginRoute),
	)
	api.SetTokenSource(a.session)

	a.auth = services.NewAuthService(api, a.session)
	a.diary = services.NewDiaryService(api, a.session)

	return a, nil
}

func openPersistent(ctx context.Context, c *config.Config) (metadata.Repository, io.Closer, error) {
	switch c.StorageDriver {
	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis %s unreachable: %w", c.RedisAddr, err)
		}
		return metadata.NewRedisRepository(rdb, redisNamespace), rdb, nil

	default:
		if err := filex.EnsureParentDir(c.StorageDSN); err != nil {
			return nil, nil, err
		}
		db, err := client.InitDatabase(ctx, c.StorageDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing database: %w", err)
		}
		return metadata.NewSQLiteRepository(db), db, nil
	}
}

// Close releases the storage handles.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Run resumes a stored session, starts the token watcher and blocks in the
// REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Moodiary CLI (type 'help' for commands)")

	if p, err := a.auth.Resume(ctx); err != nil {
		a.log.Warn(ctx, "failed to resume session", "error", err)
	} else if p != nil {
		a.setLoggedIn(p)
		fmt.Fprintf(a.out, "Welcome back, %s!\n", displayName(p))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartTokenWatcher(ctx, a.config.TokenCheckInterval)

	runREPL(ctx, a, a.status, a.reader)
}

// Navigate is the App's way of sending the user to the login screen: the
// REPL drops to the logged-out command set.
func (a *App) Navigate(ctx context.Context, route string) {
	a.setLoggedOut()
	a.log.Info(ctx, "session ended", "route", route)
	fmt.Fprintln(a.out, "Your session has expired, please log in again.")
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn.Load()
}

func (a *App) setLoggedIn(p models.Profile) {
	a.mu.Lock()
	a.profile = p
	a.mu.Unlock()
	a.loggedIn.Store(true)
}

func (a *App) setLoggedOut() {
	a.mu.Lock()
	a.profile = nil
	a.mu.Unlock()
	a.loggedIn.Store(false)
}

func (a *App) currentProfile() models.Profile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return ""
	}
	return "(" + displayName(a.currentProfile()) + ")"
}

// StartTokenWatcher periodically checks the stored access token and reports
// when it expires. It returns when ctx is done.
func (a *App) StartTokenWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	valid := a.session.IsAccessTokenValid(ctx)
	for {
		select {
		case <-ticker.C:
			valid = a.checkToken(ctx, valid)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkToken(ctx context.Context, wasValid bool) bool {
	valid := a.session.IsAccessTokenValid(ctx)
	if wasValid && !valid && a.isLoggedIn() {
		a.log.Info(ctx, "access token expired, the next request will refresh it")
	}
	return valid
}
