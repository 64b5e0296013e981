package storefront

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// ConnState tracks the lifecycle of the shared database handle
type ConnState int32

const (
	// StateDisconnected means no handle is open
	StateDisconnected ConnState = iota
	// StateConnecting means a connection attempt is in flight
	StateConnecting
	// StateConnected means the handle is open and usable
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Persistence owns the single long lived database handle. Connect is
// idempotent: an open handle or an attempt already in flight is a no-op,
// so concurrent callers never race to open duplicate connections.
type Persistence struct {
	dsn    string
	logger Logger

	mu    sync.Mutex
	state atomic.Int32
	db    *bun.DB
}

// NewPersistence returns an unconnected Persistence for the given DSN
func NewPersistence(dsn string, logger Logger) *Persistence {
	if logger == nil {
		logger = defLogger{}
	}
	return &Persistence{
		dsn:    dsn,
		logger: logger,
	}
}

// State returns the current connection state
func (p *Persistence) State() ConnState {
	return ConnState(p.state.Load())
}

// DB returns the shared handle. It is nil until Connect succeeds.
func (p *Persistence) DB() *bun.DB {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.db
}

// Connect opens the database handle if it is not already open. Callers
// racing into this method serialize on the mutex; the loser observes
// StateConnected and returns immediately.
func (p *Persistence) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ConnState(p.state.Load()) == StateConnected {
		p.logger.Debug("database already connected")
		return nil
	}

	p.state.Store(int32(StateConnecting))

	sqldb, err := sql.Open(sqliteshim.ShimName, p.dsn)
	if err != nil {
		p.state.Store(int32(StateDisconnected))
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open database")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		p.state.Store(int32(StateDisconnected))
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to ping database")
	}

	p.db = db
	p.state.Store(int32(StateConnected))
	p.logger.Info("database connected: %s", p.dsn)

	return nil
}

// EnsureSchema creates the application tables when they do not exist.
// Safe to run on every boot.
func (p *Persistence) EnsureSchema(ctx context.Context) error {
	db := p.DB()
	if db == nil {
		return goerrors.New("database is not connected", goerrors.CategoryOperation)
	}

	models := []any{
		(*User)(nil),
		(*Category)(nil),
		(*Subcategory)(nil),
		(*Product)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create table")
		}
	}

	return nil
}

// Close releases the handle and returns the manager to disconnected
func (p *Persistence) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil
	}

	err := p.db.Close()
	p.db = nil
	p.state.Store(int32(StateDisconnected))

	return err
}
