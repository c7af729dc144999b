package api

import (
	"time"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/realtime"
	"github.com/EncryptEx/ichack26/internal/seed"
	"github.com/EncryptEx/ichack26/internal/service"
	"github.com/EncryptEx/ichack26/internal/storage"
)

// App is everything a handler may reach for.
type App interface {
	Logger() internal.Logger
	Store() storage.Store
	Generator() *seed.Generator
	Leaderboards() *service.Leaderboards
	Hub() *realtime.Hub
	Now() time.Time
}

type Application struct {
	logger       internal.Logger
	store        storage.Store
	gen          *seed.Generator
	leaderboards *service.Leaderboards
	hub          *realtime.Hub
	clock        func() time.Time
}

func NewApplication(logger internal.Logger, store storage.Store, gen *seed.Generator, leaderboards *service.Leaderboards, hub *realtime.Hub) *Application {
	return &Application{
		logger:       logger,
		store:        store,
		gen:          gen,
		leaderboards: leaderboards,
		hub:          hub,
		clock:        time.Now,
	}
}

// WithClock replaces the wall clock used to resolve "today".
func (a *Application) WithClock(now func() time.Time) *Application {
	a.clock = now
	return a
}

func (a *Application) Logger() internal.Logger             { return a.logger }
func (a *Application) Store() storage.Store                { return a.store }
func (a *Application) Generator() *seed.Generator          { return a.gen }
func (a *Application) Leaderboards() *service.Leaderboards { return a.leaderboards }
func (a *Application) Hub() *realtime.Hub                  { return a.hub }
func (a *Application) Now() time.Time                      { return a.clock() }
