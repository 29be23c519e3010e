// Package server exposes the trainer over HTTP: flight lifecycle, the chat
// exchange, weather passthrough, settings and a websocket event feed.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/atcvirtual/atcvirtual/internal/session"
	"github.com/atcvirtual/atcvirtual/internal/settings"
	"github.com/atcvirtual/atcvirtual/internal/wx"
	"github.com/atcvirtual/atcvirtual/pkg/util"
)

// Server wires the manager, settings and weather client into an echo app.
type Server struct {
	echo     *echo.Echo
	manager  *session.Manager
	settings *settings.Store
	weather  *wx.Client
	addr     string
}

// New builds the server and registers all routes.
func New(addr string, manager *session.Manager, store *settings.Store, weather *wx.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64K"))
	e.Use(middleware.CORS())

	s := &Server{echo: e, manager: manager, settings: store, weather: weather, addr: addr}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.echo.Group("/api")

	api.GET("/phases", s.listPhases)
	api.GET("/models", s.listModels)
	api.GET("/airports/:icao/frequencies", s.airportFrequencies)
	api.GET("/metar/:icao", s.getMETAR)
	api.GET("/taf/:icao", s.getTAF)

	api.GET("/settings", s.getSettings)
	api.PUT("/settings", s.updateSettings)

	api.POST("/flights", s.startFlight)
	api.GET("/flights/:id", s.getFlight)
	api.DELETE("/flights/:id", s.endFlight)
	api.PUT("/flights/:id/phase", s.setPhase)
	api.PUT("/flights/:id/frequency", s.tune)
	api.POST("/flights/:id/chat", s.chat)

	s.echo.GET("/ws", s.eventFeed)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		util.LogWithLabel("HTTP", "listening on %s", s.addr)
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
