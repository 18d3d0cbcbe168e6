package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel"

	"titan-siege/server/internal/gamemode"
	servernet "titan-siege/server/internal/net"
	"titan-siege/server/internal/net/ws"
	"titan-siege/server/internal/observability"
	"titan-siege/server/internal/random"
	"titan-siege/server/internal/scene"
	"titan-siege/server/internal/session"
	"titan-siege/server/internal/sim"
	"titan-siege/server/internal/telemetry"
	"titan-siege/server/logging"
	loggingSinks "titan-siege/server/logging/sinks"
)

const shutdownTimeout = 5 * time.Second

// Run wires the round server and serves until ctx is cancelled.
func Run(ctx context.Context, cfg Config, logger telemetry.Logger) error {
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}

	fallbackLogger := log.Default()
	if provider, ok := logger.(interface{ StandardLogger() *log.Logger }); ok {
		if candidate := provider.StandardLogger(); candidate != nil {
			fallbackLogger = candidate
		}
	}

	router, err := newRouter(cfg, fallbackLogger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			logger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	shutdownTracing, err := observability.SetupTracing(ctx, observability.Config{
		OTLPEndpoint: cfg.OTELEndpoint,
		ServiceName:  "titan-siege",
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if terr := shutdownTracing(flushCtx); terr != nil {
			logger.Printf("failed to flush traces: %v", terr)
		}
	}()

	seed := cfg.Seed
	if seed == "" {
		if seed, err = random.NewSeed(); err != nil {
			return err
		}
	}
	logger.Printf("round seed %s", seed)

	gamemodeSettings, err := cfg.loadSettings()
	if err != nil {
		return err
	}
	layout, err := cfg.loadLayout()
	if err != nil {
		return err
	}

	hub := ws.NewHub(logger)
	room := session.NewRoom(session.RoomConfig{Offline: cfg.Offline, Broadcaster: hub})
	room.Join("server")

	world := scene.New(scene.DefaultConfig(), layout, router)
	round := sim.NewRound(sim.RoundConfig{RoundTime: cfg.RoundTime}, world, room)

	gm, err := gamemode.NewGamemode(cfg.gamemodeConfig(), gamemodeSettings, gamemode.Deps{
		World:     world,
		Spawner:   world,
		Roster:    world,
		Session:   room,
		Rounds:    round,
		Publisher: router,
		Logger:    logger,
		Tracer:    otel.Tracer("titan-siege/gamemode"),
		RNG:       random.New(seed, "gamemode"),
	})
	if err != nil {
		return fmt.Errorf("failed to construct gamemode: %w", err)
	}
	round.Attach(gm)
	logger.Printf("gamemode %s on level %s (authority=%t offline=%t)", gamemodeSettings.Type(), layout.Name, cfg.Authority, cfg.Offline)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopCfg := sim.DefaultLoopConfig()
	loopCfg.TickRate = cfg.TickRate
	loop := sim.NewLoop(round, loopCfg, sim.LoopHooks{
		AfterStep: func(result sim.LoopStepResult) {
			if len(hub.Subscribers()) == 0 {
				return
			}
			if err := hub.Publish(runCtx, "status", round.Status()); err != nil {
				logger.Printf("[net] status publish failed: %v", err)
			}
		},
	}, sim.Deps{Logger: logger})
	room.OnReceive(ws.Receiver(loop))

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(runCtx)
	}()

	wsHandler := ws.NewHandler(hub, room, loop, ws.HandlerConfig{
		Logger:        logger,
		AuthorityPeer: cfg.authorityPeer(),
	})
	handler := servernet.NewHTTPHandler(wsHandler, round, servernet.HTTPHandlerConfig{
		ClientDir: cfg.ClientDir,
		Logger:    logger,
		TickRate:  loopCfg.TickRate,
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: handler}
	serveErr := make(chan error, 1)
	go func() {
		logger.Printf("server listening on %s", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		err = srv.Shutdown(shutdownCtx)
		stop()
	}
	cancel()
	<-loopDone

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func newRouter(cfg Config, fallback *log.Logger) (*logging.Router, error) {
	logCfg, err := cfg.loggingConfig()
	if err != nil {
		return nil, err
	}
	sinks := make(map[string]logging.Sink)
	if logCfg.HasSink("console") {
		sinks["console"] = loggingSinks.NewConsole(os.Stdout)
	}
	if logCfg.HasSink("json") {
		file, err := os.OpenFile(logCfg.JSONPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open json log %s: %w", logCfg.JSONPath, err)
		}
		sinks["json"] = loggingSinks.NewJSON(file, logCfg.JSONFlush)
	}
	return logging.NewRouter(logCfg, logging.ClockFunc(time.Now), fallback, sinks), nil
}
