package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/wordarena/go/clients/arena_client"
	"github.com/mcdev12/wordarena/go/internal/arena"
	"github.com/mcdev12/wordarena/go/internal/bridge"
	"github.com/mcdev12/wordarena/go/internal/inspect"
	"github.com/mcdev12/wordarena/go/internal/store"
	"github.com/mcdev12/wordarena/go/internal/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	configPath := flag.String("config", getEnv("ARENA_CONFIG", "config.yaml"), "path to the YAML config file")
	register := flag.Bool("register", false, "create the account instead of logging in")
	username := flag.String("username", getEnv("ARENA_USERNAME", ""), "account name")
	password := flag.String("password", getEnv("ARENA_PASSWORD", ""), "account password")
	token := flag.String("token", getEnv("ARENA_TOKEN", ""), "resume with an existing token instead of logging in")
	flag.Parse()

	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(config.logLevel())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	usersApp := users.NewApp(arena_client.NewArenaClient(config.Server.HTTPURL))
	if err := authenticate(ctx, usersApp, *register, *username, *password, *token); err != nil {
		log.Fatal().Err(err).Msg("failed to authenticate")
	}

	st := store.New()
	runtime := arena.New(config.runtimeConfig(), clockwork.NewRealClock(), usersApp, st)

	log.Info().
		Str("http_url", config.Server.HTTPURL).
		Str("gateway_url", config.Server.GatewayURL).
		Str("user", usersApp.Current().Identity.DisplayName).
		Msg("starting arena client")

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := runtime.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("session loop failed")
		}
	}()

	stopBridge := startBridge(config, runtime, st)
	defer stopBridge()

	server := startInspect(config, st)

	if err := runtime.Connect(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect")
	}
	if config.Session.Channel != "" {
		if err := runtime.Submit(arena.Intent{Type: arena.IntentChannel, Value: config.Session.Channel}); err != nil {
			log.Error().Err(err).Str("channel", config.Session.Channel).Msg("failed to select channel")
		}
	}
	if config.Session.Room != 0 {
		if err := runtime.Submit(arena.Intent{Type: arena.IntentRoom, Value: strconv.Itoa(config.Session.Room)}); err != nil {
			log.Error().Err(err).Int("room", config.Session.Room).Msg("failed to select room")
		}
	}

	go func() {
		c := &console{runtime: runtime, out: os.Stdout}
		if err := c.run(os.Stdin); err != nil {
			log.Error().Err(err).Msg("console failed")
		}
		cancel()
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("inspect server shutdown failed")
		}
	}

	select {
	case <-loopDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("session loop did not stop in time")
	}

	log.Info().Msg("arena client shutdown complete")
}

func authenticate(ctx context.Context, app *users.App, register bool, username, password, token string) error {
	if token != "" {
		_, err := app.Resume(ctx, token)
		return err
	}
	if register {
		_, err := app.Register(ctx, username, password)
		return err
	}
	_, err := app.Login(ctx, username, password)
	return err
}

// startBridge connects the presentation bridge when NATS is configured. The
// returned func stops it.
func startBridge(config *Config, runtime *arena.Runtime, st *store.Store) func() {
	if config.Bridge.NATSURL == "" {
		return func() {}
	}

	bridgeConfig := config.bridgeConfig()
	nc, err := bridge.Connect(bridgeConfig)
	if err != nil {
		log.Error().Err(err).Msg("presentation bridge disabled")
		return func() {}
	}

	b := bridge.New(nc, bridgeConfig, runtime, st)
	if err := b.Start(); err != nil {
		log.Error().Err(err).Msg("failed to start presentation bridge")
		nc.Close()
		return func() {}
	}

	return func() {
		if err := b.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop presentation bridge")
		}
		if err := nc.Drain(); err != nil {
			log.Error().Err(err).Msg("failed to drain NATS connection")
		}
	}
}

func startInspect(config *Config, st *store.Store) *http.Server {
	if config.Inspect.Addr == "" {
		return nil
	}

	server := inspect.NewServer(config.Inspect.Addr, st)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("inspect server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("inspect server failed")
		}
	}()
	return server
}
