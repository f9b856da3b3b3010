package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-cognito-webapp/cognito"
	"github.com/jrsteele09/go-cognito-webapp/internal/config"
	"github.com/jrsteele09/go-cognito-webapp/server"
	"github.com/jrsteele09/go-cognito-webapp/tokenexchange"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	if err := loadDotEnv(".env"); err != nil {
		return err
	}

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	handler, err := newHandler(context.Background(), c)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(httpServer) }()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func newHandler(ctx context.Context, c config.Config) (http.Handler, error) {
	exchanger, err := tokenexchange.New(c.GetAPIGatewayURL(), tokenexchange.WithTimeout(c.GetAPITimeout()))
	if err != nil {
		return nil, err
	}

	var opts []server.Option
	if c.ServeTokenEndpoint() {
		tokens, err := cognito.NewService(ctx, cognito.ConfigFrom(c))
		if err != nil {
			return nil, fmt.Errorf("cognito.NewService: %w", err)
		}
		opts = append(opts, server.WithTokenService(tokens))
		log.Info().Str("issuer", c.GetCognitoIssuer()).Msg("Serving token endpoint")
	}

	return server.New(c, exchanger, opts...)
}

// loadDotEnv reads local settings from path when it exists. Variables already
// set in the environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("godotenv.Load %s: %w", path, err)
	}
	return nil
}

func setupLogging(c config.EnvConfig) {
	zerolog.TimeFieldFormat = time.RFC3339
	if c.GetEnv() == config.DevEnv {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("app", c.GetAppName()).Logger()
	}
	// Handlers use zerolog.Ctx; fall back to the global logger outside a request
	zerolog.DefaultContextLogger = &log.Logger
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
