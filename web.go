/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/scribble/games/scribble"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

const (
	logDate string        = `2006-01-02T15:04:05.000-07:00`
	timeout time.Duration = 10 * time.Second
)

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), fullscreen=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")

	if cfg.scheme() == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	} else if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

func serveVersion(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusOK)

		written, err := w.Write([]byte("scribble v" + releaseVersion + "\n"))
		if err != nil {
			errs <- err

			return
		}

		log.Debug().
			Int("bytes", written).
			Str("remote", realIP(r)).
			Dur("elapsed", time.Since(startTime).Round(time.Microsecond)).
			Msg("served version page")
	}
}

// wordSources builds the static bank and, when configured, the remote
// suggestion client consulted before it.
func wordSources(cfg *Config) (*scribble.WordBank, scribble.WordSource, error) {
	bank := scribble.DefaultWordBank()
	if cfg.wordsFile != "" {
		var err error
		if bank, err = scribble.LoadWordBank(cfg.wordsFile); err != nil {
			return nil, nil, err
		}
	}

	if cfg.suggestURL == "" {
		return bank, nil, nil
	}

	return bank, scribble.NewSuggestionClient(cfg.suggestURL, cfg.suggestTimeout), nil
}

func newRouter(cfg *Config, gw *Gateway, registry *scribble.Registry, errs chan<- error) http.Handler {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		log.Error().Interface("panic", i).Str("path", r.URL.Path).Msg("recovered from panic")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusInternalServerError)

		_, _ = io.WriteString(w, newPage("Server Error", "An error has occurred. Please try again."))
	}

	mux.GET(cfg.prefix+"/", serveHomePage(cfg))

	mux.GET(cfg.prefix+"/healthz", serveHealthCheck(cfg, errs))

	mux.GET(cfg.prefix+"/robots.txt", serveRobots(cfg, errs))

	mux.GET(cfg.prefix+"/version", serveVersion(cfg, errs))

	mux.GET(cfg.prefix+"/stats", serveStats(cfg, gw, registry, errs))

	mux.GET(cfg.prefix+"/scribble/ws", gw.serveWS())

	mux.GET(cfg.prefix+"/scribble/rooms/:code", serveRoom(cfg, registry, errs))

	mux.GET(cfg.prefix+"/scribble/rooms/:code/qr", serveQR(cfg, registry, errs))

	if cfg.profile {
		registerProfileHandlers(cfg, mux)
	}

	return cors.New(cors.Options{
		AllowedOrigins: cfg.allowedOrigins,
		AllowedMethods: []string{http.MethodHead, http.MethodGet},
	}).Handler(mux)
}

func ServePage(ctx context.Context, cfg *Config, args []string) error {
	var err error

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return err
		}
	}

	log.Info().Str("version", releaseVersion).Msg("starting scribble")

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	bank, suggester, err := wordSources(cfg)
	if err != nil {
		return err
	}

	gw := newGateway(cfg)

	publishers := scribble.Publishers{gw}

	if cfg.natsURL != "" {
		mirror, err := newNatsMirror(cfg)
		if err != nil {
			return err
		}
		defer mirror.Close()

		publishers = append(publishers, mirror)
	}

	opts := cfg.gameOptions()
	opts.Bank = bank
	opts.Words = suggester
	opts.Publisher = publishers
	opts.Logger = &log.Logger

	registry := scribble.NewRegistry(opts)
	gw.registry = registry

	errs := make(chan error, 64)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-errs:
				log.Debug().Err(err).Msg("failed to write response")
			}
		}
	}()

	registryDone := make(chan struct{})
	go func() {
		defer close(registryDone)
		registry.Run(ctx)
	}()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           newRouter(cfg, gw, registry, errs),
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	go func() {
		var err error

		log.Info().Msgf("listening on %s://%s%s/", cfg.scheme(), srv.Addr, cfg.prefix)

		if cfg.tlsKey != "" && cfg.tlsCert != "" {
			err = srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down")

	<-registryDone
	gw.closeAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	return nil
}
