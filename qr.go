/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"net/url"

	"github.com/Seednode/scribble/games/scribble"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// joinURL is the link players scan to join a room. Without a configured
// public URL it points at this server, respecting proxies.
func joinURL(cfg *Config, r *http.Request, code string) string {
	base := cfg.publicURL
	if base == "" {
		scheme := cfg.scheme()
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host + cfg.prefix + "/"
	}

	u, err := url.Parse(base)
	if err != nil {
		return base
	}

	q := u.Query()
	q.Set("room", code)
	u.RawQuery = q.Encode()

	return u.String()
}

func serveQR(cfg *Config, registry *scribble.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		room, err := registry.Get(ps.ByName("code"))
		if err != nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		png, err := qrcode.Encode(joinURL(cfg, r, room.Code()), qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}
