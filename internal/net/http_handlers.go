package net

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"titan-siege/server/internal/gamemode/settings"
	"titan-siege/server/internal/net/ws"
	"titan-siege/server/internal/sim"
	"titan-siege/server/internal/telemetry"
)

// StatusSource exposes the latest published round status.
type StatusSource interface {
	Status() sim.Status
}

type HTTPHandlerConfig struct {
	ClientDir string
	Logger    telemetry.Logger
	TickRate  int
}

func NewHTTPHandler(wsHandler *ws.Handler, status StatusSource, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/status", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}

		payload := struct {
			ServerTime int64      `json:"serverTime"`
			TickRate   int        `json:"tickRate"`
			Round      sim.Status `json:"round"`
		}{
			ServerTime: time.Now().UnixMilli(),
			TickRate:   cfg.TickRate,
			Round:      status.Status(),
		}

		data, err := json.Marshal(payload)
		if err != nil {
			logger.Printf("[http] encode status: %v", err)
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/schema", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}

		gamemodeType, err := settings.ParseType(r.URL.Query().Get("gamemode"))
		if err != nil {
			httpError(w, err.Error(), nethttp.StatusBadRequest)
			return
		}
		schema, err := settings.Schema(gamemodeType)
		if err != nil {
			httpError(w, err.Error(), nethttp.StatusBadRequest)
			return
		}

		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			logger.Printf("[http] encode schema: %v", err)
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/schema+json")
		w.Write(data)
	})

	if wsHandler != nil {
		mux.HandleFunc("/ws", wsHandler.Handle)
	}

	if cfg.ClientDir != "" {
		fs := nethttp.FileServer(nethttp.Dir(cfg.ClientDir))
		mux.Handle("/", fs)
	}

	return mux
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
