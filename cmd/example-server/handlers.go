package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/manenim/excessflow/pkg/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 16

func newMux(l *limiter.Limiter, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler(l, logger))
	mux.HandleFunc("POST /throttle", throttleHandler(l, logger))
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// pingHandler allows 5 requests per second per client IP.
func pingHandler(l *limiter.Limiter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		args := limiter.Args{
			Key:      "ip:" + clientIP(r),
			Limit:    5,
			TTL:      1,
			Strategy: r.URL.Query().Get("strategy"),
		}

		res, err := l.Throttle(r.Context(), args, func(context.Context) (any, error) {
			return "Pong!", nil
		})
		if err != nil {
			logger.Error("throttle", "key", args.Key, "error", err)
			http.Error(w, "rate limiter unavailable", http.StatusBadGateway)
			return
		}
		if !res.Success() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, res.Value().(string)+"\n")
	}
}

type throttleResponse struct {
	Result  any    `json:"result,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// throttleHandler throttles on a descriptor supplied in the request body.
func throttleHandler(l *limiter.Limiter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, throttleResponse{Error: err.Error()})
			return
		}
		args, err := limiter.DecodeArgs(body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, throttleResponse{Error: err.Error()})
			return
		}

		res, err := l.Throttle(r.Context(), args, func(context.Context) (any, error) {
			return args.Key, nil
		})
		switch {
		case errors.Is(err, limiter.ErrConfiguration):
			writeJSON(w, http.StatusBadRequest, throttleResponse{Error: err.Error()})
		case err != nil:
			logger.Error("throttle", "key", args.Key, "error", err)
			writeJSON(w, http.StatusBadGateway, throttleResponse{Error: "rate limiter unavailable"})
		case !res.Success():
			writeJSON(w, http.StatusTooManyRequests, throttleResponse{})
		default:
			writeJSON(w, http.StatusOK, throttleResponse{Result: res.Value(), Success: true})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
