package controllers

import (
	"context"
	"log"
	"net/http"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.Printf("Health check failed: %v", err)
			WriteError(w, http.StatusServiceUnavailable, CodeUnavailable, "Database unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
