package middleware

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"time"
)

// Latency delays every request by 80-120% of base to mimic a mobile network.
// The wait ends early when the client goes away.
func Latency(base time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if base > 0 {
				jitter := 0.8 + rand.Float64()*0.4
				timer := time.NewTimer(time.Duration(float64(base) * jitter))
				select {
				case <-timer.C:
				case <-r.Context().Done():
					timer.Stop()
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RandomFailure answers 503 for a fraction of requests so clients can exercise
// their transport-failure paths. A rate of zero disables it.
func RandomFailure(rate float64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rate > 0 && rand.Float64() < rate {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"error":   "SIMULATED_FAILURE",
					"message": "Network request failed",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
