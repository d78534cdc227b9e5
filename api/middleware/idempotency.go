package middleware

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kantinapp/kantin-gateway/api/responses"
	pkgerrors "github.com/kantinapp/kantin-gateway/pkg/errors"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

// checkoutIdempotencyTTL keeps a delivered checkout response replayable for
// a full day of manual retries.
const checkoutIdempotencyTTL = 24 * time.Hour

// IdempotencyStore keeps one response per client-chosen key.
type IdempotencyStore interface {
	IdempotencyKey(scope, key string) string
	Fetch(ctx context.Context, key string) (string, bool, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
}

type idempotentResponse struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// CheckoutIdempotency replays the stored response when a client retries a
// checkout under the same Idempotency-Key, so a retried submit never places
// the order twice. Requests without the header pass through untouched, and
// only successful responses are recorded: a failed submit stays retryable
// under its key.
func CheckoutIdempotency(store IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if idemKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			requestHash := hashValue(string(body))

			key := store.IdempotencyKey(idempotencyScope(r), idemKey)
			stored, found, fetchErr := store.Fetch(ctx, key)
			if fetchErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, fetchErr, "checking idempotency"))
				return
			}
			if found {
				record := &idempotentResponse{}
				if decodeErr := json.Unmarshal([]byte(stored), record); decodeErr != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, decodeErr, "decoding idempotency record"))
					return
				}
				if record.RequestHash != requestHash {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict,
						"idempotency key reused with a different request"))
					return
				}
				if logg != nil {
					logg.Info(ctx, "checkout.idempotent_replay")
				}
				replayResponse(w, record)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			status := capture.statusOr(http.StatusOK)
			if status < http.StatusOK || status >= http.StatusMultipleChoices {
				return
			}

			record := idempotentResponse{
				Status:      status,
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
				ContentType: capture.Header().Get("Content-Type"),
				RequestHash: requestHash,
			}
			payload, marshalErr := json.Marshal(record)
			if marshalErr != nil {
				if logg != nil {
					logg.Error(ctx, "checkout.idempotency_encode_failed", marshalErr)
				}
				return
			}
			if _, setErr := store.SetNX(ctx, key, string(payload), checkoutIdempotencyTTL); setErr != nil && logg != nil {
				logg.Error(ctx, "checkout.idempotency_store_failed", setErr)
			}
		})
	}
}

// idempotencyScope ties a key to the caller's cart slot, so two students
// reusing the same key never collide.
func idempotencyScope(r *http.Request) string {
	parts := []string{r.Method, r.URL.Path}
	if session := SessionFromContext(r.Context()); session != nil {
		parts = append([]string{session.CartSlot()}, parts...)
	}
	return strings.Join(parts, "|")
}

func replayResponse(w http.ResponseWriter, record *idempotentResponse) {
	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) statusOr(fallback int) int {
	if c.status == 0 {
		return fallback
	}
	return c.status
}
