package idempotency

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/adoptly/service-adoption/internal/domain"
	"github.com/adoptly/service-adoption/internal/platform/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// HeaderKey is the request header that opts a write into replay.
	HeaderKey = "Idempotency-Key"
	// HeaderReplayed marks a response served from the store.
	HeaderReplayed = "Idempotent-Replayed"
)

type record struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType,omitempty"`
	Body        string `json:"body"`
	RequestHash string `json:"requestHash"`
}

// Middleware replays the first response stored for a key. Requests without
// the header, or with a nil store, pass through untouched. Reusing a key with
// a different body is a CONFLICT. Only responses below 500 are stored.
func Middleware(store Store, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderKey))
		if store == nil || key == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "failed to read request body")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		hash := hashBody(body)
		storeKey := keyPrefix + c.Request.Method + "|" + c.Request.URL.Path + "|" + key

		stored, err := store.Get(c.Request.Context(), storeKey)
		switch {
		case err == nil:
			var rec record
			if err := json.Unmarshal([]byte(stored), &rec); err != nil {
				response.Error(c, err)
				return
			}
			if rec.RequestHash != hash {
				response.Error(c, domain.NewConflictError("idempotency key reused with a different request body"))
				return
			}
			replay(c, rec)
			return
		case !errors.Is(err, ErrMiss):
			log.Warn("idempotency lookup failed, executing request", zap.Error(err))
			c.Next()
			return
		}

		capture := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			return
		}
		payload, err := json.Marshal(record{
			Status:      status,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
			RequestHash: hash,
		})
		if err != nil {
			log.Error("failed to encode idempotency record", zap.Error(err))
			return
		}
		if _, err := store.SetNX(c.Request.Context(), storeKey, string(payload), ttl); err != nil {
			log.Error("failed to persist idempotency record", zap.Error(err))
		}
	}
}

func replay(c *gin.Context, rec record) {
	body, err := base64.StdEncoding.DecodeString(rec.Body)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header(HeaderReplayed, "true")
	contentType := rec.ContentType
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}
	c.Data(rec.Status, contentType, body)
	c.Abort()
}

func hashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}

type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
