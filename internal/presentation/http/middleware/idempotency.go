package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/internal/presentation/http/dto/response"
	"go.uber.org/zap"
)

const (
	IdempotencyKeyHeader      = "Idempotency-Key"
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// DefaultIdempotencyKeyTTL is used when IdempotencyConfig.TTL is zero
	DefaultIdempotencyKeyTTL = 24 * time.Hour

	maxIdempotencyKeyLength = 255
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	TTL    time.Duration
	Logger *zap.Logger
	Now    func() time.Time
}

// bodyRecorder copies everything written to the client
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response when a create request is retried
// with the same Idempotency-Key. The key is scoped to the authenticated owner,
// so it must run after AuthMiddleware. Reusing a key with a different body is
// rejected. Server errors are not stored so the client can retry them.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultIdempotencyKeyTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			response.BadRequest(c, "Idempotency-Key is too long")
			c.Abort()
			return
		}

		ownerID, ok := c.Get(ContextUserID)
		if !ok {
			c.Next()
			return
		}
		owner, ok := ownerID.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Could not read request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		requestHash := hex.EncodeToString(sum[:])

		ctx := c.Request.Context()
		existing, err := cfg.Repo.GetByKey(ctx, key, owner)
		if err != nil {
			cfg.Logger.Warn("idempotency lookup failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		now := cfg.Now()
		if existing != nil && !existing.IsExpired(now) {
			if existing.RequestHash != requestHash {
				response.ErrorWithCode(c, http.StatusConflict, "Idempotency-Key was already used with a different request")
				c.Abort()
				return
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		recorder := &bodyRecorder{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = recorder

		c.Next()

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			return
		}

		// expired rows are replaced by the cleanup job; until then the key stays taken
		if existing != nil {
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:          key,
			OwnerID:      owner,
			Endpoint:     c.Request.Method + " " + c.FullPath(),
			RequestHash:  requestHash,
			ResponseCode: status,
			ResponseBody: recorder.body.String(),
			ExpiresAt:    now.Add(cfg.TTL),
		}
		if err := cfg.Repo.Create(ctx, ikey); err != nil {
			cfg.Logger.Warn("failed to store idempotency key", zap.String("key", key), zap.Error(err))
		}
	}
}
