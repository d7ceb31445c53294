package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/pkg/apperror"
)

// memoryReceiptRepo is an in-memory ReceiptRepository with the same
// filtering and ordering rules as the gorm implementation.
type memoryReceiptRepo struct {
	mu       sync.Mutex
	receipts []*entity.Receipt
	clock    time.Time
	saveErr  error
	calls    int
}

func newMemoryReceiptRepo() *memoryReceiptRepo {
	return &memoryReceiptRepo{clock: time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)}
}

func (r *memoryReceiptRepo) Save(_ context.Context, receipt *entity.Receipt) (*entity.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.saveErr != nil {
		return nil, apperror.NewPersistenceError(r.saveErr)
	}
	saved := *receipt
	saved.ID = uint(len(r.receipts) + 1)
	saved.PublicID = uuid.New()
	saved.CreatedAt = r.clock
	r.clock = r.clock.Add(time.Minute)
	saved.Products = append([]entity.ReceiptProduct(nil), receipt.Products...)
	r.receipts = append(r.receipts, &saved)
	out := saved
	return &out, nil
}

func (r *memoryReceiptRepo) GetByID(_ context.Context, id uint, ownerID uuid.UUID) (*entity.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, rc := range r.receipts {
		if rc.ID == id && rc.OwnerID == ownerID && ownerID != uuid.Nil {
			out := *rc
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memoryReceiptRepo) GetByPublicID(_ context.Context, publicID uuid.UUID) (*entity.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, rc := range r.receipts {
		if rc.PublicID == publicID {
			out := *rc
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memoryReceiptRepo) List(_ context.Context, ownerID uuid.UUID, params *repository.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	var matched []entity.Receipt
	for _, rc := range r.receipts {
		if rc.OwnerID != ownerID {
			continue
		}
		if params.CreatedAfter != nil && rc.CreatedAt.Before(*params.CreatedAfter) {
			continue
		}
		if params.MinimumTotal != nil && rc.Total.LessThan(*params.MinimumTotal) {
			continue
		}
		if params.PaymentMethod != nil && rc.Payment.Method != *params.PaymentMethod {
			continue
		}
		matched = append(matched, *rc)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := params.Pagination.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.Pagination.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, nil
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

type memoryIdempotencyRepo struct {
	mu   sync.Mutex
	keys []*entity.IdempotencyKey
}

func (r *memoryIdempotencyRepo) GetByKey(_ context.Context, key string, ownerID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.keys {
		if k.Key == key && k.OwnerID == ownerID {
			return k, nil
		}
	}
	return nil, nil
}

func (r *memoryIdempotencyRepo) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, ikey)
	return nil
}

func (r *memoryIdempotencyRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.keys[:0]
	var deleted int64
	for _, k := range r.keys {
		if k.ExpiresAt.Before(now) {
			deleted++
			continue
		}
		kept = append(kept, k)
	}
	r.keys = kept
	return deleted, nil
}

type memoryTextCache struct {
	mu      sync.Mutex
	entries map[string]string
	err     error
}

func newMemoryTextCache() *memoryTextCache {
	return &memoryTextCache{entries: make(map[string]string)}
}

func cacheKey(publicID uuid.UUID, lineWidth int) string {
	return fmt.Sprintf("%s/%d", publicID, lineWidth)
}

func (c *memoryTextCache) Get(_ context.Context, publicID uuid.UUID, lineWidth int) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", false, c.err
	}
	text, ok := c.entries[cacheKey(publicID, lineWidth)]
	return text, ok, nil
}

func (c *memoryTextCache) Set(_ context.Context, publicID uuid.UUID, lineWidth int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[cacheKey(publicID, lineWidth)] = text
	return nil
}

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

func (p *recordingPrinter) Type() string { return "network" }

func (p *recordingPrinter) IsConnected(context.Context) bool { return p.err == nil }
