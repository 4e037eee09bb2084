package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/debttracker/debt-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID    map[string]*domain.User
	seq     int
	findErr error // if set, FindByID/FindByUsername return this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("u%d", r.seq)
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.byID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for _, u := range r.byID {
		if u.ID != user.ID && u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.byID[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) countUsername(username string) int {
	n := 0
	for _, u := range r.byID {
		if u.Username == username {
			n++
		}
	}
	return n
}

type stubDebtRepo struct {
	byID map[string]*domain.Debt
	seq  int
}

func newStubDebtRepo() *stubDebtRepo {
	return &stubDebtRepo{byID: make(map[string]*domain.Debt)}
}

func cloneDebt(d *domain.Debt) *domain.Debt {
	clone := *d
	return &clone
}

func (r *stubDebtRepo) Create(_ context.Context, d *domain.Debt) (*domain.Debt, error) {
	r.seq++
	stored := cloneDebt(d)
	stored.ID = fmt.Sprintf("d%d", r.seq)
	r.byID[stored.ID] = stored
	return cloneDebt(stored), nil
}

func (r *stubDebtRepo) FindByID(_ context.Context, id string) (*domain.Debt, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDebtNotFound
	}
	return cloneDebt(d), nil
}

func (r *stubDebtRepo) List(_ context.Context) ([]*domain.Debt, error) {
	return r.filter(func(*domain.Debt) bool { return true }), nil
}

func (r *stubDebtRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Debt, error) {
	return r.filter(func(d *domain.Debt) bool { return d.OwnerID == ownerID }), nil
}

func (r *stubDebtRepo) filter(keep func(*domain.Debt) bool) []*domain.Debt {
	out := []*domain.Debt{}
	for _, d := range r.byID {
		if keep(d) {
			out = append(out, cloneDebt(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubDebtRepo) Update(_ context.Context, d *domain.Debt) (*domain.Debt, error) {
	if _, ok := r.byID[d.ID]; !ok {
		return nil, domain.ErrDebtNotFound
	}
	r.byID[d.ID] = cloneDebt(d)
	return cloneDebt(d), nil
}

func (r *stubDebtRepo) UpdateStatus(_ context.Context, id string, status domain.DebtStatus) (*domain.Debt, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDebtNotFound
	}
	d.Status = status
	return cloneDebt(d), nil
}

func (r *stubDebtRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *stubDebtRepo) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for id, d := range r.byID {
		if d.OwnerID == ownerID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

type stubIdempotency struct {
	keys      map[string]string
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Lookup(_ context.Context, scope, key string) (string, error) {
	if s.lookupErr != nil {
		return "", s.lookupErr
	}
	return s.keys[scope+":"+key], nil
}

func (s *stubIdempotency) Remember(_ context.Context, scope, key, id string, _ time.Duration) error {
	s.keys[scope+":"+key] = id
	return nil
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (r *recordingAudit) Enqueue(e domain.AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recordingAudit) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

const testSecret = "test-secret"

func testAuthOptions() AuthOptions {
	return AuthOptions{JWTSecret: testSecret, BcryptCost: bcrypt.MinCost, AllowAdminSignup: true}
}

// seedUser stores a user directly, bypassing the service.
func seedUser(repo *stubUserRepo, username, password string, role domain.Role) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u, err := repo.Create(context.Background(), &domain.User{Username: username, PasswordHash: string(hash), Role: role})
	if err != nil {
		panic(err)
	}
	return u
}

func seedDebt(repo *stubDebtRepo, ownerID, name string) *domain.Debt {
	d, _ := repo.Create(context.Background(), &domain.Debt{
		OwnerID: ownerID,
		Name:    name,
		Value:   100,
		DueDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:  domain.DebtPending,
	})
	return d
}
