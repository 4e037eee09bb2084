package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/debttracker/debt-api/internal/api/middleware"
	"github.com/debttracker/debt-api/internal/core/domain"
	"github.com/debttracker/debt-api/internal/core/ports"
)

var (
	adminID = domain.Identity{ID: "admin1", Role: domain.RoleAdmin, Username: "root"}
	aliceID = domain.Identity{ID: "alice1", Role: domain.RoleClient, Username: "alice"}
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (domain.Identity, error) {
	return domain.Identity{}, domain.ErrUnauthenticated
}

type stubUserService struct {
	getFn    func(caller domain.Identity, id string) (*domain.User, error)
	listFn   func(caller domain.Identity) ([]*domain.User, error)
	updateFn func(caller domain.Identity, id string, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(caller domain.Identity, id string) error
}

func (s *stubUserService) Get(_ context.Context, caller domain.Identity, id string) (*domain.User, error) {
	return s.getFn(caller, id)
}

func (s *stubUserService) List(_ context.Context, caller domain.Identity) ([]*domain.User, error) {
	return s.listFn(caller)
}

func (s *stubUserService) Update(_ context.Context, caller domain.Identity, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(caller, id, in)
}

func (s *stubUserService) Delete(_ context.Context, caller domain.Identity, id string) error {
	return s.deleteFn(caller, id)
}

type stubDebtService struct {
	createFn       func(caller domain.Identity, in ports.CreateDebtInput) (*ports.CreateDebtResult, error)
	listFn         func(caller domain.Identity, userID string) ([]*domain.Debt, error)
	updateStatusFn func(caller domain.Identity, id string, status domain.DebtStatus) (*domain.Debt, error)
	editFn         func(caller domain.Identity, id string, in ports.EditDebtInput) (*domain.Debt, error)
	deleteFn       func(caller domain.Identity, id string) error
}

func (s *stubDebtService) Create(_ context.Context, caller domain.Identity, in ports.CreateDebtInput) (*ports.CreateDebtResult, error) {
	return s.createFn(caller, in)
}

func (s *stubDebtService) List(_ context.Context, caller domain.Identity, userID string) ([]*domain.Debt, error) {
	return s.listFn(caller, userID)
}

func (s *stubDebtService) UpdateStatus(_ context.Context, caller domain.Identity, id string, status domain.DebtStatus) (*domain.Debt, error) {
	return s.updateStatusFn(caller, id, status)
}

func (s *stubDebtService) Edit(_ context.Context, caller domain.Identity, id string, in ports.EditDebtInput) (*domain.Debt, error) {
	return s.editFn(caller, id, in)
}

func (s *stubDebtService) Delete(_ context.Context, caller domain.Identity, id string) error {
	return s.deleteFn(caller, id)
}

// request describes one handler invocation.
type request struct {
	method  string
	path    string // route path, e.g. "/user/:id"
	body    string
	caller  domain.Identity
	params  map[string]string
	headers map[string]string
}

func newContext(t *testing.T, r request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}
	req := httptest.NewRequest(r.method, "/", body)
	if r.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(r.path)

	names := make([]string, 0, len(r.params))
	values := make([]string, 0, len(r.params))
	for k, v := range r.params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	if r.caller.ID != "" {
		middleware.WithIdentity(c, r.caller)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}
