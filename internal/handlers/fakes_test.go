package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fivemhub/backend/internal/auth"
	"github.com/fivemhub/backend/internal/models"
	"github.com/fivemhub/backend/internal/repository"
)

// authedContext builds a request context with the caller's id and role set,
// the way the auth middleware would after validating a token.
func authedContext(t *testing.T, method, body string, uid uuid.UUID, role auth.Role) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", uid)
	c.Set("role", role)
	return c, w
}

func copyScript(s *models.Script) *models.Script {
	c := *s
	return &c
}

// fakeScriptStore mirrors the three-table lifecycle in memory: an id lives in
// exactly one of pending, approved or rejected, decisions consume the pending
// row, and moving back to pending strips the decision metadata.
type fakeScriptStore struct {
	pending  map[uuid.UUID]*models.Script
	approved map[uuid.UUID]*models.Script
	rejected map[uuid.UUID]*models.Script

	movesToPending int
	pendingUpdates int
}

func newFakeScriptStore() *fakeScriptStore {
	return &fakeScriptStore{
		pending:  map[uuid.UUID]*models.Script{},
		approved: map[uuid.UUID]*models.Script{},
		rejected: map[uuid.UUID]*models.Script{},
	}
}

// seed places a script in the table matching its status
func (f *fakeScriptStore) seed(s *models.Script) {
	switch s.Status {
	case models.StatusApproved:
		f.approved[s.ID] = copyScript(s)
	case models.StatusRejected:
		f.rejected[s.ID] = copyScript(s)
	default:
		f.pending[s.ID] = copyScript(s)
	}
}

func (f *fakeScriptStore) tablesHolding(id uuid.UUID) int {
	n := 0
	for _, m := range []map[uuid.UUID]*models.Script{f.pending, f.approved, f.rejected} {
		if _, ok := m[id]; ok {
			n++
		}
	}
	return n
}

func (f *fakeScriptStore) Create(s *models.Script) error {
	now := time.Now()
	s.Status = models.StatusPending
	s.SubmittedAt = &now
	s.CreatedAt = now
	f.pending[s.ID] = copyScript(s)
	return nil
}

func (f *fakeScriptStore) GetApproved(id uuid.UUID) (*models.Script, error) {
	if s, ok := f.approved[id]; ok {
		return copyScript(s), nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeScriptStore) FindAny(id uuid.UUID) (*models.Script, error) {
	for _, m := range []map[uuid.UUID]*models.Script{f.pending, f.approved, f.rejected} {
		if s, ok := m[id]; ok {
			return copyScript(s), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeScriptStore) ListPending() ([]models.Script, error) {
	out := []models.Script{}
	for _, s := range f.pending {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeScriptStore) ListApproved() ([]models.Script, error) {
	out := []models.Script{}
	for _, s := range f.approved {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeScriptStore) ListBySeller(sellerID uuid.UUID) ([]models.Script, error) {
	out := []models.Script{}
	for _, m := range []map[uuid.UUID]*models.Script{f.pending, f.approved, f.rejected} {
		for _, s := range m {
			if s.SellerID == sellerID {
				out = append(out, *s)
			}
		}
	}
	return out, nil
}

func (f *fakeScriptStore) Approve(id, adminID uuid.UUID, notes *string) (*models.Script, error) {
	s, ok := f.pending[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.pending, id)

	out := copyScript(s)
	if notes != nil {
		out.AdminNotes = notes
	}
	now := time.Now()
	out.Status = models.StatusApproved
	out.SubmittedAt = nil
	out.ApprovedAt = &now
	out.ApprovedBy = &adminID
	f.approved[id] = copyScript(out)
	return out, nil
}

func (f *fakeScriptStore) Reject(id, adminID uuid.UUID, reason string, notes *string) (*models.Script, error) {
	s, ok := f.pending[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.pending, id)

	out := copyScript(s)
	if notes != nil {
		out.AdminNotes = notes
	}
	now := time.Now()
	out.Status = models.StatusRejected
	out.SubmittedAt = nil
	out.RejectedAt = &now
	out.RejectedBy = &adminID
	out.RejectionReason = &reason
	f.rejected[id] = copyScript(out)
	return out, nil
}

func (f *fakeScriptStore) UpdatePending(s *models.Script) error {
	if _, ok := f.pending[s.ID]; !ok {
		return repository.ErrNotFound
	}
	f.pendingUpdates++
	f.pending[s.ID] = copyScript(s)
	return nil
}

func (f *fakeScriptStore) MoveToPending(s *models.Script) error {
	var source map[uuid.UUID]*models.Script
	switch s.Status {
	case models.StatusApproved:
		source = f.approved
	case models.StatusRejected:
		source = f.rejected
	default:
		return fmt.Errorf("script %s is not in a decided state", s.ID)
	}
	if _, ok := source[s.ID]; !ok {
		return repository.ErrNotFound
	}
	delete(source, s.ID)

	f.movesToPending++
	now := time.Now()
	s.Status = models.StatusPending
	s.SubmittedAt = &now
	s.AdminNotes = nil
	s.ApprovedAt = nil
	s.ApprovedBy = nil
	s.RejectedAt = nil
	s.RejectedBy = nil
	s.RejectionReason = nil
	f.pending[s.ID] = copyScript(s)
	return nil
}

func (f *fakeScriptStore) Delete(id uuid.UUID) error {
	if f.tablesHolding(id) == 0 {
		return repository.ErrNotFound
	}
	delete(f.pending, id)
	delete(f.approved, id)
	delete(f.rejected, id)
	return nil
}

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) Create(u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) GetByID(id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) List() ([]models.User, error) {
	out := []models.User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) UpdateRole(id uuid.UUID, role auth.Role) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	return nil
}

type fakeOrderStore struct {
	orders        map[string]*models.AdOrder
	statusUpdates []string
}

func newFakeOrderStore(orders ...*models.AdOrder) *fakeOrderStore {
	f := &fakeOrderStore{orders: map[string]*models.AdOrder{}}
	for _, o := range orders {
		f.orders[o.OrderID] = o
	}
	return f
}

func (f *fakeOrderStore) Create(o *models.AdOrder) error {
	f.orders[o.OrderID] = o
	return nil
}

func (f *fakeOrderStore) GetByOrderID(orderID string) (*models.AdOrder, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *o
	return &c, nil
}

func (f *fakeOrderStore) UpdateStatus(orderID, status string) error {
	o, ok := f.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	f.statusUpdates = append(f.statusUpdates, orderID+":"+status)
	return nil
}

type fakePayments struct {
	captureResult bool
	captured      []string
}

func (f *fakePayments) ClientID() string { return "test-client" }
func (f *fakePayments) Currency() string { return "USD" }

func (f *fakePayments) CreateAdOrder(ctx context.Context, a *models.Ad) (string, int, error) {
	return "PAYPAL-ORDER", a.DurationDays * 100, nil
}

func (f *fakePayments) CaptureAdOrder(ctx context.Context, orderID string) (bool, error) {
	f.captured = append(f.captured, orderID)
	return f.captureResult, nil
}
