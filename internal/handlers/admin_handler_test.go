package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fivemhub/backend/config"
	"github.com/fivemhub/backend/internal/auth"
	"github.com/fivemhub/backend/internal/models"
	"github.com/fivemhub/backend/internal/notify"
)

func decisionContext(t *testing.T, id, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id}}
	return c, w
}

// The reason gate fires before any persistence, so a handler with no
// repositories wired is enough to prove no mutation happens.
func TestDecideScript_RejectWithoutReason(t *testing.T) {
	h := &AdminHandler{}

	c, w := decisionContext(t, uuid.New().String(), `{"status": "rejected"}`)
	h.DecideScript(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDecideScript_BlankReasonIsRejected(t *testing.T) {
	h := &AdminHandler{}

	c, w := decisionContext(t, uuid.New().String(), `{"status": "rejected", "reason": "   "}`)
	h.DecideScript(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDecideScript_InvalidID(t *testing.T) {
	h := &AdminHandler{}

	c, w := decisionContext(t, "not-a-uuid", `{"status": "approved"}`)
	h.DecideScript(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDecideScript_UnknownStatus(t *testing.T) {
	h := &AdminHandler{}

	c, w := decisionContext(t, uuid.New().String(), `{"status": "maybe"}`)
	h.DecideScript(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDecideScript_ApproveMovesPendingExactlyOnce(t *testing.T) {
	delivered := make(chan string, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered <- r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	seller := uuid.New()
	adminID := uuid.New()
	id := uuid.New()
	now := time.Now()

	store := newFakeScriptStore()
	store.seed(&models.Script{
		ID:          id,
		SellerID:    seller,
		Title:       "ESX Banking",
		Description: "Banking with savings accounts",
		Status:      models.StatusPending,
		SubmittedAt: &now,
		CreatedAt:   now,
	})
	users := newFakeUserStore(
		&models.User{ID: seller, Email: "alice@example.com", DisplayName: "alice", Role: auth.RoleVerifiedCreator},
		&models.User{ID: adminID, Email: "bob@example.com", DisplayName: "bob", Role: auth.RoleModerator},
	)
	notifier := notify.New(config.DiscordConfig{
		Username:    "FiveM Hub",
		WebhookURLs: map[string]string{"script:approved": server.URL},
	})
	h := NewAdminHandler(store, nil, nil, users, notifier, nil, nil)

	c, w := authedContext(t, http.MethodPost, `{"status": "approved"}`, adminID, auth.RoleModerator)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.DecideScript(c)
	notifier.Flush()

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.DecisionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Message != "Script approved successfully" {
		t.Errorf("unexpected decision response %+v", resp)
	}

	approved, ok := store.approved[id]
	if !ok {
		t.Fatal("expected script in the approved table")
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != adminID {
		t.Error("expected approval stamped with the deciding moderator")
	}
	if approved.SubmittedAt != nil {
		t.Error("expected submitted_at cleared on approval")
	}
	if _, stillPending := store.pending[id]; stillPending {
		t.Error("expected pending row consumed by the approval")
	}
	if n := store.tablesHolding(id); n != 1 {
		t.Errorf("expected script in exactly 1 table, got %d", n)
	}

	select {
	case <-delivered:
	default:
		t.Error("expected an approval webhook delivery")
	}

	// A second decision finds no pending row
	c2, w2 := authedContext(t, http.MethodPost, `{"status": "approved"}`, adminID, auth.RoleModerator)
	c2.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.DecideScript(c2)

	if w2.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an already decided script, got %d", w2.Code)
	}
	if n := store.tablesHolding(id); n != 1 {
		t.Errorf("expected script still in exactly 1 table, got %d", n)
	}
}

func TestDecideScript_RejectRecordsReason(t *testing.T) {
	seller := uuid.New()
	adminID := uuid.New()
	id := uuid.New()
	now := time.Now()

	store := newFakeScriptStore()
	store.seed(&models.Script{
		ID:          id,
		SellerID:    seller,
		Title:       "ESX Banking",
		Status:      models.StatusPending,
		SubmittedAt: &now,
		CreatedAt:   now,
	})
	h := NewAdminHandler(store, nil, nil, newFakeUserStore(), notify.New(config.DiscordConfig{}), nil, nil)

	c, w := authedContext(t, http.MethodPost, `{"status": "rejected", "reason": "Broken download link"}`, adminID, auth.RoleModerator)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.DecideScript(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	rejected, ok := store.rejected[id]
	if !ok {
		t.Fatal("expected script in the rejected table")
	}
	if rejected.RejectionReason == nil || *rejected.RejectionReason != "Broken download link" {
		t.Error("expected rejection reason recorded")
	}
	if n := store.tablesHolding(id); n != 1 {
		t.Errorf("expected script in exactly 1 table, got %d", n)
	}
}

func TestDecisionMessage(t *testing.T) {
	tests := []struct {
		label  string
		status models.Status
		want   string
	}{
		{"Script", models.StatusApproved, "Script approved successfully"},
		{"Giveaway", models.StatusRejected, "Giveaway rejected successfully"},
		{"Ad", models.StatusApproved, "Ad approved successfully"},
	}

	for _, tt := range tests {
		if got := decisionMessage(tt.label, tt.status); got != tt.want {
			t.Errorf("decisionMessage(%q, %q) = %q, want %q", tt.label, tt.status, got, tt.want)
		}
	}
}
