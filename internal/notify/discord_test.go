package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/fivemhub/backend/config"
)

func TestNotifier_Submitted(t *testing.T) {
	received := make(chan discordgo.WebhookParams, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var params discordgo.WebhookParams
		if err := json.Unmarshal(body, &params); err != nil {
			t.Errorf("failed to decode webhook payload: %v", err)
		}
		received <- params
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := New(config.DiscordConfig{
		Username:    "FiveM Hub",
		WebhookURLs: map[string]string{"script:pending": server.URL},
	})

	id := uuid.New()
	n.Submitted("script", id, "ESX Banking", "alice")
	n.Flush()

	select {
	case params := <-received:
		if params.Username != "FiveM Hub" {
			t.Errorf("expected username FiveM Hub, got %q", params.Username)
		}
		if len(params.Embeds) != 1 {
			t.Fatalf("expected 1 embed, got %d", len(params.Embeds))
		}
		embed := params.Embeds[0]
		if embed.Title != "New script pending review" {
			t.Errorf("unexpected embed title %q", embed.Title)
		}
		if embed.Color != colorPending {
			t.Errorf("expected pending color, got %#x", embed.Color)
		}
		if embed.Footer == nil || embed.Footer.Text != "ID: "+id.String() {
			t.Errorf("expected footer carrying the content id")
		}
	default:
		t.Fatal("expected webhook to be delivered")
	}
}

func TestNotifier_Rejected_IncludesReason(t *testing.T) {
	received := make(chan discordgo.WebhookParams, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var params discordgo.WebhookParams
		_ = json.Unmarshal(body, &params)
		received <- params
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := New(config.DiscordConfig{
		Username:    "FiveM Hub",
		WebhookURLs: map[string]string{"giveaway:rejected": server.URL},
	})

	n.Rejected("giveaway", uuid.New(), "Summer Raffle", "alice", "bob", "Missing prize details")
	n.Flush()

	params := <-received
	if len(params.Embeds) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(params.Embeds))
	}
	found := false
	for _, f := range params.Embeds[0].Fields {
		if f.Name == "Reason" && f.Value == "Missing prize details" {
			found = true
		}
	}
	if !found {
		t.Error("expected rejection reason field in embed")
	}
}

func TestNotifier_UnconfiguredURLIsNoop(t *testing.T) {
	n := New(config.DiscordConfig{Username: "FiveM Hub", WebhookURLs: map[string]string{}})

	// Must not panic or block
	n.Submitted("ad", uuid.New(), "Banner", "alice")
	n.Flush()
}

func TestNotifier_ServerErrorIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := New(config.DiscordConfig{
		Username:    "FiveM Hub",
		WebhookURLs: map[string]string{"script:approved": server.URL},
	})

	// The error is logged, never surfaced
	n.Approved("script", uuid.New(), "ESX Banking", "alice", "bob")
	n.Flush()
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"script", "Script"},
		{"giveaway", "Giveaway"},
		{"ad", "Ad"},
		{"Ad", "Ad"},
		{"1st", "1st"},
		{"über", "Über"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := capitalize(tt.in); got != tt.want {
			t.Errorf("capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNotifier_UnreachableServerIsSwallowed(t *testing.T) {
	n := New(config.DiscordConfig{
		Username:    "FiveM Hub",
		WebhookURLs: map[string]string{"script:resubmitted": "http://127.0.0.1:1/webhook"},
	})

	n.Resubmitted("script", uuid.New(), "ESX Banking", "alice")
	n.Flush()
}
