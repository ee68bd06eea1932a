package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
	"unicode"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/fivemhub/backend/config"
)

// Embed colors per lifecycle event
const (
	colorPending     = 0xFFFF00
	colorApproved    = 0x2ECC71
	colorRejected    = 0xE74C3C
	colorResubmitted = 0xE67E22
)

// Notifier delivers best-effort Discord webhook notifications for content
// lifecycle events. Delivery runs in a goroutine; failures are logged and
// swallowed so the triggering request is never blocked or failed.
type Notifier struct {
	username string
	urls     map[string]string
	client   *http.Client
	wg       sync.WaitGroup
}

func New(cfg config.DiscordConfig) *Notifier {
	urls := make(map[string]string, len(cfg.WebhookURLs))
	for k, v := range cfg.WebhookURLs {
		urls[k] = v
	}
	return &Notifier{
		username: cfg.Username,
		urls:     urls,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Submitted announces a new submission entering the pending queue
func (n *Notifier) Submitted(kind string, id uuid.UUID, title, creator string) {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("New %s pending review", kind),
		Description: fmt.Sprintf("**%s** was submitted and is awaiting moderation.", title),
		Color:       colorPending,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Creator", Value: creator, Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "ID: " + id.String()},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	n.dispatch(kind+":pending", embed)
}

// Approved announces an approval decision
func (n *Notifier) Approved(kind string, id uuid.UUID, title, creator, approver string) {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s approved", capitalize(kind)),
		Description: fmt.Sprintf("**%s** is now live.", title),
		Color:       colorApproved,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Creator", Value: creator, Inline: true},
			{Name: "Approved by", Value: approver, Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "ID: " + id.String()},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	n.dispatch(kind+":approved", embed)
}

// Rejected announces a rejection decision with its reason
func (n *Notifier) Rejected(kind string, id uuid.UUID, title, creator, rejector, reason string) {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s rejected", capitalize(kind)),
		Description: fmt.Sprintf("**%s** was declined.", title),
		Color:       colorRejected,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Creator", Value: creator, Inline: true},
			{Name: "Rejected by", Value: rejector, Inline: true},
			{Name: "Reason", Value: reason},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "ID: " + id.String()},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	n.dispatch(kind+":rejected", embed)
}

// Resubmitted announces an edited item re-entering the pending queue
func (n *Notifier) Resubmitted(kind string, id uuid.UUID, title, creator string) {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s updated, needs re-approval", capitalize(kind)),
		Description: fmt.Sprintf("**%s** was edited and moved back to the pending queue.", title),
		Color:       colorResubmitted,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Creator", Value: creator, Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "ID: " + id.String()},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	n.dispatch(kind+":resubmitted", embed)
}

// Flush waits for in-flight deliveries; used on shutdown and in tests.
func (n *Notifier) Flush() {
	n.wg.Wait()
}

func (n *Notifier) dispatch(key string, embed *discordgo.MessageEmbed) {
	url, ok := n.urls[key]
	if !ok {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.send(url, embed); err != nil {
			log.Printf("discord notification %s failed: %v", key, err)
		}
	}()
}

// send posts the embed to the webhook URL. Plain HTTP POST: webhook execution
// needs only the URL, not a bot session, so just the discordgo wire types are
// used here.
func (n *Notifier) send(url string, embed *discordgo.MessageEmbed) error {
	params := discordgo.WebhookParams{
		Username: n.username,
		Embeds:   []*discordgo.MessageEmbed{embed},
	}

	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
