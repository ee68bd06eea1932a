package models

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestUpdateScriptRequest_Apply(t *testing.T) {
	framework := "esx"
	script := Script{
		Title:       "Banking",
		Description: "A banking script",
		PriceCents:  1500,
		Framework:   &framework,
	}

	req := UpdateScriptRequest{
		Title:      strPtr("Banking v2"),
		PriceCents: intPtr(2000),
	}
	req.Apply(&script)

	if script.Title != "Banking v2" {
		t.Errorf("expected title to change, got %q", script.Title)
	}
	if script.PriceCents != 2000 {
		t.Errorf("expected price to change, got %d", script.PriceCents)
	}
	if script.Description != "A banking script" {
		t.Errorf("expected description untouched, got %q", script.Description)
	}
	if script.Framework == nil || *script.Framework != "esx" {
		t.Error("expected framework untouched")
	}
}

func TestUpdateScriptRequest_ApplyEmptyIsNoop(t *testing.T) {
	script := Script{Title: "Banking", Description: "desc", PriceCents: 100}
	before := script

	(&UpdateScriptRequest{}).Apply(&script)

	if script != before {
		t.Errorf("expected no changes, got %+v", script)
	}
}

func TestUpdateGiveawayRequest_Apply(t *testing.T) {
	ends := time.Now().Add(48 * time.Hour)
	g := Giveaway{Title: "Raffle", Description: "desc", EndsAt: time.Now()}

	req := UpdateGiveawayRequest{
		Title:  strPtr("Summer Raffle"),
		EndsAt: &ends,
	}
	req.Apply(&g)

	if g.Title != "Summer Raffle" {
		t.Errorf("expected title to change, got %q", g.Title)
	}
	if !g.EndsAt.Equal(ends) {
		t.Error("expected ends_at to change")
	}
	if g.Description != "desc" {
		t.Errorf("expected description untouched, got %q", g.Description)
	}
}

func TestUpdateAdRequest_Apply(t *testing.T) {
	ad := Ad{Title: "Banner", Slot: "home_top", DurationDays: 7}

	req := UpdateAdRequest{
		Slot:         strPtr("sidebar"),
		DurationDays: intPtr(14),
	}
	req.Apply(&ad)

	if ad.Slot != "sidebar" {
		t.Errorf("expected slot to change, got %q", ad.Slot)
	}
	if ad.DurationDays != 14 {
		t.Errorf("expected duration to change, got %d", ad.DurationDays)
	}
	if ad.Title != "Banner" {
		t.Errorf("expected title untouched, got %q", ad.Title)
	}
}
