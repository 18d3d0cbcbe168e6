package net

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"titan-siege/server/internal/sim"
)

type fixedStatus sim.Status

func (s fixedStatus) Status() sim.Status { return sim.Status(s) }

func TestHTTPHealth(t *testing.T) {
	handler := NewHTTPHandler(nil, fixedStatus{}, HTTPHandlerConfig{})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 OK, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != "ok" {
		t.Fatalf("expected body ok, got %q", body)
	}
}

func TestHTTPStatusReturnsRoundSnapshot(t *testing.T) {
	status := fixedStatus{Tick: 42, Gamemode: "TitanRush", Phase: "Active", HumanScore: 3, StatusTop: "Time : 12"}
	handler := NewHTTPHandler(nil, status, HTTPHandlerConfig{TickRate: 15})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/status", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 OK, got %d", resp.Code)
	}
	if contentType := resp.Header().Get("Content-Type"); contentType != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", contentType)
	}

	var payload struct {
		TickRate int        `json:"tickRate"`
		Round    sim.Status `json:"round"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode status payload: %v", err)
	}
	if payload.TickRate != 15 {
		t.Fatalf("expected tick rate 15, got %d", payload.TickRate)
	}
	if payload.Round.Tick != 42 || payload.Round.Gamemode != "TitanRush" || payload.Round.HumanScore != 3 {
		t.Fatalf("unexpected round payload %+v", payload.Round)
	}
}

func TestHTTPStatusRejectsPost(t *testing.T) {
	handler := NewHTTPHandler(nil, fixedStatus{}, HTTPHandlerConfig{})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/status", nil))

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
}

func TestHTTPSchemaByGamemodeName(t *testing.T) {
	handler := NewHTTPHandler(nil, fixedStatus{}, HTTPHandlerConfig{})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/schema?gamemode=wave", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 OK, got %d: %s", resp.Code, resp.Body.String())
	}
	body := resp.Body.String()
	if !strings.Contains(body, "Wave settings") {
		t.Fatalf("expected schema title for Wave, got %s", body)
	}
	if !strings.Contains(body, "BossWave") {
		t.Fatalf("expected wave fields in schema, got %s", body)
	}
}

func TestHTTPSchemaUnknownGamemode(t *testing.T) {
	handler := NewHTTPHandler(nil, fixedStatus{}, HTTPHandlerConfig{})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/schema?gamemode=football", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
