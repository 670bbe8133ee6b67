package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mtassembler/imac/api"
)

func testServer() *api.Server {
	return api.NewServer(8080)
}

func TestHealthCheck(t *testing.T) {
	server := testServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response["status"] != "ok" {
		t.Errorf("Expected status 'ok', got '%v'", response["status"])
	}
}

func TestAssemble_Success(t *testing.T) {
	server := testServer()

	reqBody := api.AssembleRequest{
		Filename: "prog",
		Source:   "mov r1, r2\nstop\n",
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assemble", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp api.AssembleResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success, got error %q", resp.Error)
	}
	if resp.CodeWords != 2 {
		t.Errorf("Expected 2 code words, got %d", resp.CodeWords)
	}
	if resp.JobID == "" {
		t.Error("Expected non-empty job ID")
	}
}

func TestAssemble_ReportsAssemblyError(t *testing.T) {
	server := testServer()

	reqBody := api.AssembleRequest{Filename: "prog", Source: "bogus r1, r2\n"}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assemble", bytes.NewReader(body))
	w := httptest.NewRecorder()

	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp api.AssembleResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Success {
		t.Error("Expected assembly to fail on unknown mnemonic")
	}
	if resp.Error == "" {
		t.Error("Expected a non-empty error message")
	}
}

func TestAssemble_RejectsWrongMethod(t *testing.T) {
	server := testServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assemble", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}
