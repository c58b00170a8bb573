package server

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestServerStartStop(t *testing.T) {
	var srv *Server
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(srv.GetStatus())
	})

	srv = NewServer("127.0.0.1:0", mux, 2*time.Second, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	select {
	case <-srv.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not become ready")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}

	resp, err = http.Get("http://" + srv.Addr() + "/status")
	if err != nil {
		t.Fatalf("GET /status error = %v", err)
	}
	var status map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&status)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status["running"] != true {
		t.Errorf("status[running] = %v, want true", status["running"])
	}
	if status["addr"] != srv.Addr() {
		t.Errorf("status[addr] = %v, want %s", status["addr"], srv.Addr())
	}
	if _, ok := status["started_at"]; !ok {
		t.Error("status missing started_at")
	}

	srv.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	if running := srv.GetStatus()["running"]; running != false {
		t.Errorf("status[running] after Stop = %v, want false", running)
	}
}

func TestServerListenError(t *testing.T) {
	srv := NewServer("256.0.0.1:99999", http.NewServeMux(), time.Second, zap.NewNop())
	if err := srv.Start(); err == nil {
		t.Error("Start() expected error for invalid address")
	}
}
