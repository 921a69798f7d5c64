package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, srv *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	return websocket.DefaultDialer.Dial(url, header)
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, got %d", n, h.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWebSocketBroadcast(t *testing.T) {
	s := newTestServer(t, Config{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := dial(t, srv, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	waitForClients(t, s.hub, 1)

	s.hub.BroadcastProgress("job-1", "running", "converting", 10)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	var msg ProgressMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "progress" || msg.JobID != "job-1" || msg.Progress != 10 || msg.Timestamp == "" {
		t.Errorf("Unexpected message %+v", msg)
	}
}

func TestWebSocketJobEvents(t *testing.T) {
	s := newTestServer(t, Config{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := dial(t, srv, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	waitForClients(t, s.hub, 1)

	_, job := postJob(t, s, ConvertRequest{From: "fasta", To: "tab", Input: ">a\nACGT\n"})

	var types []string
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for len(types) < 2 {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage failed after %v: %v", types, err)
		}
		var msg ProgressMessage
		json.Unmarshal(data, &msg)
		if msg.JobID != job.ID {
			t.Errorf("Expected job %s, got %s", job.ID, msg.JobID)
		}
		types = append(types, msg.Type)
	}
	if types[0] != "progress" || types[1] != "complete" {
		t.Errorf("Expected progress then complete, got %v", types)
	}
}

func TestWebSocketOriginRejected(t *testing.T) {
	s := newTestServer(t, Config{AllowedOrigins: []string{"https://app.example.org"}})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	_, resp, err := dial(t, srv, http.Header{"Origin": []string{"https://evil.example"}})
	if err == nil {
		t.Fatal("Expected the dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %v", resp)
	}

	conn, _, err := dial(t, srv, http.Header{"Origin": []string{"https://app.example.org"}})
	if err != nil {
		t.Fatalf("Expected allowed origin to connect: %v", err)
	}
	conn.Close()
}

func TestHubStop(t *testing.T) {
	h := NewHub()
	go h.Run()
	h.Stop()
	h.Stop()
	h.Broadcast(ProgressMessage{Type: "progress"})
	if h.ClientCount() != 0 {
		t.Errorf("Expected no clients, got %d", h.ClientCount())
	}
}
