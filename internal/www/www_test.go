package www

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"sarlink/internal/events"
	"sarlink/internal/fleet"
	"sarlink/internal/journal"
	"sarlink/internal/logger"
	"sarlink/internal/mission"
	"sarlink/internal/planner"
	"sarlink/internal/sim"
)

func init() { logger.Discard() }

type stubCapability struct {
	response string
	block    chan struct{}
	entered  chan struct{}
}

func (s *stubCapability) Available() bool { return true }
func (s *stubCapability) Backend() string { return "stub" }
func (s *stubCapability) GenerateJSON(context.Context, string, string, any) (string, error) {
	if s.entered != nil {
		close(s.entered)
	}
	if s.block != nil {
		<-s.block
	}
	return s.response, nil
}

type halfSource struct{}

func (halfSource) Float64() float64 { return 0.5 }

const onePlan = `{"reasoning":"r","safetyChecks":[],"tasks":[{"description":"Search","assignedTo":"Go2-Alpha","type":"SEARCH","priority":"HIGH"}]}`

func newTestServer(t *testing.T, capability planner.Capability) (*httptest.Server, *mission.Coordinator) {
	t.Helper()
	store, err := fleet.NewStore(fleet.DefaultFleet())
	if err != nil {
		t.Fatal(err)
	}
	j := journal.New(0)
	s := sim.New(store, j, sim.DefaultParams(), halfSource{})
	coord := mission.New(store, j, s, planner.NewRequester(capability), events.NewBus(), mission.Options{})

	h, stop := NewRouter(coord, Status{Backend: "stub", Available: true})
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		srv.Close()
		stop()
	})
	return srv, coord
}

func doRequest(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestPlanLifecycle(t *testing.T) {
	srv, coord := newTestServer(t, &stubCapability{response: onePlan})

	testCases := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
	}{
		{"No plan yet", http.MethodGet, "/api/plan", "", http.StatusNotFound},
		{"Execute without plan", http.MethodPost, "/api/plan/current/execute", "", http.StatusNotFound},
		{"Empty instruction", http.MethodPost, "/api/plan", `{"instruction":"  "}`, http.StatusBadRequest},
		{"Malformed body", http.MethodPost, "/api/plan", `{`, http.StatusBadRequest},
		{"Submit", http.MethodPost, "/api/plan", `{"instruction":"search the tunnel"}`, http.StatusOK},
		{"Current plan", http.MethodGet, "/api/plan", "", http.StatusOK},
		{"Stale id", http.MethodPost, "/api/plan/deadbeef/execute", "", http.StatusConflict},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := doRequest(t, tc.method, srv.URL+tc.path, tc.body)
			if resp.StatusCode != tc.wantCode {
				t.Errorf("Expected %d, got %d", tc.wantCode, resp.StatusCode)
			}
		})
	}

	p := coord.Current()
	if p == nil {
		t.Fatal("Expected a proposal after submit")
	}
	resp, body := doRequest(t, http.MethodPost, srv.URL+"/api/plan/"+p.ID+"/execute", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Execute: expected 200, got %d (%v)", resp.StatusCode, body)
	}
	result, _ := body["result"].(map[string]any)
	if result["assigned"] != float64(1) {
		t.Errorf("Expected 1 assignment, got %v", body["result"])
	}
	r := coord.Fleet()[0]
	if r.Status != fleet.StatusSearching {
		t.Errorf("Expected Go2-Alpha SEARCHING, got %s", r.Status)
	}

	if resp, _ := doRequest(t, http.MethodPost, srv.URL+"/api/plan/"+p.ID+"/discard", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 after execution cleared the plan, got %d", resp.StatusCode)
	}
}

func TestSubmitWhileBusyReturnsConflict(t *testing.T) {
	stub := &stubCapability{response: onePlan, block: make(chan struct{}), entered: make(chan struct{})}
	srv, _ := newTestServer(t, stub)

	done := make(chan int, 1)
	go func() {
		resp, err := http.Post(srv.URL+"/api/plan", "application/json", strings.NewReader(`{"instruction":"first"}`))
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()
	<-stub.entered

	resp, _ := doRequest(t, http.MethodPost, srv.URL+"/api/plan", `{"instruction":"second"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409, got %d", resp.StatusCode)
	}
	close(stub.block)
	if code := <-done; code != http.StatusOK {
		t.Errorf("Expected first request to succeed, got %d", code)
	}
}

func TestReadEndpoints(t *testing.T) {
	srv, coord := newTestServer(t, &stubCapability{response: onePlan})
	coord.Advance(1)

	resp, err := http.Get(srv.URL + "/api/fleet")
	if err != nil {
		t.Fatal(err)
	}
	var robots []fleet.Robot
	if err := json.NewDecoder(resp.Body).Decode(&robots); err != nil || len(robots) != 2 {
		t.Errorf("Expected 2 robots, got %d (%v)", len(robots), err)
	}
	resp.Body.Close()

	if resp, _ := doRequest(t, http.MethodGet, srv.URL+"/api/fleet/uav_01", ""); resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 for known robot, got %d", resp.StatusCode)
	}
	if resp, _ := doRequest(t, http.MethodGet, srv.URL+"/api/fleet/nope", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown robot, got %d", resp.StatusCode)
	}

	resp, health := doRequest(t, http.MethodGet, srv.URL+"/api/health", "")
	if resp.StatusCode != http.StatusOK || health["status"] != "ok" || health["robots"] != float64(2) {
		t.Errorf("Unexpected health %v", health)
	}

	resp, err = http.Get(srv.URL + "/api/logs")
	if err != nil {
		t.Fatal(err)
	}
	var entries []journal.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Errorf("Decode logs: %v", err)
	}
	resp.Body.Close()
}

func TestSSEStreamsLogEntries(t *testing.T) {
	srv, coord := newTestServer(t, &stubCapability{response: onePlan})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Unexpected content type %q", ct)
	}

	go func() {
		// Keep submitting until the client is registered and sees an event.
		for ctx.Err() == nil {
			_, _ = coord.Submit(context.Background(), "ping")
			time.Sleep(50 * time.Millisecond)
		}
	}()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if scanner.Text() == "event: log" {
			return
		}
	}
	t.Errorf("Did not receive a log event: %v", scanner.Err())
}

func TestWebSocketStreamsFleet(t *testing.T) {
	srv, coord := newTestServer(t, &stubCapability{response: onePlan})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, health := doRequest(t, http.MethodGet, srv.URL+"/api/health", "")
		if resp.StatusCode == http.StatusOK && health["ws_clients"] == float64(1) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	coord.Advance(1)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg StreamMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Type != "fleet" {
		t.Errorf("Expected fleet message, got %q", msg.Type)
	}
	var ev events.FleetTickedEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil || ev.Tick != 1 || len(ev.Fleet) != 2 {
		t.Errorf("Unexpected payload %s (%v)", msg.Payload, err)
	}
}
