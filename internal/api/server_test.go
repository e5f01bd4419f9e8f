package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aurum-network/aurum/internal/app/governance"
	"github.com/aurum-network/aurum/internal/app/scheduler"
	"github.com/aurum-network/aurum/internal/app/staking"
	"github.com/aurum-network/aurum/internal/app/token"
	"github.com/aurum-network/aurum/internal/app/wallet"
	"github.com/aurum-network/aurum/internal/domain"
	"github.com/aurum-network/aurum/internal/infra/statestore"
)

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	clock := fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := statestore.NewMemoryStore(clock, nil)
	auth := domain.NewStaticAuthorizer("admin")

	srv := NewServer(
		token.NewLedger(store, auth),
		staking.NewEngine(store, clock),
		governance.NewEngine(store, clock, governance.DefaultRegistry()),
		wallet.NewManager(store, clock, auth),
		scheduler.NewEngine(store, clock),
	)
	return srv.Handler()
}

func post(t *testing.T, h http.Handler, path string, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)
	w := get(t, h, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestTokenFlow(t *testing.T) {
	h := newTestHandler(t)

	w := post(t, h, "/v1/token/init", map[string]interface{}{
		"caller":       "alice",
		"name":         "Aurum",
		"symbol":       "AUR",
		"decimals":     18,
		"total_supply": "1000",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("init status = %d, body = %s", w.Code, w.Body)
	}

	w = post(t, h, "/v1/token/transfer", map[string]interface{}{
		"caller": "alice",
		"to":     "bob",
		"amount": "400",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("transfer status = %d, body = %s", w.Code, w.Body)
	}

	w = get(t, h, "/v1/token/balance/bob")
	if w.Code != http.StatusOK {
		t.Fatalf("balance status = %d", w.Code)
	}
	var bal struct {
		Balance string `json:"balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &bal); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if bal.Balance != "400" {
		t.Errorf("bob balance = %s, want 400", bal.Balance)
	}

	w = get(t, h, "/v1/token/supply")
	var sc domain.SupplyConfig
	if err := json.Unmarshal(w.Body.Bytes(), &sc); err != nil {
		t.Fatalf("decode supply: %v", err)
	}
	if sc.TotalSupply.String() != "1000" || sc.Owner != "alice" {
		t.Errorf("supply = %s owner = %s", sc.TotalSupply, sc.Owner)
	}
}

func TestErrorStatuses(t *testing.T) {
	h := newTestHandler(t)

	w := post(t, h, "/v1/token/init", map[string]interface{}{
		"caller": "alice", "total_supply": "1000",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("init status = %d", w.Code)
	}

	tests := []struct {
		name string
		run  func() *httptest.ResponseRecorder
		want int
	}{
		{
			name: "mint by stranger is forbidden",
			run: func() *httptest.ResponseRecorder {
				return post(t, h, "/v1/token/mint", map[string]interface{}{
					"caller": "mallory", "to": "mallory", "amount": "5",
				})
			},
			want: http.StatusForbidden,
		},
		{
			name: "unknown scheduled tx is not found",
			run: func() *httptest.ResponseRecorder {
				return get(t, h, "/v1/scheduled/nope")
			},
			want: http.StatusNotFound,
		},
		{
			name: "overdraft is unprocessable",
			run: func() *httptest.ResponseRecorder {
				return post(t, h, "/v1/token/transfer", map[string]interface{}{
					"caller": "alice", "to": "bob", "amount": "999999",
				})
			},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "malformed amount is a bad request",
			run: func() *httptest.ResponseRecorder {
				return post(t, h, "/v1/token/transfer", map[string]interface{}{
					"caller": "alice", "to": "bob", "amount": "ten",
				})
			},
			want: http.StatusBadRequest,
		},
		{
			name: "duplicate wallet conflicts",
			run: func() *httptest.ResponseRecorder {
				post(t, h, "/v1/wallets", map[string]interface{}{
					"caller": "bob", "type": "personal",
				})
				return post(t, h, "/v1/wallets", map[string]interface{}{
					"caller": "bob", "type": "business",
				})
			},
			want: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.run()
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body)
			}
		})
	}
}

func TestScheduledOverHTTP(t *testing.T) {
	h := newTestHandler(t)

	post(t, h, "/v1/token/init", map[string]interface{}{
		"caller": "alice", "total_supply": "1000",
	})

	w := post(t, h, "/v1/scheduled", map[string]interface{}{
		"caller":         "alice",
		"to":             "bob",
		"amount":         "100",
		"execution_date": "2024-06-02T12:00:00Z",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("schedule status = %d, body = %s", w.Code, w.Body)
	}
	var st domain.ScheduledTransaction
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode scheduled: %v", err)
	}
	if st.Status != domain.ScheduledTxScheduled {
		t.Errorf("status = %q, want scheduled", st.Status)
	}

	// The sender may settle early; the transfer lands immediately.
	w = post(t, h, "/v1/scheduled/"+st.ID+"/execute", map[string]interface{}{
		"caller": "alice",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("execute status = %d, body = %s", w.Code, w.Body)
	}

	w = get(t, h, "/v1/token/balance/bob")
	var bal struct {
		Balance string `json:"balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &bal); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if bal.Balance != "100" {
		t.Errorf("bob balance = %s, want 100", bal.Balance)
	}
}
