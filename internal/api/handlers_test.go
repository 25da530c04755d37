package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sandeepkv93/chorejar/internal/model"
	"github.com/sandeepkv93/chorejar/internal/rewards"
	"github.com/sandeepkv93/chorejar/internal/storage"
)

var testNow = time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

type testServer struct {
	backend *storage.MemoryBackend
	svc     *rewards.Service
	handler http.Handler
}

func newTestServer(t *testing.T, fn func(st *model.AppState)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := model.NewAppState()
	st.LastResetDate = model.DayKey(testNow)
	if fn != nil {
		fn(st)
	}
	backend := storage.NewMemoryBackend()
	store, err := storage.NewStore(backend, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	svc, err := rewards.NewService(st, store, rewards.Options{
		Clock: func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &testServer{backend: backend, svc: svc, handler: NewServer(svc, Options{}).Handler()}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode[map[string]string](t, w)
	if body["status"] != "healthy" || body["today"] != "2026-03-04" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestChecklistLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/checklist", map[string]any{"text": "Feed the cat", "stars": 3})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}
	task := decode[model.ChecklistTask](t, w)
	if task.Stars != 3 || task.Text != "Feed the cat" {
		t.Fatalf("unexpected task: %+v", task)
	}

	w = s.do(t, http.MethodPost, "/api/checklist/"+itoa(task.ID)+"/toggle", nil)
	if w.Code != http.StatusOK || !decode[model.ChecklistTask](t, w).Completed {
		t.Fatalf("expected completed task, got %d: %s", w.Code, w.Body)
	}
	if got := s.svc.Snapshot().Stars.Total; got != 3 {
		t.Fatalf("expected 3 stars, got %d", got)
	}

	w = s.do(t, http.MethodDelete, "/api/checklist/"+itoa(task.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = s.do(t, http.MethodDelete, "/api/checklist/"+itoa(task.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted task, got %d", w.Code)
	}
}

func TestChecklistDefaultsToOneStar(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodPost, "/api/checklist", map[string]any{"text": "Brush teeth"})
	if w.Code != http.StatusCreated || decode[model.ChecklistTask](t, w).Stars != 1 {
		t.Fatalf("expected one-star task, got %d: %s", w.Code, w.Body)
	}
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t, nil)
	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"missing text", http.MethodPost, "/api/checklist", map[string]any{"stars": 1}, http.StatusBadRequest},
		{"too many stars", http.MethodPost, "/api/checklist", map[string]any{"text": "x", "stars": 11}, http.StatusBadRequest},
		{"bad id", http.MethodPost, "/api/checklist/abc/toggle", nil, http.StatusBadRequest},
		{"bad column", http.MethodPost, "/api/kanban/1/move", map[string]any{"to": "later"}, http.StatusBadRequest},
		{"negative grant", http.MethodPost, "/api/stars/grant", map[string]any{"amount": -2}, http.StatusBadRequest},
		{"zero rate", http.MethodPut, "/api/settings", map[string]any{"starsToMoney": 0, "moneyPerStars": 10}, http.StatusBadRequest},
		{"unknown rule", http.MethodDelete, "/api/rules/4", nil, http.StatusNotFound},
		{"overspend", http.MethodPost, "/api/wallet/spend", map[string]any{"amount": 5}, http.StatusUnprocessableEntity},
		{"empty payout", http.MethodPost, "/api/piggy/payout", nil, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, tc.method, tc.path, tc.body)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, w.Code, w.Body)
			}
		})
	}
}

func TestKanbanMoveIntoDoneEarnsStars(t *testing.T) {
	s := newTestServer(t, nil)
	card := decode[model.KanbanTask](t, s.do(t, http.MethodPost, "/api/kanban", map[string]any{"text": "Tidy room"}))

	w := s.do(t, http.MethodPost, "/api/kanban/"+itoa(card.ID)+"/move", map[string]any{"to": "done"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	body := decode[map[string]any](t, w)
	if body["from"] != "todo" || body["to"] != "done" {
		t.Fatalf("unexpected move body: %v", body)
	}
	if got := s.svc.Snapshot().Stars.Total; got != model.KanbanDoneStars {
		t.Fatalf("expected %d stars, got %d", model.KanbanDoneStars, got)
	}
}

func TestExchangeAndPreview(t *testing.T) {
	s := newTestServer(t, func(st *model.AppState) { st.Stars.Total = 32 })

	w := s.do(t, http.MethodGet, "/api/stars/exchange/preview?amount=32", nil)
	preview := decode[rewards.ExchangeQuote](t, w)
	if w.Code != http.StatusOK || preview.Stars != 30 || preview.Money != 400 || preview.Leftover != 2 {
		t.Fatalf("unexpected preview %d: %+v", w.Code, preview)
	}
	if s.svc.Snapshot().Stars.Total != 32 {
		t.Fatal("preview must not spend stars")
	}

	w = s.do(t, http.MethodPost, "/api/stars/exchange", map[string]any{"amount": 32})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	st := s.svc.Snapshot()
	if st.Stars.Total != 2 || st.Wallet.Amount != 400 {
		t.Fatalf("unexpected balances after exchange: stars=%d wallet=%d", st.Stars.Total, st.Wallet.Amount)
	}

	w = s.do(t, http.MethodPost, "/api/stars/exchange", map[string]any{"amount": 2})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 below one bundle, got %d", w.Code)
	}
}

func TestPiggyFlow(t *testing.T) {
	s := newTestServer(t, nil)

	if w := s.do(t, http.MethodPut, "/api/piggy/goal", map[string]any{"name": "Bike", "amount": 1000}); w.Code != http.StatusOK {
		t.Fatalf("set goal: %d %s", w.Code, w.Body)
	}
	if w := s.do(t, http.MethodPost, "/api/piggy/deposit", map[string]any{"amount": 300}); w.Code != http.StatusOK {
		t.Fatalf("deposit: %d %s", w.Code, w.Body)
	}
	if w := s.do(t, http.MethodPost, "/api/piggy/withdraw", map[string]any{"amount": 500}); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for overdraw, got %d", w.Code)
	}

	w := s.do(t, http.MethodPost, "/api/piggy/payout", nil)
	if w.Code != http.StatusOK || decode[map[string]int](t, w)["paid"] != 300 {
		t.Fatalf("unexpected payout %d: %s", w.Code, w.Body)
	}
	if st := s.svc.Snapshot(); st.Piggy.Amount != 0 || st.Piggy.Goal.Name != "Bike" {
		t.Fatalf("unexpected piggy: %+v", st.Piggy)
	}
}

func TestStateEnvelope(t *testing.T) {
	s := newTestServer(t, func(st *model.AppState) { st.Stars.Total = 20 })
	w := s.do(t, http.MethodGet, "/api/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode[stateResponse](t, w)
	if body.State == nil || body.State.Stars.Total != 20 {
		t.Fatalf("missing state: %+v", body)
	}
	if body.NextPayout.Have != 5 || body.NextPayout.Need != 10 {
		t.Fatalf("unexpected payout progress: %+v", body.NextPayout)
	}
	if body.TasksToKeepStreak != rewards.QualifyingTasks {
		t.Fatalf("expected %d tasks to keep the streak, got %d", rewards.QualifyingTasks, body.TasksToKeepStreak)
	}
}

func TestRolloverRunsBeforeRequests(t *testing.T) {
	s := newTestServer(t, func(st *model.AppState) {
		st.LastResetDate = "2026-03-03"
		st.Checklist = []model.ChecklistTask{{ID: 1, Text: "Homework", Stars: 1, Completed: true}}
	})
	w := s.do(t, http.MethodGet, "/api/state", nil)
	body := decode[stateResponse](t, w)
	if body.State.LastResetDate != "2026-03-04" {
		t.Fatalf("expected rollover to today, got %q", body.State.LastResetDate)
	}
	if body.State.Checklist[0].Completed {
		t.Fatal("checklist must be reset on a new day")
	}
}

func TestRulesAndWeekly(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodPost, "/api/rules", map[string]any{"text": "No screens after 8"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}
	if w := s.do(t, http.MethodDelete, "/api/rules/0", nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/stats/weekly", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"diff":0`) {
		t.Fatalf("expected diff in weekly body: %s", w.Body)
	}
}

func TestWishlistAndDiary(t *testing.T) {
	s := newTestServer(t, func(st *model.AppState) { st.Wallet.Amount = 800 })

	w := s.do(t, http.MethodPost, "/api/wishlist", map[string]any{"name": "Skates", "price": 700, "description": "blue"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}
	created := decode[struct {
		Wish       model.Wish `json:"wish"`
		Affordable bool       `json:"affordable"`
	}](t, w)
	if created.Wish.ID == "" || created.Wish.Price == nil || *created.Wish.Price != 700 || !created.Affordable {
		t.Fatalf("unexpected wish response: %+v", created)
	}

	if w := s.do(t, http.MethodPost, "/api/wishlist", map[string]any{"name": "Castle", "price": model.MaxWishPrice + 1}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for price over the limit, got %d", w.Code)
	}
	if w := s.do(t, http.MethodDelete, "/api/wishlist/"+created.Wish.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body)
	}
	if w := s.do(t, http.MethodDelete, "/api/wishlist/"+created.Wish.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted wish, got %d", w.Code)
	}

	w = s.do(t, http.MethodPost, "/api/diary", map[string]any{"title": "Rink", "content": "fell twice"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}
	entry := decode[model.DiaryEntry](t, w)
	if entry.Title == nil || *entry.Title != "Rink" || entry.Content != "fell twice" {
		t.Fatalf("unexpected diary entry: %+v", entry)
	}
	if w := s.do(t, http.MethodPost, "/api/diary", map[string]any{"title": "empty"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without content, got %d", w.Code)
	}
	if got := s.svc.Snapshot(); len(got.Diary) != 1 || len(got.Wishlist) != 0 {
		t.Fatalf("unexpected journal state: %d diary, %d wishes", len(got.Diary), len(got.Wishlist))
	}
}

func TestSaveFailureMapsToStorageStatus(t *testing.T) {
	s := newTestServer(t, nil)
	s.backend.FailWrites(storage.ErrQuotaExceeded)

	w := s.do(t, http.MethodPost, "/api/stars/grant", map[string]any{"amount": 3})
	if w.Code != http.StatusInsufficientStorage {
		t.Fatalf("expected 507, got %d: %s", w.Code, w.Body)
	}
	body := decode[map[string]string](t, w)
	if body["code"] != string(storage.ReasonQuota) || !strings.Contains(body["error"], "storage space") {
		t.Fatalf("unexpected error body: %v", body)
	}
	if s.svc.Snapshot().Stars.Total != 0 {
		t.Fatal("failed grant must be rolled back")
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/state", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected CORS headers, got %v", w.Header())
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
