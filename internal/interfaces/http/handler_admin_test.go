package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func adminToken(t *testing.T, env *testEnv) string {
	t.Helper()
	token, err := env.auth.IssueToken("ops")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return token
}

func TestAdminRequiresToken(t *testing.T) {
	env := newTestEnv(t, seededStore(), &fakeMessenger{}, true, nil)

	if w := env.do(http.MethodGet, "/api/bots", "", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/api/bots", "", "garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with bad token, got %d", w.Code)
	}
}

func TestAdminListRedactsTokens(t *testing.T) {
	env := newTestEnv(t, seededStore(), &fakeMessenger{}, true, nil)

	w := env.do(http.MethodGet, "/api/bots", "", adminToken(t, env))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret-token") {
		t.Fatalf("token leaked: %s", w.Body.String())
	}

	var bots []botView
	if err := json.Unmarshal(w.Body.Bytes(), &bots); err != nil {
		t.Fatal(err)
	}
	if len(bots) != 1 || bots[0].Token != "111111:***" || len(bots[0].Chats) != 1 {
		t.Errorf("unexpected listing %+v", bots)
	}
}

func TestAdminCreateBotAndChat(t *testing.T) {
	store := &fakeStore{}
	env := newTestEnv(t, store, &fakeMessenger{}, true, nil)
	token := adminToken(t, env)

	w := env.do(http.MethodPost, "/api/bots", `{"token":"222222:abc-DEF_123"}`, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created botView
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID != 1 || created.Name != "telegraph_bot" || created.Token != "222222:***" {
		t.Errorf("unexpected bot %+v", created)
	}

	if w := env.do(http.MethodPost, "/api/bots/1/chats", `{"chat_id":"-100200300","name":"alerts"}`, token); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(store.chats) != 1 || store.chats[0].ChatID != "-100200300" {
		t.Errorf("chat not stored: %+v", store.chats)
	}
}

func TestAdminRejectsBadInput(t *testing.T) {
	env := newTestEnv(t, seededStore(), &fakeMessenger{}, true, nil)
	token := adminToken(t, env)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"missing token", "/api/bots", `{}`, http.StatusBadRequest},
		{"malformed token", "/api/bots", `{"token":"not a token"}`, http.StatusBadRequest},
		{"bad bot name", "/api/bots", `{"token":"1:abc","name":"<script>"}`, http.StatusBadRequest},
		{"bad bot id", "/api/bots/x/chats", `{"chat_id":"1"}`, http.StatusBadRequest},
		{"unknown bot", "/api/bots/9/chats", `{"chat_id":"1"}`, http.StatusNotFound},
		{"bad chat id", "/api/bots/1/chats", `{"chat_id":"general"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := env.do(http.MethodPost, tt.path, tt.body, token); w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestTelegramValidateAndStatus(t *testing.T) {
	env := newTestEnv(t, seededStore(), &fakeMessenger{}, true, nil)
	token := adminToken(t, env)

	w := env.do(http.MethodPost, "/api/telegram/validate", `{"token":"333333:xyz"}`, token)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"valid":true`) {
		t.Errorf("unexpected validate response %d %s", w.Code, w.Body.String())
	}

	w = env.do(http.MethodGet, "/api/telegram/status/1", "", token)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"connected":true`) {
		t.Errorf("unexpected status response %d %s", w.Code, w.Body.String())
	}
}
