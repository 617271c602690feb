package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/fatih/color"
	"github.com/gorilla/mux"
)

func init() {
	color.NoColor = true
}

// backend is an in-memory KnowledgeKeeper server.
type backend struct {
	mu sync.Mutex

	token     string
	user      models.User
	password  string
	knowledge []models.Knowledge // newest first
	added     []models.CreateKnowledgeRequest
	chats     []models.ChatRequest
	prompts   []models.SystemPrompt
	files     []models.FileItem
	verifies  int
	calls     []string
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()
	b := &backend{
		token:    "tok-1",
		user:     models.User{ID: "u1", Username: "alice", IsActive: true},
		password: "pw",
	}
	for i := 3; i >= 1; i-- {
		b.knowledge = append(b.knowledge, models.Knowledge{ID: fmt.Sprintf("k%d", i), Title: fmt.Sprintf("note %d", i)})
	}

	r := mux.NewRouter()
	r.Use(b.record)
	r.HandleFunc("/auth/login", b.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/verify-token", b.verify).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(b.authorize)
	authed.HandleFunc("/knowledge", b.listKnowledge).Methods(http.MethodGet)
	authed.HandleFunc("/knowledge", b.deleteAllKnowledge).Methods(http.MethodDelete)
	authed.HandleFunc("/knowledge/{id}", b.deleteKnowledge).Methods(http.MethodDelete)
	authed.HandleFunc("/add-knowledge", b.addKnowledge).Methods(http.MethodPost)
	authed.HandleFunc("/chat", b.chat).Methods(http.MethodPost)
	authed.HandleFunc("/files/", b.listFiles).Methods(http.MethodGet)
	authed.HandleFunc("/system-prompts/", b.listPrompts).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return b, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *backend) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		ok := r.Header.Get("Authorization") == "Bearer "+b.token
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *backend) login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginRequest
	_ = json.NewDecoder(r.Body).Decode(&in)

	b.mu.Lock()
	defer b.mu.Unlock()
	if in.Username != b.user.Username || in.Password != b.password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{AccessToken: b.token, TokenType: "bearer", User: b.user})
}

func (b *backend) verify(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.verifies++
	if r.Header.Get("Authorization") != "Bearer "+b.token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token"})
		return
	}
	writeJSON(w, http.StatusOK, models.VerifyResponse{User: b.user})
}

func (b *backend) listKnowledge(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page, limit = max(page, 1), max(limit, 1)

	b.mu.Lock()
	all := slices.Clone(b.knowledge)
	b.mu.Unlock()

	if r.URL.Query().Get("sort_order") == string(models.SortOldest) {
		slices.Reverse(all)
	}
	start := min((page-1)*limit, len(all))
	end := min(start+limit, len(all))
	writeJSON(w, http.StatusOK, models.NewPage(all[start:end], len(all), page, limit))
}

func (b *backend) deleteKnowledge(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.knowledge, func(k models.Knowledge) bool { return k.ID == id })
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Knowledge not found"})
		return
	}
	b.knowledge = slices.Delete(b.knowledge, i, i+1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (b *backend) deleteAllKnowledge(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.knowledge = nil
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (b *backend) addKnowledge(w http.ResponseWriter, r *http.Request) {
	var in models.CreateKnowledgeRequest
	_ = json.NewDecoder(r.Body).Decode(&in)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.added = append(b.added, in)
	id := fmt.Sprintf("k%d", len(b.knowledge)+len(b.added)+10)
	b.knowledge = append([]models.Knowledge{{ID: id, Title: in.Title, Content: in.Content, Source: in.Source}}, b.knowledge...)
	writeJSON(w, http.StatusOK, models.AddKnowledgeResponse{ID: id, Message: "Knowledge added successfully"})
}

func (b *backend) chat(w http.ResponseWriter, r *http.Request) {
	var in models.ChatRequest
	_ = json.NewDecoder(r.Body).Decode(&in)

	b.mu.Lock()
	b.chats = append(b.chats, in)
	b.mu.Unlock()

	score := 0.87
	writeJSON(w, http.StatusOK, models.ChatResponse{
		Response: "echo: " + in.Message,
		Sources:  []models.ChatSource{{Title: "note 1", SimilarityScore: &score}},
	})
}

func (b *backend) listFiles(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.files)
}

func (b *backend) listPrompts(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.prompts)
}

func (b *backend) revoke() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = "tok-2"
}

func (b *backend) knowledgeIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, len(b.knowledge))
	for i, k := range b.knowledge {
		ids[i] = k.ID
	}
	return ids
}

func (b *backend) verifyCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.verifies
}
