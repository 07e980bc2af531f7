package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
	"bookshelf/internal/service"
)

func setupRouter(seed []domain.Book) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	bookRepo := repository.NewMemoryBookRepository(seed)
	userRepo := repository.NewMemoryUserRepository()

	userSvc := service.NewUserService(logger, userRepo)
	sessionSvc := service.NewSessionService("test-secret", time.Hour, userSvc, service.NewMemorySessionStore())
	searchSvc := service.NewSearchService(logger, bookRepo, 0)
	reviewSvc := service.NewReviewService(logger, bookRepo)

	userH := NewUserHandler(logger, userSvc, sessionSvc)
	bookH := NewBookHandler(logger, bookRepo, searchSvc)
	reviewH := NewReviewHandler(logger, reviewSvc)
	return NewRouter(logger, sessionSvc, userH, bookH, reviewH)
}

func defaultTestSeed() []domain.Book {
	return []domain.Book{
		{ISBN: "1", Title: "The Alchemist", Author: "Paulo Coelho"},
		{ISBN: "2", Title: "The Alchemist's Daughter", Author: "Katharine McMahon"},
		{ISBN: "3", Title: "Pride and Prejudice", Author: "Jane Austen"},
	}
}

func performRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestRegisterValidation(t *testing.T) {
	r := setupRouter(defaultTestSeed())

	rec := performRequest(r, http.MethodPost, "/register", map[string]string{
		"username": "alice",
		"password": "short",
	}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for short password, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodPost, "/register", map[string]string{
		"username": "alice",
	}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for missing password, got %d", rec.Code)
	}
}

func TestRegisterConflict(t *testing.T) {
	r := setupRouter(defaultTestSeed())

	rec := performRequest(r, http.MethodPost, "/register", map[string]string{
		"username": "alice",
		"password": "secret1",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodPost, "/register", map[string]string{
		"username": "alice",
		"password": "different-password",
	}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
}

func TestLoginRequiresRegistration(t *testing.T) {
	r := setupRouter(defaultTestSeed())

	rec := performRequest(r, http.MethodPost, "/auth/login", map[string]string{
		"username": "ghost",
		"password": "secret1",
	}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodPost, "/auth/login", map[string]string{
		"username": "ghost",
	}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for missing password, got %d", rec.Code)
	}
}

func TestListAndGetBook(t *testing.T) {
	r := setupRouter(defaultTestSeed())

	rec := performRequest(r, http.MethodGet, "/books", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["total"].(float64) != 3 {
		t.Fatalf("expected 3 books, got %v", body["total"])
	}

	rec = performRequest(r, http.MethodGet, "/books/404", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestSearchEndpoints(t *testing.T) {
	r := setupRouter(defaultTestSeed())

	rec := performRequest(r, http.MethodGet, "/search/books", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodGet, "/search/isbn/3", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodGet, "/search/author/COELHO", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["count"].(float64) != 1 {
		t.Fatalf("expected one match, got %v", body["count"])
	}

	rec = performRequest(r, http.MethodGet, "/search/author/nobody", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodGet, "/search/author/%20%20", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for blank author, got %d", rec.Code)
	}
}

func TestSearchByTitleRanking(t *testing.T) {
	r := setupRouter(defaultTestSeed())

	rec := performRequest(r, http.MethodGet, "/search/title/the%20%20alchemist", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var result struct {
		TotalMatches int `json:"total_matches"`
		Books        []struct {
			ISBN         string `json:"isbn"`
			MatchQuality string `json:"match_quality"`
		} `json:"books"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.TotalMatches != 2 {
		t.Fatalf("expected 2 matches, got %d", result.TotalMatches)
	}
	if result.Books[0].ISBN != "1" || result.Books[0].MatchQuality != "exact" {
		t.Fatalf("expected exact match first, got %+v", result.Books[0])
	}
	if result.Books[1].MatchQuality != "partial" {
		t.Fatalf("expected partial match second, got %+v", result.Books[1])
	}
}

func TestReviewMutationRequiresSession(t *testing.T) {
	r := setupRouter(defaultTestSeed())

	rec := performRequest(r, http.MethodPut, "/auth/review/1", map[string]string{
		"review": "great",
	}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodDelete, "/auth/review/1", nil, "garbage-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 with invalid token, got %d", rec.Code)
	}
}

// Escenario completo de registro, login, reseña y borrado.
func TestReviewLifecycle(t *testing.T) {
	r := setupRouter([]domain.Book{
		{ISBN: "001", Title: "Foo Bar", Author: "Ann"},
	})

	rec := performRequest(r, http.MethodPost, "/register", map[string]string{
		"username": "alice",
		"password": "secret1",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodPost, "/auth/login", map[string]string{
		"username": "alice",
		"password": "secret1",
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	token, _ := decodeBody(t, rec)["token"].(string)
	if token == "" {
		t.Fatalf("expected login to return a token")
	}

	rec = performRequest(r, http.MethodPut, "/auth/review/001", map[string]string{
		"review": "Great read",
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("put review: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = performRequest(r, http.MethodGet, "/books/001/reviews", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get reviews: expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["review_count"].(float64) != 1 {
		t.Fatalf("expected review_count 1, got %v", body["review_count"])
	}
	reviews := body["reviews"].(map[string]any)
	if reviews["alice"] != "Great read" {
		t.Fatalf("expected alice's review, got %v", reviews)
	}

	rec = performRequest(r, http.MethodDelete, "/auth/review/001", nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete review: expected 200, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodGet, "/books/001/reviews", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get reviews: expected 200, got %d", rec.Code)
	}
	body = decodeBody(t, rec)
	if body["review_count"].(float64) != 0 {
		t.Fatalf("expected empty reviews after delete, got %v", body)
	}
}

func TestDeleteReviewNotFoundCauses(t *testing.T) {
	r := setupRouter(defaultTestSeed())

	performRequest(r, http.MethodPost, "/register", map[string]string{
		"username": "alice", "password": "secret1",
	}, "")
	rec := performRequest(r, http.MethodPost, "/auth/login", map[string]string{
		"username": "alice", "password": "secret1",
	}, "")
	token, _ := decodeBody(t, rec)["token"].(string)

	rec = performRequest(r, http.MethodDelete, "/auth/review/404", nil, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown book, got %d", rec.Code)
	}
	unknownBook := decodeBody(t, rec)["error"].(string)

	rec = performRequest(r, http.MethodDelete, "/auth/review/1", nil, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for book without reviews, got %d", rec.Code)
	}
	noReviews := decodeBody(t, rec)["error"].(string)

	if unknownBook == noReviews {
		t.Fatalf("expected distinct not-found causes, both were %q", unknownBook)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	r := setupRouter(defaultTestSeed())

	performRequest(r, http.MethodPost, "/register", map[string]string{
		"username": "alice", "password": "secret1",
	}, "")
	rec := performRequest(r, http.MethodPost, "/auth/login", map[string]string{
		"username": "alice", "password": "secret1",
	}, "")
	token, _ := decodeBody(t, rec)["token"].(string)

	rec = performRequest(r, http.MethodPost, "/auth/logout", map[string]string{
		"token": token,
	}, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodPut, "/auth/review/1", map[string]string{
		"review": "late",
	}, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected revoked session to be rejected, got %d", rec.Code)
	}
}
