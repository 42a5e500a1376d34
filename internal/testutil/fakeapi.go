// Package testutil provides an in-process fake of the bookshelf API so
// store tests can exercise the real HTTP path without a backend.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
)

var jwtSecret = []byte("fake-api-secret")

// The fake keeps its own wire types so it mirrors the server contract
// rather than the client stores.

type Book struct {
	ID             int64   `json:"bookId"`
	Title          string  `json:"title"`
	Author         string  `json:"author"`
	Category       string  `json:"category"`
	Price          float64 `json:"price"`
	AvailableCount int     `json:"availableCount"`
	Description    string  `json:"description"`
	ImageURL       string  `json:"imageUrl,omitempty"`
}

type Loan struct {
	ID       int64     `json:"loanId"`
	UserID   int64     `json:"userId"`
	BookID   int64     `json:"bookId"`
	LoanDate time.Time `json:"loanDate"`
	DueDate  time.Time `json:"dueDate"`
}

type Review struct {
	ID          int64  `json:"reviewId,omitempty"`
	BookID      int64  `json:"bookId"`
	UserID      int64  `json:"userId"`
	Username    string `json:"username"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type failure struct {
	status int
	body   string
}

// FakeAPI implements the backend contract over in-memory maps, with
// failure injection and request counting on top.
type FakeAPI struct {
	Server *httptest.Server

	mu        sync.Mutex
	books     map[int64]Book
	loans     map[int64]Loan // keyed by book id
	favorites map[int64]struct{}
	reviews   map[int64][]Review
	fees      float64
	users     map[string]fakeUser
	nextID    int64

	requests map[string]int
	failures map[string][]failure
}

type fakeUser struct {
	id       int64
	password string
	role     string
}

// NewFakeAPI starts the fake server with one regular user
// ("alice"/"wonder") and one admin ("root"/"secret").
func NewFakeAPI() *FakeAPI {
	f := &FakeAPI{
		books:     map[int64]Book{},
		loans:     map[int64]Loan{},
		favorites: map[int64]struct{}{},
		reviews:   map[int64][]Review{},
		users: map[string]fakeUser{
			"alice": {id: 1, password: "wonder", role: "USER"},
			"root":  {id: 2, password: "secret", role: "ADMIN"},
		},
		nextID:   1000,
		requests: map[string]int{},
		failures: map[string][]failure{},
	}

	r := chi.NewRouter()
	r.Use(f.intercept)

	r.Post("/api/auth/login", f.handleLogin)
	r.Post("/api/auth/register", f.handleRegister)

	r.Get("/api/books", f.handleListBooks)
	r.Get("/api/books/{id}", f.handleGetBook)
	r.Get("/api/books/search/title", f.handleSearchBooks)
	r.Get("/api/books/filter/category", f.handleFilterBooks)
	r.Post("/api/books/admin", f.requireRole("ADMIN", f.handleCreateBook))
	r.Put("/api/books/admin/{id}", f.requireRole("ADMIN", f.handleUpdateBook))
	r.Delete("/api/books/admin/{id}", f.requireRole("ADMIN", f.handleDeleteBook))

	r.Get("/api/loans", f.requireAuth(f.handleListLoans))
	r.Post("/api/loans/{id}", f.requireAuth(f.handleLoan))
	r.Delete("/api/loans/{id}", f.requireAuth(f.handleReturn))

	r.Get("/api/favorites", f.requireAuth(f.handleListFavorites))
	r.Post("/api/favorites/{id}", f.requireAuth(f.handleAddFavorite))
	r.Delete("/api/favorites/{id}", f.requireAuth(f.handleRemoveFavorite))

	r.Get("/api/reviews/{id}", f.handleListReviews)
	r.Post("/api/reviews", f.requireAuth(f.handleAddReview))

	r.Get("/api/payment/fees", f.requireAuth(f.handleFees))
	r.Post("/api/payment/pay", f.requireAuth(f.handlePay))

	f.Server = httptest.NewServer(r)
	return f
}

func (f *FakeAPI) Close() { f.Server.Close() }

// URL is the base URL stores should be pointed at.
func (f *FakeAPI) URL() string { return f.Server.URL }

// SeedBook inserts a book directly into the fake catalog.
func (f *FakeAPI) SeedBook(b Book) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.books[b.ID] = b
}

// SeedLoan inserts an active loan for the given book.
func (f *FakeAPI) SeedLoan(l Loan) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loans[l.BookID] = l
}

// SeedFavorite marks a book as favorited.
func (f *FakeAPI) SeedFavorite(bookID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favorites[bookID] = struct{}{}
}

// SeedReview appends a review for its book.
func (f *FakeAPI) SeedReview(rv Review) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews[rv.BookID] = append(f.reviews[rv.BookID], rv)
}

// SetFees sets the user's outstanding balance.
func (f *FakeAPI) SetFees(amount float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fees = amount
}

// FailNext makes the next request matching method and exact path fail
// with the given status and body. Queued failures apply in order.
func (f *FakeAPI) FailNext(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := method + " " + path
	f.failures[key] = append(f.failures[key], failure{status: status, body: body})
}

// Requests returns how many requests hit the given method and path.
func (f *FakeAPI) Requests(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[method+" "+path]
}

// Token mints a signed token for a known user, for tests that bypass
// the login flow.
func (f *FakeAPI) Token(username string) string {
	f.mu.Lock()
	u, ok := f.users[username]
	f.mu.Unlock()
	if !ok {
		return ""
	}
	return signToken(u.id, username, u.role)
}

func signToken(id int64, username, role string) string {
	claims := jwt.MapClaims{
		"userId":   id,
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	return token
}

// intercept counts every request and applies queued failures before
// routing.
func (f *FakeAPI) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		f.mu.Lock()
		f.requests[key]++
		var fail *failure
		if queue := f.failures[key]; len(queue) > 0 {
			fail = &queue[0]
			f.failures[key] = queue[1:]
		}
		f.mu.Unlock()

		if fail != nil {
			w.WriteHeader(fail.status)
			fmt.Fprint(w, fail.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) authenticate(r *http.Request) (jwt.MapClaims, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(*jwt.Token) (any, error) {
		return jwtSecret, nil
	})
	return claims, err == nil
}

func (f *FakeAPI) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := f.authenticate(r); !ok {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (f *FakeAPI) requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := f.authenticate(r)
		if !ok {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}
		if got, _ := claims["role"].(string); got != role {
			http.Error(w, "insufficient privilege", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (f *FakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	u, ok := f.users[req.Username]
	f.mu.Unlock()
	if !ok || u.password != req.Password {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": signToken(u.id, req.Username, u.role)})
}

func (f *FakeAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[req.Username]; exists {
		http.Error(w, "username already taken", http.StatusConflict)
		return
	}
	f.nextID++
	f.users[req.Username] = fakeUser{id: f.nextID, password: req.Password, role: "USER"}
	w.WriteHeader(http.StatusCreated)
}

func (f *FakeAPI) handleListBooks(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	out := make([]Book, 0, len(f.books))
	for _, b := range f.books {
		out = append(out, b)
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) handleGetBook(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	b, ok := f.books[pathID(r)]
	f.mu.Unlock()
	if !ok {
		http.Error(w, "book not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (f *FakeAPI) handleSearchBooks(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("query"))

	f.mu.Lock()
	out := make([]Book, 0)
	for _, b := range f.books {
		if query == "" || strings.Contains(strings.ToLower(b.Title), query) {
			out = append(out, b)
		}
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) handleFilterBooks(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	f.mu.Lock()
	out := make([]Book, 0)
	for _, b := range f.books {
		if category == "" || b.Category == category {
			out = append(out, b)
		}
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) bookFromForm(r *http.Request) (Book, error) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		return Book{}, err
	}
	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	available, _ := strconv.Atoi(r.FormValue("availableCount"))
	return Book{
		Title:          r.FormValue("title"),
		Author:         r.FormValue("author"),
		Category:       r.FormValue("category"),
		Price:          price,
		AvailableCount: available,
		Description:    r.FormValue("description"),
	}, nil
}

func (f *FakeAPI) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	book, err := f.bookFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if book.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.nextID++
	book.ID = f.nextID
	f.books[book.ID] = book
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, book)
}

func (f *FakeAPI) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	book, err := f.bookFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	if _, ok := f.books[id]; !ok {
		f.mu.Unlock()
		http.Error(w, "book not found", http.StatusNotFound)
		return
	}
	book.ID = id
	f.books[id] = book
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, book)
}

func (f *FakeAPI) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	delete(f.books, pathID(r))
	f.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) handleListLoans(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	out := make([]Loan, 0, len(f.loans))
	for _, l := range f.loans {
		out = append(out, l)
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) handleLoan(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fees > 0 {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "Outstanding fees")
		return
	}
	book, ok := f.books[id]
	if !ok {
		http.Error(w, "book not found", http.StatusNotFound)
		return
	}
	if book.AvailableCount <= 0 {
		http.Error(w, "no copies available", http.StatusConflict)
		return
	}
	if _, exists := f.loans[id]; exists {
		http.Error(w, "already loaned", http.StatusConflict)
		return
	}

	book.AvailableCount--
	f.books[id] = book
	f.nextID++
	loan := Loan{
		ID:       f.nextID,
		UserID:   1,
		BookID:   id,
		LoanDate: time.Now(),
		DueDate:  time.Now().AddDate(0, 0, 14),
	}
	f.loans[id] = loan
	writeJSON(w, http.StatusCreated, loan)
}

func (f *FakeAPI) handleReturn(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.loans[id]; !ok {
		http.Error(w, "no active loan", http.StatusNotFound)
		return
	}
	delete(f.loans, id)
	if book, ok := f.books[id]; ok {
		book.AvailableCount++
		f.books[id] = book
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) handleListFavorites(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	out := make([]int64, 0, len(f.favorites))
	for id := range f.favorites {
		out = append(out, id)
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.favorites[pathID(r)] = struct{}{}
	f.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
}

func (f *FakeAPI) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	delete(f.favorites, pathID(r))
	f.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) handleListReviews(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	f.mu.Lock()
	out := append([]Review(nil), f.reviews[id]...)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) handleAddReview(w http.ResponseWriter, r *http.Request) {
	var rv Review
	if err := json.NewDecoder(r.Body).Decode(&rv); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if rv.Rating < 1 || rv.Rating > 5 || strings.TrimSpace(rv.Description) == "" {
		http.Error(w, "invalid review", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.nextID++
	rv.ID = f.nextID
	f.reviews[rv.BookID] = append(f.reviews[rv.BookID], rv)
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, rv)
}

func (f *FakeAPI) handleFees(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	amount := f.fees
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]float64{"amount": amount})
}

func (f *FakeAPI) handlePay(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	f.fees = 0
	f.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}
