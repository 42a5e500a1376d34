// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alestoica/online-bookshelf/internal/errs"
	"github.com/alestoica/online-bookshelf/internal/gateway"
)

// service implements the Service interface.
//
// The in-memory collection lives only for the session; LoadAll replaces
// it wholesale. Mutations on a single book are serialized by the caller
// (the UI disables the triggering control while a request is in
// flight), but independent loads may run concurrently, so reads and
// state replacement go through the lock.
type service struct {
	api    *gateway.Client
	logger zerolog.Logger

	mu    sync.RWMutex
	books []Book
	index map[int64]int
}

// NewService creates a new catalog store instance.
func NewService(api *gateway.Client, logger zerolog.Logger) Service {
	return &service{
		api:    api,
		logger: logger,
		index:  map[int64]int{},
	}
}

// LoadAll fetches the whole catalog and replaces the local collection.
func (s *service) LoadAll(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := s.api.JSON(ctx, http.MethodGet, "/api/books", nil, false, &books); err != nil {
		return nil, errs.From("books", err)
	}

	s.replace(books)
	return s.Books(), nil
}

// LoadByID fetches a single book. An empty payload counts as absent.
func (s *service) LoadByID(ctx context.Context, id int64) (Book, error) {
	var book Book
	err := s.api.JSON(ctx, http.MethodGet, fmt.Sprintf("/api/books/%d", id), nil, false, &book)
	if err != nil {
		mapped := errs.From("book", err)
		if errs.IsNotFound(mapped) {
			return Book{}, &errs.NotFoundError{Resource: "book", ID: id}
		}
		return Book{}, mapped
	}
	if book.ID == 0 {
		return Book{}, &errs.NotFoundError{Resource: "book", ID: id}
	}

	s.upsert(book)
	return book, nil
}

// SearchByTitle is a read projection; an empty query returns the
// unfiltered set, which is the server's policy reproduced here.
func (s *service) SearchByTitle(ctx context.Context, query string) ([]Book, error) {
	var books []Book
	path := "/api/books/search/title?query=" + url.QueryEscape(query)
	if err := s.api.JSON(ctx, http.MethodGet, path, nil, false, &books); err != nil {
		return nil, errs.From("books", err)
	}
	return books, nil
}

// FilterByCategory is a read projection; an empty category returns the
// unfiltered set.
func (s *service) FilterByCategory(ctx context.Context, category string) ([]Book, error) {
	var books []Book
	path := "/api/books/filter/category?category=" + url.QueryEscape(category)
	if err := s.api.JSON(ctx, http.MethodGet, path, nil, false, &books); err != nil {
		return nil, errs.From("books", err)
	}
	return books, nil
}

// Create adds a book to the server catalog, then reapplies the returned
// entity locally.
func (s *service) Create(ctx context.Context, form BookForm) (Book, error) {
	var created Book
	if err := s.api.DoMultipart(ctx, http.MethodPost, "/api/books/admin", form.encode(), &created); err != nil {
		return Book{}, errs.From("book", err)
	}

	s.upsert(created)
	s.logger.Info().Int64("book_id", created.ID).Msg("book created")
	return created, nil
}

// Update replaces a book on the server, then reapplies the returned
// entity locally.
func (s *service) Update(ctx context.Context, id int64, form BookForm) (Book, error) {
	var updated Book
	path := fmt.Sprintf("/api/books/admin/%d", id)
	if err := s.api.DoMultipart(ctx, http.MethodPut, path, form.encode(), &updated); err != nil {
		return Book{}, errs.From("book", err)
	}

	s.upsert(updated)
	return updated, nil
}

// Delete removes a book from the server catalog, then from the local
// collection.
func (s *service) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/books/admin/%d", id)
	if err := s.api.JSON(ctx, http.MethodDelete, path, nil, true, nil); err != nil {
		return errs.From("book", err)
	}

	s.remove(id)
	return nil
}

// Books returns a copy of the loaded collection.
func (s *service) Books() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Book, len(s.books))
	copy(out, s.books)
	return out
}

// Get returns a loaded book by id.
func (s *service) Get(id int64) (Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return Book{}, false
	}
	return s.books[i], true
}

// AdjustAvailability applies a confirmed loan or return to the local
// copy. The count never goes negative; the catalog owns this field and
// no other store writes it.
func (s *service) AdjustAvailability(id int64, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return
	}
	next := s.books[i].AvailableCount + delta
	if next < 0 {
		next = 0
	}
	s.books[i].AvailableCount = next
}

func (s *service) replace(books []Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = books
	s.index = make(map[int64]int, len(books))
	for i, b := range books {
		s.index[b.ID] = i
	}
}

func (s *service) upsert(book Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[book.ID]; ok {
		s.books[i] = book
		return
	}
	s.books = append(s.books, book)
	s.index[book.ID] = len(s.books) - 1
}

func (s *service) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return
	}
	s.books = append(s.books[:i], s.books[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.books); j++ {
		s.index[s.books[j].ID] = j
	}
}
