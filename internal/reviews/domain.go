// internal/reviews/domain.go
package reviews

import (
	"strings"

	"github.com/alestoica/online-bookshelf/internal/errs"
)

// Review is one user's review of a book. Multiple reviews per user per
// book are allowed; the server assigns the identifier.
type Review struct {
	ID          int64  `json:"reviewId,omitempty"`
	BookID      int64  `json:"bookId"`
	UserID      int64  `json:"userId"`
	Username    string `json:"username"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// Validate enforces the submission preconditions: a rating in [1,5] and
// a description that is non-blank after trimming. A violation fails
// fast without a network call.
func (r Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return &errs.ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	if strings.TrimSpace(r.Description) == "" {
		return &errs.ValidationError{Field: "description", Reason: "must not be blank"}
	}
	return nil
}
