// internal/catalog/domain.go
package catalog

import (
	"fmt"
	"strconv"

	"github.com/alestoica/online-bookshelf/internal/gateway"
)

// Book is one catalog entry as the API reports it.
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

// ImageUpload is an optional cover image attached to a book write.
type ImageUpload struct {
	Filename string
	Content  []byte
}

// BookForm is the admin create/update payload. It is serialized as a
// multipart form because of the image part.
type BookForm struct {
	Title          string
	Author         string
	Category       string
	Price          float64
	AvailableCount int
	Description    string
	Image          *ImageUpload
}

func (f BookForm) encode() *gateway.Form {
	form := gateway.NewForm()
	form.Set("title", f.Title)
	form.Set("author", f.Author)
	form.Set("category", f.Category)
	form.Set("price", fmt.Sprintf("%.2f", f.Price))
	form.Set("availableCount", strconv.Itoa(f.AvailableCount))
	form.Set("description", f.Description)
	if f.Image != nil {
		form.SetFile("image", f.Image.Filename, f.Image.Content)
	}
	return form
}
