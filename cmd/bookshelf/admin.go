// cmd/bookshelf/admin.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alestoica/online-bookshelf/internal/app"
	"github.com/alestoica/online-bookshelf/internal/catalog"
)

type bookFlags struct {
	title       string
	author      string
	category    string
	price       float64
	count       int
	description string
	imagePath   string
}

func (f *bookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "book title")
	cmd.Flags().StringVar(&f.author, "author", "", "book author")
	cmd.Flags().StringVar(&f.category, "category", "", "book category")
	cmd.Flags().Float64Var(&f.price, "price", 0, "bookstore price")
	cmd.Flags().IntVar(&f.count, "count", 0, "available copies")
	cmd.Flags().StringVar(&f.description, "description", "", "book description")
	cmd.Flags().StringVar(&f.imagePath, "image", "", "path to a cover image")
}

func (f *bookFlags) form() (catalog.BookForm, error) {
	form := catalog.BookForm{
		Title:          f.title,
		Author:         f.author,
		Category:       f.category,
		Price:          f.price,
		AvailableCount: f.count,
		Description:    f.description,
	}
	if f.imagePath != "" {
		content, err := os.ReadFile(f.imagePath)
		if err != nil {
			return catalog.BookForm{}, fmt.Errorf("failed to read cover image: %w", err)
		}
		form.Image = &catalog.ImageUpload{
			Filename: filepath.Base(f.imagePath),
			Content:  content,
		}
	}
	return form, nil
}

func newAdminCmd(a **app.App) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage the catalog (admin session required)",
	}

	var addFlags bookFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := addFlags.form()
			if err != nil {
				return err
			}
			book, err := (*a).Catalog.Create(cmd.Context(), form)
			if err != nil {
				return describe(err)
			}
			fmt.Printf("Created book %d: %s\n", book.ID, book.Title)
			return nil
		},
	}
	addFlags.register(add)

	var updateFlags bookFlags
	update := &cobra.Command{
		Use:   "update <bookId>",
		Short: "Update a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			form, err := updateFlags.form()
			if err != nil {
				return err
			}
			book, err := (*a).Catalog.Update(cmd.Context(), id, form)
			if err != nil {
				return describe(err)
			}
			fmt.Printf("Updated book %d: %s\n", book.ID, book.Title)
			return nil
		},
	}
	updateFlags.register(update)

	del := &cobra.Command{
		Use:   "delete <bookId>",
		Short: "Remove a book from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := (*a).Catalog.Delete(cmd.Context(), id); err != nil {
				return describe(err)
			}
			fmt.Println("Book deleted")
			return nil
		},
	}

	admin.AddCommand(add, update, del)
	return admin
}
