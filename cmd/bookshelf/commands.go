// cmd/bookshelf/commands.go
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alestoica/online-bookshelf/internal/app"
	"github.com/alestoica/online-bookshelf/internal/catalog"
	"github.com/alestoica/online-bookshelf/internal/reviews"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid book id %q", arg)
	}
	return id, nil
}

func printBooks(books []catalog.Book) {
	for _, b := range books {
		fmt.Printf("%6d  %-35s %-20s %-12s $%.2f  (%d available)\n",
			b.ID, b.Title, b.Author, b.Category, b.Price, b.AvailableCount)
	}
}

func newLoginCmd(a **app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Start a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			sess, err := (*a).Session.Login(cmd.Context(), args[0], password)
			if err != nil {
				return describe(err)
			}
			fmt.Printf("Logged in as %s\n", sess.User.Username)
			return nil
		},
	}
}

func newRegisterCmd(a **app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword("Choose a password: ")
			if err != nil {
				return err
			}
			if err := (*a).Session.Register(cmd.Context(), args[0], args[1], password); err != nil {
				return describe(err)
			}
			fmt.Println("Account created, you can log in now")
			return nil
		},
	}
}

func newLogoutCmd(a **app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			(*a).Logout()
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newBooksCmd(a **app.App) *cobra.Command {
	books := &cobra.Command{
		Use:   "books",
		Short: "Browse the catalog",
	}

	books.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, err := (*a).Catalog.LoadAll(cmd.Context())
			if err != nil {
				return describe(err)
			}
			printBooks(all)
			return nil
		},
	})

	books.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one book with its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			book, err := (*a).Catalog.LoadByID(cmd.Context(), id)
			if err != nil {
				return describe(err)
			}
			fmt.Printf("%s — %s\nCategory: %s\nPrice: $%.2f\nAvailable: %d\n\n%s\n",
				book.Title, book.Author, book.Category, book.Price, book.AvailableCount, book.Description)

			if _, err := (*a).Reviews.LoadByBookID(cmd.Context(), id); err == nil {
				fmt.Printf("\nGeneral rating: %.1f/5 (%d reviews)\n",
					(*a).Reviews.AverageRating(), len((*a).Reviews.Reviews()))
			}
			return nil
		},
	})

	books.AddCommand(&cobra.Command{
		Use:   "search <query>",
		Short: "Search books by title",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			found, err := (*a).Catalog.SearchByTitle(cmd.Context(), query)
			if err != nil {
				return describe(err)
			}
			printBooks(found)
			return nil
		},
	})

	books.AddCommand(&cobra.Command{
		Use:   "filter <category>",
		Short: "Filter books by category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := ""
			if len(args) > 0 {
				category = args[0]
			}
			found, err := (*a).Catalog.FilterByCategory(cmd.Context(), category)
			if err != nil {
				return describe(err)
			}
			printBooks(found)
			return nil
		},
	})

	return books
}

func newLoanCmd(a **app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "loan <bookId>",
		Short: "Loan a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := (*a).Loans.LoanBook(cmd.Context(), id); err != nil {
				return describe(err)
			}
			fmt.Println("Enjoy your book!")
			return nil
		},
	}
}

func newReturnCmd(a **app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "return <bookId>",
		Short: "Return a loaned book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := (*a).Loans.ReturnBook(cmd.Context(), id); err != nil {
				return describe(err)
			}
			fmt.Println("Book returned")
			return nil
		},
	}
}

func newLoansCmd(a **app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "loans",
		Short: "List your current loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loans, err := (*a).Loans.LoadCurrent(cmd.Context())
			if err != nil {
				return describe(err)
			}
			now := time.Now()
			for _, l := range loans {
				status := fmt.Sprintf("%d day(s) left", l.DaysLeft(now))
				if l.Overdue(now) {
					status = "OVERDUE"
				}
				fmt.Printf("%6d  due %s  %s\n", l.BookID, l.DueDate.Format("2006-01-02"), status)
			}
			if (*a).Loans.HasOverdue() {
				fmt.Println("\nReturn your overdue book(s) to loan more")
			}
			return nil
		},
	}
}

func newFavoritesCmd(a **app.App) *cobra.Command {
	favorites := &cobra.Command{
		Use:   "favorites",
		Short: "Manage your favorite books",
	}

	favorites.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorited book ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := (*a).Favorites.BookIDs(cmd.Context())
			if err != nil {
				return describe(err)
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	})

	favorites.AddCommand(&cobra.Command{
		Use:   "add <bookId>",
		Short: "Favorite a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return describe((*a).Favorites.Add(cmd.Context(), id))
		},
	})

	favorites.AddCommand(&cobra.Command{
		Use:   "remove <bookId>",
		Short: "Unfavorite a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return describe((*a).Favorites.Remove(cmd.Context(), id))
		},
	})

	return favorites
}

func newReviewsCmd(a **app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read and write reviews",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <bookId>",
		Short: "List a book's reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			all, err := (*a).Reviews.LoadByBookID(cmd.Context(), id)
			if err != nil {
				return describe(err)
			}
			for _, r := range all {
				fmt.Printf("%s  %d/5  %s — %s\n", r.Date, r.Rating, r.Username, r.Description)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <bookId> <rating> <description...>",
		Short: "Review a book",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating %q", args[1])
			}
			user, ok := (*a).Session.Current()
			if !ok {
				return fmt.Errorf("please log in first")
			}

			review := reviews.Review{
				BookID:      id,
				UserID:      user.ID,
				Username:    user.Username,
				Rating:      rating,
				Description: strings.Join(args[2:], " "),
				Date:        time.Now().Format("2006-01-02"),
			}
			if err := (*a).Reviews.Add(cmd.Context(), review); err != nil {
				return describe(err)
			}

			// Reload for the authoritative collection.
			if _, err := (*a).Reviews.LoadByBookID(cmd.Context(), id); err != nil {
				return describe(err)
			}
			fmt.Println("Review submitted")
			return nil
		},
	})

	return cmd
}

func newFeesCmd(a **app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Show your outstanding fees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			balance, err := (*a).Fees.Load(cmd.Context())
			if err != nil {
				return describe(err)
			}
			if balance == 0 {
				fmt.Println("No outstanding fees")
			} else {
				fmt.Printf("Outstanding fees: $%.2f\n", balance)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "pay",
		Short: "Pay your outstanding fees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := (*a).Fees.Load(cmd.Context()); err != nil {
				return describe(err)
			}
			if err := (*a).Fees.Pay(cmd.Context()); err != nil {
				return describe(err)
			}
			fmt.Println("Fees settled")
			return nil
		},
	})

	return cmd
}
