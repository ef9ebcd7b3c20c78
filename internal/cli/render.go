package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/listing"
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderBooks(w io.Writer, st listing.State[library.Book]) {
	if len(st.Items) == 0 {
		fmt.Fprintln(w, "No books found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tYEAR\tGENRE\tAVAILABLE\tYOURS")
	for _, b := range st.Items {
		mine := ""
		if b.IsCheckedOutByUser {
			mine = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%d\t%s\n", b.ID, b.Title, b.Author, b.PublishedYear, b.Genre, b.Available, mine)
	}
	tw.Flush()
	renderFooter(w, st.Page, st.PageCount)
}

func renderInventory(w io.Writer, st listing.State[library.Book]) {
	if len(st.Items) == 0 {
		fmt.Fprintln(w, "No books found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tYEAR\tGENRE\tSTOCK\tOUT\tAVAILABLE")
	for _, b := range st.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%d\t%d\t%d\n", b.ID, b.Title, b.Author, b.PublishedYear, b.Genre, b.Stock, b.CheckedOutCount, b.Available)
	}
	tw.Flush()
	renderFooter(w, st.Page, st.PageCount)
}

func renderCheckouts(w io.Writer, st listing.State[library.Checkout]) {
	if len(st.Items) == 0 {
		fmt.Fprintln(w, "No checkouts found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tBOOK\tAUTHOR\tSTUDENT\tDATE")
	for _, c := range st.Items {
		student := ""
		if c.Student != nil {
			student = c.Student.FullName()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Book.Title, c.Book.Author, student, c.CheckoutDate.Format(dateLayout))
	}
	tw.Flush()
	renderFooter(w, st.Page, st.PageCount)
}

func renderFooter(w io.Writer, page, count int) {
	if count > 1 {
		fmt.Fprintf(w, "Page %d of %d\n", page, count)
	}
}
