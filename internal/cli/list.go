package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/listing"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
)

type pageFlags struct {
	search string
	page   int
}

func (f *pageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "filter by title, author or genre")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "page to show")
}

func (d *AppDeps) listOptions(ctx context.Context) []listing.Option {
	opts := []listing.Option{
		listing.WithDebounce(d.Config.Debounce),
		listing.WithContext(ctx),
	}
	if d.AfterFunc != nil {
		opts = append(opts, listing.WithAfterFunc(d.AfterFunc))
	}
	return opts
}

// load brings c to the page described by f and returns its settled state.
func load[T any](c *listing.Controller[T], f pageFlags) (listing.State[T], error) {
	if f.search != "" {
		c.SetQuery(f.search)
		c.Flush()
	} else {
		c.Reload()
	}
	c.Wait()

	if st := c.State(); f.page > 1 && st.Status == listing.Ready {
		if !c.SetPage(f.page) {
			return st, errs.NewError(errs.ErrInvalidRequest).
				WithMessage(fmt.Sprintf("Page %d is out of range (1-%d).", f.page, max(st.PageCount, 1)))
		}
		c.Wait()
	}

	st := c.State()
	if st.Status == listing.Error {
		return st, errors.New(st.ErrorMessage)
	}
	return st, nil
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewError(errs.ErrInvalidRequest).WithMessage(fmt.Sprintf("Invalid %s ID %q.", what, arg))
	}
	return id, nil
}
