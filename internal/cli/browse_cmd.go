package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/library"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/listing"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/app/views"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
)

const browseHelp = "Type to search. Commands: :n next, :p previous, :g N go to page, :c ID checkout, :r ID return, :q quit"

// browser is one interactive list screen.
type browser interface {
	Flush()
	NextPage() bool
	PrevPage() bool
	SetPage(p int) bool
	SetQuery(raw string)
	Reload()
	Wait()
	Close()
}

func newBrowseCommand(deps *AppDeps) *cobra.Command {
	var screen string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search and page through a list interactively",
		Long:  browseHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := requireSession(deps, "")
			if err != nil {
				return err
			}
			if screen == "" {
				screen = "books"
				if snap.User.Role == library.RoleLibrarian {
					screen = "checkouts"
				}
			}

			b, actions, err := openScreen(cmd.Context(), deps, snap.User.Role, screen)
			if err != nil {
				return err
			}
			defer b.Close()

			return runBrowser(cmd.Context(), cmd.InOrStdin(), deps.console, b, actions)
		},
	}
	cmd.Flags().StringVar(&screen, "screen", "", "books, mine, checkouts or inventory; defaults by role")

	return cmd
}

// screenActions are the mutations a screen offers. Nil entries are unavailable.
type screenActions struct {
	checkout func(ctx context.Context, id int64) error
	ret      func(ctx context.Context, id int64) error
}

func openScreen(ctx context.Context, deps *AppDeps, role library.Role, screen string) (browser, screenActions, error) {
	opts := deps.listOptions(ctx)
	out := deps.console
	librarian := role == library.RoleLibrarian

	switch {
	case screen == "books":
		v := views.NewAvailableBooks(deps.Library, deps.Mutator, opts...)
		subscribeRender(v.Controller, out, renderBooks)
		actions := screenActions{}
		if !librarian {
			actions.checkout = v.Checkout
		}
		return v, actions, nil

	case screen == "mine" && !librarian:
		v := views.NewMyCheckouts(deps.Library, opts...)
		subscribeRender(v.Controller, out, renderCheckouts)
		return v, screenActions{}, nil

	case screen == "checkouts" && librarian:
		v := views.NewActiveCheckouts(deps.Library, deps.Mutator, opts...)
		subscribeRender(v.Controller, out, renderCheckouts)
		return v, screenActions{ret: v.Return}, nil

	case screen == "inventory" && librarian:
		v := views.NewBookInventory(deps.Library, opts...)
		subscribeRender(v.Controller, out, renderInventory)
		return v, screenActions{}, nil

	default:
		return nil, screenActions{}, errs.NewError(errs.ErrForbidden).
			WithMessage(fmt.Sprintf("Screen %q is not available for a %s.", screen, role))
	}
}

// subscribeRender redraws the list whenever a fetch settles or the rows are reconciled.
// Intermediate states while a query is still being typed are not drawn.
func subscribeRender[T any](c *listing.Controller[T], w io.Writer, render func(io.Writer, listing.State[T])) {
	c.Subscribe(func(st listing.State[T]) {
		if st.Status == listing.Loading || st.RawQuery != st.DebouncedQuery {
			return
		}
		if st.Status == listing.Error {
			fmt.Fprintln(w, st.ErrorMessage)
			return
		}
		render(w, st)
	})
}

func runBrowser(ctx context.Context, in io.Reader, out io.Writer, b browser, actions screenActions) error {
	fmt.Fprintln(out, browseHelp)
	b.Reload()
	b.Wait()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, ":") {
			b.SetQuery(strings.TrimSpace(line))
			continue
		}

		b.Flush()
		b.Wait()

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line[1:]), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "q", "quit":
			return nil
		case "n", "next":
			if !b.NextPage() {
				fmt.Fprintln(out, "Already on the last page.")
			}
		case "p", "prev":
			if !b.PrevPage() {
				fmt.Fprintln(out, "Already on the first page.")
			}
		case "g", "goto":
			p, err := strconv.Atoi(arg)
			if err != nil || !b.SetPage(p) {
				fmt.Fprintf(out, "Cannot go to page %q.\n", arg)
			}
		case "c", "checkout":
			runAction(ctx, out, actions.checkout, arg, "book", "checkout")
		case "r", "return":
			runAction(ctx, out, actions.ret, arg, "checkout", "return")
		default:
			fmt.Fprintf(out, "Unknown command %q.\n%s\n", cmd, browseHelp)
		}
		b.Wait()
	}
	if err := sc.Err(); err != nil {
		return err
	}

	// End of input submits whatever was typed last.
	b.Flush()
	b.Wait()
	return nil
}

func runAction(ctx context.Context, out io.Writer, fn func(context.Context, int64) error, arg, what, verb string) {
	if fn == nil {
		fmt.Fprintf(out, "Cannot %s from this screen.\n", verb)
		return
	}
	id, err := parseID(arg, what)
	if err != nil {
		fmt.Fprintln(out, userMessage(err))
		return
	}
	// The outcome is reported as a notification.
	_ = fn(ctx, id)
}
