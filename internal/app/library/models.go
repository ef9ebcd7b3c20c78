/*
Package library contains the records exchanged with the university library backend
and typed bindings for its REST endpoints.
*/
package library

import (
	"fmt"
	"strings"
	"time"
)

// Role is the authorization role of a library user.
type Role string

const (
	RoleStudent   Role = "student"
	RoleLibrarian Role = "librarian"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleLibrarian
}

// User is the summary of an authenticated user as returned by /me/.
// It is immutable for the lifetime of a session.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// FullName returns "First Last", or the username when both are empty.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Book is shared by the student catalogue and the librarian inventory.
type Book struct {
	ID                 int64  `json:"id"`
	Title              string `json:"title"`
	Author             string `json:"author"`
	PublishedYear      int    `json:"published_year"`
	Genre              string `json:"genre"`
	Stock              int    `json:"stock"`
	Available          int    `json:"available"`
	CheckedOutCount    int    `json:"checked_out_count"`
	IsCheckedOutByUser bool   `json:"is_checked_out_by_user"`
}

// CanCheckout reports whether the current user may check the book out.
func (b Book) CanCheckout() bool {
	return b.Available > 0 && !b.IsCheckedOutByUser
}

// Checkout is an active loan. Student is only populated in the librarian listing.
type Checkout struct {
	ID           int64     `json:"id"`
	Student      *User     `json:"student,omitempty"`
	Book         Book      `json:"book"`
	CheckoutDate Timestamp `json:"checkout_date"`
}

// Timestamp decodes the backend's ISO 8601 datetimes, with or without a zone offset.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewBook is the payload of POST /books/.
type NewBook struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedYear int    `json:"published_year"`
	Genre         string `json:"genre"`
	Stock         int    `json:"stock"`
}

// Validate checks the fields the form requires before anything is sent.
func (b NewBook) Validate() error {
	switch {
	case strings.TrimSpace(b.Title) == "":
		return fmt.Errorf("title is required")
	case strings.TrimSpace(b.Author) == "":
		return fmt.Errorf("author is required")
	case strings.TrimSpace(b.Genre) == "":
		return fmt.Errorf("genre is required")
	case b.PublishedYear <= 0:
		return fmt.Errorf("published year must be positive")
	case b.Stock < 0:
		return fmt.Errorf("stock cannot be negative")
	}
	return nil
}

// NewUser is the payload of POST /users/.
type NewUser struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      Role   `json:"role"`
}

// Validate checks the fields the form requires before anything is sent.
// An empty role defaults to student.
func (u *NewUser) Validate() error {
	if u.Role == "" {
		u.Role = RoleStudent
	}
	switch {
	case strings.TrimSpace(u.Username) == "":
		return fmt.Errorf("username is required")
	case strings.TrimSpace(u.FirstName) == "" || strings.TrimSpace(u.LastName) == "":
		return fmt.Errorf("first and last name are required")
	case !strings.Contains(u.Email, "@"):
		return fmt.Errorf("a valid email is required")
	case u.Password == "":
		return fmt.Errorf("password is required")
	case !u.Role.Valid():
		return fmt.Errorf("role must be %q or %q", RoleStudent, RoleLibrarian)
	}
	return nil
}
