package library_test

import (
	"errors"
	"strconv"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func statusOf(err error) int {
	var ce *errs.CustomError
	if errors.As(err, &ce) {
		return ce.Status
	}
	return 0
}
