package utils

import (
	"errors"
	"io"
)

var ErrFileTooLarge = errors.New("file too large")

// ReadAllLimit reads r fully, failing once more than limit bytes show up.
func ReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	lr := io.LimitReader(r, limit+1)
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, ErrFileTooLarge
	}
	return b, nil
}
