package services

import "errors"

var (
	// ErrFontUnavailable is handled inside Render by switching to the
	// built-in face; callers never see it.
	ErrFontUnavailable = errors.New("font unavailable")
	ErrImageRead       = errors.New("image read failed")
	ErrImageWrite      = errors.New("image write failed")
)
