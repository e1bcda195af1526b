//go:build !tinygo && !cgo

package hal

import "errors"

// RunWindow needs ebiten, which needs cgo on this platform; use --headless.
func RunWindow(_ func(HAL) (func() error, error)) error {
	return errors.New("window mode requires cgo; rebuild with CGO_ENABLED=1 or pass --headless")
}
