//go:build !(cgo && rustcore)

package rustcore

import "github.com/mrz1836/corecall/internal/ffi"

// Available reports whether the native core is linked in.
const Available = false

// New always fails: this binary carries no native core.
func New() (ffi.Native, error) {
	return nil, ErrUnavailable
}
