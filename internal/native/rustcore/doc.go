// Package rustcore binds the native wallet core library through cgo.
//
// The binding is compiled only with the rustcore build tag and cgo enabled,
// and links against libcore from lib/ next to this package:
//
//	go build -tags rustcore ./cmd/corecall
//
// Without the tag New reports ErrUnavailable and the in-process Go core is
// used instead.
package rustcore

import coreerr "github.com/mrz1836/corecall/pkg/errors"

// ErrUnavailable is returned by New when the binary was built without the
// native core.
var ErrUnavailable = coreerr.WithSuggestion(
	coreerr.WithDetails(coreerr.ErrUnknownCore, map[string]string{"backend": "rustcore"}),
	"rebuild with -tags rustcore and libcore in internal/native/rustcore/lib",
)
