package domain

import (
	"errors"
	"fmt"

	"github.com/theopenlane/secdash/internal/checkerr"
)

var (
	// ErrEmptyInput is returned when no hostname or URL was supplied
	ErrEmptyInput = fmt.Errorf("%w: target is required", checkerr.ErrValidation)
	// ErrInputTooLong is returned when the input exceeds the accepted length
	ErrInputTooLong = fmt.Errorf("%w: target is too long", checkerr.ErrValidation)
	// ErrInvalidURLFormat is returned when the URL format is not valid
	ErrInvalidURLFormat = fmt.Errorf("%w: invalid URL format", checkerr.ErrValidation)
	// ErrUnsupportedScheme is returned when a URL scheme is not http or https
	ErrUnsupportedScheme = fmt.Errorf("%w: URL scheme must be http or https", checkerr.ErrValidation)
	// ErrInvalidDomainFormat is returned when the domain format is not valid
	ErrInvalidDomainFormat = fmt.Errorf("%w: invalid domain format", checkerr.ErrValidation)
)

// errHostnameHasURLParts is wrapped when a hostname carries a scheme, path or port
var errHostnameHasURLParts = errors.New("expected a bare hostname without scheme, port or path")
