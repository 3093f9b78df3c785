package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/theopenlane/secdash/internal/checkerr"
)

// check describes one checker behind the dispatcher: which request field it reads,
// how that field is validated, and how the validated target is checked
type check[T any] struct {
	name     string
	input    func(CheckRequest) string
	validate func(string) (T, error)
	run      func(context.Context, T) (any, error)
}

// dispatch decodes the request, validates the target and runs exactly one checker.
// Invalid input is answered without invoking the checker.
func dispatch[T any](h *Handler, w http.ResponseWriter, r *http.Request, c check[T]) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req CheckRequest
	if err := decodeJSONBody(r, &req); err != nil {
		h.fail(w, c.name, "", checkerr.New(checkerr.KindValidation, "", fmt.Errorf("%w: %v", ErrInvalidRequestBody, err)))
		return
	}

	raw := c.input(req)

	target, err := c.validate(raw)
	if err != nil {
		h.fail(w, c.name, raw, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.checkTimeout)
	defer cancel()

	result, err := c.run(ctx, target)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && checkerr.KindOf(err) != checkerr.KindNetwork {
			err = &checkerr.Error{Kind: checkerr.KindNetwork, Target: raw, Err: err, Timeout: true}
		}

		h.fail(w, c.name, raw, err)

		return
	}

	writeJSON(w, http.StatusOK, result)
}

// fail logs a failed check and writes the error envelope
func (h *Handler) fail(w http.ResponseWriter, name, target string, err error) {
	kind := checkerr.KindOf(err)

	log.Error().Err(err).
		Str("check", name).
		Str("target", target).
		Str("kind", string(kind)).
		Msg("check failed")

	writeError(w, h.statusFor(err), err.Error())
}

// statusFor maps a failure to its HTTP status. Without detailed errors every
// failure is a 500.
func (h *Handler) statusFor(err error) int {
	if !h.detailedErrors {
		return http.StatusInternalServerError
	}

	switch checkerr.KindOf(err) {
	case checkerr.KindValidation:
		return http.StatusBadRequest
	case checkerr.KindNotFound:
		return http.StatusNotFound
	}

	if checkerr.IsTimeout(err) {
		return http.StatusGatewayTimeout
	}

	return http.StatusBadGateway
}
