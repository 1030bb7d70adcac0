package router

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/otpbot/internal/pkg/goerror"
)

// maxBodyBytes caps decoded request bodies; Telegram updates are far smaller.
const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("unexpected data after json value")

// Request is the view of an http.Request handed to a Handler.
type Request struct {
	*http.Request
}

// DecodeBody reads exactly one JSON value into dst. Unknown fields are
// accepted because Bot API payloads gain fields over time.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return goerror.NewInvalidFormat()
	}

	if err := decodeJSON(io.LimitReader(r.Body, maxBodyBytes), dst); err != nil {
		slog.DebugContext(r.Context(), "request body rejected", "error", err)
		return goerror.NewInvalidFormat()
	}

	return nil
}

func decodeJSON(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}
