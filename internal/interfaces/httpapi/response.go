package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-standings/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	msgMissingLeague = "Missing league parameter"
	msgMissingURL    = "Missing URL"
	reasonInternal   = "InternalError"
)

type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Traceback string `json:"traceback,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
}

// writeJSON encodes into a pooled buffer first so the status and Content-Length are only
// committed once encoding has succeeded.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		span.RecordError(err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

// writeBadRequest answers with a bare {"error": message} body.
func writeBadRequest(ctx context.Context, w http.ResponseWriter, message string) {
	writeJSON(ctx, w, http.StatusBadRequest, errorBody{Error: message})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error, exposeTraceback bool) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(err)
	annotateError(ctx, mapped, err)
	body := errorBody{
		Error:   mapped.Reason,
		Message: err.Error(),
	}
	if exposeTraceback {
		body.Traceback = fmt.Sprintf("%+v", err)
	}
	writeJSON(ctx, w, mapped.HTTPStatus, body)
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError, errorBody{
		Error:   reasonInternal,
		Message: "internal server error",
	})
}

func mapError(err error) mappedError {
	reason := usecase.Reason(err)
	switch {
	case crerr.Is(err, usecase.ErrInvalidInput), crerr.Is(err, usecase.ErrUnsupportedLeague):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: reason}
	case crerr.Is(err, usecase.ErrLeagueNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Reason: reason}
	case crerr.Is(err, usecase.ErrScraperBusy):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: reason}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: reason}
	}
}
