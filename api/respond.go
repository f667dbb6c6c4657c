package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONWithStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONWithStatus(w http.ResponseWriter, statusCode int, data any) {
	// Marshal the data first so a failure can still become a 500
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.writeInternalError(w)
		return
	}

	// Internal failures are logged with their full chain but never described to the caller
	if apiErr.StatusCode == http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Msg("internal error")
		r.writeInternalError(w)
		return
	}

	response := ErrorResponse{
		Success: false,
		Error:   apiErr.Message(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Warn().Str("error", apiErr.GetFullError()).Int("status", apiErr.StatusCode).Msg("upstream error")
	}

	r.WriteJSONWithStatus(w, apiErr.StatusCode, response)
}

func (r Responder) writeInternalError(w http.ResponseWriter) {
	r.WriteJSONWithStatus(w, http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Error:   "Internal Server Error",
		Status:  "error",
	})
}

// WriteValidationError writes a 400 naming the offending field
func (r Responder) WriteValidationError(w http.ResponseWriter, field string, err error) {
	r.WriteError(w, errs.NewInvalidFieldError(field, err.Error()))
}

const maxRequestBodyBytes = 1 << 20

// decodeJSON reads the request body into dst, rejecting bodies that are not valid JSON
// or larger than maxRequestBodyBytes
func decodeJSON(w http.ResponseWriter, req *http.Request, dst any) error {
	if req.Body == nil {
		return errs.NewInvalidJSONError(errors.New("empty body"))
	}
	body := http.MaxBytesReader(w, req.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.NewBodyTooLargeError(tooLarge.Limit)
		}
		if errors.Is(err, errTechnologiesShape) {
			return errs.NewInvalidFieldError("technologies", err.Error())
		}
		return errs.NewInvalidJSONError(err)
	}
	return nil
}
