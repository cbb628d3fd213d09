// AngelaMos | 2026
// request.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

// DecodeJSON reads a single JSON document from r into dst and validates
// it. The returned error is already an *AppError.
func DecodeJSON(r *http.Request, v *validator.Validate, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return BadRequestError("request body is empty")
		}
		return BadRequestError("invalid request body")
	}

	if v != nil {
		if err := v.Struct(dst); err != nil {
			return ValidationError(FormatValidationError(err))
		}
	}

	return nil
}

// URLParamID parses a positive int64 chi URL parameter.
func URLParamID(r *http.Request, name string) (int64, error) {
	return parseID(chi.URLParam(r, name), name)
}

// QueryID parses a positive int64 query parameter.
func QueryID(r *http.Request, name string) (int64, error) {
	return parseID(r.URL.Query().Get(name), name)
}

func QueryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

func parseID(raw, name string) (int64, error) {
	if raw == "" {
		return 0, BadRequestError(fmt.Sprintf("%s is required", name))
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, BadRequestError(fmt.Sprintf("%s must be a positive integer", name))
	}

	return id, nil
}
