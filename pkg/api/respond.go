package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"storefront/pkg/service"
)

var validate = newValidator()

// newValidator builds the request validator, reporting fields by their
// JSON names so error messages match what the client actually sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrorResponse is the JSON error body returned to clients.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Status: status, Message: message})
}

// respondServiceError maps domain error kinds to HTTP status codes.
// NotFound becomes 404; anything else is a persistence-layer failure and
// becomes 500 (cache errors never reach this point).
func respondServiceError(w http.ResponseWriter, err error) {
	if service.IsNotFound(err) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// decodeAndValidate decodes a JSON request body and runs field validation.
// Returned errors carry client-safe messages only; decoder and validator
// internals never reach the response body.
func decodeAndValidate(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return errors.New("malformed request body")
	}
	if err := validate.Struct(target); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			return errors.New(validationMessage(fieldErrors))
		}
		return errors.New("invalid request body")
	}
	return nil
}

// validationMessage renders field validation failures as per-field
// messages, one per failed field.
func validationMessage(fieldErrors validator.ValidationErrors) string {
	messages := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		field := fieldError.Field()
		switch fieldError.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "min":
			messages = append(messages, field+" must be at least "+fieldError.Param()+" characters")
		case "max":
			messages = append(messages, field+" must be at most "+fieldError.Param()+" characters")
		case "gt":
			messages = append(messages, field+" must be greater than "+fieldError.Param())
		default:
			messages = append(messages, field+" is invalid")
		}
	}
	return strings.Join(messages, "; ")
}

// idParam parses the {id}-style URL parameter named by key.
func idParam(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}

// pageParams parses optional page/size query parameters with defaults.
func pageParams(r *http.Request) (page, size int) {
	page, size = 1, 20
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			size = n
		}
	}
	return page, size
}
