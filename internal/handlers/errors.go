package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"tasksApp/internal/apiresponse"
	"tasksApp/internal/logger"
	"tasksApp/internal/middleware"
	repo "tasksApp/internal/repository"
	"tasksApp/internal/service"
	"tasksApp/internal/validation"

	"go.uber.org/zap"
)

const (
	msgException        = "An exception occurred"
	msgValidationFailed = "Validation failed. Invalid field(s) in the request body"
	msgInvalidBody      = "Invalid request body"
	reasonStorage       = "An error occurred while processing your request"
)

type RequestErrorKind int

const (
	KindMalformedBody RequestErrorKind = iota
	KindTypeMismatch
	KindUnsupportedMediaType
	KindRouteNotFound
	KindMethodNotAllowed
	KindUnavailable
	KindRateLimited
)

// RequestError is a failure detected at the HTTP boundary before any service call.
type RequestError struct {
	Kind   RequestErrorKind
	Reason string
	Err    error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) status() int {
	switch e.Kind {
	case KindUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case KindRouteNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}

func typeMismatch(value, typeName string, err error) *RequestError {
	return &RequestError{
		Kind:   KindTypeMismatch,
		Reason: fmt.Sprintf("Failed to convert value '%s' to required type '%s'", value, typeName),
		Err:    err,
	}
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeAlreadyExists:
		return http.StatusConflict
	case service.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

// WriteError is the only place where an error becomes an HTTP response.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var rateErr *middleware.RateLimitError
	if errors.As(err, &rateErr) {
		err = &RequestError{Kind: KindRateLimited, Reason: rateErr.Error(), Err: err}
	}

	resp := toResponse(err).WithPath(r.URL.Path)

	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Int("http_status", resp.StatusCode),
	}
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) && len(businessErr.Details) > 0 {
		fields = append(fields, zap.String("error_code", businessErr.Code), zap.Any("details", businessErr.Details))
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		logger.Error("HTTP: request failed", err, fields...)
	} else {
		logger.Warn("HTTP: request rejected", append(fields, zap.Error(err))...)
	}

	apiresponse.Write(w, resp)
}

func toResponse(err error) apiresponse.ApiResponse {
	var (
		validationErrs validation.Errors
		requestErr     *RequestError
		businessErr    *service.BusinessError
		storageErr     *repo.StorageError
	)

	switch {
	case errors.As(err, &validationErrs):
		return apiresponse.New(http.StatusBadRequest, msgValidationFailed).
			WithValidationErrors(validationErrs.Messages())

	case errors.As(err, &requestErr):
		if requestErr.Kind == KindMalformedBody {
			return apiresponse.New(http.StatusBadRequest, msgInvalidBody).WithReason(requestErr.Error())
		}
		return apiresponse.New(requestErr.status(), msgException).WithReason(requestErr.Reason)

	case errors.As(err, &businessErr):
		return apiresponse.New(mapBusinessErrorToHTTP(businessErr.Code), msgException).
			WithReason(businessErr.Message)

	case errors.Is(err, repo.ErrNotFound):
		return apiresponse.New(http.StatusBadRequest, msgException).WithReason(err.Error())

	case errors.As(err, &storageErr):
		return apiresponse.New(http.StatusInternalServerError, msgException).WithReason(reasonStorage)

	default:
		return apiresponse.New(http.StatusInternalServerError, msgException).WithReason(err.Error())
	}
}
