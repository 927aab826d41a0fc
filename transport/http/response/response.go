package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"salon/shared/constant"
	"salon/shared/failure"
	"salon/shared/logger"
	"strconv"
)

// RetryAfterSeconds is advertised on retryable failures.
const RetryAfterSeconds = 1

const internalErrorMessage = "internal server error"

// Data wraps successful payloads.
type Data[T any] struct {
	Data T `json:"data"`
}

// Error is the body of every failed request. Kind is set for domain failures only.
type Error struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type Message struct {
	Message string `json:"message"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: message})
}

// WithJSON wraps payload in a data envelope.
func WithJSON[T any](writer http.ResponseWriter, code int, payload T) {
	write(writer, code, Data[T]{Data: payload})
}

// WithError answers with the code and message of a failure.Failure. Anything else becomes
// a bare 500 and its text stays in the logs.
func WithError(writer http.ResponseWriter, err error) {
	var fail *failure.Failure
	if !errors.As(err, &fail) {
		logger.ErrorWithStack(err)
		write(writer, http.StatusInternalServerError, Error{Error: internalErrorMessage})

		return
	}

	if fail.Retryable() {
		writer.Header().Set(constant.RequestHeaderRetryAfter, strconv.Itoa(RetryAfterSeconds))
	}

	body := Error{Error: err.Error()}
	if fail.Kind != failure.KindUnknown {
		body.Kind = string(fail.Kind)
	}

	write(writer, fail.Code, body)
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
