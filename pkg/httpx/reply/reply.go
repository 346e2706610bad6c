package reply

import (
	"context"
	"log/slog"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"gp_planner/pkg/contextx"
	"gp_planner/pkg/errcodes"
	"gp_planner/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

// Error maps a failure error to its HTTP status.
func Error(ctx context.Context, w http.ResponseWriter, err error) {
	statusCode, defaultCode := classify(err)

	code := failure.Code(err)
	if code == "" {
		code = defaultCode
	}

	if statusCode >= http.StatusInternalServerError {
		logger(ctx).Error("error", logx.Error(err))
	} else {
		logger(ctx).Warn("request rejected", logx.Error(err))
	}

	JSON(ctx, w, statusCode, errorResponse{
		Code:      code.String(),
		Message:   failure.Description(err),
		SupportID: supportID(ctx),
	})
}

// Coded writes an error response with an explicit status for errors that carry
// a code but no failure kind.
func Coded(ctx context.Context, w http.ResponseWriter, statusCode int, code failure.ErrorCode, message string) {
	if statusCode >= http.StatusInternalServerError {
		logger(ctx).Error("error", slog.String("code", code.String()), slog.String("message", message))
	} else {
		logger(ctx).Warn("request rejected", slog.String("code", code.String()), slog.String("message", message))
	}

	JSON(ctx, w, statusCode, errorResponse{
		Code:      code.String(),
		Message:   message,
		SupportID: supportID(ctx),
	})
}

func classify(err error) (int, failure.ErrorCode) {
	switch {
	case failure.IsInvalidArgumentError(err):
		return http.StatusBadRequest, errcodes.ValidationError
	case failure.IsNotFoundError(err):
		return http.StatusNotFound, errcodes.NotFound
	case failure.IsUnauthorizedError(err):
		return http.StatusUnauthorized, ""
	case failure.IsForbiddenError(err):
		return http.StatusForbidden, errcodes.Forbidden
	case failure.IsConflictError(err):
		return http.StatusConflict, ""
	case failure.IsUnprocessableEntityError(err):
		return http.StatusUnprocessableEntity, ""
	default:
		return http.StatusInternalServerError, errcodes.InternalServerError
	}
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
