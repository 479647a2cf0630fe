package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

var statusCodes = map[errs.ErrorKind]int{
	errs.InvalidArgument:        http.StatusBadRequest,
	errs.InvalidMetadataLength:  http.StatusBadRequest,
	errs.OverflowUint64:         http.StatusBadRequest,
	errs.InsufficientFunds:      http.StatusPaymentRequired,
	errs.AuthorityMismatch:      http.StatusForbidden,
	errs.UnauthorizedSignature:  http.StatusForbidden,
	errs.NotFound:               http.StatusNotFound,
	errs.AlreadyInitialized:     http.StatusConflict,
	errs.SupplyExceeded:         http.StatusConflict,
	errs.Conflict:               http.StatusConflict,
	errs.Unsupported:            http.StatusNotImplemented,
	errs.ExternalServiceFailure: http.StatusBadGateway,
}

// StatusCode returns the HTTP status of a public error code, 400 when the code is unknown.
func StatusCode(code string) int {
	if status, ok := statusCodes[errs.ErrorKind(code)]; ok {
		return status
	}
	return http.StatusBadRequest
}

// Classify returns the response status and public code err will be rendered with.
func Classify(err error) (status int, code string) {
	if e := new(errs.PublicError); errors.As(err, &e) {
		return StatusCode(e.Code()), e.Code()
	}
	if e := new(fiber.Error); errors.As(err, &e) {
		return e.Code, ""
	}
	return http.StatusInternalServerError, ""
}

func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(errs.PublicError); errors.As(err, &e) {
			status := StatusCode(e.Code())
			if status >= http.StatusInternalServerError {
				logger.WarnContext(ctx.UserContext(), "External service failed while handling api request",
					slogx.String("event", "api_external_error"),
					slogx.Error(err),
				)
			}
			body := map[string]any{
				"error": e.Message(),
			}
			if e.Code() != "" {
				body["code"] = e.Code()
			}
			return errors.WithStack(ctx.Status(status).JSON(body))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).SendString(e.Error()))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error", err,
			slogx.String("event", "api_unhandled_error"),
		)

		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(map[string]any{
			"error": "Internal Server Error",
		}))
	}
}
