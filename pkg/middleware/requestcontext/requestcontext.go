package requestcontext

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

// Option derives the request context from the incoming request.
type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

// rejection stops the request with a status and a message for the client.
type rejection struct {
	status  int
	message string
}

func (r rejection) Error() string {
	return r.message
}

// New applies opts in order and stores the result as the user context of the request.
func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var err error
		ctx := c.UserContext()
		for i, opt := range opts {
			ctx, err = opt(ctx, c)
			if err == nil {
				continue
			}
			var r rejection
			if errors.As(err, &r) {
				return errors.WithStack(c.Status(r.status).JSON(fiber.Map{"error": r.message}))
			}
			logger.ErrorContext(c.UserContext(), "Failed to extract request context", err,
				slogx.String("event", "requestcontext/error"),
				slogx.Int("option", i),
			)
			return errors.WithStack(c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"}))
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
