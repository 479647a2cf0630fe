package requestlogger

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/pkg/errorhandler"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/middleware/requestcontext"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	WithRequestHeader    bool     `mapstructure:"request_header"`
	WithRequestQuery     bool     `mapstructure:"request_query"`
	Disable              bool     `mapstructure:"disable"` // suppress successful requests
	HiddenRequestHeaders []string `mapstructure:"hidden_request_headers"`
}

// New logs one record per request once the rest of the chain has returned.
// Failed requests are logged with the status and public code the error handler will answer with.
func New(config Config) fiber.Handler {
	hidden := make(map[string]struct{}, len(config.HiddenRequestHeaders))
	for _, header := range config.HiddenRequestHeaders {
		hidden[strings.ToLower(strings.TrimSpace(header))] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		attrs := []slog.Attr{
			slog.String("event", "api_request"),
			slog.Int64("latency", latency.Milliseconds()),
			slog.String("latencyHuman", latency.String()),
		}

		level := slog.LevelInfo
		if err != nil {
			var code string
			status, code = errorhandler.Classify(err)
			attrs = append(attrs, slog.Any("error", err))
			if code != "" {
				attrs = append(attrs, slog.String("code", code))
			}
		}
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		if config.Disable && level == slog.LevelInfo {
			return errors.WithStack(err)
		}

		request := []slog.Attr{
			slog.Time("time", start),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("route", c.Route().Path),
			slog.String("ip", requestcontext.GetClientIP(c.UserContext())),
			slog.String("user-agent", string(c.Context().UserAgent())),
			slog.Any("params", c.AllParams()),
			slog.Int("length", len(c.Body())),
		}
		if config.WithRequestQuery {
			request = append(request, slog.String("query", string(c.Request().URI().QueryString())))
		}
		if config.WithRequestHeader {
			headers := make([]any, 0)
			for k, v := range c.GetReqHeaders() {
				if _, ok := hidden[strings.ToLower(k)]; ok {
					continue
				}
				headers = append(headers, slog.Any(k, v))
			}
			request = append(request, slog.Group("header", headers...))
		}

		response := []slog.Attr{
			slog.Int("status", status),
			slog.Int("length", len(c.Response().Body())),
		}

		logger.LogAttrs(c.UserContext(), level, "Request Completed", append(attrs,
			slog.Attr{Key: "request", Value: slog.GroupValue(request...)},
			slog.Attr{Key: "response", Value: slog.GroupValue(response...)},
		)...)

		return errors.WithStack(err)
	}
}
