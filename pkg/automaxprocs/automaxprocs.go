package automaxprocs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
	"go.uber.org/automaxprocs/maxprocs"
)

// Init sets GOMAXPROCS to the container CPU quota, if any, and returns a func
// restoring the previous value. An explicit GOMAXPROCS environment variable wins.
func Init(ctx context.Context) (undo func(), err error) {
	log := logger.FromContext(ctx).With(
		slogx.String("event", "set_gomaxprocs"),
		slogx.Int("prev_maxprocs", runtime.GOMAXPROCS(0)),
	)

	printf := func(format string, v ...any) {
		var attrs []slog.Attr
		// the undo call logs without arguments
		if _, ok := utils.Optional(v); ok {
			attrs = append(attrs, slogx.Int("set_maxprocs", runtime.GOMAXPROCS(0)))
			if _, exists := os.LookupEnv("GOMAXPROCS"); exists {
				attrs = append(attrs, slogx.Bool("from_env", true))
			}
		}
		log.LogAttrs(ctx, slog.LevelInfo, fmt.Sprintf(format, v...), attrs...)
	}

	undo, err = maxprocs.Set(maxprocs.Logger(printf), maxprocs.Min(1))
	if err != nil {
		return func() {}, errors.WithStack(err)
	}
	return undo, nil
}
