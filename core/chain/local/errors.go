package local

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common/errs"
)

func ignoreNotFound(err error) error {
	if errors.Is(err, errs.NotFound) {
		return nil
	}
	return err
}
