package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/modules/minter"
)

type HttpHandler struct {
	minter *minter.Minter
}

func New(minter *minter.Minter) *HttpHandler {
	return &HttpHandler{
		minter: minter,
	}
}

type HttpResponse[T any] common.HttpResponse[T]

// publicError exposes errors of a known kind to the client. Anything else stays internal.
func publicError(err error, prefix string) error {
	if kind, ok := errs.KindOf(err); ok && kind != errs.SomethingWentWrong {
		return errs.WithPublicKind(err, prefix)
	}
	return errors.Wrap(err, prefix)
}

type creator struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
	Share    uint8  `json:"share"`
}

type holding struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Balance uint64 `json:"balance"`
}

type metadata struct {
	Address              string    `json:"address"`
	Name                 string    `json:"name"`
	Symbol               string    `json:"symbol"`
	URI                  string    `json:"uri"`
	SellerFeeBasisPoints uint16    `json:"sellerFeeBasisPoints"`
	UpdateAuthority      string    `json:"updateAuthority"`
	Creators             []creator `json:"creators"`
	IsMutable            bool      `json:"isMutable"`
	PrimarySaleHappened  bool      `json:"primarySaleHappened"`
}

type asset struct {
	Identity  string   `json:"identity"`
	Authority *string  `json:"authority"`
	Decimals  uint8    `json:"decimals"`
	Supply    uint64   `json:"supply"`
	MaxSupply *uint64  `json:"maxSupply"`
	Holding   holding  `json:"holding"`
	Metadata  metadata `json:"metadata"`
}
