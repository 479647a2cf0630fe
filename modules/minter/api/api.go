package api

import (
	"github.com/gaze-network/nft-minter/modules/minter"
	"github.com/gaze-network/nft-minter/modules/minter/api/httphandler"
)

func NewHTTPHandler(minter *minter.Minter) *httphandler.HttpHandler {
	return httphandler.New(minter)
}
