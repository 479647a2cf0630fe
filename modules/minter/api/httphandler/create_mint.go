package httphandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/modules/minter"
	"github.com/gofiber/fiber/v2"
)

type createMintRequest struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

func (r *createMintRequest) Validate() error {
	var errList []error
	if r.Name == "" {
		errList = append(errList, errors.New("'name' is required"))
	}
	if r.URI == "" {
		errList = append(errList, errors.New("'uri' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type createMintResult struct {
	asset
	Signature   string `json:"signature"`
	Environment string `json:"environment"`
	Status      string `json:"status"`     // committed or submitted
	AcceptedAt  int64  `json:"acceptedAt"` // unix timestamp
}

type createMintResponse = HttpResponse[createMintResult]

func (h *HttpHandler) CreateMint(ctx *fiber.Ctx) (err error) {
	var req createMintRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.WithPublicMessage(err, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.minter.Mint(ctx.UserContext(), minter.MintParams{
		Name:   req.Name,
		Symbol: req.Symbol,
		URI:    req.URI,
	})
	if err != nil {
		return publicError(err, "can't mint asset")
	}

	return errors.WithStack(ctx.Status(http.StatusCreated).JSON(createMintResponse{
		Result: &createMintResult{
			asset:       mapAsset(result.Identity, result.Holding, result.Metadata),
			Signature:   result.Receipt.Signature,
			Environment: result.Receipt.Environment,
			Status:      string(result.Receipt.Status),
			AcceptedAt:  result.Receipt.AcceptedAt.Unix(),
		},
	}))
}
