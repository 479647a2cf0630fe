package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getAssetRequest struct {
	Identity string `params:"identity"`
}

type getAssetResponse = HttpResponse[asset]

func (h *HttpHandler) GetAsset(ctx *fiber.Ctx) (err error) {
	var req getAssetRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	identity, err := common.ParsePublicKey(req.Identity)
	if err != nil {
		return errs.WithPublicKind(err, "invalid asset identity")
	}

	result, err := h.minter.GetAsset(ctx.UserContext(), identity)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicErrorWithCode("asset not found", string(errs.NotFound))
		}
		return publicError(err, "can't get asset")
	}

	return errors.WithStack(ctx.JSON(getAssetResponse{
		Result: lo.ToPtr(mapAsset(result.Identity, result.Holding, result.Metadata)),
	}))
}
