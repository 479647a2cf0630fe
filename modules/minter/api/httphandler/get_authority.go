package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getAuthorityResult struct {
	Authority   string `json:"authority"`
	Mode        string `json:"mode"`
	Environment string `json:"environment"`
}

type getAuthorityResponse = HttpResponse[getAuthorityResult]

func (h *HttpHandler) GetAuthority(ctx *fiber.Ctx) (err error) {
	authority := h.minter.Authority()
	return errors.WithStack(ctx.JSON(getAuthorityResponse{
		Result: lo.ToPtr(getAuthorityResult{
			Authority:   authority.Key.ToBase58(),
			Mode:        authority.Mode(),
			Environment: h.minter.Environment().Name(),
		}),
	}))
}
