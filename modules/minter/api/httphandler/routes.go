package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1")

	r.Post("/mints", h.CreateMint)
	r.Get("/assets/:identity", h.GetAsset)
	r.Get("/authority", h.GetAuthority)
	return nil
}
