package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartstore/backend/internal/application/advisor"
	"github.com/smartstore/backend/internal/application/dto"
)

// AdvisorHandler expone el asesor de la tienda (protegido).
type AdvisorHandler struct {
	advisor *advisor.Advisor
}

// NewAdvisorHandler construye el handler.
func NewAdvisorHandler(a *advisor.Advisor) *AdvisorHandler {
	return &AdvisorHandler{advisor: a}
}

// Advise godoc
// @Summary      Preguntar al asesor
// @Tags         advisor
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdviceRequest  true  "Pregunta en texto libre y contexto opcional"
// @Success      200   {object}  dto.AdviceResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/advisor [post]
func (h *AdvisorHandler) Advise(c *fiber.Ctx) error {
	var in dto.AdviceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "question es requerido"})
	}
	out, err := h.advisor.Advise(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
