package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/paulexconde/formflow/internal/services"
)

type ResponseHandler struct {
	responses services.ResponseService
	forms     services.FormService
	analytics services.AnalyticsService
	validate  *validator.Validate
}

func NewResponseHandler(responses services.ResponseService, forms services.FormService, analytics services.AnalyticsService) *ResponseHandler {
	return &ResponseHandler{
		responses: responses,
		forms:     forms,
		analytics: analytics,
		validate:  validator.New(),
	}
}

func (h *ResponseHandler) Create(c *fiber.Ctx) error {
	var input services.ResponseInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	input.FormID = c.Params("id")
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	response, err := h.responses.CreateResponse(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *ResponseHandler) Get(c *fiber.Ctx) error {
	response, err := h.responses.GetResponse(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(response)
}

func (h *ResponseHandler) ListByForm(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	result, err := h.responses.ListByForm(c.Context(), c.Params("id"), page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *ResponseHandler) Delete(c *fiber.Ctx) error {
	if err := h.responses.DeleteResponse(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Summary aggregates every stored response of a form for the owner's review
// screen.
func (h *ResponseHandler) Summary(c *fiber.Ctx) error {
	form, err := h.forms.GetForm(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	responses, err := h.responses.AllByForm(c.Context(), form.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(h.analytics.Summarize(*form, responses))
}

type filterRequest struct {
	Expression string `json:"expression" validate:"required"`
}

// Filter applies an owner-written boolean expression to a form's responses.
func (h *ResponseHandler) Filter(c *fiber.Ctx) error {
	var req filterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	form, err := h.forms.GetForm(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	responses, err := h.responses.AllByForm(c.Context(), form.ID)
	if err != nil {
		return respondError(c, err)
	}

	matched, err := h.analytics.FilterResponses(*form, req.Expression, responses)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"items": matched, "total": len(matched)})
}
