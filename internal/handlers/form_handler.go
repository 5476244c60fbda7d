package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/paulexconde/formflow/internal/services"
)

type FormHandler struct {
	forms    services.FormService
	validate *validator.Validate
}

func NewFormHandler(forms services.FormService) *FormHandler {
	return &FormHandler{forms: forms, validate: validator.New()}
}

func (h *FormHandler) Create(c *fiber.Ctx) error {
	var input services.FormInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	form, err := h.forms.CreateForm(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(form)
}

func (h *FormHandler) Get(c *fiber.Ctx) error {
	form, err := h.forms.GetForm(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(form)
}

func (h *FormHandler) List(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	result, err := h.forms.ListForms(c.Context(), page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *FormHandler) Update(c *fiber.Ctx) error {
	var input services.FormInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	form, err := h.forms.UpdateForm(c.Context(), c.Params("id"), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(form)
}

func (h *FormHandler) Delete(c *fiber.Ctx) error {
	if err := h.forms.DeleteForm(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CheckLogic returns the advisory rule report for the editing surface's
// warning panel. Always 200: defects are data, not errors.
func (h *FormHandler) CheckLogic(c *fiber.Ctx) error {
	report, err := h.forms.CheckLogic(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
