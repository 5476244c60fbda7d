package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/paulexconde/formflow/internal/services"
)

// PlaybackHandler serves the one-question-at-a-time answering flow. The
// endpoints are stateless: the client carries its answer map and sends it
// with every call.
type PlaybackHandler struct {
	forms     services.FormService
	responses services.ResponseService
	playback  services.PlaybackService
}

func NewPlaybackHandler(forms services.FormService, responses services.ResponseService, playback services.PlaybackService) *PlaybackHandler {
	return &PlaybackHandler{forms: forms, responses: responses, playback: playback}
}

type playbackRequest struct {
	QuestionID string            `json:"questionId"`
	Answer     string            `json:"answer"`
	Answers    map[string]string `json:"answers"`
}

func (h *PlaybackHandler) session(c *fiber.Ctx, req playbackRequest) *services.PlaybackSession {
	session := services.NewPlaybackSession(c.Params("id"))
	for id, answer := range req.Answers {
		session.Answers[id] = answer
	}
	return session
}

// Next returns the question the respondent should see now, given their
// answers so far.
func (h *PlaybackHandler) Next(c *fiber.Ctx) error {
	var req playbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	form, err := h.forms.GetForm(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	question := h.playback.NextQuestion(*form, h.session(c, req))
	return c.JSON(fiber.Map{"question": question, "done": question == nil})
}

// Answer validates and records one answer, returning the next question.
func (h *PlaybackHandler) Answer(c *fiber.Ctx) error {
	var req playbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	form, err := h.forms.GetForm(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	session := h.session(c, req)
	next, err := h.playback.AnswerQuestion(session, req.QuestionID, req.Answer, *form)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"question": next,
		"done":     next == nil,
		"answers":  session.Answers,
	})
}

// Submit finishes the run: every visible answer is re-validated, hidden
// answers are dropped, and the response record is stored.
func (h *PlaybackHandler) Submit(c *fiber.Ctx) error {
	var req playbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	form, err := h.forms.GetForm(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	input, err := h.playback.FinishSession(*form, h.session(c, req))
	if err != nil {
		return respondError(c, err)
	}

	response, err := h.responses.CreateResponse(c.Context(), *input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}
