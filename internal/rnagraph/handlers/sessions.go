package handlers

import (
	"encoding/json"
	"errors"
	"io"

	"rna-graph/internal/rnagraph/mapper"
	"rna-graph/internal/rnagraph/service"
	"rna-graph/internal/rnagraph/state"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Session Handler
// ============================================================

type SessionHandler struct {
	sessions *service.SessionManager
	renderer *mapper.Renderer
	logger   *zap.Logger
}

func NewSessionHandler(sessions *service.SessionManager, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		renderer: mapper.NewRenderer(),
		logger:   logger.Named("http"),
	}
}

// Create открывает новую сессию
func (h *SessionHandler) Create(c fiber.Ctx) error {
	id := h.sessions.Create()
	return c.Status(201).JSON(fiber.Map{"id": id})
}

// Upload принимает PDB/mmCIF в поле file и возвращает сцену
func (h *SessionHandler) Upload(c fiber.Ctx) error {
	id := c.Params("id")

	filename, data, err := readFile(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "file required in multipart/form-data",
		})
	}

	h.logger.Info("upload received",
		zap.String("session", id),
		zap.String("filename", filename),
		zap.Int("size", len(data)),
	)

	sc, err := h.sessions.Upload(c.Context(), id, filename, data)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return sessionError(c, err)
		}
		h.logger.Info("upload rejected", zap.String("session", id), zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"error": mapper.UserMessage(err),
		})
	}
	return c.JSON(sc)
}

// Scene текущая сцена сессии
func (h *SessionHandler) Scene(c fiber.Ctx) error {
	sc, err := h.sessions.Scene(c.Params("id"))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(sc)
}

// Events применяет событие выбора/стиля к сцене
func (h *SessionHandler) Events(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "body required",
		})
	}

	var ev state.Event
	if err := json.Unmarshal(c.Body(), &ev); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid JSON payload",
		})
	}

	sc, err := h.sessions.Apply(c.Params("id"), ev)
	if err != nil {
		if errors.Is(err, state.ErrUnknownEvent) || errors.Is(err, state.ErrInvalidEvent) || errors.Is(err, state.ErrInvalidStyle) {
			return c.Status(400).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return sessionError(c, err)
	}
	return c.JSON(sc)
}

// Preview SVG-превью текущей сцены
func (h *SessionHandler) Preview(c fiber.Ctx) error {
	sc, err := h.sessions.Scene(c.Params("id"))
	if err != nil {
		return sessionError(c, err)
	}

	svg, err := h.renderer.Render(sc)
	if err != nil {
		h.logger.Warn("render failed", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// Uploads журнал загрузок сессии
func (h *SessionHandler) Uploads(c fiber.Ctx) error {
	uploads, err := h.sessions.Uploads(c.Context(), c.Params("id"))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(uploads)
}

func (h *SessionHandler) Delete(c fiber.Ctx) error {
	if err := h.sessions.Delete(c.Context(), c.Params("id")); err != nil {
		return sessionError(c, err)
	}
	return c.SendStatus(204)
}

// ============================================================
// Helpers
// ============================================================

func sessionError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "session not found"})
	case errors.Is(err, service.ErrNoScene):
		return c.Status(404).JSON(fiber.Map{"error": "no structure uploaded"})
	}
	return c.Status(500).JSON(fiber.Map{"error": err.Error()})
}

func readFile(c fiber.Ctx) (string, []byte, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", nil, err
	}

	f, err := file.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return file.Filename, data, nil
}
