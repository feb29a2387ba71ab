package handlers

import (
	"rna-graph/internal/rnagraph/mapper"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Convert Handler
// ============================================================

type ConvertHandler struct {
	pipeline *mapper.Pipeline
	logger   *zap.Logger
}

func NewConvertHandler(pipeline *mapper.Pipeline, logger *zap.Logger) *ConvertHandler {
	return &ConvertHandler{
		pipeline: pipeline,
		logger:   logger.Named("http"),
	}
}

// Convert разовая конвертация без сессии: сцена сразу со взаимодействиями
func (h *ConvertHandler) Convert(c fiber.Ctx) error {
	filename, data, err := readFile(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "file required in multipart/form-data",
		})
	}

	sc, err := h.pipeline.Convert(c.Context(), filename, data)
	if err != nil {
		h.logger.Info("conversion rejected", zap.String("filename", filename), zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"error": mapper.UserMessage(err),
		})
	}

	h.logger.Debug("conversion successful", zap.String("filename", filename))
	return c.JSON(sc)
}
