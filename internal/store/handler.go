package store

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(s *Service, log *zap.Logger) *Handler {
	return &Handler{service: s, log: log}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/stores", h.getStores)
	app.Get("/api/stores/:id<int>", h.getStore)
}

func (h *Handler) getStores(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		h.log.Error("list stores", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not list stores"})
	}
	return c.JSON(items)
}

func (h *Handler) getStore(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	s, err := h.service.GetByID(c.UserContext(), id)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "store not found"})
	}
	if err != nil {
		h.log.Error("get store", zap.Int("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not load store"})
	}
	return c.JSON(s)
}
