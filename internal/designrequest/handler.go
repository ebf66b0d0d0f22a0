package designrequest

import (
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".bmp": true,
}

type Handler struct {
	service   *Service
	presenter *Presenter
	validate  *validator.Validate
	log       *zap.Logger
}

func NewHandler(s *Service, p *Presenter, log *zap.Logger) *Handler {
	v := validator.New()
	// report form field names rather than Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{service: s, presenter: p, validate: v, log: log}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/api/design-requests", h.createDesignRequest)
	app.Get("/api/design-requests", h.listDesignRequests)
	app.Get("/api/design-requests/:slug", h.getDesignRequest)
}

type createForm struct {
	Name          string  `form:"name" validate:"max=255"`
	DoorHeight    float64 `form:"door_height" validate:"gt=0"`
	CeilingHeight float64 `form:"ceiling_height" validate:"gt=0"`
}

// parseSubmission reads the multipart form and returns every field error at
// once. Nothing is stored while parsing.
func (h *Handler) parseSubmission(c *fiber.Ctx) (Submission, map[string]string) {
	errs := map[string]string{}
	form := createForm{Name: strings.TrimSpace(c.FormValue("name"))}

	parseHeight := func(field string, dst *float64) {
		raw := strings.TrimSpace(c.FormValue(field))
		if raw == "" {
			errs[field] = field + " is required"
			return
		}
		v, err := strconv.ParseFloat(raw, 64)
		// ParseFloat accepts "Inf" and "NaN", which could never be rendered back
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			errs[field] = field + " must be a number"
			return
		}
		*dst = v
	}
	parseHeight("door_height", &form.DoorHeight)
	parseHeight("ceiling_height", &form.CeilingHeight)

	if err := h.validate.Struct(form); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			for _, fe := range ves {
				if _, seen := errs[fe.Field()]; seen {
					continue
				}
				switch fe.Tag() {
				case "gt":
					errs[fe.Field()] = fe.Field() + " must be greater than 0"
				case "max":
					errs[fe.Field()] = fe.Field() + " must be at most " + fe.Param() + " characters"
				default:
					errs[fe.Field()] = fe.Field() + " is invalid"
				}
			}
		}
	}

	sub := Submission{DoorHeight: form.DoorHeight, CeilingHeight: form.CeilingHeight}
	if form.Name != "" {
		name := form.Name
		sub.Name = &name
	}
	for _, field := range []string{"floor_plan", "interior_photo"} {
		fh, err := c.FormFile(field)
		if err != nil || fh == nil {
			errs[field] = field + " is required"
			continue
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(fh.Filename))] {
			errs[field] = field + " must be an image"
			continue
		}
		if field == "floor_plan" {
			sub.FloorPlan = fh
		} else {
			sub.InteriorPhoto = fh
		}
	}
	return sub, errs
}

func (h *Handler) createDesignRequest(c *fiber.Ctx) error {
	sub, errs := h.parseSubmission(c)
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	created, err := h.service.Create(c.UserContext(), sub)
	if errors.Is(err, ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": sub.Validate()})
	}
	if err != nil {
		h.log.Error("create design request", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not create design request"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": created.Slug})
}

func (h *Handler) listDesignRequests(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		h.log.Error("list design requests", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not list design requests"})
	}
	return c.JSON(h.presenter.ToList(items))
}

func (h *Handler) getDesignRequest(c *fiber.Ctx) error {
	slug := c.Params("slug")
	res, err := h.service.Get(c.UserContext(), slug)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "design request not found"})
	}
	if err != nil {
		h.log.Error("get design request", zap.String("slug", slug), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not load design request"})
	}
	return c.JSON(h.presenter.ToResult(res))
}
