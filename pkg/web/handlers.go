// Package web provides HTTP handlers and REST API endpoints for the flow
// builder.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/chatforge/chatforge/pkg/catalog"
	"github.com/chatforge/chatforge/pkg/models"
	"github.com/chatforge/chatforge/pkg/services"
	"github.com/chatforge/chatforge/pkg/templates"
)

type APIHandlers struct {
	flowService *services.Flow
	library     *templates.Library
	catalog     *catalog.Catalog
	validator   *validator.Validate
}

func NewAPIHandlers(
	flowService *services.Flow,
	library *templates.Library,
	catalog *catalog.Catalog,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		flowService: flowService,
		library:     library,
		catalog:     catalog,
		validator:   validator,
	}
}

func (h *APIHandlers) GetFlows(c fiber.Ctx) error {
	ownerID := c.Query("user_id")
	if ownerID == "" {
		return badRequest(c, "user_id query parameter is required")
	}

	flows, err := h.flowService.List(c.Context(), ownerID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"flows":       flows,
		"total_count": len(flows),
	})
}

func (h *APIHandlers) GetFlow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Flow ID is required")
	}

	flow, err := h.flowService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(flow)
}

func (h *APIHandlers) CreateFlow(c fiber.Ctx) error {
	var req SaveFlowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	origin := models.TemplateRef{}
	if req.Template != "" {
		origin = models.BuiltInTemplate(req.Template)
	}

	created, err := h.flowService.Save(c.Context(), services.SaveRequest{
		Name:     req.Name,
		Nodes:    req.Nodes,
		Edges:    req.Edges,
		Keywords: req.Keywords,
		OwnerID:  req.OwnerID,
		Origin:   origin,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateFlow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Flow ID is required")
	}

	var req SaveFlowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.flowService.Save(c.Context(), services.SaveRequest{
		Name:     req.Name,
		Nodes:    req.Nodes,
		Edges:    req.Edges,
		Keywords: req.Keywords,
		OwnerID:  req.OwnerID,
		Origin:   models.SavedFlowRef(id),
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteFlow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Flow ID is required")
	}

	if err := h.flowService.Delete(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) CloneFlow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Flow ID is required")
	}

	clone, err := h.flowService.Clone(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(clone)
}

func (h *APIHandlers) GetTemplates(c fiber.Ctx) error {
	gallery := h.library.List()
	responses := make([]TemplateResponse, 0, len(gallery))

	for _, tpl := range gallery {
		responses = append(responses, TransformTemplateResponse(tpl))
	}

	return c.JSON(fiber.Map{
		"templates":   responses,
		"total_count": len(responses),
	})
}

func (h *APIHandlers) GetTemplate(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	flow, err := h.library.Materialize(id)
	if err != nil {
		return handleTemplateError(c, err)
	}

	return c.JSON(flow)
}

func (h *APIHandlers) GetCatalog(c fiber.Ctx) error {
	defs := h.catalog.Definitions()
	responses := make([]NodeDefinitionResponse, 0, len(defs))

	for _, def := range defs {
		responses = append(responses, TransformNodeDefinitionResponse(h.catalog, def))
	}

	return c.JSON(fiber.Map{
		"nodes":       responses,
		"total_count": len(responses),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.flowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "ChatForge API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "ChatForge API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
