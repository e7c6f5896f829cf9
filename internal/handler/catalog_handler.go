package handler

import (
	"go-erp-docs/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// ---- Clients ----

func (h *CatalogHandler) GetClients(c *fiber.Ctx) error {
	clients, err := h.service.ListClients()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(clients)
}

func (h *CatalogHandler) GetClient(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	client, err := h.service.GetClient(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(client)
}

func (h *CatalogHandler) CreateClient(c *fiber.Ctx) error {
	var req service.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	client, err := h.service.CreateClient(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Client created", "data": client})
}

func (h *CatalogHandler) UpdateClient(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	var req service.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	client, err := h.service.UpdateClient(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Client updated", "data": client})
}

func (h *CatalogHandler) DeleteClient(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	if err := h.service.DeleteClient(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Client deleted"})
}

// ---- Products ----

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProduct(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.CreateProduct(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.UpdateProduct(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// ---- Units ----

type UnitRequest struct {
	Name string `json:"name"`
}

type RenameUnitRequest struct {
	NewName string `json:"new_name"`
}

func (h *CatalogHandler) GetUnits(c *fiber.Ctx) error {
	units, err := h.service.ListUnits()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(units)
}

func (h *CatalogHandler) AddUnit(c *fiber.Ctx) error {
	var req UnitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.AddUnit(req.Name); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Unit added"})
}

func (h *CatalogHandler) DeleteUnit(c *fiber.Ctx) error {
	if err := h.service.DeleteUnit(c.Params("name")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unit deleted"})
}

// RenameUnit also rewrites the unit on products and transaction items
// PUT /api/v1/units/:name
func (h *CatalogHandler) RenameUnit(c *fiber.Ctx) error {
	var req RenameUnitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.RenameUnit(c.Params("name"), req.NewName); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unit renamed"})
}
