package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vending-api/internal/application/dto"
	appinv "github.com/jhoicas/Vending-api/internal/application/inventory"
	"github.com/jhoicas/Vending-api/internal/application/usecase"
	"github.com/jhoicas/Vending-api/internal/domain"
)

// NomenclatureHandler maneja el CRUD de nomenclatura y sus lotes (protegido).
type NomenclatureHandler struct {
	uc      *usecase.NomenclatureUseCase
	batches *appinv.BatchUseCase
}

// NewNomenclatureHandler construye el handler.
func NewNomenclatureHandler(uc *usecase.NomenclatureUseCase, batches *appinv.BatchUseCase) *NomenclatureHandler {
	return &NomenclatureHandler{uc: uc, batches: batches}
}

// Create godoc
// @Summary      Crear nomenclatura
// @Tags         nomenclatures
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateNomenclatureRequest  true  "sku, name, unit, batch_tracked"
// @Success      201   {object}  dto.NomenclatureResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/nomenclatures [post]
func (h *NomenclatureHandler) Create(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateNomenclatureRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SKU == "" || in.Name == "" || in.Unit == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku, name y unit son requeridos"})
	}
	out, err := h.uc.Create(orgID, in)
	if err != nil {
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "SKU ya existe en esta organización"})
		}
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener nomenclatura por ID
// @Tags         nomenclatures
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la nomenclatura"
// @Success      200  {object}  dto.NomenclatureResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/nomenclatures/{id} [get]
func (h *NomenclatureHandler) GetByID(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.GetByID(orgID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "nomenclatura no encontrada"})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar nomenclatura
// @Description  batch_tracked no puede cambiar después de creada.
// @Tags         nomenclatures
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la nomenclatura"
// @Param        body  body  dto.UpdateNomenclatureRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.NomenclatureResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/nomenclatures/{id} [put]
func (h *NomenclatureHandler) Update(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateNomenclatureRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(orgID, c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "nomenclatura no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar nomenclatura
// @Tags         nomenclatures
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.NomenclatureListResponse
// @Router       /api/nomenclatures [get]
func (h *NomenclatureHandler) List(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pageParams(c)
	out, err := h.uc.List(orgID, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ListBatches godoc
// @Summary      Listar lotes de una nomenclatura
// @Tags         nomenclatures
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la nomenclatura"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.BatchResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/nomenclatures/{id}/batches [get]
func (h *NomenclatureHandler) ListBatches(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	batches, err := h.batches.ListByNomenclature(orgID, c.Params("id"), limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, toBatchResponse(b))
	}
	return c.JSON(out)
}

// ReleaseBatch godoc
// @Summary      Devolver cantidad al remanente de un lote
// @Description  Deshace consumo de lote (por ejemplo, mercancía devuelta). No
//
//	puede dejar el remanente por encima de la cantidad original.
//
// @Tags         nomenclatures
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.ReleaseBatchRequest  true  "quantity"
// @Success      200   {object}  dto.BatchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/release [post]
func (h *NomenclatureHandler) ReleaseBatch(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReleaseBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	batch, err := h.batches.Release(c.Context(), orgID, c.Params("id"), in.Quantity)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toBatchResponse(batch))
}
