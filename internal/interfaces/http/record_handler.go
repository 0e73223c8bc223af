package http

import (
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/pharmaser/estado-medicamentos/internal/application/dto"
	"github.com/pharmaser/estado-medicamentos/internal/application/record"
	"github.com/pharmaser/estado-medicamentos/internal/domain"
	"github.com/pharmaser/estado-medicamentos/internal/domain/repository"
)

// RecordHandler maneja las peticiones HTTP para registros de medicamentos (protegido).
type RecordHandler struct {
	uc *record.UseCase
}

// NewRecordHandler construye el handler.
func NewRecordHandler(uc *record.UseCase) *RecordHandler {
	return &RecordHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar medicamento
// @Tags         registros
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        estado            formData  string  true   "Agotado | Desabastecido | Descontinuado"
// @Param        plu               formData  string  true   "PLU, ej. 12345_ABC"
// @Param        nombre_comercial  formData  string  true   "Nombre comercial"
// @Param        laboratorio       formData  string  false  "Laboratorio"
// @Param        presentacion      formData  string  false  "Presentación"
// @Param        observaciones     formData  string  false  "Observaciones"
// @Param        soporte           formData  file    true   "Soporte PDF/JPG/PNG (obligatorio)"
// @Success      201  {object}  dto.RecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/registros [post]
func (h *RecordHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRecordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "formulario inválido"})
	}

	soporte, err := readSoporte(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "debes completar PLU, nombre y subir el soporte"})
	}

	out, err := h.uc.Create(c.Context(), GetUsername(c), in, soporte)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "debes completar PLU, nombre y subir el soporte"})
		case errors.Is(err, domain.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado fuera de la enumeración permitida"})
		case errors.Is(err, domain.ErrInvalidSoporte):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el soporte debe ser PDF, JPG o PNG"})
		}
		// Fallo de almacenamiento: se aborta el registro y se muestra el error crudo.
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "STORAGE", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Buscar registros
// @Tags         registros
// @Security     Bearer
// @Produce      json
// @Param        q        query  string  false  "Subcadena a buscar en cualquier campo"
// @Param        estado   query  string  false  "Filtro exacto por estado"
// @Param        usuario  query  string  false  "Filtro exacto por usuario creador"
// @Success      200  {object}  dto.RecordListResponse
// @Router       /api/registros [get]
func (h *RecordHandler) List(c *fiber.Ctx) error {
	filter := repository.SearchFilter{
		Query:   c.Query("q"),
		Estado:  c.Query("estado"),
		Usuario: c.Query("usuario"),
	}
	out, err := h.uc.Search(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Next godoc
// @Summary      Próximo consecutivo (eco del formulario)
// @Tags         registros
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/registros/next [get]
func (h *RecordHandler) Next(c *fiber.Ctx) error {
	next, err := h.uc.NextConsecutivo(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"consecutivo": next})
}

// GetByConsecutivo godoc
// @Summary      Obtener registro por consecutivo
// @Tags         registros
// @Security     Bearer
// @Produce      json
// @Param        consecutivo  path  int  true  "Consecutivo del registro"
// @Success      200  {object}  dto.RecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/registros/{consecutivo} [get]
func (h *RecordHandler) GetByConsecutivo(c *fiber.Ctx) error {
	consecutivo, err := strconv.Atoi(c.Params("consecutivo"))
	if err != nil || consecutivo <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "consecutivo inválido"})
	}
	out, err := h.uc.GetByConsecutivo(c.Context(), consecutivo)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// FetchSoporte godoc
// @Summary      Descargar soporte adjunto
// @Tags         registros
// @Security     Bearer
// @Produce      octet-stream
// @Param        consecutivo  path  int  true  "Consecutivo del registro"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/registros/{consecutivo}/soporte [get]
func (h *RecordHandler) FetchSoporte(c *fiber.Ctx) error {
	consecutivo, err := strconv.Atoi(c.Params("consecutivo"))
	if err != nil || consecutivo <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "consecutivo inválido"})
	}
	out, err := h.uc.FetchSoporte(c.Context(), consecutivo)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
		case errors.Is(err, domain.ErrSoporteNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SOPORTE_NOT_FOUND", Message: "la referencia del soporte está obsoleta"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, out.MimeType)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+out.FileName+`"`)
	return c.Send(out.Content)
}

// Report godoc
// @Summary      Reporte PDF de registros
// @Tags         registros
// @Security     Bearer
// @Produce      application/pdf
// @Param        q        query  string  false  "Subcadena a buscar en cualquier campo"
// @Param        estado   query  string  false  "Filtro exacto por estado"
// @Param        usuario  query  string  false  "Filtro exacto por usuario creador"
// @Success      200  {file}  binary
// @Router       /api/registros/reporte [get]
func (h *RecordHandler) Report(c *fiber.Ctx) error {
	filter := repository.SearchFilter{
		Query:   c.Query("q"),
		Estado:  c.Query("estado"),
		Usuario: c.Query("usuario"),
	}
	content, err := h.uc.Report(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="registros_medicamentos.pdf"`)
	return c.Send(content)
}

// readSoporte extrae el archivo multipart "soporte"; nil cuando no viene.
func readSoporte(c *fiber.Ctx) (*dto.SoporteUpload, error) {
	fh, err := c.FormFile("soporte")
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &dto.SoporteUpload{FileName: fh.Filename, Content: content}, nil
}
