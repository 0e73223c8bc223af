package record

import (
	"context"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/pharmaser/estado-medicamentos/internal/application/dto"
	"github.com/pharmaser/estado-medicamentos/internal/domain"
	"github.com/pharmaser/estado-medicamentos/internal/domain/entity"
	"github.com/pharmaser/estado-medicamentos/internal/domain/repository"
)

// Options comportamiento configurable del registro.
type Options struct {
	// GenericCodeManual: el código genérico lo digita el usuario en vez de
	// derivarse del PLU. La mayoría de despliegues usan derivación automática.
	GenericCodeManual bool
}

// UseCase casos de uso del registro de estado de medicamentos: crear,
// buscar, recuperar soporte y reporte PDF. Los registros son inmutables.
type UseCase struct {
	repo   repository.RecordRepository
	store  SoporteStore
	report ReportGenerator
	opts   Options
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.RecordRepository, store SoporteStore, report ReportGenerator, opts Options) *UseCase {
	return &UseCase{repo: repo, store: store, report: report, opts: opts}
}

// Create valida el formulario, guarda el soporte y persiste el registro.
// Nunca se persiste una fila sin PLU, nombre comercial y soporte adjunto:
// si el almacén de soportes falla, el registro se aborta completo.
func (uc *UseCase) Create(ctx context.Context, username string, in dto.CreateRecordRequest, soporte *dto.SoporteUpload) (*dto.RecordResponse, error) {
	plu := strings.ToUpper(strings.TrimSpace(in.PLU))
	nombre := strings.ToUpper(strings.TrimSpace(in.CommercialName))
	if username == "" || plu == "" || nombre == "" {
		return nil, domain.ErrValidation
	}
	if soporte == nil || len(soporte.Content) == 0 {
		return nil, domain.ErrValidation
	}
	estado := strings.TrimSpace(in.Estado)
	if !entity.ValidEstado(estado) {
		return nil, domain.ErrInvalidStatus
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(soporte.FileName)), ".")
	if !entity.ValidSoporteExtension(ext) {
		return nil, domain.ErrInvalidSoporte
	}

	generic := entity.GenericCodeFromPLU(plu)
	if uc.opts.GenericCodeManual {
		generic = strings.ToUpper(strings.TrimSpace(in.GenericCode))
	}

	rec := &entity.StatusRecord{
		FechaHora:      time.Now(),
		Username:       username,
		Estado:         estado,
		PLU:            plu,
		GenericCode:    generic,
		CommercialName: nombre,
		Laboratory:     strings.ToUpper(strings.TrimSpace(in.Laboratory)),
		Presentation:   strings.TrimSpace(in.Presentation),
		Notes:          strings.TrimSpace(in.Notes),
	}

	// El soporte se guarda dentro de la inserción, con el consecutivo ya
	// asignado: el nombre del archivo siempre coincide con el id de la fila,
	// incluso con escritores concurrentes.
	var savedRef string
	consecutivo, err := uc.repo.Insert(ctx, rec, func(consecutivo int) (entity.Soporte, error) {
		fileName := entity.SoporteFileName(consecutivo, plu, nombre, ext)
		ref, err := uc.store.Save(ctx, fileName, soporte.Content)
		if err != nil {
			return entity.Soporte{}, err
		}
		savedRef = ref
		rec.Soporte = entity.Soporte{
			FileName: fileName,
			Ref:      ref,
			MimeType: mimeForExtension(ext),
		}
		return rec.Soporte, nil
	})
	if err != nil {
		// Si la fila no quedó insertada, el soporte ya guardado es huérfano.
		if savedRef != "" {
			_ = uc.store.Delete(ctx, savedRef)
		}
		return nil, err
	}
	rec.Consecutivo = consecutivo
	return toRecordResponse(rec), nil
}

// NextConsecutivo devuelve el consecutivo que recibirá el próximo registro (eco del formulario).
func (uc *UseCase) NextConsecutivo(ctx context.Context) (int, error) {
	return uc.repo.NextConsecutivo(ctx)
}

// Search devuelve los registros que cumplen el filtro, en orden de inserción.
// Query vacío devuelve todos los registros.
func (uc *UseCase) Search(ctx context.Context, filter repository.SearchFilter) (*dto.RecordListResponse, error) {
	records, err := uc.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RecordResponse, 0, len(records))
	for _, r := range records {
		items = append(items, *toRecordResponse(r))
	}
	return &dto.RecordListResponse{Items: items, Total: len(items)}, nil
}

// GetByConsecutivo devuelve un registro; domain.ErrNotFound si no existe.
func (uc *UseCase) GetByConsecutivo(ctx context.Context, consecutivo int) (*dto.RecordResponse, error) {
	rec, err := uc.repo.GetByConsecutivo(ctx, consecutivo)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return toRecordResponse(rec), nil
}

// FetchSoporte recupera los bytes del soporte adjunto a un registro.
// domain.ErrSoporteNotFound cuando la ruta o referencia quedó obsoleta.
func (uc *UseCase) FetchSoporte(ctx context.Context, consecutivo int) (*dto.SoporteResponse, error) {
	rec, err := uc.repo.GetByConsecutivo(ctx, consecutivo)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	content, err := uc.store.Fetch(ctx, rec.Soporte.Ref)
	if err != nil {
		return nil, err
	}
	mimeType := rec.Soporte.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &dto.SoporteResponse{
		FileName: rec.Soporte.FileName,
		MimeType: mimeType,
		Content:  content,
	}, nil
}

// Report genera el reporte PDF de los registros que cumplen el filtro.
func (uc *UseCase) Report(ctx context.Context, filter repository.SearchFilter) ([]byte, error) {
	records, err := uc.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return uc.report.GenerateRecordsPDF(ctx, records)
}

func mimeForExtension(ext string) string {
	if m := mime.TypeByExtension("." + ext); m != "" {
		return m
	}
	return "application/octet-stream"
}

func toRecordResponse(r *entity.StatusRecord) *dto.RecordResponse {
	if r == nil {
		return nil
	}
	return &dto.RecordResponse{
		Consecutivo:    r.Consecutivo,
		FechaHora:      r.FechaHora,
		Usuario:        r.Username,
		Estado:         r.Estado,
		PLU:            r.PLU,
		GenericCode:    r.GenericCode,
		CommercialName: r.CommercialName,
		Laboratory:     r.Laboratory,
		Presentation:   r.Presentation,
		Notes:          r.Notes,
		Soporte:        r.Soporte.FileName,
	}
}
