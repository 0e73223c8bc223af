package record

import (
	"context"

	"github.com/pharmaser/estado-medicamentos/internal/domain/entity"
)

// SoporteStore puerto hacia el almacén de archivos de soporte.
// Las implementaciones son el directorio local de soportes y un almacén de
// objetos remoto con credenciales.
type SoporteStore interface {
	// Save guarda el contenido bajo el nombre dado y devuelve la referencia
	// persistente (ruta relativa local o identificador de objeto remoto).
	Save(ctx context.Context, name string, content []byte) (ref string, err error)
	// Fetch recupera el contenido; domain.ErrSoporteNotFound si la referencia es obsoleta.
	Fetch(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// ReportGenerator puerto hacia el generador del reporte PDF de registros.
type ReportGenerator interface {
	GenerateRecordsPDF(ctx context.Context, records []*entity.StatusRecord) ([]byte, error)
}
