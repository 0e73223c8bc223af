package repository

import (
	"context"

	"github.com/pharmaser/estado-medicamentos/internal/domain/entity"
)

// SearchFilter filtros opcionales para la búsqueda de registros.
// Query hace match case-insensitive por subcadena contra la representación en
// texto de todas las columnas; vacío devuelve todo.
type SearchFilter struct {
	Query   string
	Estado  string
	Usuario string
}

// RecordRepository define el puerto de persistencia para StatusRecord.
// Solo inserción y lectura: los registros son inmutables.
type RecordRepository interface {
	// Insert persiste el registro asignando el consecutivo (máximo existente + 1)
	// de forma serializada frente a escritores concurrentes y lo devuelve.
	// attach recibe el consecutivo definitivo antes de que la fila sea visible;
	// su Soporte llena las columnas del soporte y su error aborta la inserción
	// completa. Así el nombre del soporte siempre coincide con el id del registro.
	Insert(ctx context.Context, record *entity.StatusRecord, attach func(consecutivo int) (entity.Soporte, error)) (int, error)
	// NextConsecutivo devuelve el consecutivo que recibiría la próxima inserción
	// (1 si la tabla está vacía). Solo informativo: la asignación real ocurre en Insert.
	NextConsecutivo(ctx context.Context) (int, error)
	// GetByConsecutivo devuelve (nil, nil) si no existe.
	GetByConsecutivo(ctx context.Context, consecutivo int) (*entity.StatusRecord, error)
	// Search devuelve los registros que cumplen el filtro en orden de inserción.
	Search(ctx context.Context, filter SearchFilter) ([]*entity.StatusRecord, error)
}
