package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/pharmaser/estado-medicamentos/internal/domain/entity"
	"github.com/pharmaser/estado-medicamentos/internal/domain/repository"
)

var _ repository.RecordRepository = (*RecordRepo)(nil)

// registrosLockID clave del advisory lock que serializa la asignación del consecutivo.
const registrosLockID = 815001

// RecordRepo implementación del puerto RecordRepository sobre PostgreSQL.
type RecordRepo struct {
	db TxQuerier
}

// NewRecordRepository construye el adaptador de persistencia para registros.
func NewRecordRepository(db TxQuerier) *RecordRepo {
	return &RecordRepo{db: db}
}

const insertQuery = `
	INSERT INTO registros (consecutivo, fecha_hora, usuario, estado, plu, codigo_generico,
		nombre_comercial, laboratorio, presentacion, observaciones,
		soporte_nombre, soporte_ref, soporte_mime)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

// Insert persiste el registro calculando el consecutivo (máximo + 1) bajo un
// advisory lock transaccional: dos escritores simultáneos nunca obtienen el
// mismo valor. attach corre con el consecutivo definitivo antes del commit,
// de modo que el nombre del soporte queda acuñado con el id real de la fila;
// si attach falla, la transacción se revierte y la fila nunca existe.
func (r *RecordRepo) Insert(ctx context.Context, rec *entity.StatusRecord, attach func(consecutivo int) (entity.Soporte, error)) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin insert registro: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, registrosLockID); err != nil {
		return 0, fmt.Errorf("lock consecutivo: %w", err)
	}
	var consecutivo int
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(consecutivo), 0) + 1 FROM registros`).Scan(&consecutivo); err != nil {
		return 0, fmt.Errorf("calcular consecutivo: %w", err)
	}

	soporte, err := attach(consecutivo)
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(ctx, insertQuery,
		consecutivo, rec.FechaHora, rec.Username, rec.Estado, rec.PLU, rec.GenericCode,
		rec.CommercialName, rec.Laboratory, rec.Presentation, rec.Notes,
		soporte.FileName, soporte.Ref, soporte.MimeType,
	)
	if err != nil {
		return 0, fmt.Errorf("insert registro: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit insert registro: %w", err)
	}
	return consecutivo, nil
}

// InsertWithConsecutivo persiste un registro conservando su consecutivo
// original. Solo lo usa la importación del sistema heredado; no hace parte
// del puerto de dominio.
func (r *RecordRepo) InsertWithConsecutivo(ctx context.Context, rec *entity.StatusRecord) error {
	_, err := r.db.Exec(ctx, insertQuery,
		rec.Consecutivo, rec.FechaHora, rec.Username, rec.Estado, rec.PLU, rec.GenericCode,
		rec.CommercialName, rec.Laboratory, rec.Presentation, rec.Notes,
		rec.Soporte.FileName, rec.Soporte.Ref, rec.Soporte.MimeType,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("consecutivo %d ya importado: %w", rec.Consecutivo, err)
		}
		return fmt.Errorf("importar registro %d: %w", rec.Consecutivo, err)
	}
	return nil
}

// NextConsecutivo devuelve el consecutivo que recibiría la próxima inserción.
func (r *RecordRepo) NextConsecutivo(ctx context.Context) (int, error) {
	var next int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(consecutivo), 0) + 1 FROM registros`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next consecutivo: %w", err)
	}
	return next, nil
}

const recordColumns = `consecutivo, fecha_hora, usuario, estado, plu, codigo_generico,
	nombre_comercial, laboratorio, presentacion, observaciones,
	soporte_nombre, soporte_ref, soporte_mime`

// GetByConsecutivo obtiene un registro por consecutivo. (nil, nil) si no existe.
func (r *RecordRepo) GetByConsecutivo(ctx context.Context, consecutivo int) (*entity.StatusRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM registros WHERE consecutivo = $1`
	rec, err := scanRecord(r.db.QueryRow(ctx, query, consecutivo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get registro: %w", err)
	}
	return rec, nil
}

// Search devuelve los registros que cumplen el filtro en orden de inserción.
func (r *RecordRepo) Search(ctx context.Context, filter repository.SearchFilter) ([]*entity.StatusRecord, error) {
	query, args, err := buildSearchQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("construir búsqueda: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("buscar registros: %w", err)
	}
	defer rows.Close()

	var list []*entity.StatusRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registro: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// buildSearchQuery arma el SELECT de búsqueda. El texto libre matchea como
// subcadena LITERAL case-insensitive contra la representación en texto de la
// fila: los metacaracteres de LIKE se escapan para que "1_A" no matchee "1XA".
func buildSearchQuery(filter repository.SearchFilter) (string, []any, error) {
	builder := sq.Select(
		"consecutivo", "fecha_hora", "usuario", "estado", "plu", "codigo_generico",
		"nombre_comercial", "laboratorio", "presentacion", "observaciones",
		"soporte_nombre", "soporte_ref", "soporte_mime",
	).
		From("registros").
		OrderBy("consecutivo").
		PlaceholderFormat(sq.Dollar)

	if filter.Query != "" {
		builder = builder.Where(sq.Expr(
			`concat_ws(' ', consecutivo::text, to_char(fecha_hora, 'YYYY-MM-DD HH24:MI:SS'),
				usuario, estado, plu, codigo_generico, nombre_comercial,
				laboratorio, presentacion, observaciones, soporte_nombre) ILIKE ? ESCAPE '\'`,
			"%"+escapeLike(filter.Query)+"%",
		))
	}
	if filter.Estado != "" {
		builder = builder.Where(sq.Eq{"estado": filter.Estado})
	}
	if filter.Usuario != "" {
		builder = builder.Where(sq.Eq{"usuario": filter.Usuario})
	}

	return builder.ToSql()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapa los metacaracteres de LIKE para que el texto del usuario
// se compare como subcadena literal.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanRecord(row pgx.Row) (*entity.StatusRecord, error) {
	var rec entity.StatusRecord
	err := row.Scan(
		&rec.Consecutivo, &rec.FechaHora, &rec.Username, &rec.Estado, &rec.PLU, &rec.GenericCode,
		&rec.CommercialName, &rec.Laboratory, &rec.Presentation, &rec.Notes,
		&rec.Soporte.FileName, &rec.Soporte.Ref, &rec.Soporte.MimeType,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
