package legacy

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pharmaser/estado-medicamentos/internal/domain"
	"github.com/pharmaser/estado-medicamentos/internal/domain/entity"
	"github.com/pharmaser/estado-medicamentos/internal/domain/repository"
	"github.com/pharmaser/estado-medicamentos/pkg/logger"
)

// Formatos de fecha observados en los CSV heredados.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// RecordWriter inserciones que conservan el consecutivo heredado.
type RecordWriter interface {
	InsertWithConsecutivo(ctx context.Context, rec *entity.StatusRecord) error
}

// Importer migra usuarios.csv y registros_medicamentos.csv a la base de datos.
// Las filas malformadas se omiten con advertencia; no se "repara" nada en silencio.
type Importer struct {
	users   repository.UserRepository
	records RecordWriter
	log     *logger.Logger
}

// NewImporter construye el importador.
func NewImporter(users repository.UserRepository, records RecordWriter, log *logger.Logger) *Importer {
	return &Importer{users: users, records: records, log: log}
}

// ImportUsers lee usuarios.csv (usuario,contrasena[,correo][,rol]) y crea los
// usuarios, hasheando con bcrypt las contraseñas que el sistema anterior
// guardaba en texto plano. Devuelve filas importadas y omitidas.
func (im *Importer) ImportUsers(ctx context.Context, r io.Reader) (imported, skipped int, err error) {
	rows, cols, err := readTable(r)
	if err != nil {
		return 0, 0, fmt.Errorf("leer usuarios.csv: %w", err)
	}
	if _, ok := cols["usuario"]; !ok {
		return 0, 0, fmt.Errorf("usuarios.csv sin columna usuario")
	}
	if _, ok := cols["contrasena"]; !ok {
		return 0, 0, fmt.Errorf("usuarios.csv sin columna contrasena")
	}

	for i, row := range rows {
		username := entity.NormalizeUsername(cell(row, cols, "usuario"))
		password := strings.TrimSpace(cell(row, cols, "contrasena"))
		if username == "" || password == "" {
			im.log.Warn().Int("fila", i+2).Msg("usuario omitido: usuario o contraseña vacíos")
			skipped++
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return imported, skipped, err
		}
		role := strings.TrimSpace(cell(row, cols, "rol"))
		if role == "" {
			role = entity.RoleConsulta
		}
		user := &entity.User{
			ID:           uuid.New().String(),
			Username:     username,
			PasswordHash: string(hash),
			Email:        strings.TrimSpace(cell(row, cols, "correo")),
			Role:         role,
			CreatedAt:    time.Now(),
		}
		if err := im.users.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrDuplicateUser) {
				im.log.Warn().Str("usuario", username).Msg("usuario omitido: ya existe")
				skipped++
				continue
			}
			return imported, skipped, err
		}
		imported++
	}
	return imported, skipped, nil
}

// ImportRecords lee registros_medicamentos.csv conservando el consecutivo y la
// fecha originales. La columna soporte (ruta local heredada) pasa a ser la
// referencia del soporte; el archivo debe copiarse aparte al directorio nuevo.
func (im *Importer) ImportRecords(ctx context.Context, r io.Reader) (imported, skipped int, err error) {
	rows, cols, err := readTable(r)
	if err != nil {
		return 0, 0, fmt.Errorf("leer registros_medicamentos.csv: %w", err)
	}
	for _, required := range []string{"consecutivo", "plu", "nombre_comercial"} {
		if _, ok := cols[required]; !ok {
			return 0, 0, fmt.Errorf("registros_medicamentos.csv sin columna %s", required)
		}
	}

	for i, row := range rows {
		fila := i + 2 // 1-based más encabezado
		consecutivo, err := strconv.Atoi(strings.TrimSpace(cell(row, cols, "consecutivo")))
		if err != nil || consecutivo <= 0 {
			im.log.Warn().Int("fila", fila).Msg("registro omitido: consecutivo inválido")
			skipped++
			continue
		}
		plu := strings.ToUpper(strings.TrimSpace(cell(row, cols, "plu")))
		nombre := strings.ToUpper(strings.TrimSpace(cell(row, cols, "nombre_comercial")))
		soporte := strings.TrimSpace(cell(row, cols, "soporte"))
		if plu == "" || nombre == "" || soporte == "" {
			im.log.Warn().Int("fila", fila).Msg("registro omitido: plu, nombre o soporte vacíos")
			skipped++
			continue
		}
		estado := strings.TrimSpace(cell(row, cols, "estado"))
		if !entity.ValidEstado(estado) {
			im.log.Warn().Int("fila", fila).Str("estado", estado).Msg("registro omitido: estado fuera de la enumeración")
			skipped++
			continue
		}
		generic := strings.TrimSpace(cell(row, cols, "codigo_generico"))
		if generic == "" {
			generic = entity.GenericCodeFromPLU(plu)
		}

		fileName := filepath.Base(soporte)
		rec := &entity.StatusRecord{
			Consecutivo:    consecutivo,
			FechaHora:      parseFecha(cell(row, cols, "fecha_hora")),
			Username:       entity.NormalizeUsername(cell(row, cols, "usuario")),
			Estado:         estado,
			PLU:            plu,
			GenericCode:    generic,
			CommercialName: nombre,
			Laboratory:     strings.ToUpper(strings.TrimSpace(cell(row, cols, "laboratorio"))),
			Presentation:   strings.TrimSpace(cell(row, cols, "presentacion")),
			Notes:          strings.TrimSpace(cell(row, cols, "observaciones")),
			Soporte: entity.Soporte{
				FileName: fileName,
				Ref:      fileName,
				MimeType: mimeForFile(fileName),
			},
		}
		if err := im.records.InsertWithConsecutivo(ctx, rec); err != nil {
			im.log.Warn().Int("consecutivo", consecutivo).Err(err).Msg("registro omitido")
			skipped++
			continue
		}
		imported++
	}
	return imported, skipped, nil
}

// readTable lee el CSV completo y devuelve las filas más el índice de columnas
// canónicas (encabezados normalizados una sola vez).
func readTable(r io.Reader) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // el ancho de fila derivó entre iteraciones
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := NormalizeHeader(h)
		if _, exists := cols[name]; !exists {
			cols[name] = i
		}
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return rows, cols, nil
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseFecha(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Now()
}

func mimeForFile(name string) string {
	if m := mime.TypeByExtension(filepath.Ext(name)); m != "" {
		return m
	}
	return "application/octet-stream"
}
