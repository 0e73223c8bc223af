package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver "pgx" para database/sql
	"github.com/pressly/goose/v3"

	"github.com/pharmaser/estado-medicamentos/migrations"
	"github.com/pharmaser/estado-medicamentos/pkg/config"
)

// Migrate aplica las migraciones SQL embebidas con goose.
// El esquema es fijo y versionado: la normalización de columnas del formato
// CSV heredado ocurre una sola vez en la importación, no en cada lectura.
func Migrate(cfg config.DBConfig) error {
	db, err := sql.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("abrir conexión de migración: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("dialecto goose: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("aplicar migraciones: %w", err)
	}
	return nil
}
