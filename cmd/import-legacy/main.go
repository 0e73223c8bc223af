// Importación única de los CSV del sistema anterior:
//
//	go run ./cmd/import-legacy -dir /ruta/a/control_estado_medicamentos
//
// Espera usuarios.csv y/o registros_medicamentos.csv dentro del directorio.
// Los archivos de soporte referenciados deben copiarse aparte a SOPORTES_DIR.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/pharmaser/estado-medicamentos/internal/infrastructure/legacy"
	"github.com/pharmaser/estado-medicamentos/internal/infrastructure/postgres"
	"github.com/pharmaser/estado-medicamentos/pkg/config"
	"github.com/pharmaser/estado-medicamentos/pkg/logger"
)

func main() {
	dir := flag.String("dir", ".", "directorio con los CSV heredados")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "import-legacy"})

	if err := postgres.Migrate(cfg.DB); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	importer := legacy.NewImporter(
		postgres.NewUserRepository(pool),
		postgres.NewRecordRepository(pool),
		log,
	)

	if f, err := os.Open(filepath.Join(*dir, "usuarios.csv")); err == nil {
		imported, skipped, err := importer.ImportUsers(ctx, f)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("importar usuarios")
		}
		log.Info().Int("importados", imported).Int("omitidos", skipped).Msg("usuarios.csv procesado")
	} else {
		log.Warn().Str("dir", *dir).Msg("usuarios.csv no encontrado, se omite")
	}

	if f, err := os.Open(filepath.Join(*dir, "registros_medicamentos.csv")); err == nil {
		imported, skipped, err := importer.ImportRecords(ctx, f)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("importar registros")
		}
		log.Info().Int("importados", imported).Int("omitidos", skipped).Msg("registros_medicamentos.csv procesado")
	} else {
		log.Warn().Str("dir", *dir).Msg("registros_medicamentos.csv no encontrado, se omite")
	}
}
