// Package storage implementa los almacenes de archivos de soporte: el
// directorio local "soportes" y un almacén de objetos remoto vía HTTP.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pharmaser/estado-medicamentos/internal/application/record"
	"github.com/pharmaser/estado-medicamentos/internal/domain"
)

var _ record.SoporteStore = (*LocalStore)(nil)

// LocalStore guarda los soportes como archivos bajo un directorio fijo.
// La referencia persistida es la ruta relativa al directorio.
type LocalStore struct {
	dir string
}

// NewLocalStore crea el almacén local, creando el directorio si no existe.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de soportes: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save escribe el contenido bajo el nombre dado y devuelve la ruta relativa.
func (s *LocalStore) Save(_ context.Context, name string, content []byte) (string, error) {
	cleaned, err := s.safePath(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cleaned, content, 0o644); err != nil {
		return "", fmt.Errorf("guardar soporte: %w", err)
	}
	return name, nil
}

// Fetch lee el soporte por su ruta relativa. domain.ErrSoporteNotFound si la
// ruta quedó obsoleta (archivo movido o borrado fuera de la aplicación).
func (s *LocalStore) Fetch(_ context.Context, ref string) ([]byte, error) {
	cleaned, err := s.safePath(ref)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(cleaned)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrSoporteNotFound
		}
		return nil, fmt.Errorf("leer soporte: %w", err)
	}
	return content, nil
}

// Delete elimina el soporte; borrar una referencia inexistente no es error.
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	cleaned, err := s.safePath(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(cleaned); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("eliminar soporte: %w", err)
	}
	return nil
}

// List devuelve las referencias que comienzan con el prefijo.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listar soportes: %w", err)
	}
	var refs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if prefix == "" || strings.HasPrefix(e.Name(), prefix) {
			refs = append(refs, e.Name())
		}
	}
	return refs, nil
}

// safePath resuelve la referencia dentro del directorio y rechaza traversal.
func (s *LocalStore) safePath(ref string) (string, error) {
	cleaned := filepath.Clean(ref)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", domain.ErrValidation
	}
	return filepath.Join(s.dir, cleaned), nil
}
