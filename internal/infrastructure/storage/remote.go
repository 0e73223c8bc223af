package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pharmaser/estado-medicamentos/internal/application/record"
	"github.com/pharmaser/estado-medicamentos/internal/domain"
)

var _ record.SoporteStore = (*RemoteStore)(nil)

// RemoteConfig credenciales y destino del almacén de objetos.
type RemoteConfig struct {
	BaseURL string
	APIKey  string
	Folder  string // carpeta lógica bajo la que se suben los soportes
	Timeout time.Duration
}

// RemoteStore guarda los soportes en un almacén de objetos HTTP con API key.
// La referencia persistida es el identificador de objeto que devuelve el servicio.
type RemoteStore struct {
	client *resty.Client
	folder string
}

type remoteObject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewRemoteStore construye el cliente del almacén remoto.
func NewRemoteStore(cfg RemoteConfig) *RemoteStore {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("X-Api-Key", cfg.APIKey)
	return &RemoteStore{client: cli, folder: cfg.Folder}
}

// Save sube el contenido como multipart y devuelve el id de objeto asignado.
func (s *RemoteStore) Save(ctx context.Context, name string, content []byte) (string, error) {
	var out remoteObject
	resp, err := s.client.R().
		SetContext(ctx).
		SetFileReader("file", name, bytes.NewReader(content)).
		SetFormData(map[string]string{"folder": s.folder}).
		SetResult(&out).
		Post("/files")
	if err != nil {
		return "", fmt.Errorf("subir soporte: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("subir soporte: %s", resp.Status())
	}
	if out.ID == "" {
		return "", fmt.Errorf("subir soporte: respuesta sin id de objeto")
	}
	return out.ID, nil
}

// Fetch descarga el objeto por su id. domain.ErrSoporteNotFound si la
// referencia quedó obsoleta en el servicio remoto.
func (s *RemoteStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get("/files/" + ref)
	if err != nil {
		return nil, fmt.Errorf("descargar soporte: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, domain.ErrSoporteNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("descargar soporte: %s", resp.Status())
	}
	return resp.Body(), nil
}

// Delete elimina el objeto remoto; un 404 no es error.
func (s *RemoteStore) Delete(ctx context.Context, ref string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		Delete("/files/" + ref)
	if err != nil {
		return fmt.Errorf("eliminar soporte: %w", err)
	}
	if resp.IsError() && resp.StatusCode() != http.StatusNotFound {
		return fmt.Errorf("eliminar soporte: %s", resp.Status())
	}
	return nil
}

// List devuelve los ids de objeto bajo la carpeta configurada.
func (s *RemoteStore) List(ctx context.Context, prefix string) ([]string, error) {
	var out []remoteObject
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("folder", s.folder).
		SetQueryParam("prefix", prefix).
		SetResult(&out).
		Get("/files")
	if err != nil {
		return nil, fmt.Errorf("listar soportes: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("listar soportes: %s", resp.Status())
	}
	refs := make([]string, 0, len(out))
	for _, o := range out {
		refs = append(refs, o.ID)
	}
	return refs, nil
}
