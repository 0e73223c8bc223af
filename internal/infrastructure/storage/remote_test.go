package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaser/estado-medicamentos/internal/domain"
)

// newRemoteTestServer simula el almacén de objetos: multipart en POST /files,
// descarga y borrado por id, listado por carpeta. Valida la API key.
func newRemoteTestServer(t *testing.T) (*httptest.Server, map[string][]byte) {
	t.Helper()
	objects := map[string][]byte{}

	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "clave-secreta" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.Method {
		case http.MethodPost:
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "soportes", r.FormValue("folder"))
			f, fh, err := r.FormFile("file")
			require.NoError(t, err)
			defer f.Close()
			content, err := io.ReadAll(f)
			require.NoError(t, err)

			id := "obj-" + fh.Filename
			objects[id] = content
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(remoteObject{ID: id, Name: fh.Filename})
		case http.MethodGet:
			list := []remoteObject{}
			for id := range objects {
				list = append(list, remoteObject{ID: id})
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(list)
		}
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/files/")
		content, ok := objects[id]
		switch r.Method {
		case http.MethodGet:
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write(content)
		case http.MethodDelete:
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			delete(objects, id)
			w.WriteHeader(http.StatusNoContent)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, objects
}

func newTestRemoteStore(t *testing.T) (*RemoteStore, map[string][]byte) {
	t.Helper()
	srv, objects := newRemoteTestServer(t)
	store := NewRemoteStore(RemoteConfig{
		BaseURL: srv.URL,
		APIKey:  "clave-secreta",
		Folder:  "soportes",
	})
	return store, objects
}

func TestRemoteStore_SaveDevuelveIDDeObjeto(t *testing.T) {
	store, objects := newTestRemoteStore(t)

	ref, err := store.Save(context.Background(), "7_1_A_ASPIRINA.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "obj-7_1_A_ASPIRINA.pdf", ref,
		"la referencia persistida es el id que asigna el servicio, no el nombre")
	assert.Equal(t, []byte("%PDF-1.4"), objects[ref])
}

func TestRemoteStore_FetchPorReferencia(t *testing.T) {
	store, _ := newTestRemoteStore(t)
	ctx := context.Background()

	ref, err := store.Save(ctx, "1_A.pdf", []byte("contenido"))
	require.NoError(t, err)

	content, err := store.Fetch(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("contenido"), content)
}

func TestRemoteStore_FetchReferenciaObsoleta(t *testing.T) {
	store, _ := newTestRemoteStore(t)

	_, err := store.Fetch(context.Background(), "obj-borrado")
	assert.ErrorIs(t, err, domain.ErrSoporteNotFound,
		"un 404 del servicio remoto se mapea a referencia obsoleta")
}

func TestRemoteStore_DeleteIgnora404(t *testing.T) {
	store, objects := newTestRemoteStore(t)
	ctx := context.Background()

	ref, err := store.Save(ctx, "1_A.pdf", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, ref))
	assert.Empty(t, objects)

	// Borrar lo ya borrado no es error.
	assert.NoError(t, store.Delete(ctx, ref))
}

func TestRemoteStore_List(t *testing.T) {
	store, _ := newTestRemoteStore(t)
	ctx := context.Background()

	for _, name := range []string{"1_A.pdf", "2_B.jpg"} {
		_, err := store.Save(ctx, name, []byte("x"))
		require.NoError(t, err)
	}

	refs, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"obj-1_A.pdf", "obj-2_B.jpg"}, refs)
}

func TestRemoteStore_APIKeyIncorrectaFalla(t *testing.T) {
	srv, _ := newRemoteTestServer(t)
	store := NewRemoteStore(RemoteConfig{
		BaseURL: srv.URL,
		APIKey:  "otra-clave",
		Folder:  "soportes",
	})

	_, err := store.Save(context.Background(), "1_A.pdf", []byte("x"))
	require.Error(t, err)
}
