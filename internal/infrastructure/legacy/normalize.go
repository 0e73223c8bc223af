// Package legacy importa los archivos CSV del sistema anterior
// (usuarios.csv y registros_medicamentos.csv) hacia la base de datos.
// La normalización de encabezados ocurre una sola vez aquí, en la
// importación; el esquema destino es fijo y versionado.
package legacy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Alias de encabezados observados entre iteraciones del sistema anterior.
// Todos se mapean al nombre canónico tras minúsculas + sin acentos.
var headerAliases = map[string]string{
	"user":      "usuario",
	"username":  "usuario",
	"password":  "contrasena",
	"passwd":    "contrasena",
	"email":     "correo",
	"mail":      "correo",
	"role":      "rol",
	"id":        "consecutivo",
	"fecha":     "fecha_hora",
	"nombre":    "nombre_comercial",
	"lab":       "laboratorio",
	"obs":       "observaciones",
	"adjunto":   "soporte",
	"evidencia": "soporte",
}

// NormalizeHeader lleva un encabezado de columna a su forma canónica:
// trim, minúsculas, acentos y diéresis eliminados (contraseña -> contrasena),
// espacios internos a guion bajo y alias históricos resueltos.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = stripAccents(h)
	h = strings.ReplaceAll(h, " ", "_")
	if canonical, ok := headerAliases[h]; ok {
		return canonical
	}
	return h
}

// stripAccents descompone (NFD) y elimina las marcas diacríticas, dejando
// la letra base: "contraseña" -> "contrasena", "código" -> "codigo".
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
