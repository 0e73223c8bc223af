package entity

import (
	"fmt"
	"strings"
)

// Extensiones de soporte aceptadas (PDF o imagen).
var soporteExtensions = map[string]bool{
	"pdf": true, "jpg": true, "jpeg": true, "png": true,
}

// Soporte es el documento probatorio adjunto a un StatusRecord.
// Pertenece exclusivamente a su registro; Ref es una ruta relativa bajo el
// directorio de soportes (backend local) o un identificador de objeto remoto.
type Soporte struct {
	FileName string // nombre determinístico: {consecutivo}_{plu}_{nombre}.{ext}
	Ref      string
	MimeType string
}

// ValidSoporteExtension verifica que la extensión (sin punto) sea PDF/JPG/PNG.
func ValidSoporteExtension(ext string) bool {
	return soporteExtensions[strings.ToLower(ext)]
}

// SoporteFileName construye el nombre de archivo determinístico del soporte a
// partir del consecutivo, el PLU y el nombre comercial. Slug-safe: espacios a
// guiones bajos y solo caracteres alfanuméricos, "_", "-" y ".".
func SoporteFileName(consecutivo int, plu, nombre, ext string) string {
	base := fmt.Sprintf("%d_%s_%s", consecutivo, slug(plu), slug(nombre))
	return base + "." + strings.ToLower(ext)
}

func slug(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}
