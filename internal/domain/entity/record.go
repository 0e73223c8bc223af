package entity

import (
	"strings"
	"time"
)

// Estados válidos de un medicamento reportado.
const (
	EstadoAgotado       = "Agotado"       // no disponible temporalmente en inventario interno
	EstadoDesabastecido = "Desabastecido" // no disponible ni en inventario interno ni mercado nacional
	EstadoDescontinuado = "Descontinuado" // retirado del mercado por el fabricante o autoridad sanitaria
)

// ValidEstado verifica que el estado pertenezca a la enumeración fija.
func ValidEstado(estado string) bool {
	switch estado {
	case EstadoAgotado, EstadoDesabastecido, EstadoDescontinuado:
		return true
	}
	return false
}

// StatusRecord es un registro inmutable del estado de suministro de un medicamento.
// Consecutivo es secuencial (máximo existente + 1), nunca se reutiliza; el registro
// no se modifica ni elimina después de creado.
type StatusRecord struct {
	Consecutivo    int
	FechaHora      time.Time
	Username       string // usuario que creó el registro
	Estado         string
	PLU            string // código de producto, mayúsculas, ej. 12345_ABC
	GenericCode    string // derivado: prefijo del PLU antes del primer "_"
	CommercialName string // nombre comercial, mayúsculas, obligatorio
	Laboratory     string
	Presentation   string
	Notes          string
	Soporte        Soporte
}

// GenericCodeFromPLU deriva el código genérico: la subcadena del PLU antes del
// primer guion bajo. Un PLU sin "_" no tiene código genérico.
func GenericCodeFromPLU(plu string) string {
	if i := strings.Index(plu, "_"); i >= 0 {
		return plu[:i]
	}
	return ""
}
