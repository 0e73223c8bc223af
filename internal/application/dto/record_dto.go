package dto

import "time"

// CreateRecordRequest campos del formulario de registro de medicamento.
// El archivo de soporte llega como parte multipart, no en este struct.
// GenericCode solo se toma en cuenta cuando GENERIC_CODE_MODE=manual.
type CreateRecordRequest struct {
	Estado         string `form:"estado" json:"estado" validate:"required"`
	PLU            string `form:"plu" json:"plu" validate:"required"`
	GenericCode    string `form:"codigo_generico" json:"codigo_generico"`
	CommercialName string `form:"nombre_comercial" json:"nombre_comercial" validate:"required"`
	Laboratory     string `form:"laboratorio" json:"laboratorio"`
	Presentation   string `form:"presentacion" json:"presentacion"`
	Notes          string `form:"observaciones" json:"observaciones"`
}

// SoporteUpload archivo probatorio recibido en la petición.
type SoporteUpload struct {
	FileName string
	Content  []byte
}

// RecordResponse salida de un registro.
type RecordResponse struct {
	Consecutivo    int       `json:"consecutivo"`
	FechaHora      time.Time `json:"fecha_hora"`
	Usuario        string    `json:"usuario"`
	Estado         string    `json:"estado"`
	PLU            string    `json:"plu"`
	GenericCode    string    `json:"codigo_generico"`
	CommercialName string    `json:"nombre_comercial"`
	Laboratory     string    `json:"laboratorio"`
	Presentation   string    `json:"presentacion"`
	Notes          string    `json:"observaciones"`
	Soporte        string    `json:"soporte"`
}

// RecordListResponse lista de registros en orden de inserción.
type RecordListResponse struct {
	Items []RecordResponse `json:"items"`
	Total int              `json:"total"`
}

// SoporteResponse contenido de un soporte recuperado.
type SoporteResponse struct {
	FileName string
	MimeType string
	Content  []byte
}
