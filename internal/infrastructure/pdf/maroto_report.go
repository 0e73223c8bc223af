// Package pdf genera el reporte tabular de registros de estado de medicamentos.
//
// Layout de la página A4 horizontal:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│  TÍTULO: Control de Estado de Medicamentos + fecha           │
//	│  ──────────────────────────────────────────────────────────  │
//	│  TABLA: # | Fecha | Usuario | Estado | PLU | Genérico |      │
//	│         Nombre comercial | Laboratorio | Soporte             │
//	└──────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/pharmaser/estado-medicamentos/internal/application/record"
	"github.com/pharmaser/estado-medicamentos/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 13, Green: 59, Blue: 102}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ record.ReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa record.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateRecordsPDF genera el reporte PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateRecordsPDF(_ context.Context, records []*entity.StatusRecord) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Control de Estado de Medicamentos", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(len(records)))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, rec := range records {
		m.AddRows(recordRow(rec))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generar reporte PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func titleRow(total int) core.Row {
	return row.New(12).Add(
		col.New(8).Add(
			text.New("Control de Estado de Medicamentos", props.Text{
				Size: 14, Style: fontstyle.Bold, Color: colorPrimary,
			}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("Generado: %s — %d registros",
				time.Now().Format("2006-01-02 15:04"), total), props.Text{
				Size: 8, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

// Anchos de columna (suman 12, la grilla de maroto).
var tableWidths = []int{1, 1, 1, 1, 1, 1, 3, 2, 1}

var tableHeaders = []string{
	"#", "Fecha", "Usuario", "Estado", "PLU", "Genérico",
	"Nombre comercial", "Laboratorio", "Soporte",
}

func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(tableHeaders))
	for i, h := range tableHeaders {
		cols = append(cols, col.New(tableWidths[i]).Add(
			text.New(h, props.Text{Size: 8, Style: fontstyle.Bold, Color: colorWhite}),
		))
	}
	r := row.New(7)
	r.Add(cols...)
	r.WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	return r
}

func recordRow(rec *entity.StatusRecord) core.Row {
	values := []string{
		fmt.Sprintf("%d", rec.Consecutivo),
		rec.FechaHora.Format("2006-01-02"),
		rec.Username,
		rec.Estado,
		rec.PLU,
		rec.GenericCode,
		rec.CommercialName,
		rec.Laboratory,
		rec.Soporte.FileName,
	}
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		cols = append(cols, col.New(tableWidths[i]).Add(
			text.New(v, props.Text{Size: 7}),
		))
	}
	r := row.New(6)
	r.Add(cols...)
	return r
}
