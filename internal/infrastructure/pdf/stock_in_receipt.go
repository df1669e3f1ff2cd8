// Package pdf genera el comprobante imprimible de una entrada de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  ENTRADA DE STOCK N°          │  Fecha + Sucursal           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Proveedor / Referencia / Nota                              │
//	│  TABLA: Recurso | Cantidad | Costo unit. | Total            │
//	│  MOVIMIENTO: stock y costo promedio antes / después         │
//	│  QR (id de la entrada) + estado                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

var _ inventory.ReceiptGenerator = (*StockInReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 120, Green: 40, Blue: 20}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 180, Green: 20, Blue: 20}
)

// StockInReceiptGenerator implementa inventory.ReceiptGenerator con Maroto v2.
type StockInReceiptGenerator struct {
	appName string
}

// NewStockInReceiptGenerator construye el generador; appName aparece como autor del PDF.
func NewStockInReceiptGenerator(appName string) *StockInReceiptGenerator {
	return &StockInReceiptGenerator{appName: appName}
}

// GenerateStockInReceipt genera el PDF y devuelve sus bytes.
func (g *StockInReceiptGenerator) GenerateStockInReceipt(_ context.Context, rec *entity.StockInRecord) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("pdf: entrada nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Entrada de stock %d", rec.ID), true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(receiptHeader(rec))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(rec))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(itemHeaderRow(), itemRow(rec))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(movementRows(rec)...)
	m.AddRows(row.New(4))
	m.AddRows(footerRow(rec))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func receiptHeader(rec *entity.StockInRecord) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("ENTRADA DE STOCK", props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("N° %d", rec.ID), props.Text{Size: 10, Top: 9}),
		),
		col.New(5).Add(
			text.New("Fecha: "+rec.StockInDate.Format("02/01/2006"), props.Text{Size: 9, Align: align.Right, Top: 2}),
			text.New(fmt.Sprintf("Sucursal: %d", rec.BranchID), props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
			text.New("Registrada: "+rec.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func supplierRow(rec *entity.StockInRecord) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("Proveedor: "+nonEmpty(rec.SupplierName, "-"), props.Text{Size: 9, Top: 1}),
			text.New("Referencia: "+nonEmpty(rec.ReferenceNo, "-"), props.Text{Size: 8, Top: 6, Color: colorGray}),
			text.New("Nota: "+nonEmpty(rec.Note, "-"), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func itemHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: a, Top: 2}))
	}
	return row.New(8).Add(
		h("Recurso", 5, align.Left),
		h("Cantidad", 2, align.Right),
		h("Costo unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func itemRow(rec *entity.StockInRecord) core.Row {
	name := fmt.Sprintf("%s (%s)", nonEmpty(rec.ResourceName, rec.Resource().String()), rec.ResourceType)
	return row.New(7).Add(
		col.New(5).Add(text.New(name, props.Text{Size: 8, Top: 1})),
		col.New(2).Add(text.New(qty(rec.QtyAdded, rec.ResourceUnit), props.Text{Size: 8, Align: align.Right, Top: 1})),
		col.New(2).Add(text.New(money(rec.UnitCost), props.Text{Size: 8, Align: align.Right, Top: 1})),
		col.New(3).Add(text.New(money(rec.TotalCost), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1})),
	)
}

func movementRows(rec *entity.StockInRecord) []core.Row {
	pair := func(label, before, after string) core.Row {
		return row.New(6).Add(
			col.New(6).Add(text.New(label, props.Text{Size: 8, Color: colorGray})),
			col.New(3).Add(text.New(before, props.Text{Size: 8, Align: align.Right})),
			col.New(3).Add(text.New(after, props.Text{Size: 8, Align: align.Right})),
		)
	}
	return []core.Row{
		pair("", "Antes", "Después"),
		pair("Stock", qty(rec.PrevStock, rec.ResourceUnit), qty(rec.NewStock, rec.ResourceUnit)),
		pair("Costo promedio", money(rec.PrevUnitCost), money(rec.NewUnitCost)),
	}
}

func footerRow(rec *entity.StockInRecord) core.Row {
	status := text.New("Vigente", props.Text{Style: fontstyle.Bold, Size: 10, Top: 8, Left: 3, Color: colorPrimary})
	if !rec.Active {
		status = text.New("ANULADA", props.Text{Style: fontstyle.Bold, Size: 10, Top: 8, Left: 3, Color: colorDanger})
	}
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(fmt.Sprintf("stock_in:%d", rec.ID), props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(status),
	)
}

func money(d decimal.Decimal) string { return "$ " + d.StringFixed(2) }

func qty(d decimal.Decimal, unit string) string {
	s := d.StringFixed(3)
	if unit != "" {
		s += " " + unit
	}
	return s
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
