package inventory

import (
	"context"
	"fmt"
)

// StockInReceiptUseCase genera el comprobante PDF de una entrada de la sucursal.
type StockInReceiptUseCase struct {
	stockIns  *StockInUseCase
	generator ReceiptGenerator
}

// NewStockInReceiptUseCase construye el caso de uso.
func NewStockInReceiptUseCase(stockIns *StockInUseCase, generator ReceiptGenerator) *StockInReceiptUseCase {
	return &StockInReceiptUseCase{stockIns: stockIns, generator: generator}
}

// Generate devuelve el PDF y un nombre de archivo sugerido.
func (uc *StockInReceiptUseCase) Generate(ctx context.Context, rc RequestContext, stockInID int64) ([]byte, string, error) {
	rec, err := uc.stockIns.Get(ctx, rc, stockInID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateStockInReceipt(ctx, rec)
	if err != nil {
		return nil, "", fmt.Errorf("generate receipt: %w", err)
	}
	return pdf, fmt.Sprintf("entrada-%d.pdf", rec.ID), nil
}
