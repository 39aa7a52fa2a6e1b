// Package export writes order history spreadsheets.
package export

import (
	"io"
	"strconv"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/orderstatus"
)

const sheetName = "Sheet1"

// OrderRow is one exported order.
type OrderRow struct {
	ID            int64   `csv:"pedido"`
	CreatedAt     string  `csv:"fecha"`
	Customer      string  `csv:"cliente"`
	Phone         string  `csv:"telefono"`
	PaymentMethod string  `csv:"forma_pago"`
	Status        string  `csv:"estado"`
	Items         int     `csv:"productos"`
	Total         float64 `csv:"total"`
	Notes         string  `csv:"notas"`
}

var headers = []string{"Pedido", "Fecha", "Cliente", "Telefono", "Forma de pago", "Estado", "Productos", "Total", "Notas"}

// Rows flattens orders, labelling statuses with vocab.
func Rows(orders []domain.Order, vocab *orderstatus.Vocabulary) []OrderRow {
	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		row := OrderRow{
			ID:     o.ID,
			Status: vocab.Lookup(o.Status).Label,
			Items:  len(o.Items),
			Total:  o.Total,
			Notes:  o.Notes,
		}
		if !o.CreatedAt.IsZero() {
			row.CreatedAt = o.CreatedAt.Format("2006-01-02 15:04")
		}
		if o.Customer != nil {
			row.Customer = o.Customer.DisplayName()
			row.Phone = o.Customer.ContactPhone()
		}
		if g, ok := o.Customer.(domain.GuestCustomer); ok {
			row.PaymentMethod = g.PaymentMethod.Label()
		}
		rows = append(rows, row)
	}
	return rows
}

func CSV(rows []OrderRow) ([]byte, error) {
	b, err := gocsv.MarshalBytes(&rows)
	return b, errors.Wrap(err, "marshal orders csv")
}

// XLSX writes rows as a workbook with a header line.
func XLSX(w io.Writer, rows []OrderRow) error {
	xlsx := excelize.NewFile()
	for i, h := range headers {
		xlsx.SetCellValue(sheetName, cell(i, 1), h)
	}
	for r, row := range rows {
		line := r + 2
		values := []interface{}{row.ID, row.CreatedAt, row.Customer, row.Phone, row.PaymentMethod, row.Status, row.Items, row.Total, row.Notes}
		for i, v := range values {
			xlsx.SetCellValue(sheetName, cell(i, line), v)
		}
	}
	return errors.Wrap(xlsx.Write(w), "write orders xlsx")
}

// cell names a zero-based column and one-based row, e.g. cell(26, 5) is AA5.
func cell(col, row int) string {
	return excelize.ToAlphaString(col) + strconv.Itoa(row)
}
