// Package export serializes a filtered transaction set to CSV and to a
// printable document.
package export

import (
	"bytes"
	"io"
	"strings"

	"dompet/internal/models"
	"dompet/internal/period"
	"dompet/internal/report"
)

// bom marks the file as UTF-8 for spreadsheet applications.
const bom = "\uFEFF"

// CSVHeader is the fixed column order of CSV exports.
var CSVHeader = []string{
	"date",
	"type",
	"category",
	"description",
	"account",
	"amount",
	"transaction_id",
	"category_id",
	"bank_account_id",
}

// WriteCSV writes one row per transaction after a BOM and the header row.
// Every field is quoted. Amounts are written as plain decimal strings.
// The whole file is built in memory first, so nothing reaches w on failure.
func WriteCSV(w io.Writer, txs []models.Transaction, lookup report.Lookup) error {
	var buf bytes.Buffer
	buf.WriteString(bom)
	writeRecord(&buf, CSVHeader)

	for _, tx := range txs {
		writeRecord(&buf, []string{
			period.DateKey(tx.TransactionDate),
			tx.Type.Label(),
			lookup.CategoryName(tx),
			tx.Description,
			lookup.AccountName(tx),
			tx.Amount.String(),
			tx.ID,
			deref(tx.CategoryID),
			deref(tx.BankAccountID),
		})
	}

	_, err := buf.WriteTo(w)
	return err
}

// writeRecord writes fields comma-separated, each wrapped in double quotes
// with embedded quotes doubled, terminated by CRLF.
func writeRecord(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString("\r\n")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
