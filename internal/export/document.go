package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"dompet/internal/models"
	"dompet/internal/money"
	"dompet/internal/period"
	"dompet/internal/report"
)

// Document is the input of a printable report.
type Document struct {
	Title             string
	GeneratedAt       time.Time
	FilterDescription string
	Transactions      []models.Transaction
	Totals            report.Totals
}

type documentRow struct {
	Date        string
	Type        string
	Category    string
	Description string
	Account     string
	Amount      string
	Income      bool
}

type documentView struct {
	Title             string
	GeneratedAt       string
	FilterDescription string
	Rows              []documentRow
	TotalIncome       string
	TotalExpense      string
	Net               string
	Count             int
}

var documentTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 11px; color: #111827; margin: 24px; }
h1 { font-size: 18px; margin: 0 0 4px; }
.meta { color: #6b7280; margin-bottom: 16px; }
table { width: 100%; border-collapse: collapse; }
th, td { border-bottom: 1px solid #e5e7eb; padding: 6px 4px; text-align: left; }
th { background: #f3f4f6; }
td.amount, th.amount { text-align: right; }
.income { color: #16a34a; }
.expense { color: #dc2626; }
.empty { text-align: center; color: #6b7280; padding: 16px; }
.totals { margin-top: 16px; width: 40%; margin-left: auto; }
.totals td { border: none; }
</style>
</head>
<body>
<header>
<h1>{{.Title}}</h1>
<div class="meta">Dibuat: {{.GeneratedAt}}</div>
<div class="meta">Filter: {{.FilterDescription}}</div>
</header>
<table>
<thead>
<tr><th>Tanggal</th><th>Jenis</th><th>Kategori</th><th>Deskripsi</th><th>Rekening</th><th class="amount">Jumlah</th></tr>
</thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.Date}}</td><td>{{.Type}}</td><td>{{.Category}}</td><td>{{.Description}}</td><td>{{.Account}}</td><td class="amount {{if .Income}}income{{else}}expense{{end}}">{{.Amount}}</td></tr>
{{- else}}
<tr><td class="empty" colspan="6">Tidak ada transaksi</td></tr>
{{- end}}
</tbody>
</table>
<table class="totals">
<tr><td>Jumlah transaksi</td><td class="amount">{{.Count}}</td></tr>
<tr><td>Total Pemasukan</td><td class="amount income">{{.TotalIncome}}</td></tr>
<tr><td>Total Pengeluaran</td><td class="amount expense">{{.TotalExpense}}</td></tr>
<tr><td><strong>Selisih</strong></td><td class="amount"><strong>{{.Net}}</strong></td></tr>
</table>
</body>
</html>
`))

// DefaultTitle is used when a document has no title.
const DefaultTitle = "Laporan Transaksi"

// RenderDocument writes doc as a printable HTML page with a header block,
// the transaction table and a totals block.
func RenderDocument(w io.Writer, doc Document, lookup report.Lookup) error {
	view := documentView{
		Title:             doc.Title,
		GeneratedAt:       doc.GeneratedAt.Format("02/01/2006 15:04"),
		FilterDescription: doc.FilterDescription,
		Rows:              make([]documentRow, 0, len(doc.Transactions)),
		TotalIncome:       money.Format(doc.Totals.TotalIncome),
		TotalExpense:      money.Format(doc.Totals.TotalExpense),
		Net:               money.Format(doc.Totals.Net),
		Count:             doc.Totals.Count,
	}
	if view.Title == "" {
		view.Title = DefaultTitle
	}
	if view.FilterDescription == "" {
		view.FilterDescription = "Semua transaksi"
	}

	for _, tx := range doc.Transactions {
		view.Rows = append(view.Rows, documentRow{
			Date:        tx.TransactionDate.Format("02/01/2006"),
			Type:        tx.Type.Label(),
			Category:    lookup.CategoryName(tx),
			Description: tx.Description,
			Account:     lookup.AccountName(tx),
			Amount:      money.Format(tx.Amount),
			Income:      tx.Type == models.TransactionTypeIncome,
		})
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, view); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// DescribeFilter renders the active filter as a short human-readable line.
func DescribeFilter(f report.Filter, lookup report.Lookup) string {
	var parts []string

	switch {
	case f.From != nil && f.To != nil:
		parts = append(parts, fmt.Sprintf("%s s/d %s", period.DateKey(*f.From), period.DateKey(*f.To)))
	case f.From != nil:
		parts = append(parts, "sejak "+period.DateKey(*f.From))
	case f.To != nil:
		parts = append(parts, "sampai "+period.DateKey(*f.To))
	}

	if f.Type != "" && f.Type != report.All {
		parts = append(parts, "Jenis: "+models.TransactionType(f.Type).Label())
	}

	if f.CategoryID != "" && f.CategoryID != report.All {
		name, ok := lookup.CategoryNameByID(f.CategoryID)
		if !ok {
			name = report.FallbackCategoryName
		}
		parts = append(parts, "Kategori: "+name)
	}

	switch f.BankAccountID {
	case "", report.All:
	case report.NoAccount:
		parts = append(parts, "Rekening: "+report.FallbackAccountName)
	default:
		name, ok := lookup.AccountNameByID(f.BankAccountID)
		if !ok {
			name = report.FallbackAccountName
		}
		parts = append(parts, "Rekening: "+name)
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		parts = append(parts, fmt.Sprintf("Cari: %q", s))
	}

	if len(parts) == 0 {
		return "Semua transaksi"
	}
	return strings.Join(parts, "; ")
}
