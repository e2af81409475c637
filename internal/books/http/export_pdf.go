package http

import (
	"fmt"
	"html"
	"strings"

	"github.com/mahesh-atx/capro/internal/books/reports"
	"github.com/mahesh-atx/capro/internal/format"
)

// The PDF documents are plain HTML tables handed to Gotenberg. Amounts use
// Indian digit grouping via the format package.

const pdfStyle = `<style>
body { font-family: sans-serif; font-size: 12px; margin: 24px; }
h1 { font-size: 18px; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; }
td.amount, th.amount { text-align: right; }
tr.total td { font-weight: bold; }
</style>`

func pdfDocument(title string, body string) string {
	var b strings.Builder
	b.WriteString("<html><head><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>")
	b.WriteString(pdfStyle)
	b.WriteString("</head><body><h1>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</h1>")
	b.WriteString(body)
	b.WriteString("</body></html>")
	return b.String()
}

func cell(s string) string {
	return "<td>" + html.EscapeString(s) + "</td>"
}

func amount(v float64) string {
	return `<td class="amount">` + html.EscapeString(format.Currency(v)) + "</td>"
}

func trialBalanceHTML(tb reports.TrialBalance) string {
	var b strings.Builder
	b.WriteString(`<table><tr><th>Ledger</th><th>Group</th><th class="amount">Debit</th><th class="amount">Credit</th></tr>`)
	for _, row := range tb.Rows {
		b.WriteString("<tr>" + cell(row.LedgerName) + cell(row.Group) + amount(row.DrAmount) + amount(row.CrAmount) + "</tr>")
	}
	b.WriteString(`<tr class="total">` + cell("Total") + cell("") + amount(tb.TotalDr) + amount(tb.TotalCr) + "</tr>")
	b.WriteString("</table>")
	if !tb.Balanced {
		b.WriteString(fmt.Sprintf("<p><strong>Warning:</strong> trial balance is out of balance by %s.</p>",
			html.EscapeString(format.Currency(tb.TotalDr-tb.TotalCr))))
	}
	return pdfDocument("Trial Balance", b.String())
}

func sectionRows(b *strings.Builder, section string, items []reports.LineItem) {
	for i, item := range items {
		label := ""
		if i == 0 {
			label = section
		}
		b.WriteString("<tr>" + cell(label) + cell(item.Name) + amount(item.Amount) + "</tr>")
	}
}

func profitLossHTML(pl reports.ProfitLoss) string {
	var b strings.Builder
	b.WriteString(`<table><tr><th>Section</th><th>Ledger</th><th class="amount">Amount</th></tr>`)
	sectionRows(&b, "Income", pl.IncomeItems)
	sectionRows(&b, "Expenses", pl.ExpenseItems)
	b.WriteString(`<tr class="total">` + cell("") + cell("Total Income") + amount(pl.TotalIncome) + "</tr>")
	b.WriteString(`<tr class="total">` + cell("") + cell("Total Expenses") + amount(pl.TotalExpenses) + "</tr>")
	label := "Net Profit"
	if pl.NetProfit < 0 {
		label = "Net Loss"
	}
	b.WriteString(`<tr class="total">` + cell("") + cell(label) + amount(pl.NetProfit) + "</tr>")
	b.WriteString("</table>")
	return pdfDocument("Profit & Loss", b.String())
}

func balanceSheetHTML(bs reports.BalanceSheet) string {
	var b strings.Builder
	b.WriteString(`<table><tr><th>Section</th><th>Ledger</th><th class="amount">Amount</th></tr>`)
	sectionRows(&b, "Assets", bs.Assets)
	sectionRows(&b, "Liabilities", bs.Liabilities)
	sectionRows(&b, "Capital", bs.Capital)
	b.WriteString(`<tr class="total">` + cell("") + cell("Total Assets") + amount(bs.TotalAssets) + "</tr>")
	b.WriteString(`<tr class="total">` + cell("") + cell("Liabilities + Capital") + amount(bs.TotalLiabilitiesAndCapital) + "</tr>")
	b.WriteString("</table>")
	return pdfDocument("Balance Sheet", b.String())
}
