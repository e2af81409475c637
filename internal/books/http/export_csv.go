package http

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mahesh-atx/capro/internal/books/reports"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

// csvStreamer writes CSV rows through a buffered writer, flushing in batches
// so large registers stream instead of buffering whole.
type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	if s == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if !strings.HasSuffix(line, "\r\n") {
		line = strings.TrimSuffix(line, "\n")
		line += "\r\n"
	}
	_, err := s.buf.WriteString(line)
	return err
}

func (s *csvStreamer) writeRow(row []string) error {
	if s == nil || s.csv == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	if s == nil || s.csv == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

func (s *csvStreamer) Close() error {
	return s.Flush()
}

func amountCell(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeTrialBalanceCSV(s *csvStreamer, tb reports.TrialBalance) error {
	if err := s.writeComment("# Report: Trial Balance"); err != nil {
		return err
	}
	if err := s.writeRow([]string{"Ledger", "Group", "Debit", "Credit"}); err != nil {
		return err
	}
	for _, row := range tb.Rows {
		if err := s.writeRow([]string{row.LedgerName, row.Group, amountCell(row.DrAmount), amountCell(row.CrAmount)}); err != nil {
			return err
		}
	}
	if err := s.writeRow([]string{"Total", "", amountCell(tb.TotalDr), amountCell(tb.TotalCr)}); err != nil {
		return err
	}
	if err := s.writeRow([]string{"Balanced", "", "", strconv.FormatBool(tb.Balanced)}); err != nil {
		return err
	}
	return s.Close()
}

func writeProfitLossCSV(s *csvStreamer, pl reports.ProfitLoss) error {
	if err := s.writeComment("# Report: Profit & Loss"); err != nil {
		return err
	}
	if err := s.writeRow([]string{"Section", "Ledger", "Group", "Amount"}); err != nil {
		return err
	}
	for _, item := range pl.IncomeItems {
		if err := s.writeRow([]string{"Income", item.Name, item.Group, amountCell(item.Amount)}); err != nil {
			return err
		}
	}
	for _, item := range pl.ExpenseItems {
		if err := s.writeRow([]string{"Expense", item.Name, item.Group, amountCell(item.Amount)}); err != nil {
			return err
		}
	}
	totals := [][]string{
		{"Totals", "Total Income", "", amountCell(pl.TotalIncome)},
		{"Totals", "Total Expenses", "", amountCell(pl.TotalExpenses)},
		{"Totals", "Net Profit", "", amountCell(pl.NetProfit)},
	}
	for _, row := range totals {
		if err := s.writeRow(row); err != nil {
			return err
		}
	}
	return s.Close()
}

func writeBalanceSheetCSV(s *csvStreamer, bs reports.BalanceSheet) error {
	if err := s.writeComment("# Report: Balance Sheet"); err != nil {
		return err
	}
	if err := s.writeRow([]string{"Section", "Ledger", "Group", "Amount"}); err != nil {
		return err
	}
	sections := []struct {
		name  string
		items []reports.LineItem
	}{
		{"Assets", bs.Assets},
		{"Liabilities", bs.Liabilities},
		{"Capital", bs.Capital},
	}
	for _, section := range sections {
		for _, item := range section.items {
			if err := s.writeRow([]string{section.name, item.Name, item.Group, amountCell(item.Amount)}); err != nil {
				return err
			}
		}
	}
	totals := [][]string{
		{"Totals", "Total Assets", "", amountCell(bs.TotalAssets)},
		{"Totals", "Total Liabilities", "", amountCell(bs.TotalLiabilities)},
		{"Totals", "Total Capital", "", amountCell(bs.TotalCapital)},
		{"Totals", "Liabilities + Capital", "", amountCell(bs.TotalLiabilitiesAndCapital)},
	}
	for _, row := range totals {
		if err := s.writeRow(row); err != nil {
			return err
		}
	}
	return s.Close()
}

func writeDayBookCSV(s *csvStreamer, book reports.DayBook) error {
	if err := s.writeComment("# Report: Day Book"); err != nil {
		return err
	}
	if err := s.writeRow([]string{"Date", "Voucher No", "Type", "Narration", "Amount"}); err != nil {
		return err
	}
	for _, row := range book.Rows {
		if err := s.writeRow([]string{row.Date, row.Number, string(row.Type), row.Narration, amountCell(row.Amount)}); err != nil {
			return err
		}
	}
	if err := s.writeRow([]string{"", "", "", "Total", amountCell(book.Total)}); err != nil {
		return err
	}
	return s.Close()
}

func writeStatementCSV(s *csvStreamer, st reports.Statement) error {
	if err := s.writeComment("# Report: Ledger Statement - " + st.LedgerName); err != nil {
		return err
	}
	if err := s.writeRow([]string{"Date", "Voucher No", "Type", "Particulars", "Debit", "Credit", "Balance", "Side"}); err != nil {
		return err
	}
	opening := []string{"", "", "", "Balance b/f", "", "", amountCell(st.Opening), string(st.OpeningSide)}
	if err := s.writeRow(opening); err != nil {
		return err
	}
	for _, row := range st.Rows {
		if err := s.writeRow([]string{
			row.Date, row.Number, string(row.Type), row.Particulars,
			amountCell(row.Debit), amountCell(row.Credit),
			amountCell(row.Balance), string(row.BalanceSide),
		}); err != nil {
			return err
		}
	}
	closing := []string{"", "", "", "Balance c/f", "", "", amountCell(st.Closing), string(st.ClosingSide)}
	if err := s.writeRow(closing); err != nil {
		return err
	}
	return s.Close()
}
