package reports

import (
	"sort"

	"github.com/google/uuid"

	"github.com/mahesh-atx/capro/internal/books"
)

// Period is an inclusive date range on canonical YYYY-MM-DD strings. Empty
// bounds leave that end open. Lexical comparison is sound only because dates
// are validated to canonical form at voucher save.
type Period struct {
	From string `json:"startDate"`
	To   string `json:"endDate"`
}

// Contains reports whether the date falls inside the period.
func (p Period) Contains(date string) bool {
	if p.From != "" && date < p.From {
		return false
	}
	if p.To != "" && date > p.To {
		return false
	}
	return true
}

// DayBookRow is one voucher summarised for the day book.
type DayBookRow struct {
	VoucherID uuid.UUID         `json:"voucherId"`
	Number    string            `json:"voucherNo"`
	Date      string            `json:"date"`
	Type      books.VoucherType `json:"type"`
	Narration string            `json:"narration"`
	Amount    float64           `json:"amount"`
}

// DayBook is the chronological register of vouchers in a period.
type DayBook struct {
	Period Period       `json:"period"`
	Rows   []DayBookRow `json:"rows"`
	Total  float64      `json:"total"`
}

// BuildDayBook lists vouchers in the period in date order. A voucher's
// amount is its debit total, which equals the credit total for any voucher
// that passed the save check.
func BuildDayBook(vouchers []books.Voucher, period Period) DayBook {
	book := DayBook{Period: period, Rows: []DayBookRow{}}
	for _, v := range vouchers {
		if !period.Contains(v.Date) {
			continue
		}
		amount := books.CheckBalance(v.Entries).TotalDr
		book.Rows = append(book.Rows, DayBookRow{
			VoucherID: v.ID,
			Number:    v.Number,
			Date:      v.Date,
			Type:      v.Type,
			Narration: v.Narration,
			Amount:    amount,
		})
		book.Total += amount
	}
	sort.SliceStable(book.Rows, func(i, j int) bool {
		if book.Rows[i].Date != book.Rows[j].Date {
			return book.Rows[i].Date < book.Rows[j].Date
		}
		return book.Rows[i].Number < book.Rows[j].Number
	})
	return book
}
