package renderer

import (
	"bytes"

	md "github.com/nao1215/markdown"

	"github.com/hmoreau/netvalue/store"
)

// TransactionsMarkdown renders a listing, newest first as the store serves
// it. Soft-deleted rows are tagged on the kind column.
func TransactionsMarkdown(rows []store.ListedTransaction, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transactions")
	if len(rows) == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Date", "Account", "Kind", "Symbol", "Quantity", "Price", "Cash", "Fees", "ID"},
		Rows:   [][]string{},
	}
	for _, row := range rows {
		kind := string(row.Kind)
		if row.Deleted {
			kind += " (deleted)"
		}
		qty, price, cash := "", "", ""
		if row.IsStock() {
			qty = row.Quantity.String()
			price = money(row.Price, currency)
		} else {
			cash = money(row.CashAmount, currency)
		}
		fees := ""
		if !row.Fees.IsZero() {
			fees = money(row.Fees, currency)
		}
		table.Rows = append(table.Rows, []string{
			row.TradeDate().String(),
			row.Account,
			kind,
			row.Symbol,
			qty,
			price,
			cash,
			fees,
			row.ID,
		})
	}
	doc.Table(table)

	return doc.String()
}

// RevisionsMarkdown renders the audit trail of one transaction, oldest first.
func RevisionsMarkdown(id string, revs []store.TransactionRevision) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Revisions of " + id)
	if len(revs) == 0 {
		doc.PlainText("No revisions.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft},
		Header:    []string{"At", "Action", "Snapshot"},
		Rows:      [][]string{},
	}
	for _, rev := range revs {
		table.Rows = append(table.Rows, []string{
			rev.RevisedAt.Format("2006-01-02 15:04:05"),
			rev.Action,
			"`" + rev.Snapshot + "`",
		})
	}
	doc.Table(table)

	return doc.String()
}
