package renderer

import (
	"bytes"

	md "github.com/nao1215/markdown"

	"github.com/hmoreau/netvalue/store"
)

// AccountsMarkdown renders the account list.
func AccountsMarkdown(accounts []store.Account) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Accounts")
	if len(accounts) == 0 {
		doc.PlainText("No accounts. Create one with `nvc account add <name>`.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft},
		Header:    []string{"Name", "Created"},
		Rows:      [][]string{},
	}
	for _, a := range accounts {
		table.Rows = append(table.Rows, []string{a.Name, a.CreatedAt.Format("2006-01-02")})
	}
	doc.Table(table)

	return doc.String()
}
