// Package htmltable converts between HTML table elements and tables.
//
// ParseTable reads the cells of a <table> element into a sheetjson.StringsView
// that can be exported as Excel sheet, and Writer renders
// any sheetjson.Table as HTML <table> element.
package htmltable

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/domonda/go-sheetjson"
)

// Maximum colspan and rowspan values as defined by HTML,
// larger values are clamped.
const (
	MaxColSpan = 1000
	MaxRowSpan = 65534
)

// ErrNoTable is returned if a document has no matching <table> element.
var ErrNoTable = errors.New("no table element found")

// ParseTable parses an HTML document and returns
// the cells of its first <table> element.
//
// See ParseTableID
func ParseTable(r io.Reader) (*sheetjson.StringsView, error) {
	return ParseTableID(r, "")
}

// ParseTableID parses an HTML document and returns the cells
// of the <table> element with the passed id attribute,
// or of the first <table> element if id is empty.
//
// The first table row is used as column header,
// the text of the <caption> element as title.
// The text of a cell spanning multiple columns or rows
// is placed in its top left position, the other spanned positions
// are left empty. Spans are clamped to MaxColSpan and MaxRowSpan.
// Rows of nested tables and rows without any non whitespace text are ignored.
func ParseTableID(r io.Reader, id string) (*sheetjson.StringsView, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	table := findTable(doc, id)
	if table == nil {
		if id != "" {
			return nil, fmt.Errorf("%w with id %q", ErrNoTable, id)
		}
		return nil, ErrNoTable
	}

	var (
		title string
		rows  [][]string
		// spans holds per column the number of rows,
		// including the current one, covered by a previous cell
		spans []int
	)
	for _, tr := range tableRows(table) {
		var row []string
		col := 0
		for cell := tr.FirstChild; cell != nil; cell = cell.NextSibling {
			if cell.Type != html.ElementNode || (cell.DataAtom != atom.Td && cell.DataAtom != atom.Th) {
				continue
			}
			for col < len(spans) && spans[col] > 0 {
				col++
			}
			for len(row) <= col {
				row = append(row, "")
			}
			row[col] = cellText(cell)

			colSpan := spanAttr(cell, "colspan", MaxColSpan)
			rowSpan := spanAttr(cell, "rowspan", MaxRowSpan)
			for len(spans) < col+colSpan {
				spans = append(spans, 0)
			}
			for dc := range colSpan {
				spans[col+dc] = rowSpan
			}
			col += colSpan
		}
		for c := range spans {
			if spans[c] > 0 {
				spans[c]--
			}
		}
		rows = append(rows, row)
	}
	rows = sheetjson.RemoveEmptyStringRows(rows)
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Caption {
			title = cellText(c)
			break
		}
	}
	return sheetjson.NewStringsView(title, rows), nil
}

func findTable(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table && (id == "" || attr(n, "id") == id) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if table := findTable(c, id); table != nil {
			return table
		}
	}
	return nil
}

// tableRows returns the <tr> elements of a table
// including the ones within <thead>, <tbody> and <tfoot>.
func tableRows(table *html.Node) (rows []*html.Node) {
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Tr:
			rows = append(rows, c)
		case atom.Thead, atom.Tbody, atom.Tfoot:
			rows = append(rows, tableRows(c)...)
		}
	}
	return rows
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// spanAttr returns the span attribute key of n
// clamped to the range 1 to maxSpan.
func spanAttr(n *html.Node, key string, maxSpan int) int {
	span, err := strconv.Atoi(strings.TrimSpace(attr(n, key)))
	if err != nil || span < 1 {
		return 1
	}
	return min(span, maxSpan)
}

// cellText returns the text content of n
// with whitespace collapsed like a browser renders it
// and <br> elements as line breaks.
func cellText(n *html.Node) string {
	var (
		lines []string
		line  strings.Builder
	)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			line.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			lines = append(lines, line.String())
			line.Reset()
		case n.Type == html.ElementNode && n.DataAtom == atom.Table:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	lines = append(lines, line.String())

	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
