package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"civicrec-monitor/snapshot"
)

// ColumnConfig controls how the date and time columns of a schedule table are
// resolved. When no header row is identifiable, or neither keyword matches,
// the fallback indexes are used; they reflect the site's typical column
// ordering, so results derived from them are lower-confidence.
type ColumnConfig struct {
	DateKeywords       []string
	TimeKeywords       []string
	FallbackDateColumn int
	FallbackTimeColumn int
}

// DefaultColumnConfig returns the column tuning matching the target site.
func DefaultColumnConfig() ColumnConfig {
	return ColumnConfig{
		DateKeywords:       []string{"date"},
		TimeKeywords:       []string{"time"},
		FallbackDateColumn: 4,
		FallbackTimeColumn: 5,
	}
}

// ExtractFromDocument runs the static part of the fallback chain against one
// document: a real table following the label wins over an ARIA grid, which
// wins over token extraction on the text surrounding the label. Returns nil
// when the label does not appear in the document.
func ExtractFromDocument(pageHTML, label string, cfg ColumnConfig) []snapshot.SessionRecord {
	if records := StructuredRecords(pageHTML, label, cfg); len(records) > 0 {
		return records
	}
	return FreeTextRecords(pageHTML, label)
}

// StructuredRecords parses the first table-shaped structure that follows the
// label in document order, preferring a real table over an ARIA grid.
func StructuredRecords(pageHTML, label string, cfg ColumnConfig) []snapshot.SessionRecord {
	root, marker := locateLabel(pageHTML, label)
	if marker == nil {
		return nil
	}
	if tbl := firstAfter(root, marker, isTable); tbl != nil {
		if records := recordsFromGrid(tableData(tbl), cfg); len(records) > 0 {
			return records
		}
	}
	if grid := firstAfter(root, marker, isAriaGrid); grid != nil {
		if records := recordsFromGrid(ariaGridData(grid), cfg); len(records) > 0 {
			return records
		}
	}
	return nil
}

// FreeTextRecords runs token extraction on the visible text of the nearest
// structural ancestor of the label.
func FreeTextRecords(pageHTML, label string) []snapshot.SessionRecord {
	_, marker := locateLabel(pageHTML, label)
	if marker == nil {
		return nil
	}
	return RecordsFromText(textAroundLabel(marker))
}

func locateLabel(pageHTML, label string) (root, marker *html.Node) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, nil
	}
	nodes := doc.Selection.Nodes
	if len(nodes) == 0 {
		return nil, nil
	}
	return nodes[0], labelNode(nodes[0], label)
}

// FirstTableRecords parses the first table in a document, regardless of where
// the label sits. Used for frame content that only holds the schedule.
func FirstTableRecords(pageHTML string, cfg ColumnConfig) []snapshot.SessionRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil
	}
	root := doc.Selection.Nodes
	if len(root) == 0 {
		return nil
	}
	tbl := findNode(root[0], isTable)
	if tbl == nil {
		return nil
	}
	return recordsFromGrid(tableData(tbl), cfg)
}

// RecordsFromText runs token extraction directly on a text blob and wraps the
// result in a single record. Returns nil when no token of either class
// matched.
func RecordsFromText(text string) []snapshot.SessionRecord {
	dates := ExtractDates(text)
	times := ExtractTimes(text)
	if len(dates) == 0 && len(times) == 0 {
		return nil
	}
	return []snapshot.SessionRecord{snapshot.NewSessionRecord(dates, times)}
}

// gridData is the header row and data rows of a table-shaped structure,
// flattened to cell text.
type gridData struct {
	headers []string
	rows    [][]string
}

// recordsFromGrid resolves the date/time columns and emits one record per
// data row that yielded at least one token.
func recordsFromGrid(data gridData, cfg ColumnConfig) []snapshot.SessionRecord {
	dateCol, timeCol := resolveColumns(data.headers, cfg)

	var records []snapshot.SessionRecord
	for _, row := range data.rows {
		combined := combinedCellText(row, dateCol, timeCol)
		dates := ExtractDates(combined)
		times := ExtractTimes(combined)
		if len(dates) == 0 && len(times) == 0 {
			continue
		}
		records = append(records, snapshot.NewSessionRecord(dates, times))
	}
	return records
}

// resolveColumns scans header cells for the configured keywords and falls
// back to the fixed positional defaults for any column it cannot identify.
func resolveColumns(headers []string, cfg ColumnConfig) (dateCol, timeCol int) {
	dateCol, timeCol = cfg.FallbackDateColumn, cfg.FallbackTimeColumn
	foundDate, foundTime := false, false
	for i, cell := range headers {
		lower := strings.ToLower(cell)
		if !foundDate && containsAny(lower, cfg.DateKeywords) {
			dateCol, foundDate = i, true
		}
		if !foundTime && containsAny(lower, cfg.TimeKeywords) {
			timeCol, foundTime = i, true
		}
	}
	return dateCol, timeCol
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// combinedCellText concatenates the two target cells. A row too short for
// either index contributes its whole text instead, so a malformed row can
// still yield tokens.
func combinedCellText(row []string, dateCol, timeCol int) string {
	if dateCol >= len(row) || timeCol >= len(row) {
		return strings.Join(row, " ")
	}
	return row[dateCol] + " " + row[timeCol]
}

// tableData flattens a <table> node. Rows containing <th> cells belong to the
// header and are excluded from the data rows.
func tableData(tbl *html.Node) gridData {
	sel := goquery.NewDocumentFromNode(tbl).Selection
	var data gridData
	sel.Find("tr").Each(func(_ int, row *goquery.Selection) {
		ths := row.Find("th")
		if ths.Length() > 0 {
			if len(data.headers) == 0 {
				ths.Each(func(_ int, cell *goquery.Selection) {
					data.headers = append(data.headers, strings.TrimSpace(cell.Text()))
				})
			}
			return
		}
		var cells []string
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) > 0 {
			data.rows = append(data.rows, cells)
		}
	})
	return data
}

// ariaGridData flattens a role=grid/role=table structure the same way,
// treating columnheader cells as the header row.
func ariaGridData(grid *html.Node) gridData {
	sel := goquery.NewDocumentFromNode(grid).Selection
	var data gridData
	sel.Find(`[role="row"]`).Each(func(_ int, row *goquery.Selection) {
		headerCells := row.Find(`[role="columnheader"]`)
		if headerCells.Length() > 0 {
			if len(data.headers) == 0 {
				headerCells.Each(func(_ int, cell *goquery.Selection) {
					data.headers = append(data.headers, strings.TrimSpace(cell.Text()))
				})
			}
			return
		}
		var cells []string
		row.Find(`[role="cell"], [role="gridcell"]`).Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) > 0 {
			data.rows = append(data.rows, cells)
		}
	})
	return data
}

// labelNode returns the deepest element whose text contains the label,
// case-insensitively, or nil when the label is absent.
func labelNode(n *html.Node, label string) *html.Node {
	if n.Type != html.ElementNode && n.Type != html.DocumentNode {
		return nil
	}
	if !textContains(n, label) {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := labelNode(c, label); found != nil {
			return found
		}
	}
	if n.Type == html.ElementNode {
		return n
	}
	return nil
}

// textContains compares with whitespace collapsed on both sides, so a label
// wrapped or indented in the source markup still matches.
func textContains(n *html.Node, label string) bool {
	return strings.Contains(
		collapseSpace(strings.ToLower(nodeText(n))),
		collapseSpace(strings.ToLower(label)),
	)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// firstAfter walks the tree in document order and returns the first matching
// element encountered after the marker node.
func firstAfter(root, marker *html.Node, match func(*html.Node) bool) *html.Node {
	passed := false
	var walk func(*html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if n == marker {
			passed = true
		} else if passed && n.Type == html.ElementNode && match(n) {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(root)
}

// findNode returns the first matching element in document order.
func findNode(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root.Type == html.ElementNode && match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func isTable(n *html.Node) bool {
	return n.Data == "table"
}

func isAriaGrid(n *html.Node) bool {
	role := attrValue(n, "role")
	return role == "grid" || role == "table"
}

func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// textAroundLabel reads the visible text of the nearest structural ancestor
// of the label, matching how the schedule sits next to the listing title when
// the page renders it as free text.
func textAroundLabel(marker *html.Node) string {
	for n := marker.Parent; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.Data {
		case "div", "section", "table", "article", "li":
			return nodeText(n)
		}
	}
	return nodeText(marker)
}
