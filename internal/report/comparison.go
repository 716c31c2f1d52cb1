// Package report renders the comparison sheet and the terminal budget
// summary.
package report

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/money"
	"github.com/movingout-dev/movingout/internal/pinning"
	"github.com/movingout-dev/movingout/internal/schema"
)

const maxKeyCosts = 5

// Comparison is everything the comparison sheet draws from.
type Comparison struct {
	Submission  *model.Submission
	Constants   *constants.Constants
	Schema      *schema.Schema
	Evidence    []model.EvidenceItem
	Files       []model.EvidenceFile
	GeneratedAt time.Time
}

var categoryTitles = map[model.PinCategory]string{
	model.PinHousing:        "Housing",
	model.PinTransportation: "Transportation",
}

// Markdown builds the comparison sheet as a Markdown document.
func (c Comparison) Markdown() string {
	var b strings.Builder
	b.WriteString("# Moving Out Project - Comparison Sheet\n\n")
	fmt.Fprintf(&b, "Snapshot date: %s | Generated: %s\n\n",
		cell(c.Constants.DatasetDate), c.GeneratedAt.UTC().Format(time.RFC3339))
	b.WriteString("*Disclaimer: This is a snapshot tool for coursework; confirm details from original sources when needed.*\n\n")

	b.WriteString("| Category | Chosen Option Summary | Key Costs | Key Flags / Warnings | Evidence URLs / Filenames |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	if len(c.Submission.Pinned) == 0 {
		b.WriteString("| No pinned options yet. | | | | |\n")
	}
	for _, p := range c.Submission.Pinned {
		title, ok := categoryTitles[p.Category]
		if !ok {
			title = string(p.Category)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			cell(title), cell(p.Label), cell(c.keyCosts(p)), cell(warnings(p)), cell(c.evidenceSummary(p)))
	}
	return b.String()
}

// HTML renders the comparison sheet as a standalone HTML page.
func (c Comparison) HTML() (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := md.Convert([]byte(c.Markdown()), &body); err != nil {
		return "", fmt.Errorf("rendering comparison sheet: %w", err)
	}
	return fmt.Sprintf(pageTemplate, body.String()), nil
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Comparison Sheet</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; color: #111; }
table { width: 100%%; border-collapse: collapse; margin-top: 16px; }
th, td { border: 1px solid #bbb; padding: 8px; text-align: left; vertical-align: top; }
th { background: #f3f5f8; }
</style>
</head>
<body>
%s</body>
</html>
`

// keyCosts lists the first numeric snapshot values in the category's
// configured field order.
func (c Comparison) keyCosts(p model.PinnedChoice) string {
	var keys []string
	if c.Schema != nil {
		if pc, ok := c.Schema.PinCategory(p.Category); ok {
			keys = pc.SnapshotFieldIDs
		}
	}
	if keys == nil {
		for k := range p.Snapshot {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	var parts []string
	for _, k := range keys {
		v, ok := number(p.Snapshot[k])
		if !ok {
			continue
		}
		if strings.HasSuffix(k, "_ratio") {
			parts = append(parts, fmt.Sprintf("%s: %s%%", k, money.RoundFloat(v*100).StringFixed(0)))
		} else {
			parts = append(parts, fmt.Sprintf("%s: $%s", k, money.RoundFloat(v).StringFixed(2)))
		}
		if len(parts) == maxKeyCosts {
			break
		}
	}
	if len(parts) == 0 {
		return "No numeric cost fields pinned."
	}
	return strings.Join(parts, ", ")
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	}
	return 0, false
}

func warnings(p model.PinnedChoice) string {
	var out []string
	if p.Snapshot[pinning.SnapshotAffordabilityFail] == true {
		out = append(out, "Affordability warning")
	}
	if p.Snapshot[pinning.SnapshotDeficit] == true {
		out = append(out, "Deficit")
	}
	if p.Snapshot[pinning.SnapshotFragileBuffer] == true {
		out = append(out, "Low buffer")
	}
	if len(out) == 0 {
		return "No active warnings"
	}
	return strings.Join(out, ", ")
}

func (c Comparison) evidenceSummary(p model.PinnedChoice) string {
	items := make(map[string]model.EvidenceItem, len(c.Evidence))
	for _, item := range c.Evidence {
		items[item.ID] = item
	}
	files := make(map[string]string, len(c.Files))
	for _, f := range c.Files {
		files[f.ID] = f.Filename
	}

	var chunks []string
	for _, id := range p.EvidenceIDs {
		item, ok := items[id]
		if !ok {
			continue
		}
		if u := strings.TrimSpace(item.URL); u != "" {
			chunks = append(chunks, u)
		}
		for _, fid := range item.FileIDs {
			if name, ok := files[fid]; ok {
				chunks = append(chunks, name)
			}
		}
	}
	if len(chunks) == 0 {
		return "No evidence linked"
	}
	return strings.Join(chunks, " / ")
}

// cell makes text safe inside a Markdown table cell.
func cell(s string) string {
	s = html.EscapeString(s)
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
