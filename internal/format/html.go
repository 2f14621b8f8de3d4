package format

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teemtee/tmt-web/internal/domain/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// StatusPageData feeds the self-refreshing status callback page.
type StatusPageData struct {
	TaskID      string
	Status      model.TaskStatus
	CallbackURL string
	Result      string
}

// Refresh reports whether the page should keep polling.
func (d StatusPageData) Refresh() bool {
	return !d.Status.Terminal()
}

// RenderStatusPage renders the HTML status callback page for a task.
func RenderStatusPage(data StatusPageData) (string, error) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "status.html.tmpl", data); err != nil {
		return "", fmt.Errorf("render status page: %w", err)
	}
	return buf.String(), nil
}

// fieldRow is one label/value line of a rendered metadata section.
type fieldRow struct {
	Label string
	Value string
}

// pageSection groups the rows of one rendered object.
type pageSection struct {
	Title string
	Rows  []fieldRow
}

type objectPageData struct {
	Title    string
	Sections []pageSection
}

func renderObjectPage(obj model.Object) (string, error) {
	var data objectPageData

	switch o := obj.(type) {
	case *model.TestMetadata:
		data = objectPageData{
			Title:    o.Name,
			Sections: []pageSection{testSection(o)},
		}
	case *model.PlanMetadata:
		data = objectPageData{
			Title:    o.Name,
			Sections: []pageSection{planSection(o)},
		}
	case *model.TestPlanMetadata:
		data = objectPageData{
			Title:    o.Test.Name + " & " + o.Plan.Name,
			Sections: []pageSection{testSection(o.Test), planSection(o.Plan)},
		}
	default:
		return "", fmt.Errorf("unsupported object kind: %v", obj.Kind())
	}

	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "object.html.tmpl", data); err != nil {
		return "", fmt.Errorf("render object page: %w", err)
	}
	return buf.String(), nil
}

func testSection(t *model.TestMetadata) pageSection {
	rows := []fieldRow{{Label: "name", Value: t.Name}}
	rows = appendRow(rows, "summary", t.Summary)
	rows = appendRow(rows, "description", t.Description)
	rows = appendRow(rows, "contact", strings.Join(t.Contact, ", "))
	rows = appendRow(rows, "component", strings.Join(t.Component, ", "))
	rows = appendBoolRow(rows, "enabled", t.Enabled)
	rows = appendValueRow(rows, "environment", t.Environment)
	rows = appendRow(rows, "duration", t.Duration)
	rows = appendRow(rows, "framework", t.Framework)
	rows = appendBoolRow(rows, "manual", t.Manual)
	rows = appendRow(rows, "path", t.Path)
	rows = appendRow(rows, "tier", t.Tier)
	if t.Order != nil {
		rows = append(rows, fieldRow{Label: "order", Value: fmt.Sprintf("%d", *t.Order)})
	}
	rows = appendRow(rows, "id", t.ID)
	rows = appendValueRow(rows, "link", t.Link)
	rows = appendRow(rows, "tag", strings.Join(t.Tag, ", "))
	rows = appendFmfIDRows(rows, t.FmfID)
	rows = appendExtraRows(rows, t.Extra)
	return pageSection{Title: "Test: " + t.Name, Rows: rows}
}

func planSection(p *model.PlanMetadata) pageSection {
	rows := []fieldRow{{Label: "name", Value: p.Name}}
	rows = appendRow(rows, "summary", p.Summary)
	rows = appendRow(rows, "description", p.Description)
	rows = appendValueRow(rows, "discover", p.Discover)
	rows = appendValueRow(rows, "provision", p.Provision)
	rows = appendValueRow(rows, "prepare", p.Prepare)
	rows = appendValueRow(rows, "execute", p.Execute)
	rows = appendValueRow(rows, "report", p.Report)
	rows = appendValueRow(rows, "finish", p.Finish)
	rows = appendBoolRow(rows, "enabled", p.Enabled)
	rows = appendRow(rows, "path", p.Path)
	if p.Order != nil {
		rows = append(rows, fieldRow{Label: "order", Value: fmt.Sprintf("%d", *p.Order)})
	}
	rows = appendRow(rows, "id", p.ID)
	rows = appendValueRow(rows, "link", p.Link)
	rows = appendRow(rows, "tag", strings.Join(p.Tag, ", "))
	rows = appendFmfIDRows(rows, p.FmfID)
	rows = appendExtraRows(rows, p.Extra)
	return pageSection{Title: "Plan: " + p.Name, Rows: rows}
}

func appendRow(rows []fieldRow, label, value string) []fieldRow {
	if value == "" {
		return rows
	}
	return append(rows, fieldRow{Label: label, Value: value})
}

func appendBoolRow(rows []fieldRow, label string, value *bool) []fieldRow {
	if value == nil {
		return rows
	}
	return append(rows, fieldRow{Label: label, Value: fmt.Sprintf("%t", *value)})
}

// appendValueRow renders structured values (maps, lists) as YAML so the
// page stays readable without per-field templates.
func appendValueRow(rows []fieldRow, label string, value any) []fieldRow {
	if isEmptyValue(value) {
		return rows
	}
	encoded, err := yaml.Marshal(value)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%v", value))
	}
	return append(rows, fieldRow{Label: label, Value: strings.TrimSpace(string(encoded))})
}

func appendFmfIDRows(rows []fieldRow, id *model.FmfID) []fieldRow {
	if id == nil {
		return rows
	}
	rows = append(rows, fieldRow{Label: "fmf-id.name", Value: id.Name})
	rows = appendRow(rows, "fmf-id.url", id.URL)
	rows = appendRow(rows, "fmf-id.path", id.Path)
	rows = appendRow(rows, "fmf-id.ref", id.Ref)
	return rows
}

func appendExtraRows(rows []fieldRow, extra map[string]any) []fieldRow {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = appendValueRow(rows, k, extra[k])
	}
	return rows
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case []map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case string:
		return v == ""
	default:
		return false
	}
}
