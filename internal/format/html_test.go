package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/teemtee/tmt-web/internal/domain/model"
)

// parsePage parses rendered output and returns every element node.
func parsePage(t *testing.T, page string) []*html.Node {
	t.Helper()

	root, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)

	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return nodes
}

func findMetaRefresh(nodes []*html.Node) *html.Node {
	for _, n := range nodes {
		if n.Data != "meta" {
			continue
		}
		for _, attr := range n.Attr {
			if attr.Key == "http-equiv" && strings.EqualFold(attr.Val, "refresh") {
				return n
			}
		}
	}
	return nil
}

func TestRenderStatusPagePendingRefreshes(t *testing.T) {
	page, err := RenderStatusPage(StatusPageData{
		TaskID:      "abc-123",
		Status:      model.TaskStatusPending,
		CallbackURL: "http://localhost:8080/status/html?task-id=abc-123",
	})
	require.NoError(t, err)

	nodes := parsePage(t, page)
	assert.NotNil(t, findMetaRefresh(nodes), "pending page must keep polling")
	assert.Contains(t, page, "abc-123")
	assert.Contains(t, page, string(model.TaskStatusPending))
}

func TestRenderStatusPageTerminalStopsRefreshing(t *testing.T) {
	for _, status := range []model.TaskStatus{model.TaskStatusSuccess, model.TaskStatusFailure} {
		t.Run(string(status), func(t *testing.T) {
			page, err := RenderStatusPage(StatusPageData{
				TaskID:      "abc-123",
				Status:      status,
				CallbackURL: "http://localhost:8080/status/html?task-id=abc-123",
				Result:      "something happened",
			})
			require.NoError(t, err)

			nodes := parsePage(t, page)
			assert.Nil(t, findMetaRefresh(nodes), "terminal page must not refresh")
			assert.Contains(t, page, "something happened")
		})
	}
}

func TestRenderStatusPageEscapesResult(t *testing.T) {
	page, err := RenderStatusPage(StatusPageData{
		TaskID: "abc-123",
		Status: model.TaskStatusFailure,
		Result: `<script>alert("x")</script>`,
	})
	require.NoError(t, err)
	assert.NotContains(t, page, "<script>alert")
}

func TestFormatDataHTMLTestPage(t *testing.T) {
	page, err := FormatData(sampleTest(), HTML)
	require.NoError(t, err)

	nodes := parsePage(t, page)
	require.NotEmpty(t, nodes, "output must be parseable HTML")
	assert.Contains(t, page, "/tests/core/smoke")
	assert.Contains(t, page, "shell")
	assert.Contains(t, page, "fmf-id.url")
	assert.Contains(t, page, "https://github.com/teemtee/tmt")
}

func TestFormatDataHTMLPairPage(t *testing.T) {
	pair := &model.TestPlanMetadata{Test: sampleTest(), Plan: samplePlan()}
	page, err := FormatData(pair, HTML)
	require.NoError(t, err)

	assert.Contains(t, page, "Test: /tests/core/smoke")
	assert.Contains(t, page, "Plan: /plans/basic")
}

func TestFormatDataHTMLOmitsEmptyFields(t *testing.T) {
	page, err := FormatData(&model.PlanMetadata{Name: "/plans/min"}, HTML)
	require.NoError(t, err)

	assert.Contains(t, page, "/plans/min")
	assert.NotContains(t, page, "summary")
	assert.NotContains(t, page, "discover")
}
