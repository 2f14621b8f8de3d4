package format

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teemtee/tmt-web/internal/domain/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "", want: HTML},
		{input: "html", want: HTML},
		{input: "json", want: JSON},
		{input: "yaml", want: YAML},
		{input: "JSON", want: JSON},
		{input: "Html", want: HTML},
		{input: "xml", wantErr: true},
		{input: "yml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("input "+tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported output format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", JSON.ContentType())
	assert.Equal(t, "text/plain; charset=utf-8", YAML.ContentType())
	assert.Equal(t, "text/html; charset=utf-8", HTML.ContentType())
}

func sampleTest() *model.TestMetadata {
	enabled := true
	return &model.TestMetadata{
		Name:      "/tests/core/smoke",
		Summary:   "Basic smoke test",
		Framework: "shell",
		Contact:   []string{"Jane Doe <jane@example.com>"},
		Enabled:   &enabled,
		Duration:  "5m",
		FmfID: &model.FmfID{
			Name: "/tests/core/smoke",
			URL:  "https://github.com/teemtee/tmt",
			Ref:  "main",
		},
	}
}

func samplePlan() *model.PlanMetadata {
	return &model.PlanMetadata{
		Name:    "/plans/basic",
		Summary: "Basic plan",
		Execute: []map[string]any{{"how": "tmt"}},
		Discover: map[string]any{
			"how": "fmf",
		},
	}
}

func TestSerializeDeserializeTest(t *testing.T) {
	stored, err := Serialize(sampleTest())
	require.NoError(t, err)

	obj, err := Deserialize(stored)
	require.NoError(t, err)

	test, ok := obj.(*model.TestMetadata)
	require.True(t, ok, "framework key must sniff as a test")
	assert.Equal(t, "/tests/core/smoke", test.Name)
	assert.Equal(t, "shell", test.Framework)
	require.NotNil(t, test.FmfID)
	assert.Equal(t, "main", test.FmfID.Ref)
}

func TestSerializeDeserializeTestWithoutFramework(t *testing.T) {
	stored, err := Serialize(&model.TestMetadata{
		Name:     "/tests/manual/review",
		Contact:  []string{"Jane Doe <jane@example.com>"},
		Duration: "15m",
		Tier:     "2",
	})
	require.NoError(t, err)

	obj, err := Deserialize(stored)
	require.NoError(t, err)

	test, ok := obj.(*model.TestMetadata)
	require.True(t, ok, "tests without a framework must still sniff as tests")
	assert.Equal(t, "/tests/manual/review", test.Name)
	assert.Equal(t, []string{"Jane Doe <jane@example.com>"}, test.Contact)
	assert.Equal(t, "15m", test.Duration)
	assert.Equal(t, "2", test.Tier)
}

func TestSerializeDeserializePlan(t *testing.T) {
	stored, err := Serialize(samplePlan())
	require.NoError(t, err)

	obj, err := Deserialize(stored)
	require.NoError(t, err)

	plan, ok := obj.(*model.PlanMetadata)
	require.True(t, ok, "document without framework or pair keys sniffs as a plan")
	assert.Equal(t, "/plans/basic", plan.Name)
	require.Len(t, plan.Execute, 1)
	assert.Equal(t, "tmt", plan.Execute[0]["how"])
}

func TestSerializeDeserializePair(t *testing.T) {
	pair := &model.TestPlanMetadata{Test: sampleTest(), Plan: samplePlan()}
	stored, err := Serialize(pair)
	require.NoError(t, err)

	obj, err := Deserialize(stored)
	require.NoError(t, err)

	got, ok := obj.(*model.TestPlanMetadata)
	require.True(t, ok)
	assert.Equal(t, "/tests/core/smoke", got.Test.Name)
	assert.Equal(t, "/plans/basic", got.Plan.Name)
}

func TestDeserializeRejectsNonDocuments(t *testing.T) {
	_, err := Deserialize("not json at all")
	require.Error(t, err)

	_, err = Deserialize(`{"detail": "some error body"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a metadata document")
}

func TestFormatDataJSON(t *testing.T) {
	out, err := FormatData(sampleTest(), JSON)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "/tests/core/smoke", decoded["name"])
	assert.Equal(t, "shell", decoded["framework"])
}

func TestFormatDataYAML(t *testing.T) {
	out, err := FormatData(samplePlan(), YAML)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "/plans/basic", decoded["name"])
}

func TestFormatDataUnknownFormat(t *testing.T) {
	_, err := FormatData(sampleTest(), Format("csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}
