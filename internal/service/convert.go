package service

import (
	"fmt"

	"github.com/teemtee/tmt-web/internal/core"
	"github.com/teemtee/tmt-web/internal/domain/model"
)

// Field sets recognized on test and plan nodes. Anything else lands in the
// extra_data bag so nothing authored in the repository is silently lost.
var testFields = map[string]bool{
	"name": true, "summary": true, "description": true, "contact": true,
	"component": true, "enabled": true, "environment": true, "duration": true,
	"framework": true, "manual": true, "path": true, "tier": true,
	"order": true, "id": true, "link": true, "tag": true,
}

var planFields = map[string]bool{
	"name": true, "summary": true, "description": true, "prepare": true,
	"execute": true, "finish": true, "discover": true, "provision": true,
	"report": true, "enabled": true, "path": true, "order": true,
	"id": true, "link": true, "tag": true,
}

func testFromNode(ref core.ObjectRef, node map[string]any) *model.TestMetadata {
	test := &model.TestMetadata{
		Name:        ref.Name,
		Summary:     stringValue(node["summary"]),
		Description: stringValue(node["description"]),
		Contact:     stringList(node["contact"]),
		Component:   stringList(node["component"]),
		Enabled:     boolValue(node["enabled"]),
		Environment: mapValue(node["environment"]),
		Duration:    stringValue(node["duration"]),
		Framework:   stringValue(node["framework"]),
		Manual:      boolValue(node["manual"]),
		Path:        stringValue(node["path"]),
		Tier:        tierValue(node["tier"]),
		Order:       intValue(node["order"]),
		ID:          stringValue(node["id"]),
		Link:        listValue(node["link"]),
		Tag:         stringList(node["tag"]),
		FmfID:       fmfID(ref),
		Extra:       extraData(node, testFields),
	}
	return test
}

func planFromNode(ref core.ObjectRef, node map[string]any) *model.PlanMetadata {
	plan := &model.PlanMetadata{
		Name:        ref.Name,
		Summary:     stringValue(node["summary"]),
		Description: stringValue(node["description"]),
		Prepare:     mapList(node["prepare"]),
		Execute:     mapList(node["execute"]),
		Finish:      mapList(node["finish"]),
		Discover:    firstMap(node["discover"]),
		Provision:   firstMap(node["provision"]),
		Report:      firstMap(node["report"]),
		Enabled:     boolValue(node["enabled"]),
		Path:        stringValue(node["path"]),
		Order:       intValue(node["order"]),
		ID:          stringValue(node["id"]),
		Link:        listValue(node["link"]),
		Tag:         stringList(node["tag"]),
		FmfID:       fmfID(ref),
		Extra:       extraData(node, planFields),
	}
	return plan
}

// fmfID builds the canonical coordinates of the object from the request.
func fmfID(ref core.ObjectRef) *model.FmfID {
	return &model.FmfID{
		Name: ref.Name,
		URL:  ref.URL,
		Path: ref.Path,
		Ref:  ref.Ref,
	}
}

func extraData(node map[string]any, known map[string]bool) map[string]any {
	var extra map[string]any
	for k, v := range node {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return extra
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// tierValue keeps tiers as strings even when authored as numbers.
func tierValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func boolValue(v any) *bool {
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

func intValue(v any) *int {
	switch n := v.(type) {
	case int:
		return &n
	case float64:
		i := int(n)
		return &i
	default:
		return nil
	}
}

// stringList accepts both a single string and a list of strings, the way
// fmf authors write contact or tag fields.
func stringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprintf("%v", item))
			}
		}
		return out
	default:
		return nil
	}
}

func listValue(v any) []any {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		return val
	default:
		return []any{val}
	}
}

func mapValue(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// mapList normalizes phase definitions: a single mapping becomes a
// one-element list.
func mapList(v any) []map[string]any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return []map[string]any{val}
	case []any:
		out := make([]map[string]any, 0, len(val))
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// firstMap normalizes single-phase fields authored as lists: the first
// mapping wins.
func firstMap(v any) map[string]any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return val
	case []any:
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				return m
			}
		}
		return nil
	default:
		return nil
	}
}
