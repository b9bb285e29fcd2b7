package server

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func toolByName(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range GetToolDefinitions() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not found", name)
	return Tool{}
}

func TestGetToolDefinitions(t *testing.T) {
	var names []string
	for _, tool := range GetToolDefinitions() {
		names = append(names, tool.Name)
	}
	sort.Strings(names)

	want := []string{
		"image_crop",
		"image_info",
		"image_sample_color",
		"strip_detect_holes",
		"strip_edge_print",
		"strip_estimate_angle",
		"strip_fit_line",
		"strip_group_rows",
		"strip_load",
		"strip_overlay",
		"strip_straighten",
		"strip_suggest_threshold",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("tool names mismatch (-want +got):\n%s", diff)
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}

			if schemaType := tool.InputSchema["type"]; schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required parameter must be described.
			required, _ := tool.InputSchema["required"].([]string)
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %q has no property", r)
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "strip_fit_line" {
			continue
		}
		t.Run(tool.Name, func(t *testing.T) {
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			for _, r := range required {
				if r == "path" {
					return
				}
			}
			t.Error("Tool should require 'path' parameter")
		})
	}
}

func TestToolDefinitions_PipelineOverrides(t *testing.T) {
	pipelineTools := []string{
		"strip_load",
		"strip_detect_holes",
		"strip_group_rows",
		"strip_estimate_angle",
		"strip_straighten",
		"strip_overlay",
		"strip_edge_print",
	}
	overrides := []string{
		"threshold", "border_min", "border_percent", "blur_size", "blur_relative",
		"min_hole_area", "max_hole_area", "grouper", "lookahead", "multiplier",
		"tolerance_degrees", "max_iterations",
	}

	for _, name := range pipelineTools {
		t.Run(name, func(t *testing.T) {
			props := toolByName(t, name).InputSchema["properties"].(map[string]interface{})
			for _, o := range overrides {
				if _, ok := props[o]; !ok {
					t.Errorf("missing override %q", o)
				}
			}
		})
	}
}

func TestToolDefinitions_GrouperEnum(t *testing.T) {
	props := toolByName(t, "strip_group_rows").InputSchema["properties"].(map[string]interface{})
	grouper, ok := props["grouper"].(map[string]interface{})
	if !ok {
		t.Fatal("grouper property should exist and be a map")
	}
	if diff := cmp.Diff([]string{"distance", "kmeans"}, grouper["enum"]); diff != "" {
		t.Errorf("grouper enum mismatch (-want +got):\n%s", diff)
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	toolDefaults := map[string]map[string]interface{}{
		"image_crop":       {"scale": 1.0},
		"strip_fit_line":   {"sort_by_x": false},
		"strip_straighten": {"return_image": false, "scale": 1.0},
		"strip_overlay":    {"line_color": "#FF0000", "show_boxes": true, "scale": 1.0},
		"strip_edge_print": {"band": "both", "language": "eng", "invert": false, "flip_upper": false, "ocr_scale": 3},
	}

	for toolName, expectedDefaults := range toolDefaults {
		props := toolByName(t, toolName).InputSchema["properties"].(map[string]interface{})
		for paramName, expected := range expectedDefaults {
			param, ok := props[paramName].(map[string]interface{})
			if !ok {
				t.Errorf("%s.%s: parameter not found or not a map", toolName, paramName)
				continue
			}
			if got := param["default"]; got != expected {
				t.Errorf("%s.%s: default got %v (%T), want %v (%T)", toolName, paramName, got, got, expected, expected)
			}
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New()
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1})

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != len(GetToolDefinitions()) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(GetToolDefinitions()))
	}
}
