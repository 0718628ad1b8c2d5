package descriptor

import (
	"strings"
	"testing"
)

func TestGetSchema_Compiles(t *testing.T) {
	if _, err := getSchema(); err != nil {
		t.Fatalf("embedded schema does not compile: %v", err)
	}
}

func TestValidate_Issues(t *testing.T) {
	tests := []struct {
		name    string
		doc     map[string]interface{}
		field   string
		keyword string
	}{
		{"missing command", map[string]interface{}{"requires": []interface{}{}}, "command", "required"},
		{"command type", map[string]interface{}{"command": 3}, "command", "type"},
		{"empty command", map[string]interface{}{"command": ""}, "command", "minLength"},
		{"name pattern", map[string]interface{}{"command": "x", "name": "has space"}, "name", "pattern"},
		{"requires item", map[string]interface{}{"command": "x", "requires": []interface{}{"a", 1}}, "requires", "type"},
		{"detached type", map[string]interface{}{"command": "x", "run_detached": "yes"}, "run_detached", "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate(tt.doc)
			if err != nil {
				t.Fatalf("Validate error: %v", err)
			}
			if result.Valid {
				t.Fatal("expected invalid, got valid")
			}
			issue := result.Issues[0]
			if issue.Field() != tt.field {
				t.Errorf("Field() = %q, want %q (path %q)", issue.Field(), tt.field, issue.Path)
			}
			if issue.Keyword != tt.keyword {
				t.Errorf("Keyword = %q, want %q", issue.Keyword, tt.keyword)
			}
			if strings.TrimSpace(issue.Message) == "" {
				t.Error("expected a message")
			}
		})
	}
}

func TestValidate_Valid(t *testing.T) {
	result, err := Validate(map[string]interface{}{
		"command":      "maya",
		"requires":     []interface{}{"maya-2023"},
		"run_detached": true,
		"custom_field": "ignored",
	})
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid, got %+v", result.Issues)
	}
}
