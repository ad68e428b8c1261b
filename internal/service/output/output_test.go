package output_test

import (
	"strings"
	"testing"

	"github.com/khanape/khana-cli/internal/service/output"
)

func TestBuildEnvelope(t *testing.T) {
	env := output.BuildEnvelope("+919123456789", map[string]any{"ok": true}, nil, nil)
	if env.Meta["user"] != "+919123456789" {
		t.Fatalf("expected user label, got %v", env.Meta["user"])
	}
	requestID, _ := env.Meta["request_id"].(string)
	if !strings.HasPrefix(requestID, "req_") {
		t.Fatalf("expected request_id prefix req_, got %q", requestID)
	}
	generatedAt, _ := env.Meta["generated_at"].(string)
	if !strings.HasSuffix(generatedAt, "Z") {
		t.Fatalf("expected generated_at to end with Z, got %q", generatedAt)
	}
	if len(env.Warnings) != 0 {
		t.Fatalf("expected empty warnings, got %v", env.Warnings)
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]output.Format{
		"":      output.FormatTable,
		"table": output.FormatTable,
		"JSON":  output.FormatJSON,
		" yaml": output.FormatYAML,
	} {
		got, err := output.ParseFormat(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("expected %s for %q, got %s", want, raw, got)
		}
	}
	if _, err := output.ParseFormat("xml"); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestRenderPayload(t *testing.T) {
	env := output.BuildEnvelope("guest", map[string]any{"ok": true}, []string{"warn"}, nil)

	jsonPayload, err := output.RenderPayload(env, output.FormatJSON)
	if err != nil {
		t.Fatalf("render json failed: %v", err)
	}
	if !strings.Contains(jsonPayload, "\"ok\": true") {
		t.Fatalf("expected json payload to include data, got %s", jsonPayload)
	}

	yamlPayload, err := output.RenderPayload(env, output.FormatYAML)
	if err != nil {
		t.Fatalf("render yaml failed: %v", err)
	}
	if !strings.Contains(yamlPayload, "user: guest") {
		t.Fatalf("expected yaml payload to include user, got %s", yamlPayload)
	}
}

func TestRenderTable(t *testing.T) {
	text := output.RenderTable("Cart", []string{"ITEM", "QTY"}, [][]string{{"Margherita Pizza", "2"}})
	lines := strings.Split(text, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), text)
	}
	if lines[0] != "Cart" || !strings.Contains(lines[2], "Margherita Pizza") {
		t.Fatalf("unexpected table: %q", text)
	}
}
