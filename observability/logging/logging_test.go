package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestSetupWithWriterEmitsStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter(&buf, "verxio-test", "test")
	logger.Info("program created", "program", "abc123")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	if entry["message"] != "program created" {
		t.Fatalf("message = %v", entry["message"])
	}
	if entry["severity"] != "INFO" {
		t.Fatalf("severity = %v", entry["severity"])
	}
	if entry["service"] != "verxio-test" || entry["env"] != "test" {
		t.Fatalf("scope attrs missing: %v", entry)
	}
	if entry["program"] != "abc123" {
		t.Fatalf("call attrs missing: %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatalf("timestamp missing: %v", entry)
	}
}

func TestWithOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter(&buf, "verxio-test", "")
	WithOperation(logger, "award_points").Info("done")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["operation"] != "award_points" {
		t.Fatalf("operation attr missing: %v", entry)
	}
	if _, ok := entry["env"]; ok {
		t.Fatalf("blank env must be omitted: %v", entry)
	}
}
