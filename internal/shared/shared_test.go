package shared

import (
	"bytes"
	"testing"
)

func TestGenerateID(t *testing.T) {
	id1 := GenerateID()
	id2 := GenerateID()

	if id1 == "" || id2 == "" {
		t.Fatal("generated IDs should not be empty")
	}
	if id1 == id2 {
		t.Errorf("generated IDs should be unique, got %s twice", id1)
	}
	if len(id1) != 36 {
		t.Errorf("expected UUID string length 36, got %d", len(id1))
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("hello", "key", "value")

	if buf.Len() == 0 {
		t.Error("expected log output to be written")
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := WithLogger(NewLogger(&buf), "component", "test")

	logger.Info("scoped")

	if !bytes.Contains(buf.Bytes(), []byte("component")) {
		t.Errorf("expected child logger fields in output, got %q", buf.String())
	}
}
