package media

import (
	"strings"
	"testing"
)

func TestBuildObjectNameNamespacesByOwner(t *testing.T) {
	name, err := BuildObjectName("user-1", "sadhya.JPG")
	if err != nil {
		t.Fatalf("build object name: %v", err)
	}
	if !strings.HasPrefix(name, "users/user-1/") {
		t.Fatalf("object name not namespaced: %s", name)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("extension not normalized: %s", name)
	}

	other, err := BuildObjectName("user-1", "sadhya.JPG")
	if err != nil {
		t.Fatalf("build second object name: %v", err)
	}
	if name == other {
		t.Fatalf("expected unique object names, got %s twice", name)
	}
}

func TestBuildObjectNameDefaultsExtension(t *testing.T) {
	name, err := BuildObjectName("user-2", "captured")
	if err != nil {
		t.Fatalf("build object name: %v", err)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("expected default extension: %s", name)
	}
}

func TestBuildObjectNameRequiresOwner(t *testing.T) {
	if _, err := BuildObjectName("  ", "a.png"); err == nil {
		t.Fatalf("expected validation error for empty owner")
	}
}
