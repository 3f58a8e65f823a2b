package services

import "testing"

func TestLoadModelCatalog(t *testing.T) {
	catalog, err := LoadModelCatalog()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !catalog.Valid("azure-openai", "gpt-4o") {
		t.Error("expected default provider/model pair in catalog")
	}
	if catalog.Valid("azure-openai", "made-up-model") {
		t.Error("unknown model must not validate")
	}
	if catalog.Valid("nope", "gpt-4o") {
		t.Error("unknown provider must not validate")
	}
}
