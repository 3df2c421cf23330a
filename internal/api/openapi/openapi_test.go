package openapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestLoad(t *testing.T) {
	doc, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() ошибка: %v", err)
	}
	if doc.Info.Title != "Pereval API" {
		t.Errorf("Info.Title = %q", doc.Info.Title)
	}

	// Все операции, которые обслуживает роутер
	ops := []struct {
		path   string
		method string
	}{
		{"/", http.MethodGet},
		{"/health/live", http.MethodGet},
		{"/health/ready", http.MethodGet},
		{"/metrics", http.MethodGet},
		{"/openapi.json", http.MethodGet},
		{"/submitData", http.MethodPost},
		{"/submitData/", http.MethodGet},
		{"/submitData/{id}", http.MethodGet},
		{"/submitData/{id}", http.MethodPatch},
	}
	for _, op := range ops {
		item := doc.Paths.Find(op.path)
		if item == nil {
			t.Errorf("путь %s отсутствует", op.path)
			continue
		}
		if item.GetOperation(op.method) == nil {
			t.Errorf("операция %s %s отсутствует", op.method, op.path)
		}
	}
}

func TestJSON(t *testing.T) {
	doc, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() ошибка: %v", err)
	}

	data, err := JSON(doc)
	if err != nil {
		t.Fatalf("JSON() ошибка: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("результат не JSON: %v", err)
	}
	if parsed["openapi"] != "3.0.3" {
		t.Errorf("openapi = %v, ожидалось 3.0.3", parsed["openapi"])
	}
}
