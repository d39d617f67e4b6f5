package main

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestOpenAPICommand(t *testing.T) {
	root := newRootCmd()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"openapi"})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("expected JSON output, got %v", err)
	}
	paths, ok := doc["paths"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected paths object, got %T", doc["paths"])
	}
	if _, ok := paths["/person/{person_id}"]; !ok {
		t.Error("expected /person/{person_id} in paths")
	}
}

func TestServeCommandRejectsArgs(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"serve", "extra"})

	if err := root.Execute(); err == nil {
		t.Error("expected error for unexpected argument")
	}
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	if root.Use != "person-api" {
		t.Errorf("expected use person-api, got %q", root.Use)
	}
	if !root.SilenceUsage {
		t.Error("expected usage to be silenced on errors")
	}
	if root.RunE == nil {
		t.Error("expected root to serve by default")
	}
}
