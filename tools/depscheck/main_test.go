package main

import (
	"strings"
	"testing"
)

func TestFindViolations(t *testing.T) {
	pkgs := []packageInfo{
		{ImportPath: "titan-siege/server/internal/gamemode", Imports: []string{"titan-siege/server/internal/titan", "titan-siege/server/internal/net/ws"}},
		{ImportPath: "titan-siege/server/internal/gamemode/settings", Imports: []string{"github.com/gorilla/websocket"}},
		{ImportPath: "titan-siege/server/internal/sim", Imports: []string{"titan-siege/server/internal/scene"}},
		{ImportPath: "titan-siege/server/internal/scenery", Imports: []string{"titan-siege/server/internal/net"}},
	}

	got := findViolations(pkgs, rules)
	want := []string{
		"titan-siege/server/internal/gamemode -> titan-siege/server/internal/net/ws",
		"titan-siege/server/internal/gamemode/settings -> github.com/gorilla/websocket",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDecodePackagesReadsStream(t *testing.T) {
	stream := `{"ImportPath":"a","Imports":["b"]}
{"ImportPath":"c"}`
	pkgs, err := decodePackages(strings.NewReader(stream))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pkgs) != 2 || pkgs[0].ImportPath != "a" || pkgs[1].ImportPath != "c" {
		t.Fatalf("unexpected packages %+v", pkgs)
	}
}
