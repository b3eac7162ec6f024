package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFormatWithCommas(t *testing.T) {
	testCases := []struct {
		in   uint64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
	}
	for _, tc := range testCases {
		if got := FormatWithCommas(tc.in); got != tc.want {
			t.Errorf("FormatWithCommas(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCreateRankList(t *testing.T) {
	if got := CreateRankList(0); len(got) != 0 {
		t.Errorf("CreateRankList(0) = %v", got)
	}
	got := CreateRankList(3)
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("CreateRankList(3) = %v", got)
	}
}

func TestTOMLRoundTrip(t *testing.T) {
	type section struct {
		Name  string `toml:"name"`
		Count int    `toml:"count"`
	}
	type doc struct {
		Main section `toml:"main"`
	}

	path := filepath.Join(t.TempDir(), "nested", "doc.toml")
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		t.Fatal(err)
	}
	if err := SaveTOMLFile(doc{Main: section{Name: "x", Count: 3}}, path); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Fatal("saved file does not exist")
	}
	if entries, _ := os.ReadDir(filepath.Dir(path)); len(entries) != 1 {
		t.Errorf("temp files left next to %s: %v", path, entries)
	}

	var loaded doc
	if err := LoadTOMLFile(path, &loaded); err != nil {
		t.Fatal(err)
	}
	if loaded.Main.Name != "x" || loaded.Main.Count != 3 {
		t.Errorf("loaded %+v", loaded)
	}

	raw, err := ParseTOMLWithRecovery(path)
	if err != nil {
		t.Fatal(err)
	}
	sec, ok := ExtractSection(raw, "main")
	if !ok {
		t.Fatal("section missing")
	}
	if n, ok := ExtractInt64(sec, "count"); !ok || n != 3 {
		t.Errorf("ExtractInt64 = %d, %v", n, ok)
	}
	if s, ok := ExtractString(sec, "name"); !ok || s != "x" {
		t.Errorf("ExtractString = %q, %v", s, ok)
	}
	if _, ok := ExtractBool(sec, "name"); ok {
		t.Error("ExtractBool accepted a string")
	}
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")
	result := CheckDirStatus(dir)
	if !result.Exists || !result.Writable {
		t.Errorf("CheckDirStatus(%s) = %+v", dir, result)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp write file was left behind: %v", entries)
	}
}
