package main

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCommand()

	var got []string
	for _, c := range root.Commands() {
		got = append(got, c.Name())
	}
	sort.Strings(got)
	want := []string{"companies", "entries", "export", "login", "logout", "products", "serve", "types"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}

	for _, path := range [][]string{
		{"entries", "list"}, {"entries", "history"}, {"products", "edit"},
		{"companies", "delete"}, {"export", "xlsx"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd.Name() != path[len(path)-1] {
			t.Fatalf("find %v: %v", path, err)
		}
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("42"); err != nil || id != 42 {
		t.Fatalf("parseID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "0", "-3", "abc"} {
		if _, err := parseID(bad); err == nil {
			t.Fatalf("parseID(%q) should fail", bad)
		}
	}
}
