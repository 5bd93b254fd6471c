package coreutils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"cat", "cp", "ls", "pwd"} {
		if Lookup(name) == nil {
			t.Fatalf("%s should be a utility", name)
		}
	}
	for _, name := range []string{"cd", "fg", "sleep", ""} {
		if Lookup(name) != nil {
			t.Fatalf("%s should not be a utility", name)
		}
	}
}

func TestCat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(path, []byte("hello\nworld\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out, errOut bytes.Buffer
	if code := cat([]string{"cat", path}, &out, &errOut); code != 0 {
		t.Fatalf("exit mismatch: %d (%s)", code, errOut.String())
	}
	if out.String() != "hello\nworld\n" {
		t.Fatalf("output mismatch: %q", out.String())
	}

	errOut.Reset()
	if code := cat([]string{"cat"}, &out, &errOut); code == 0 {
		t.Fatalf("expected usage error")
	}

	errOut.Reset()
	missing := filepath.Join(dir, "missing")
	if code := cat([]string{"cat", missing}, &out, &errOut); code == 0 {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(errOut.String(), missing) {
		t.Fatalf("error should name the path: %q", errOut.String())
	}
}

func TestCp(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	dst := filepath.Join(dir, "b")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(dst, []byte("old contents that are longer"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out, errOut bytes.Buffer
	if code := cp([]string{"cp", src, dst}, &out, &errOut); code != 0 {
		t.Fatalf("exit mismatch: %d (%s)", code, errOut.String())
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("destination must be truncated: %q", got)
	}

	if code := cp([]string{"cp", src}, &out, &errOut); code == 0 {
		t.Fatalf("expected usage error")
	}
}

func TestLsAndPwd(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	t.Chdir(dir)

	var out, errOut bytes.Buffer
	if code := ls([]string{"ls"}, &out, &errOut); code != 0 {
		t.Fatalf("ls exit mismatch: %d (%s)", code, errOut.String())
	}
	if out.String() != "a.txt\nb.txt\n" {
		t.Fatalf("ls output mismatch: %q", out.String())
	}

	out.Reset()
	if code := pwd([]string{"pwd"}, &out, &errOut); code != 0 {
		t.Fatalf("pwd exit mismatch: %d", code)
	}
	want, _ := os.Getwd()
	if strings.TrimSpace(out.String()) != want {
		t.Fatalf("pwd output mismatch: %q want %q", out.String(), want)
	}

	if code := pwd([]string{"pwd", "x"}, &out, &errOut); code == 0 {
		t.Fatalf("expected usage error")
	}
}
