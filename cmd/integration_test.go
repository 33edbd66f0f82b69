package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCmd executes the root command with args and stdin, returning stdout.
func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	// Reset sticky flags that may persist Changed state across invocations
	for _, name := range []string{"output", "format", "correlations", "outliers", "sample-rows"} {
		if fl := inspectCmd.Flags().Lookup(name); fl != nil {
			_ = fl.Value.Set(fl.DefValue)
			fl.Changed = false
		}
	}
	insGroupBy = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	t.Cleanup(func() { os.Setenv("HOME", oldHome) })
	os.Setenv("HOME", home)
	return home
}

func writeData(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCLI_InteractiveSessionMeanThenExit(t *testing.T) {
	home := isolateHome(t)
	data := writeData(t, home, "scores.csv", "a;b\n1;x\n2;y\n;z\n")

	out, err := runCmd(t, "4\n8\n", data)
	if err != nil {
		t.Fatalf("session failed: %v\n%s", err, out)
	}
	for _, want := range []string{
		"[*] Preview of dataset:",
		"[-] 1 missing values found!",
		"[+] Filled missing values in 'a' with mean!",
		"[+] No duplicate data found!",
		"[*] Exiting...",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestCLI_SessionEndsCleanlyOnEOF(t *testing.T) {
	home := isolateHome(t)
	data := writeData(t, home, "d.csv", "a,b\n1,\n2,y\n")

	out, err := runCmd(t, "", data)
	if err != nil {
		t.Fatalf("expected clean exit on EOF, got %v", err)
	}
	if !strings.Contains(out, "Exiting...") {
		t.Fatalf("expected exit notice, got:\n%s", out)
	}
}

func TestCLI_SaveWritesCSV(t *testing.T) {
	home := isolateHome(t)
	data := writeData(t, home, "d.csv", "a,b\n1,x\n2,y\n")
	dest := filepath.Join(home, "clean.csv")

	if out, err := runCmd(t, "5\n"+dest+"\n8\n", data); err != nil {
		t.Fatalf("session failed: %v\n%s", err, out)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(b) != "a,b\n1,x\n2,y\n" {
		t.Fatalf("unexpected saved content: %q", string(b))
	}
}

func TestCLI_MissingFileFails(t *testing.T) {
	home := isolateHome(t)
	if _, err := runCmd(t, "", filepath.Join(home, "nope.csv")); err == nil {
		t.Fatalf("expected error for missing input")
	}
}

func TestCLI_InspectMarkdownAndJSON(t *testing.T) {
	home := isolateHome(t)
	data := writeData(t, home, "m.csv", "g,x,y\nA,1,2\nA,2,4\nB,3,6\nB,,8\n")
	report := filepath.Join(home, "m.md")

	if out, err := runCmd(t, "", "inspect", data, "--correlations", "--group-by", "g", "-o", report); err != nil {
		t.Fatalf("inspect failed: %v\n%s", err, out)
	}
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(b)
	for _, want := range []string{"[DATASET SUMMARY]", "Rows: 4", "[CORRELATIONS]", "- g=A (n=2)"} {
		if !strings.Contains(md, want) {
			t.Fatalf("missing %q in report:\n%s", want, md)
		}
	}

	out, err := runCmd(t, "", "inspect", data, "--format", "json")
	if err != nil {
		t.Fatalf("inspect json failed: %v", err)
	}
	var rep struct {
		Rows    int `json:"rows"`
		Missing int `json:"missing"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if rep.Rows != 4 || rep.Missing != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	if _, err := runCmd(t, "", "inspect", data, "--format", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := isolateHome(t)
	cfgPath := filepath.Join(home, "config.yaml")

	if _, err := runCmd(t, "", "config", "set", "forest_trees", "7", "--config", cfgPath); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	out, err := runCmd(t, "", "config", "show", "--config", cfgPath)
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "forest_trees: 7") {
		t.Fatalf("expected saved value in output:\n%s", out)
	}
	if _, err := runCmd(t, "", "config", "set", "test_ratio", "1.5", "--config", cfgPath); err == nil {
		t.Fatalf("expected error for invalid ratio")
	}
	if _, err := runCmd(t, "", "config", "set", "nope", "1", "--config", cfgPath); err == nil {
		t.Fatalf("expected error for unknown key")
	}

	bad := writeData(t, home, "bad.yaml", "forest_trees: [7\n")
	if _, err := runCmd(t, "", "config", "set", "forest_trees", "3", "--config", bad); err == nil {
		t.Fatalf("expected error for malformed config file")
	}
	if b, _ := os.ReadFile(bad); string(b) != "forest_trees: [7\n" {
		t.Fatalf("malformed config was overwritten: %q", string(b))
	}
	cfgFile = ""
}
