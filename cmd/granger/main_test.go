// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writePanel writes t,x,y with y_t = 0.8 x_{t-1} + noise.
func writePanel(t *testing.T, dir string, n int) string {
	t.Helper()
	rng := rand.New(rand.NewSource(21))
	var b strings.Builder
	b.WriteString("t,x,y\n")
	prev := 0.0
	for i := 0; i < n; i++ {
		x := rng.NormFloat64()
		y := 0.8*prev + 0.5*rng.NormFloat64()
		fmt.Fprintf(&b, "%d,%f,%f\n", i, x, y)
		prev = x
	}
	path := filepath.Join(dir, "panel.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write panel: %v", err)
	}
	return path
}

func TestRun_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	data := writePanel(t, dir, 200)
	results := filepath.Join(dir, "results.csv")
	ratios := filepath.Join(dir, "ratios.csv")
	prom := filepath.Join(dir, "granger.prom")

	var stdout, stderr bytes.Buffer
	err := run([]string{
		"-data", data, "-index", "t", "-max-lag", "5",
		"-results", results, "-ratios", ratios, "-metrics", prom,
		"-env", filepath.Join(dir, "none.env"),
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run returned error: %v\nstderr: %s", err, stderr.String())
	}

	f, err := os.Open(results)
	if err != nil {
		t.Fatalf("open results: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected header and 4 rows, got %d", len(rows))
	}

	for _, path := range []string{ratios, prom} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s: %v", path, err)
		}
	}
	if !strings.Contains(stdout.String(), "Granger Causality Ratio") {
		t.Fatalf("tables not printed:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "granger causality run finished") {
		t.Fatalf("expected run log, got:\n%s", stderr.String())
	}
}

func TestRun_ConfigFileAndQuiet(t *testing.T) {
	dir := t.TempDir()
	data := writePanel(t, dir, 120)
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf("app:\n  log_level: error\ninput:\n  path: %s\n  index_column: t\n  variables: [y, x]\nanalysis:\n  max_lag: 3\n", data)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-config", cfgPath, "-quiet", "-env", filepath.Join(dir, "none.env")}, &stdout, &stderr); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected no tables with -quiet, got:\n%s", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Fatalf("expected no logs at error level, got:\n%s", stderr.String())
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, "none.env")
	var out bytes.Buffer

	if err := run([]string{"-env", env}, &out, &out); err == nil {
		t.Fatalf("expected error without input data")
	}
	data := writePanel(t, dir, 50)
	if err := run([]string{"-env", env, "-data", data, "-index", "t", "-vars", "x"}, &out, &out); err == nil {
		t.Fatalf("expected error for a single variable")
	}
	if err := run([]string{"-env", env, "-data", data, "-max-lag", "0"}, &out, &out); err == nil {
		t.Fatalf("expected validation error for max lag 0")
	}
}
