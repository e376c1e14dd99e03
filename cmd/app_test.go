package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeTOA5 writes a small datalogger file with one row per 15-minute slot.
func writeTOA5(t *testing.T, dir, name string, slots []int, value func(slot int) float64) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("\"TOA5\",\"Nowhere\",\"CR1000\",\"1\",\"OS\",\"prog\",\"1\",\"Table15\"\n")
	b.WriteString("\"TIMESTAMP\",\"RECORD\",\"Temp\"\n\"TS\",\"RN\",\"degC\"\n\"\",\"\",\"Avg\"\n")
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for n, s := range slots {
		fmt.Fprintf(&b, "\"%s\",%d,%g\n", t0.Add(time.Duration(s)*15*time.Minute).Format("2006-01-02 15:04:05"), n, value(s))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("INGEST_APPLICATION_DB_PATH", filepath.Join(dir, "test.db"))
	t.Setenv("INGEST_APPLICATION_LOGGING_DIRECTORY", filepath.Join(dir, "logs"))

	a := newApp()
	root := a.rootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCertifyCommand(t *testing.T) {
	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "certified")
	good := writeTOA5(t, in, "good.dat", []int{0, 1, 3}, func(s int) float64 { return float64(s) })
	// slot 1 twice with different readings
	bad := writeTOA5(t, in, "bad.dat", []int{0, 1, 1, 2}, func(s int) float64 { return float64(s) })
	require.NoError(t, os.WriteFile(bad, bytes.Replace(mustRead(t, bad), []byte(",1\n"), []byte(",7\n"), 1), 0o644))

	out, err := runCLI(t, "--log-level", "error", "certify", good, bad, "--out", outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files not certified")
	assert.Contains(t, out, "good.dat: CERTIFIED")
	assert.Contains(t, out, "bad.dat: BLOCKED")

	assert.FileExists(t, filepath.Join(outDir, "good.xlsx"))
	assert.NoFileExists(t, filepath.Join(outDir, "bad.xlsx"))
}

func TestAppendCommand(t *testing.T) {
	in := t.TempDir()
	base := writeTOA5(t, in, "may.dat", []int{0, 1, 2, 3}, func(s int) float64 { return float64(s) })
	newer := writeTOA5(t, in, "june.dat", []int{4, 5, 6}, func(s int) float64 { return float64(s) })
	dest := filepath.Join(in, "combined.xlsx")

	out, err := runCLI(t, "--log-level", "error", "append", base, newer, "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "june.dat: CERTIFIED (7 samples")
	assert.FileExists(t, dest)
}

// writeRawWorkbook writes an uncertified workbook: data, column and site sheets, no notes.
func writeRawWorkbook(t *testing.T, dir, name string, slots []int) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	require.NoError(t, f.SetSheetName("Sheet1", "Data"))
	for _, sheet := range []string{"Columns", "Site"} {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	require.NoError(t, f.SetSheetRow("Data", "A1", &[]interface{}{"TIMESTAMP", "RECORD", "Temp"}))
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for n, s := range slots {
		ts := t0.Add(time.Duration(s) * 15 * time.Minute).Format("2006-01-02 15:04:05")
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Data", cell, &[]interface{}{ts, n, float64(s)}))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestCertifyCommand_RefusesToOverwriteInputWorkbook(t *testing.T) {
	in := t.TempDir()
	raw := writeRawWorkbook(t, in, "site.xlsx", []int{0, 1, 3})
	before := mustRead(t, raw)

	out, err := runCLI(t, "--log-level", "error", "certify", raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files not certified")
	assert.Contains(t, out, "would overwrite the input")
	assert.Equal(t, before, mustRead(t, raw))

	outDir := filepath.Join(t.TempDir(), "certified")
	out, err = runCLI(t, "--log-level", "error", "certify", raw, "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "site.xlsx: CERTIFIED")
	assert.FileExists(t, filepath.Join(outDir, "site.xlsx"))
	assert.Equal(t, before, mustRead(t, raw))
}

func TestAppendCommand_RefusesToOverwriteInput(t *testing.T) {
	in := t.TempDir()
	base := writeTOA5(t, in, "may.dat", []int{0, 1, 2, 3}, func(s int) float64 { return float64(s) })
	newer := writeRawWorkbook(t, in, "june.xlsx", []int{4, 5, 6})
	before := mustRead(t, newer)

	_, err := runCLI(t, "--log-level", "error", "append", base, newer)
	assert.ErrorContains(t, err, "would overwrite the input")
	assert.Equal(t, before, mustRead(t, newer))

	_, err = runCLI(t, "--log-level", "error", "append", base, newer, "--out", base)
	assert.ErrorContains(t, err, "would overwrite the input")
}

func TestCommandArgs(t *testing.T) {
	_, err := runCLI(t, "append", "only-one")
	assert.Error(t, err)

	_, err = runCLI(t, "certify")
	assert.Error(t, err)

	_, err = runCLI(t, "--config", "does-not-exist.yml", "certify", "x.dat")
	assert.ErrorContains(t, err, "does-not-exist.yml")
}

func TestWorkbookPath(t *testing.T) {
	assert.Equal(t, filepath.Join("in", "site.xlsx"), workbookPath(filepath.Join("in", "site.dat"), ""))
	assert.Equal(t, filepath.Join("out", "site.xlsx"), workbookPath(filepath.Join("in", "site.dat"), "out"))
}

func TestSamePath(t *testing.T) {
	assert.True(t, samePath(filepath.Join("in", "site.xlsx"), filepath.Join("in", ".", "site.xlsx")))
	assert.True(t, samePath(workbookPath(filepath.Join("in", "site.xlsx"), ""), filepath.Join("in", "site.xlsx")))
	assert.False(t, samePath(filepath.Join("in", "site.xlsx"), filepath.Join("out", "site.xlsx")))
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return b
}
