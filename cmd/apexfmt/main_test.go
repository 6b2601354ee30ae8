package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
)

const validSrc = "class Foo{void m(){x=1;}}\n"
const formattedSrc = "class Foo {\n  void m() {\n    x = 1;\n  }\n}\n"

func TestRunStdin(t *testing.T) {
	var out, errOut bytes.Buffer
	code, err := run([]string{"apexfmt"}, bytes.NewReader([]byte(validSrc)), &out, &errOut)

	assert.NoError(t, err)
	assert.Equals(t, code, 0)
	assert.Equals(t, out.String(), formattedSrc)
}

func TestRunStdinParseErrorExitsTwo(t *testing.T) {
	var out, errOut bytes.Buffer
	code, err := run([]string{"apexfmt"}, bytes.NewReader([]byte("class Foo {")), &out, &errOut)

	assert.True(t, err != nil, "expected a parse error")
	assert.Equals(t, code, 2)
}

func TestRunBadFlagExitsThree(t *testing.T) {
	var out, errOut bytes.Buffer
	code, err := run([]string{"apexfmt", "-not-a-flag"}, bytes.NewReader(nil), &out, &errOut)

	assert.True(t, err != nil, "expected a flag parse error")
	assert.Equals(t, code, 3)
}

func TestRunBadConfigExitsThree(t *testing.T) {
	var out, errOut bytes.Buffer
	code, err := run([]string{"apexfmt", "-indent-size", "0"}, bytes.NewReader(nil), &out, &errOut)

	assert.True(t, err != nil, "expected a config validation error")
	assert.Equals(t, code, 3)
}

func TestRunFileCheckReportsChangedWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.cls")
	require.NoError(t, os.WriteFile(path, []byte(validSrc), 0o644))

	var out, errOut bytes.Buffer
	code, err := run([]string{"apexfmt", "-check", path}, bytes.NewReader(nil), &out, &errOut)

	assert.NoError(t, err)
	assert.Equals(t, code, 1)
	assert.Equals(t, out.String(), path+"\n")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equals(t, string(got), validSrc)
}

func TestRunFileCheckExitsZeroWhenAlreadyFormatted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.cls")
	require.NoError(t, os.WriteFile(path, []byte(formattedSrc), 0o644))

	var out, errOut bytes.Buffer
	code, err := run([]string{"apexfmt", "-check", path}, bytes.NewReader(nil), &out, &errOut)

	assert.NoError(t, err)
	assert.Equals(t, code, 0)
	assert.Equals(t, out.String(), "")
}

func TestRunFileListPrintsChangedPathsWithoutCheckFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.cls")
	require.NoError(t, os.WriteFile(path, []byte(validSrc), 0o644))

	var out, errOut bytes.Buffer
	code, err := run([]string{"apexfmt", "-l", path}, bytes.NewReader(nil), &out, &errOut)

	assert.NoError(t, err)
	assert.Equals(t, code, 0)
	assert.Equals(t, out.String(), path+"\n")
}

func TestRunFileWritePersistsFormattedOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.cls")
	require.NoError(t, os.WriteFile(path, []byte(validSrc), 0o644))

	var out, errOut bytes.Buffer
	code, err := run([]string{"apexfmt", "-w", path}, bytes.NewReader(nil), &out, &errOut)

	assert.NoError(t, err)
	assert.Equals(t, code, 0)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equals(t, string(got), formattedSrc)
}

func TestRunMultiFileAggregatesParseErrorsExitTwo(t *testing.T) {
	dir := t.TempDir()
	goodPath := filepath.Join(dir, "Good.cls")
	badPath := filepath.Join(dir, "Bad.cls")
	require.NoError(t, os.WriteFile(goodPath, []byte(validSrc), 0o644))
	require.NoError(t, os.WriteFile(badPath, []byte("class Bad {"), 0o644))

	var out, errOut bytes.Buffer
	code, err := run([]string{"apexfmt", "-check", goodPath, badPath}, bytes.NewReader(nil), &out, &errOut)

	assert.True(t, err != nil, "expected an aggregated parse error")
	assert.Equals(t, code, 2)
}

func TestRunMissingPathExitsThree(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "DoesNotExist.cls")

	var out, errOut bytes.Buffer
	code, err := run([]string{"apexfmt", missing}, bytes.NewReader(nil), &out, &errOut)

	assert.True(t, err != nil, "expected a stat error for a missing path")
	assert.Equals(t, code, 3)
}

func TestRunExpandsDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.cls")
	require.NoError(t, os.WriteFile(path, []byte(validSrc), 0o644))

	var out, errOut bytes.Buffer
	code, err := run([]string{"apexfmt", "-l", dir}, bytes.NewReader(nil), &out, &errOut)

	assert.NoError(t, err)
	assert.Equals(t, code, 0)
	assert.Equals(t, out.String(), path+"\n")
}
