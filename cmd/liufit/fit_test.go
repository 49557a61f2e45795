package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFit_Lists(t *testing.T) {
	var out bytes.Buffer
	err := runFit(context.Background(), []string{
		"-lang", "en",
		"-energy", "10,15,22,33,50,75,110",
		"-diameter", "4.1,5.3,6.0,7.0,8.1,9.2,10.1",
	}, &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Threshold energy E_th")
	assert.Contains(t, s, "7.13")
	assert.Contains(t, s, "0.06402")
	assert.Contains(t, s, "Pulse Energy (μJ)")
}

func TestRunFit_FileWithOutputs(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "run.csv")
	require.NoError(t, os.WriteFile(data, []byte("10,4.1\n15,5.3\n22,6.0\n33,7.0\n50,8.1\n75,9.2\n110,10.1\n"), 0o644))
	xlsx := filepath.Join(dir, "run.xlsx")
	png := filepath.Join(dir, "run.png")

	var out bytes.Buffer
	err := runFit(context.Background(), []string{"-o", xlsx, "-chart", png, data}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "阈值能量 E_th")

	b, err := os.ReadFile(xlsx)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("PK")))

	b, err = os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))
}

func TestRunFit_Errors(t *testing.T) {
	var out bytes.Buffer

	err := runFit(context.Background(), []string{"-lang", "en", "-energy", "1,2,3", "-diameter", "1,2"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "energy and diameter counts differ")

	err = runFit(context.Background(), []string{"-lang", "fr", "-energy", "1,2", "-diameter", "1,2"}, &out)
	assert.Error(t, err)

	err = runFit(context.Background(), []string{"a.csv", "b.csv"}, &out)
	assert.Error(t, err)

	assert.Empty(t, out.String())
}
