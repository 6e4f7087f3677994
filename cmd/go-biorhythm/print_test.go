package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-biorhythm/internal/config"
	"github.com/tartampluch/go-biorhythm/internal/engine"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestRenderTable(t *testing.T) {
	gen := &engine.Generator{Clock: fixedClock{time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)}}
	chart, err := gen.Run(context.Background(), engine.ChartConfig{BirthDate: "2000-01-01", Contact: "Ada"})
	require.NoError(t, err)

	var buf bytes.Buffer
	renderTable(&buf, chart, false)
	out := buf.String()

	assert.Contains(t, out, "Ada, born 2000-01-01: 2024-02")
	assert.Contains(t, out, "2024-02-01")
	assert.Contains(t, out, "2024-02-29")
	assert.Contains(t, out, "2024-02-10"+config.TableTodayMark)
	assert.NotContains(t, out, "\x1b[", "colors are off")

	// Header, one row per day, footer, borders.
	assert.Greater(t, strings.Count(out, "\n"), 29)

	// Every critical day is listed on its row.
	for _, cd := range chart.Critical {
		for _, line := range strings.Split(out, "\n") {
			if strings.Contains(line, cd.Date.String()) {
				assert.Contains(t, line, cd.Cycle.String())
			}
		}
	}
	assert.Contains(t, strings.ToLower(out), "critical day(s)")
}

func TestRenderTable_Colors(t *testing.T) {
	gen := &engine.Generator{Clock: fixedClock{time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)}}
	chart, err := gen.Run(context.Background(), engine.ChartConfig{BirthDate: "2000-01-01", Month: "2024-01"})
	require.NoError(t, err)

	var buf bytes.Buffer
	renderTable(&buf, chart, true)
	assert.Contains(t, buf.String(), "\x1b[")
	assert.NotContains(t, buf.String(), config.TableTodayMark, "today is not in January")
}

func TestRunPrint_LocalAddressBook(t *testing.T) {
	t.Setenv(config.EnvNoColor, "1")
	path := filepath.Join(t.TempDir(), "book.vcf")
	require.NoError(t, os.WriteFile(path, []byte("BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Grace Hopper\r\nBDAY:1906-12-09\r\nEND:VCARD\r\n"), 0o600))

	var buf bytes.Buffer
	err := runPrint(context.Background(), options{vcard: path, month: "2024-02"}, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Grace Hopper, born 1906-12-09: 2024-02")
}

func TestRunPrint_InvalidBirthDate(t *testing.T) {
	var buf bytes.Buffer
	err := runPrint(context.Background(), options{birth: "2023-02-29"}, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrBirthDate)
	assert.Empty(t, buf.String())
}
