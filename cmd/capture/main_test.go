package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outRecord struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category"`
}

func setTestEnv(t *testing.T) {
	t.Setenv("CAPTURE_MODEL_ENABLED", "false")
	t.Setenv("CAPTURE_TIMEZONE", "Asia/Taipei")
	t.Setenv("CAPTURE_CURRENCY", "TWD")
}

func TestRun_Args(t *testing.T) {
	setTestEnv(t)

	var out bytes.Buffer
	err := run([]string{"-now", "2025-06-18", "yesterday", "coffee", "55", "and", "MRT", "25"}, strings.NewReader(""), &out)
	require.NoError(t, err)

	var got []outRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, outRecord{Description: "coffee", Amount: "55", Date: "2025-06-17", Category: "food"}, got[0])
	assert.Equal(t, outRecord{Description: "MRT", Amount: "25", Date: "2025-06-18", Category: "transport"}, got[1])
}

func TestRun_StdinLinesWithFilter(t *testing.T) {
	setTestEnv(t)

	stdin := strings.NewReader("coffee 55\n\nbus 15\nmovie 300\n")
	var out bytes.Buffer
	err := run([]string{"-now", "2025-06-18", "-category", "ent", "-format", "csv"}, stdin, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,date,category"))
	assert.Contains(t, lines[1], ",2025-06-18,entertainment,movie,300,")
}

func TestRun_BadFlags(t *testing.T) {
	setTestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"format", []string{"-format", "pdf", "coffee 55"}},
		{"now", []string{"-now", "18/06/2025", "coffee 55"}},
		{"category", []string{"-category", "zzz", "coffee 55"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, run(tt.args, strings.NewReader(""), &out))
		})
	}
}
