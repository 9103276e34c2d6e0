package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DocketWatch/internal/config"
	"DocketWatch/internal/domain"
	"DocketWatch/internal/logging"
	"DocketWatch/internal/scanner"
)

func TestLogLinesCarryOneComponent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("not a pdf"))
	}))
	t.Cleanup(server.Close)

	var buf bytes.Buffer
	cfg := config.Config{
		Source:  config.SourceConfig{BaseURL: server.URL},
		SeenSet: config.SeenSetConfig{Backend: config.BackendFile, Path: filepath.Join(t.TempDir(), "seen.jsonl")},
	}
	application, err := New(context.Background(), cfg, logging.NewWriter(&buf, "debug", "text"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	_, err = application.RunOnce(context.Background(), scanner.Request{
		Category: domain.CategoryOrder,
		URL:      server.URL + "/orders/courtorders/060523zor_3e04.pdf",
	})
	require.Error(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	components := map[string]bool{}
	for _, line := range lines {
		assert.Equal(t, 1, strings.Count(line, "component="), line)
		for _, field := range strings.Fields(line) {
			if name, ok := strings.CutPrefix(field, "component="); ok {
				components[name] = true
			}
		}
	}
	assert.True(t, components["source"], "source lines: %v", components)
	assert.True(t, components["pipeline"], "pipeline lines: %v", components)
}
