package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKeys(t *testing.T) {
	err := normalizeKeys(nil, slog.String("error", "boom"))
	assert.Equal(t, "err", err.Key)

	id := normalizeKeys(nil, slog.String("draftId", "property-1"))
	assert.Equal(t, "draft_id", id.Key)

	other := normalizeKeys(nil, slog.String("city", "Valencia"))
	assert.Equal(t, "city", other.Key)
}

func TestForComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ForComponent(logger, "store").Info("draft saved")

	assert.Contains(t, buf.String(), "component=store")
}
