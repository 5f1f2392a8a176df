package util

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *strings.Builder {
	var b strings.Builder
	logs.SetInlineEncoder()
	logs.SetLogger(func(e logs.Entry) {
		fmt.Fprint(&b, e)
	})
	return &b
}

func TestLogAddsCategoryTag(t *testing.T) {
	b := captureLogs(t)

	LogExportInfo("scene written", Tags{"sections": 3})

	out := b.String()
	require.Contains(t, out, "scene written")
	require.Contains(t, out, fmt.Sprintf(`"%s":"export"`, CategoryTag))
	require.Contains(t, out, `"sections":3`)
}

func TestLogErrorEntry(t *testing.T) {
	b := captureLogs(t)

	LogIOError(errors.New("region r.0.0.mca is truncated"), Tags{"file": "r.0.0.mca"})

	out := b.String()
	require.Contains(t, out, "region r.0.0.mca is truncated")
	require.Contains(t, out, `"file":"r.0.0.mca"`)
	require.Contains(t, out, fmt.Sprintf(`"%s":"io"`, CategoryTag))
}

func TestLogCategoryGate(t *testing.T) {
	b := captureLogs(t)
	previous := GLOBAL_LOG_CATEGORIES
	GLOBAL_LOG_CATEGORIES = LogTraversal
	defer func() { GLOBAL_LOG_CATEGORIES = previous }()

	LogIOInfo("hidden", nil)
	require.Empty(t, b.String())

	LogTraversalInfo("shown", nil)
	require.Contains(t, b.String(), "shown")
}

func TestLogCategoryNames(t *testing.T) {
	require.Equal(t, "voxel", LogVoxel.String())
	require.Equal(t, "io", LogIO.String())
	require.Equal(t, "traversal", LogTraversal.String())
	require.Equal(t, "export", LogExport.String())
	require.Equal(t, "unknown", LogCategory(0).String())
}
