package util

import (
	"fmt"
	"sort"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/pkg/errors"
)

var GLOBAL_LOG_CATEGORIES = LogVoxel | LogIO | LogTraversal | LogExport

type LogCategory int

const (
	LogVoxel LogCategory = 1 << iota
	LogIO
	LogTraversal
	LogExport
)

const CategoryTag = "category"

func (c LogCategory) String() string {
	switch c {
	case LogVoxel:
		return "voxel"
	case LogIO:
		return "io"
	case LogTraversal:
		return "traversal"
	case LogExport:
		return "export"
	}
	return "unknown"
}

// Tags are attached to a log entry sorted by key.
type Tags map[string]any

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelDebug
	LogLevelInfo
)

func enabled(cat LogCategory) bool {
	return GLOBAL_LOG_CATEGORIES&cat != 0
}

func log(cat LogCategory, lvl LogLevel, v any, tags Tags) {
	if !enabled(cat) {
		return
	}
	e := logs.WithTag(CategoryTag, cat.String())
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		e = e.WithTag(key, tags[key])
	}
	switch lvl {
	case LogLevelError:
		err, ok := v.(error)
		if !ok {
			err = errors.New(fmt.Sprint(v))
		}
		e.Error(err)
	case LogLevelWarning:
		e.Warn(v)
	case LogLevelDebug:
		e.Debug(v)
	default:
		e.Info(v)
	}
}

func LogVoxelInfo(txt string, tags Tags) {
	log(LogVoxel, LogLevelInfo, txt, tags)
}

func LogVoxelWarning(err error, tags Tags) {
	log(LogVoxel, LogLevelWarning, err, tags)
}

func LogIOInfo(txt string, tags Tags) {
	log(LogIO, LogLevelInfo, txt, tags)
}

func LogIOError(err error, tags Tags) {
	log(LogIO, LogLevelError, err, tags)
}

func LogTraversalDebug(txt string, tags Tags) {
	log(LogTraversal, LogLevelDebug, txt, tags)
}

func LogTraversalInfo(txt string, tags Tags) {
	log(LogTraversal, LogLevelInfo, txt, tags)
}

func LogTraversalWarning(err error, tags Tags) {
	log(LogTraversal, LogLevelWarning, err, tags)
}

func LogExportInfo(txt string, tags Tags) {
	log(LogExport, LogLevelInfo, txt, tags)
}

func LogExportDebug(txt string, tags Tags) {
	log(LogExport, LogLevelDebug, txt, tags)
}
