package upload

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/poiesic/notecall/core"
)

// copySuffix matches server-added duplicate markers like " (5)" at the end
// of a filename stem, e.g. "report (5).PDF".
var copySuffix = regexp.MustCompile(`\s*\(\d+\)\s*$`)

// normalizeFilename reduces a filename or path to a canonical lowercase
// basename with any duplicate-marker suffix stripped:
// "dir/report (5).PDF" -> "report.pdf".
func normalizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, `/`))
	ext := filepath.Ext(base)
	if ext != "" {
		stem := strings.TrimSuffix(base, ext)
		stem = strings.TrimSpace(copySuffix.ReplaceAllString(stem, ""))
		return strings.ToLower(stem + ext)
	}
	return strings.ToLower(base)
}

// normalizeSource maps one backend source payload onto core.Source.
// Unknown fields stay reachable through Raw.
func normalizeSource(item map[string]any) *core.Source {
	src := &core.Source{
		ID:             stringField(item, "id"),
		Title:          stringField(item, "title"),
		Embedded:       boolField(item, "embedded"),
		EmbeddedChunks: intField(item, "embedded_chunks"),
		InsightsCount:  intField(item, "insights_count"),
		Created:        stringField(item, "created"),
		Updated:        stringField(item, "updated"),
		FileAvailable:  boolField(item, "file_available"),
		CommandID:      stringField(item, "command_id"),
		Status:         stringField(item, "status"),
		Raw:            item,
	}

	if asset, ok := item["asset"].(map[string]any); ok {
		src.AssetFilePath = stringField(asset, "file_path")
		src.AssetURL = stringField(asset, "url")
	}
	if info, ok := item["processing_info"].(map[string]any); ok {
		src.ProcessingInfo = info
	}
	return src
}

// normalizeSources accepts the several response shapes the backend produces
// for source payloads (bare list, {"results": [...]}, a single object, or a
// wrapper with a nested list) and returns normalized sources.
func normalizeSources(data any) []*core.Source {
	switch v := data.(type) {
	case nil:
		return nil
	case []any:
		return normalizeList(v)
	case map[string]any:
		if results, ok := v["results"].([]any); ok {
			return normalizeList(results)
		}
		if stringField(v, "id") != "" || stringField(v, "title") != "" {
			return []*core.Source{normalizeSource(v)}
		}
		// Unknown wrapper shape: look for a nested list of source objects.
		for _, nested := range v {
			list, ok := nested.([]any)
			if !ok || len(list) == 0 {
				continue
			}
			if first, ok := list[0].(map[string]any); ok {
				if _, hasID := first["id"]; hasID {
					return normalizeList(list)
				}
			}
		}
	}
	return nil
}

func normalizeList(items []any) []*core.Source {
	sources := make([]*core.Source, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			sources = append(sources, normalizeSource(m))
		}
	}
	return sources
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func intField(m map[string]any, key string) int {
	// JSON numbers decode as float64
	if f, ok := m[key].(float64); ok {
		return int(f)
	}
	return 0
}
