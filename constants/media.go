package constants

import "strings"

// Document formats recognized by the extraction pipeline.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// Strategy selector tokens accepted from callers.
const (
	StrategyBuiltin    = "builtin"
	StrategyOpenAI     = "openai"
	StrategyGemini     = "gemini"
	StrategyClaude     = "claude"
	StrategyOpenRouter = "openrouter"
)

// ProvenanceBuiltin tags results produced by the built-in heuristics,
// including cloud-strategy runs that fell back to them.
const ProvenanceBuiltin = StrategyBuiltin

// MapMediaTypeToFormat classifies a declared media type. Returns "" for
// anything the pipeline cannot handle.
func MapMediaTypeToFormat(mediaType string) string {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch {
	case mt == "application/pdf":
		return PDF
	case strings.HasPrefix(mt, "image/"):
		return IMAGE
	default:
		return ""
	}
}

// MapExtToMediaType guesses a media type from a file extension for CLI and
// upload paths where the client did not declare one.
func MapExtToMediaType(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "tif", "tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
