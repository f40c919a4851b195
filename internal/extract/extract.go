package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ledongthuc/pdf"

	"expense-tracker/constants"
	"expense-tracker/internal/entity"
)

// Errors surfaced to the orchestrator. Both mean "extraction was not
// attempted / produced nothing"; the orchestrator converts them into an
// outcome value instead of propagating them.
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrTextExtractionFailed = errors.New("text extraction failed")
)

type Config struct {
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "eng"
	TmpDir        string // scratch dir for OCR input files; "" -> os.TempDir()
}

// Extractor converts an uploaded document into raw text. PDFs go through the
// pdf library, images through the tesseract binary. One attempt per call;
// callers decide on fallback.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// NewExtractorWithRunner lets tests stub the OCR binary.
func NewExtractorWithRunner(cfg Config, runner Runner, logger *slog.Logger) *Extractor {
	e := NewExtractor(cfg, logger)
	e.runner = runner
	return e
}

// ExtractText picks a strategy based on the document's declared media type.
func (e *Extractor) ExtractText(ctx context.Context, doc entity.RawDocument) (string, error) {
	switch constants.MapMediaTypeToFormat(doc.MediaType) {
	case constants.PDF:
		return e.extractPDF(doc.Content)
	case constants.IMAGE:
		return e.extractImage(ctx, doc)
	default:
		e.logger.Warn("extract.unsupported_media_type", "media_type", doc.MediaType)
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, doc.MediaType)
	}
}

// extractPDF returns the whole document's text in document order. No partial
// text on failure. The pdf library panics on some malformed inputs, so the
// whole read is wrapped in recover.
func (e *Extractor) extractPDF(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extract.pdf.panic", "panic", r)
			text = ""
			err = fmt.Errorf("%w: pdf reader panic: %v", ErrTextExtractionFailed, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		e.logger.Error("extract.pdf.open_failed", "error", err)
		return "", fmt.Errorf("%w: open pdf: %v", ErrTextExtractionFailed, err)
	}

	var b bytes.Buffer
	plain, err := r.GetPlainText()
	if err != nil {
		e.logger.Error("extract.pdf.read_failed", "error", err)
		return "", fmt.Errorf("%w: read pdf text: %v", ErrTextExtractionFailed, err)
	}
	if _, err := b.ReadFrom(plain); err != nil {
		e.logger.Error("extract.pdf.read_failed", "error", err)
		return "", fmt.Errorf("%w: read pdf text: %v", ErrTextExtractionFailed, err)
	}
	return b.String(), nil
}

// extractImage writes the image to a scratch file and runs tesseract on it.
// The engine's output is returned as-is, line breaks included: the downstream
// heuristics depend on the text being left unmodified.
func (e *Extractor) extractImage(ctx context.Context, doc entity.RawDocument) (string, error) {
	dir := e.cfg.TmpDir
	if dir == "" {
		dir = os.TempDir()
	}
	f, err := os.CreateTemp(dir, "receipt-*"+extForMediaType(doc.MediaType))
	if err != nil {
		return "", fmt.Errorf("%w: temp file: %v", ErrTextExtractionFailed, err)
	}
	path := f.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			e.logger.Warn("extract.image.tmp_remove_failed", "path", path, "error", rmErr)
		}
	}()
	if _, err := f.Write(doc.Content); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("%w: write temp file: %v", ErrTextExtractionFailed, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: close temp file: %v", ErrTextExtractionFailed, err)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.TesseractLang)
	if err != nil {
		e.logger.Error("extract.image.ocr_failed", "error", err, "stderr_bytes", len(errb))
		return "", fmt.Errorf("%w: tesseract: %v", ErrTextExtractionFailed, err)
	}
	return string(out), nil
}

func extForMediaType(mt string) string {
	switch mt {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/tiff":
		return ".tif"
	default:
		return ".img"
	}
}
