package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"expense-tracker/constants"
	"expense-tracker/internal/entity"
	"expense-tracker/internal/pipeline"
)

// readUpload pulls the uploaded receipt out of a multipart form. The media
// type comes from the part header, with a filename-extension fallback for
// clients that send application/octet-stream.
func (s *Server) readUpload(r *http.Request) (entity.RawDocument, bool, error) {
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxBytes); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			// plain form post, no file attached
			return entity.RawDocument{}, false, r.ParseForm()
		}
		return entity.RawDocument{}, false, err
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return entity.RawDocument{}, false, nil
		}
		return entity.RawDocument{}, false, err
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(io.LimitReader(file, s.cfg.Upload.MaxBytes+1))
	if err != nil {
		return entity.RawDocument{}, false, err
	}
	if int64(len(content)) > s.cfg.Upload.MaxBytes {
		return entity.RawDocument{}, false, errors.New("upload too large")
	}

	return entity.RawDocument{Content: content, MediaType: uploadMediaType(header)}, true, nil
}

func uploadMediaType(header *multipart.FileHeader) string {
	mediaType := header.Header.Get("Content-Type")
	if constants.MapMediaTypeToFormat(mediaType) != "" {
		return mediaType
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if byExt := constants.MapExtToMediaType(ext); byExt != "" {
		return byExt
	}
	return mediaType
}

func selectorFrom(r *http.Request) pipeline.Selector {
	return pipeline.Selector{
		Strategy:   r.FormValue("strategy"),
		Model:      r.FormValue("model"),
		Credential: r.FormValue("credential"),
	}
}

// handleProcessReceipt runs extraction only: no expense row is written. The
// client uses the outcome to pre-fill its form.
func (s *Server) handleProcessReceipt(w http.ResponseWriter, r *http.Request) {
	doc, present, err := s.readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !present {
		writeError(w, http.StatusBadRequest, "receipt file is required")
		return
	}

	strat, err := s.strategies.New(selectorFrom(r))
	if err != nil {
		if errors.Is(err, pipeline.ErrMissingCredential) || errors.Is(err, pipeline.ErrUnknownStrategy) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("server.receipts.strategy", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	outcome := s.orchestrator.Extract(r.Context(), doc, strat)
	writeJSON(w, http.StatusOK, outcome)
}
