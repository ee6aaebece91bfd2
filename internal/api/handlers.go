package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"kwscan/internal/domain/models"
	"kwscan/internal/lib/logger/sl"
	"kwscan/internal/services/batch"
	"kwscan/internal/services/report"
	"kwscan/internal/storage/leveldb"
	"kwscan/internal/utils"
	"kwscan/internal/utils/clean"
)

const uploadMemory = 32 << 20

type FileLink struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

type UploadResponse struct {
	ProcessingTime string     `json:"processing_time"`
	Files          []FileLink `json:"files"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.handleUpload"

	log := s.log.With("op", op)
	start := time.Now()

	if s.opts.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	keywords := clean.Keywords(r.FormValue("keywords"))
	files := r.MultipartForm.File["pdfs"]
	if len(keywords) == 0 || len(files) == 0 {
		respondError(w, http.StatusBadRequest, "Keywords or documents not provided")
		return
	}

	for _, fh := range files {
		if !s.allowedFile(fh.Filename) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported file %q, allowed extensions: %s",
				fh.Filename, strings.Join(s.opts.AllowedExtensions, ", ")))
			return
		}
	}

	threshold := s.opts.DefaultThreshold
	if raw := r.FormValue("fuzz_threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "fuzz_threshold must be a number between 0 and 100")
			return
		}
		threshold = parsed
	}

	documents, err := readDocuments(files)
	if err != nil {
		log.Error("failed to read upload", sl.Err(err))
		respondError(w, http.StatusBadRequest, "Failed to read uploaded files")
		return
	}

	result, err := s.runner.Run(r.Context(), batch.Request{
		Keywords:  keywords,
		Documents: documents,
		Normalization: models.NormalizationOptions{
			IgnoreCase:    checked(r, "ignore_case"),
			IgnoreAccents: checked(r, "ignore_accents"),
		},
		Match: models.MatchOptions{
			Fuzzy:     checked(r, "fuzzy_match"),
			Threshold: threshold,
			AutoJunk:  s.opts.AutoJunk,
		},
	})
	if err != nil {
		s.respondBatchError(w, err)
		return
	}

	id := uuid.NewString()
	if err := s.store.SaveBundle(r.Context(), id, result.Bundle.Archive, time.Now()); err != nil {
		log.Error("failed to store bundle", sl.Err(err))
		respondError(w, http.StatusInternalServerError, "Failed to store results")
		return
	}

	processingTime := utils.FormatSeconds(time.Since(start))
	log.Info("upload processed", "bundle", id, "processing_time", processingTime)

	respondJSON(w, http.StatusOK, UploadResponse{
		ProcessingTime: processingTime,
		Files: []FileLink{
			{Filename: result.Bundle.Name, Path: "/download/" + id},
		},
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	const op = "api.handleDownload"

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusNotFound, "Bundle not found")
		return
	}

	data, err := s.store.GetBundle(r.Context(), id)
	if err != nil {
		if errors.Is(err, leveldb.ErrBundleNotFound) {
			respondError(w, http.StatusNotFound, "Bundle not found")
			return
		}
		s.log.Error("failed to load bundle", "op", op, sl.Err(err))
		respondError(w, http.StatusInternalServerError, "Failed to load results")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.ArchiveFile))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.log.Error("failed to write bundle", "op", op, sl.Err(err))
		return
	}

	if err := s.store.DeleteBundle(r.Context(), id); err != nil {
		s.log.Error("failed to delete bundle", "op", op, sl.Err(err))
	}
}

func (s *Server) respondBatchError(w http.ResponseWriter, err error) {
	var inputErr *models.InvalidInputError
	var extractionErr *models.ExtractionError

	switch {
	case errors.As(err, &inputErr):
		respondError(w, http.StatusBadRequest, inputErr.Error())
	case errors.As(err, &extractionErr):
		s.log.Warn("extraction failed", "document", extractionErr.Document, sl.Err(err))
		respondError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("Could not read text from %q", extractionErr.Document))
	default:
		s.log.Error("batch failed", sl.Err(err))
		respondError(w, http.StatusInternalServerError, "Failed to process documents")
	}
}

func (s *Server) allowedFile(name string) bool {
	if len(s.opts.AllowedExtensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range s.opts.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

func checked(r *http.Request, field string) bool {
	return r.FormValue(field) == "on"
}

func readDocuments(files []*multipart.FileHeader) ([]models.RawDocument, error) {
	documents := make([]models.RawDocument, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", fh.Filename, err)
		}
		documents = append(documents, models.RawDocument{Name: fh.Filename, Data: data})
	}
	return documents, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
