package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iho/orderledger/internal/adapter/http/dto"
	"github.com/iho/orderledger/internal/domain"
	"github.com/iho/orderledger/internal/interchange"
)

const uploadField = "file"

// InterchangeService defines the behavior needed by InterchangeHandler.
type InterchangeService interface {
	ExportCSV(ctx context.Context, ownerID string, w io.Writer) (int, error)
	ImportCSV(ctx context.Context, ownerID string, r io.Reader, policy domain.DuplicatePolicy) (*domain.ImportReport, error)
	Backup(ctx context.Context, ownerID string) (*interchange.BackupDocument, error)
	Restore(ctx context.Context, ownerID string, r io.Reader) (*domain.RestoreReport, error)
}

// InterchangeHandler handles CSV export/import and JSON backup/restore.
type InterchangeHandler struct {
	interchangeUC InterchangeService
	now           func() time.Time
}

// NewInterchangeHandler creates a new InterchangeHandler.
func NewInterchangeHandler(interchangeUC InterchangeService) *InterchangeHandler {
	return &InterchangeHandler{interchangeUC: interchangeUC, now: time.Now}
}

// Export streams the caller's entries as a CSV attachment.
func (h *InterchangeHandler) Export(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if _, err := h.interchangeUC.ExportCSV(r.Context(), owner, &buf); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", h.attachment("entries", "csv"))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Import reads a CSV document from a multipart "file" field or the raw body.
func (h *InterchangeHandler) Import(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	policy, err := domain.ParseDuplicatePolicy(r.URL.Query().Get("duplicate_handling"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	body, err := uploadReader(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	report, err := h.interchangeUC.ImportCSV(r.Context(), owner, body, policy)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ImportFromDomain(report))
}

// Backup returns the caller's entries as a JSON attachment.
func (h *InterchangeHandler) Backup(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	doc, err := h.interchangeUC.Backup(r.Context(), owner)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", h.attachment("entries_backup", "json"))
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// Restore replaces the caller's entries with a backup document.
func (h *InterchangeHandler) Restore(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	body, err := uploadReader(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	report, err := h.interchangeUC.Restore(r.Context(), owner, body)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RestoreFromDomain(report))
}

func (h *InterchangeHandler) attachment(prefix, ext string) string {
	return fmt.Sprintf(`attachment; filename="%s_%s.%s"`, prefix, h.now().UTC().Format("20060102_150405"), ext)
}

// uploadReader returns the "file" part of a multipart form, or the body itself
// for any other content type.
func uploadReader(r *http.Request) (io.Reader, error) {
	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		return r.Body, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing %q form field", domain.ErrMalformedDocument, uploadField)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
		}
		if part.FormName() == uploadField {
			return part, nil
		}
	}
}
