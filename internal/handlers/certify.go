package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"sensoringest"
	"sensoringest/internal/ingest"
	"sensoringest/internal/qa"
	"sensoringest/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	formatXLSX      = "xlsx"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	errMissingFile = "missing multipart file field "
	errEncode      = "failed to encode workbook"
	errTooLarge    = "upload exceeds the size limit"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Certify one file
// @Description  Decodes a datalogger file or workbook, removes duplicates, reports dropouts and fills gaps. A file that already carries QA notes is returned with outcome SKIPPED.
// @Tags         certification
// @Accept       multipart/form-data
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        file    formData  file    true   "Datalogger file (.dat, .csv) or workbook (.xlsx)"
// @Param        format  query     string  false  "Response format"  Enums(json,xlsx)
// @Success      200  {object}  service.Certificate
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Failure      415  {object}  map[string]string
// @Failure      422  {object}  map[string]interface{}  "error, outcome, run_id"
// @Router       /api/v1/certify [post]
// @Security     BearerAuth
func (h *Handler) certify(c *gin.Context) {
	up, ok := h.formUpload(c, "file")
	if !ok {
		return
	}
	cert, err := h.services.Certify(c.Request.Context(), up, operatorID(c))
	if err != nil {
		h.certificationError(c, cert, err)
		return
	}
	h.respondCertificate(c, cert)
}

// @Summary      Append new data to a certified file
// @Description  Certifies "new" if needed, joins it to "base" and re-checks the seam. Column changes are reported as notes.
// @Tags         certification
// @Accept       multipart/form-data
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        base    formData  file    true   "Previously certified workbook or raw file"
// @Param        new     formData  file    true   "Newer datalogger file or workbook"
// @Param        format  query     string  false  "Response format"  Enums(json,xlsx)
// @Success      200  {object}  service.Certificate
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]interface{}  "error, outcome, run_id"
// @Failure      422  {object}  map[string]interface{}  "error, outcome, run_id"
// @Router       /api/v1/append [post]
// @Security     BearerAuth
func (h *Handler) appendFiles(c *gin.Context) {
	base, ok := h.formUpload(c, "base")
	if !ok {
		return
	}
	newer, ok := h.formUpload(c, "new")
	if !ok {
		return
	}
	cert, err := h.services.Append(c.Request.Context(), base, newer, operatorID(c))
	if err != nil {
		h.certificationError(c, cert, err)
		return
	}
	h.respondCertificate(c, cert)
}

// @Summary      Certify many files
// @Description  Each file is certified on its own; a blocked or rejected file does not stop the others.
// @Tags         certification
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file  true  "Files to certify (repeat the field)"
// @Success      200  {object}  map[string]interface{}  "count, certified, items"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/batch [post]
// @Security     BearerAuth
func (h *Handler) batch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.uploadError(c, "files", err)
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMissingFile + "files"})
		return
	}

	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		up, err := readUpload(fh)
		if err != nil {
			h.uploadError(c, "files", err)
			return
		}
		uploads = append(uploads, up)
	}

	items, err := h.services.CertifyBatch(c.Request.Context(), uploads, operatorID(c), nil)
	if err != nil {
		if h.log != nil {
			h.log.Infow("batch_canceled", "files", len(uploads), "err", err)
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	certified := 0
	for _, it := range items {
		if it.Err == nil && it.Certificate != nil && it.Certificate.Outcome == sensoringest.OutcomeCertified {
			certified++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(items),
		"certified": certified,
		"items":     items,
	})
}

func (h *Handler) formUpload(c *gin.Context, field string) (service.Upload, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		h.uploadError(c, field, err)
		return service.Upload{}, false
	}
	up, err := readUpload(fh)
	if err != nil {
		h.uploadError(c, field, err)
		return service.Upload{}, false
	}
	return up, true
}

func readUpload(fh *multipart.FileHeader) (service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, err
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return service.Upload{}, err
	}
	return service.Upload{Name: filepath.Base(fh.Filename), Content: content}, nil
}

func (h *Handler) uploadError(c *gin.Context, field string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errTooLarge})
		return
	}
	if h.log != nil {
		h.log.Infow("upload_bad_request", "field", field, "err", err)
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": errMissingFile + field})
}

// respondCertificate writes JSON, or the workbook when ?format=xlsx.
func (h *Handler) respondCertificate(c *gin.Context, cert service.Certificate) {
	if !strings.EqualFold(c.Query("format"), formatXLSX) {
		c.JSON(http.StatusOK, cert)
		return
	}
	body, err := h.services.Encode(cert)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("certify_encode_failed", "file", cert.FileName, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errEncode})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", workbookName(cert.FileName)))
	c.Header("X-Run-Id", cert.RunID)
	c.Header("X-Outcome", cert.Outcome)
	c.Data(http.StatusOK, contentTypeXLSX, body)
}

func (h *Handler) certificationError(c *gin.Context, cert service.Certificate, err error) {
	code := statusFor(err)
	if h.log != nil && code == http.StatusInternalServerError {
		h.log.Errorw("certify_failed", "file", cert.FileName, "err", err)
	}
	c.JSON(code, gin.H{
		"error":   err.Error(),
		"outcome": cert.Outcome,
		"run_id":  cert.RunID,
	})
}

// statusFor maps certification errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, qa.ErrDataConflict):
		return http.StatusUnprocessableEntity
	case errors.Is(err, qa.ErrSchemaMismatch):
		return http.StatusConflict
	case errors.Is(err, ingest.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ingest.ErrMalformedFile),
		errors.Is(err, qa.ErrEmptyDataset),
		errors.Is(err, qa.ErrInvalidInterval),
		errors.Is(err, qa.ErrGridTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// workbookName swaps the extension of an upload for .xlsx.
func workbookName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".xlsx"
}
