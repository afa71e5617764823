package admin

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	handlershared "github.com/mixcampeao/api/internal/http/handlers/shared"
	"github.com/mixcampeao/api/internal/http/response"
	"github.com/mixcampeao/api/internal/service"

	"github.com/gin-gonic/gin"
)

// readUpload extracts the multipart "file" payload, enforcing the
// configured size cap before buffering.
func (h *Handler) readUpload(c *gin.Context) (string, []byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "arquivo de importação ausente", nil)
		return "", nil, false
	}
	maxSize := h.Config.Import.MaxFileSizeBytes
	if maxSize > 0 && fileHeader.Size > maxSize {
		respondError(c, response.CodeBadRequest, "arquivo excede o tamanho máximo permitido", nil)
		return "", nil, false
	}

	data, err := readMultipartFile(fileHeader)
	if err != nil {
		respondError(c, response.CodeBadRequest, "falha ao ler arquivo de importação", err)
		return "", nil, false
	}
	return fileHeader.Filename, data, true
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// RunImport executes a catalog import. A failed run still answers with
// the job ledger entry so the caller can see the row errors.
func (h *Handler) RunImport(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	fileName, data, ok := h.readUpload(c)
	if !ok {
		return
	}
	mode := strings.ToUpper(strings.TrimSpace(c.PostForm("mode")))

	result, err := h.ImportService.Run(service.RunInput{
		UserID:   &adminID,
		FileName: fileName,
		Mode:     mode,
		Data:     data,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImportFailed):
			handlershared.RespondErrorWithData(c, response.CodeBadRequest, "importação falhou", result, nil)
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "modo de importação inválido", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao processar importação", err)
		}
		return
	}

	response.Success(c, result)
}

// PrecheckImport validates a file without touching the catalog.
func (h *Handler) PrecheckImport(c *gin.Context) {
	fileName, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.ImportService.Precheck(fileName, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "arquivo de importação inválido", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao validar arquivo", err)
		}
		return
	}

	response.Success(c, result)
}

// ListImportJobs lists the most recent ledger entries.
func (h *Handler) ListImportJobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	jobs, err := h.ImportService.ListJobs(limit)
	if err != nil {
		respondError(c, response.CodeInternal, "falha ao listar importações", err)
		return
	}
	response.Success(c, jobs)
}

// GetImportJob returns one ledger entry.
func (h *Handler) GetImportJob(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	job, err := h.ImportService.GetJob(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "importação não encontrada", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao carregar importação", err)
		}
		return
	}
	response.Success(c, job)
}
