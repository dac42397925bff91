package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cantina/internal/domain/backup"
)

// BackupHandler serves snapshot export and restore.
type BackupHandler struct {
	*BaseHandler
	service *backup.Service
}

func NewBackupHandler(base *BaseHandler, service *backup.Service) *BackupHandler {
	return &BackupHandler{BaseHandler: base, service: service}
}

// Export handles GET /backup/export - streams a compressed snapshot.
func (h *BackupHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	filename := fmt.Sprintf("cantina_backup_%s.json.zst", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/zstd")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	if err := h.service.Export(ctx, c.Writer); err != nil {
		h.Error(c, err)
	}
}

// Import handles POST /backup/import - restores a snapshot from the request
// body. Accepts both compressed and plain JSON snapshots.
func (h *BackupHandler) Import(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.service.Import(ctx, c.Request.Body); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "snapshot restored")
}
