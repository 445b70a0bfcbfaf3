package api

import (
	"net/http"

	"GameDealSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// IngestHandler 摄入与快照重建的触发接口。
// 触发是同步的：一轮摄入跑完才返回，调用方（定时任务/人工）拿到完整统计。
// 两个接口都经过摄入管线的互斥锁，并发触发只会排队。
type IngestHandler struct {
	ingestService *service.IngestService
	logger        *logrus.Logger
}

func NewIngestHandler(ingestService *service.IngestService, logger *logrus.Logger) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
		logger:        logger,
	}
}

// RunPass 跑一轮完整摄入
// POST /ingest/run
func (h *IngestHandler) RunPass(c *gin.Context) {
	report, err := h.ingestService.RunPass(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("摄入轮次失败")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  err.Error(),
			"report": report,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "摄入完成",
		"report":  report,
	})
}

// RebuildSnapshot 手动重建对比快照（摄入轮次结束时会自动重建，这里给运维兜底）
// POST /snapshot/rebuild
func (h *IngestHandler) RebuildSnapshot(c *gin.Context) {
	if err := h.ingestService.RebuildSnapshot(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("快照重建失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "快照重建完成"})
}
