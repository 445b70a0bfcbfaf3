package api

import (
	"errors"
	"net/http"
	"strconv"

	"GameDealSync/internal/model"
	"GameDealSync/internal/repository"
	"GameDealSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DealsHandler 提供给前端的比价查询接口
type DealsHandler struct {
	snapshotService *service.SnapshotService
	bundleRepo      repository.BundleRepository
	logger          *logrus.Logger
}

// NewDealsHandler 创建 DealsHandler
func NewDealsHandler(db *gorm.DB, snapshotService *service.SnapshotService, logger *logrus.Logger) *DealsHandler {
	return &DealsHandler{
		snapshotService: snapshotService,
		bundleRepo:      repository.NewBundleRepository(db),
		logger:          logger,
	}
}

// ListDeals 跨店比价列表
// GET /api/deals?wishlist=1
func (h *DealsHandler) ListDeals(c *gin.Context) {
	wishlistOnly := c.Query("wishlist") == "1"

	rows, err := h.snapshotService.ListComparison(c.Request.Context(), wishlistOnly)
	if err != nil {
		h.logger.WithError(err).Error("ListDeals failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(rows),
		"deals": rows,
	})
}

// GetDeal 单个身份的比价详情
// GET /api/deals/:identity_id
func (h *DealsHandler) GetDeal(c *gin.Context) {
	identityID := c.Param("identity_id")
	if identityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identity_id is required"})
		return
	}

	row, err := h.snapshotService.GetComparison(c.Request.Context(), identityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "identity not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("GetDeal failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, row)
}

// ListBundles 捆绑包列表，按抓取时间倒序
// GET /api/bundles?store=fanatical&limit=50
func (h *DealsHandler) ListBundles(c *gin.Context) {
	storeName := c.Query("store")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	offers, err := h.bundleRepo.ListOffers(c.Request.Context(), model.StoreType(storeName), limit)
	if err != nil {
		h.logger.WithError(err).Error("ListBundles failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   len(offers),
		"bundles": offers,
	})
}

// GetBundleMembers 捆绑包成员展开
// GET /api/bundles/:id/members
func (h *DealsHandler) GetBundleMembers(c *gin.Context) {
	offerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bundle id"})
		return
	}

	members, err := h.bundleRepo.ListMembers(c.Request.Context(), offerID)
	if err != nil {
		h.logger.WithError(err).Error("GetBundleMembers failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   len(members),
		"members": members,
	})
}
