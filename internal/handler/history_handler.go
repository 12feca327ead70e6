package handler

import (
	"net/http"
	"strconv"
	"strings"

	"MEORank-App/internal/application"
	"MEORank-App/model"

	"github.com/gin-gonic/gin"
)

// HistoryHandler 過去の分析履歴に関するHTTPハンドラー
type HistoryHandler struct {
	historyService application.HistoryService
}

// NewHistoryHandler HistoryHandlerの新しいインスタンスを作成
func NewHistoryHandler(historyService application.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

// GetAnalyses GET /analyses - 分析サマリーの一覧を取得
// keywordまたはbbox（min_lng,min_lat,max_lng,max_lat）で絞り込み可能
func (h *HistoryHandler) GetAnalyses(c *gin.Context) {
	// bbox指定があれば境界ボックス検索を優先
	if bbox := c.Query("bbox"); bbox != "" {
		h.getAnalysesByBoundingBox(c, bbox)
		return
	}

	// keyword指定があればキーワード検索
	if keyword := c.Query("keyword"); keyword != "" {
		analyses, err := h.historyService.GetAnalysesByKeyword(c.Request.Context(), keyword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Failed to get analyses: " + err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, model.GetAnalysesResponse{Analyses: analyses})
		return
	}

	// 指定がなければ全件
	analyses, err := h.historyService.GetAnalyses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to get analyses: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.GetAnalysesResponse{Analyses: analyses})
}

// getAnalysesByBoundingBox bboxパラメータを解析して境界ボックス検索を行う
func (h *HistoryHandler) getAnalysesByBoundingBox(c *gin.Context, bbox string) {
	// bbox の解析
	coords := strings.Split(bbox, ",")
	if len(coords) != 4 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "bbox must contain 4 coordinates: min_lng,min_lat,max_lng,max_lat",
		})
		return
	}

	minLng, err := strconv.ParseFloat(coords[0], 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "Invalid min_lng value",
		})
		return
	}

	minLat, err := strconv.ParseFloat(coords[1], 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "Invalid min_lat value",
		})
		return
	}

	maxLng, err := strconv.ParseFloat(coords[2], 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "Invalid max_lng value",
		})
		return
	}

	maxLat, err := strconv.ParseFloat(coords[3], 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "Invalid max_lat value",
		})
		return
	}

	// サービス層で処理
	analyses, err := h.historyService.GetAnalysesByBoundingBox(c.Request.Context(), minLng, minLat, maxLng, maxLat)
	if err != nil {
		// 検証エラーは400、それ以外は500
		if strings.Contains(err.Error(), "検証失敗") {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_parameter",
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to get analyses: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.GetAnalysesResponse{Analyses: analyses})
}

// GetBusinessHistory GET /businesses/:business_id/history - ビジネスの順位履歴を取得
func (h *HistoryHandler) GetBusinessHistory(c *gin.Context) {
	// パスパラメータから ID を取得
	businessID := c.Param("business_id")
	if businessID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": "Business ID is required",
		})
		return
	}

	// サービス層で処理
	history, err := h.historyService.GetBusinessHistory(c.Request.Context(), businessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to get business history: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, history)
}
