package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// PostAnalysisRerun は既存の分析と同じ条件で再計測を行うエンドポイント
// POST /api/v1/analyses/:id/rerun
func (h *AnalysisHandler) PostAnalysisRerun(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "analysis_idが指定されていません",
		})
		return
	}

	// UseCase呼び出し
	response, err := h.rerunUseCase.RerunAnalysis(c.Request.Context(), analysisID)
	if err != nil {
		// エラーメッセージから404/409/500を判定
		if strings.Contains(err.Error(), "見つかりません") {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "元の分析が見つかりません",
				"details": err.Error(),
			})
		} else if strings.Contains(err.Error(), "再実行できません") {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "処理中の分析は再実行できません",
				"details": err.Error(),
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "分析の再実行に失敗しました",
				"details": err.Error(),
			})
		}
		return
	}

	// 成功レスポンス（新しい分析IDを含む）
	c.JSON(http.StatusOK, response)
}
