package handler

import (
	"MEORank-App/internal/domain/model"
	"MEORank-App/internal/usecase"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// AnalysisHandler はグリッド順位分析APIのハンドラー
type AnalysisHandler struct {
	analysisUseCase usecase.AnalysisUseCase
	rerunUseCase    usecase.AnalysisRerunUseCase
}

// NewAnalysisHandler は新しいAnalysisHandlerインスタンスを作成
func NewAnalysisHandler(analysisUseCase usecase.AnalysisUseCase, rerunUseCase usecase.AnalysisRerunUseCase) *AnalysisHandler {
	return &AnalysisHandler{
		analysisUseCase: analysisUseCase,
		rerunUseCase:    rerunUseCase,
	}
}

// PostAnalysis はグリッド順位分析を実行するエンドポイント
// POST /api/v1/analyses
func (h *AnalysisHandler) PostAnalysis(c *gin.Context) {
	var req model.AnalysisRequest

	// リクエストボディのバインド
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	// バリデーション
	if err := h.validateRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "バリデーションエラー",
			"details": err.Error(),
		})
		return
	}

	// UseCase呼び出し
	response, err := h.analysisUseCase.RunAnalysis(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "順位分析の実行に失敗しました",
			"details": err.Error(),
		})
		return
	}

	// 成功レスポンス（全地点失敗の場合もstatus=failedの分析として返す）
	c.JSON(http.StatusOK, response)
}

// validateRequest はリクエストの詳細バリデーションを行う
func (h *AnalysisHandler) validateRequest(req *model.AnalysisRequest) error {
	// 緯度経度の範囲チェック
	if req.CenterLat < -90 || req.CenterLat > 90 {
		return &ValidationError{Field: "lat", Message: "緯度は-90から90の範囲で指定してください"}
	}
	if req.CenterLng < -180 || req.CenterLng > 180 {
		return &ValidationError{Field: "lon", Message: "経度は-180から180の範囲で指定してください"}
	}

	// キーワードは必須
	if strings.TrimSpace(req.Keyword) == "" {
		return &ValidationError{Field: "keyword", Message: "検索キーワードは必須です"}
	}

	// 地点数のチェック（未指定の0はデフォルト値が適用される）
	if req.NumPoints < 0 {
		return &ValidationError{Field: "num_points", Message: "地点数は1以上を指定してください"}
	}
	if req.NumPoints > model.MaxNumPoints {
		return &ValidationError{Field: "num_points", Message: "地点数は" + strconv.Itoa(model.MaxNumPoints) + "以下で指定してください"}
	}

	// 地点間距離のチェック（未指定の0はデフォルト値が適用される）
	if req.DistanceKm < 0 {
		return &ValidationError{Field: "distance_km", Message: "地点間距離は正の値で指定してください"}
	}

	return nil
}

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// GetAnalysis は特定の分析の詳細と集計結果を取得するエンドポイント
// GET /api/v1/analyses/:id
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "analysis_idが指定されていません",
		})
		return
	}

	// UseCaseから取得
	detail, err := h.analysisUseCase.GetAnalysisDetail(c.Request.Context(), analysisID)
	if err != nil {
		// エラーメッセージから404か500かを判定
		if strings.Contains(err.Error(), "見つかりません") {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "分析が見つかりません",
				"details": err.Error(),
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "分析の取得に失敗しました",
				"details": err.Error(),
			})
		}
		return
	}

	// 成功レスポンス
	c.JSON(http.StatusOK, detail)
}

// GetAnalysisResult はビューア用の分析結果ドキュメントを取得するエンドポイント
// GET /api/v1/analyses/:id/result
func (h *AnalysisHandler) GetAnalysisResult(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "analysis_idが指定されていません",
		})
		return
	}

	// UseCaseから取得
	doc, err := h.analysisUseCase.GetAnalysisResult(c.Request.Context(), analysisID)
	if err != nil {
		// エラーメッセージから404か500かを判定
		if strings.Contains(err.Error(), "見つかりません") || strings.Contains(err.Error(), "有効期限切れ") {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "分析結果が見つかりません",
				"details": err.Error(),
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "分析結果の取得に失敗しました",
				"details": err.Error(),
			})
		}
		return
	}

	// 成功レスポンス
	c.JSON(http.StatusOK, doc)
}

// DeleteAnalysis は分析と付随データを削除するエンドポイント
// DELETE /api/v1/analyses/:id
func (h *AnalysisHandler) DeleteAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "analysis_idが指定されていません",
		})
		return
	}

	// UseCase呼び出し
	if err := h.analysisUseCase.DeleteAnalysis(c.Request.Context(), analysisID); err != nil {
		// エラーメッセージから404か500かを判定
		if strings.Contains(err.Error(), "見つかりません") {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "分析が見つかりません",
				"details": err.Error(),
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "分析の削除に失敗しました",
				"details": err.Error(),
			})
		}
		return
	}

	// 成功レスポンス
	c.JSON(http.StatusOK, gin.H{
		"message":     "分析を削除しました",
		"analysis_id": analysisID,
	})
}

// GetGridPreview は計測グリッドのプレビューをGeoJSONで返すエンドポイント
// GET /api/v1/grid/preview
func (h *AnalysisHandler) GetGridPreview(c *gin.Context) {
	req, err := h.parseGridPreviewQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "バリデーションエラー",
			"details": err.Error(),
		})
		return
	}

	// UseCase呼び出し
	fc, err := h.analysisUseCase.PreviewGrid(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "グリッドプレビューの生成に失敗しました",
			"details": err.Error(),
		})
		return
	}

	// 成功レスポンス
	c.JSON(http.StatusOK, fc)
}

// parseGridPreviewQuery はグリッドプレビューのクエリパラメータを解析する
func (h *AnalysisHandler) parseGridPreviewQuery(c *gin.Context) (*model.AnalysisRequest, error) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return nil, &ValidationError{Field: "lat,lon", Message: "latとlonは必須です"}
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, &ValidationError{Field: "lat", Message: "latの値が不正です"}
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, &ValidationError{Field: "lon", Message: "lonの値が不正です"}
	}

	req := &model.AnalysisRequest{
		CenterLat: lat,
		CenterLng: lon,
		// プレビューではキーワード不要のためプレースホルダを設定
		Keyword: "preview",
	}

	if numPointsStr := c.Query("num_points"); numPointsStr != "" {
		numPoints, err := strconv.Atoi(numPointsStr)
		if err != nil {
			return nil, &ValidationError{Field: "num_points", Message: "num_pointsの値が不正です"}
		}
		req.NumPoints = numPoints
	}

	if distanceStr := c.Query("distance_km"); distanceStr != "" {
		distance, err := strconv.ParseFloat(distanceStr, 64)
		if err != nil {
			return nil, &ValidationError{Field: "distance_km", Message: "distance_kmの値が不正です"}
		}
		req.DistanceKm = distance
	}

	// 実行時と同じ上限・範囲チェックを適用
	if err := h.validateRequest(req); err != nil {
		return nil, err
	}

	return req, nil
}
