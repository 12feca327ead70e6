package repository

import (
	"context"

	"MEORank-App/model"
)

// AnalysisHistoryRepository は集計ビュー経由の履歴参照の責務を持つリポジトリインターフェース
type AnalysisHistoryRepository interface {
	GetSummaries(ctx context.Context) ([]model.AnalysisSummary, error)
	GetSummariesByKeyword(ctx context.Context, keyword string) ([]model.AnalysisSummary, error)
	GetSummariesByBoundingBox(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]model.AnalysisSummary, error)
	GetBusinessHistory(ctx context.Context, businessID string) ([]model.BusinessRankingHistory, error)
}
