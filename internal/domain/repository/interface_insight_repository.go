package repository

import (
	"MEORank-App/internal/domain/model"
	"context"
)

// InsightGenerationRepository は分析結果の講評生成の責務を持つリポジトリインターフェース
type InsightGenerationRepository interface {
	// GenerateInsight は集計済みの順位サマリーからMEO観点の講評文を生成する
	GenerateInsight(ctx context.Context, analysis *model.Analysis, businesses []model.AggregatedBusiness) (string, error)
}
