package repository

import (
	"context"

	"MEORank-App/internal/domain/model"
)

// AnalysisResultRepository は分析結果ドキュメントの保存・取得の責務を持つリポジトリインターフェース
type AnalysisResultRepository interface {
	// Save は結果ドキュメントをTTL付きで保存する
	Save(ctx context.Context, doc *model.AnalysisResultDocument, ttlHours int) error
	GetByAnalysisID(ctx context.Context, analysisID string) (*model.AnalysisResultDocument, error)
	Delete(ctx context.Context, analysisID string) error
}
