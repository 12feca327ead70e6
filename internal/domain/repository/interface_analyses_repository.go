package repository

import (
	"context"

	"MEORank-App/internal/domain/model"
)

// AnalysesRepository は分析レコードの永続化の責務を持つリポジトリインターフェース
type AnalysesRepository interface {
	Create(ctx context.Context, analysis *model.Analysis) error
	GetByID(ctx context.Context, id string) (*model.Analysis, error)
	// MarkCompleted は分析を完了状態に更新する（completed_atも同時に設定）
	MarkCompleted(ctx context.Context, id string, jsonURL, jsonFilename string, businessesFound, apiCallsMade int) error
	// MarkFailed は分析を失敗状態に更新する（エラー理由を保存）
	MarkFailed(ctx context.Context, id string, errorMessage string, apiCallsMade int) error
	Delete(ctx context.Context, id string) error
}
