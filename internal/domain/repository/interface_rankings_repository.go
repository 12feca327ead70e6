package repository

import (
	"context"

	"MEORank-App/internal/domain/model"
)

// BusinessRankingsRepository は地点×ビジネスの順位レコードの永続化の責務を持つリポジトリインターフェース
type BusinessRankingsRepository interface {
	// InsertBatch は1回の分析で得られた順位レコードをまとめて保存する
	// 同じ（分析・地点・ビジネス）の組が既に存在する行はスキップされる
	InsertBatch(ctx context.Context, rankings []*model.BusinessRanking) error
	GetByAnalysisID(ctx context.Context, analysisID string) ([]model.BusinessRanking, error)
}
