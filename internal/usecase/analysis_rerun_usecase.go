package usecase

import (
	"MEORank-App/internal/domain/model"
	"MEORank-App/internal/domain/repository"
	"context"
	"fmt"
	"log"
)

type AnalysisRerunUseCase interface {
	// RerunAnalysis は既存の分析と同じ条件で計測をやり直し、新しい分析として実行する
	RerunAnalysis(ctx context.Context, analysisID string) (*model.AnalysisResponse, error)
}

// analysisRerunUseCaseImpl はAnalysisRerunUseCaseの実装
type analysisRerunUseCaseImpl struct {
	analysisUseCase AnalysisUseCase
	analysesRepo    repository.AnalysesRepository
}

// NewAnalysisRerunUseCase は新しいAnalysisRerunUseCaseインスタンスを作成
func NewAnalysisRerunUseCase(
	analysisUseCase AnalysisUseCase,
	analysesRepo repository.AnalysesRepository,
) AnalysisRerunUseCase {
	return &analysisRerunUseCaseImpl{
		analysisUseCase: analysisUseCase,
		analysesRepo:    analysesRepo,
	}
}

// RerunAnalysis は再計測の主要処理を行う
// 元の分析は変更せず、同じ条件で新しい分析レコードを作成して実行する
func (u *analysisRerunUseCaseImpl) RerunAnalysis(ctx context.Context, analysisID string) (*model.AnalysisResponse, error) {
	log.Printf("🚀 分析再実行開始 (元ID: %s)", analysisID)

	// Step 1: 元の分析条件を復元する
	req, err := u.restoreAnalysisRequest(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("分析条件の復元に失敗: %w", err)
	}

	// Step 2: 同じ条件で新しい分析として実行
	response, err := u.analysisUseCase.RunAnalysis(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("分析の再実行に失敗: %w", err)
	}

	log.Printf("✅ 分析再実行完了 (元ID: %s → 新ID: %s)", analysisID, response.AnalysisID)
	return response, nil
}

// restoreAnalysisRequest はDBの分析レコードから計測条件を復元する
func (u *analysisRerunUseCaseImpl) restoreAnalysisRequest(ctx context.Context, analysisID string) (*model.AnalysisRequest, error) {
	log.Printf("📚 元の分析条件を復元中 (ID: %s)", analysisID)

	original, err := u.analysesRepo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, err
	}

	// 実行中の分析は条件が確定していても結果が未確定のため対象外
	if original.IsProcessing() {
		return nil, fmt.Errorf("処理中の分析は再実行できません (ID: %s)", analysisID)
	}

	log.Printf("✅ 分析条件復元完了 (キーワード: %s, 地点数: %d)", original.Keyword, original.NumPoints)

	return &model.AnalysisRequest{
		CenterLat:  original.CenterLat,
		CenterLng:  original.CenterLng,
		Keyword:    original.Keyword,
		NumPoints:  original.NumPoints,
		DistanceKm: original.DistanceKm,
	}, nil
}
