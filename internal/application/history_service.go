package application

import (
	"context"
	"fmt"
	"sort"

	"MEORank-App/internal/repository"
	"MEORank-App/model"
)

// HistoryService 過去の分析履歴に関するビジネスロジックを提供するサービス
type HistoryService interface {
	// GetAnalyses 分析サマリーの一覧を取得
	GetAnalyses(ctx context.Context) ([]model.AnalysisSummary, error)

	// GetAnalysesByKeyword 指定キーワードの分析サマリー一覧を取得
	GetAnalysesByKeyword(ctx context.Context, keyword string) ([]model.AnalysisSummary, error)

	// GetAnalysesByBoundingBox 境界ボックス内に中心を持つ分析サマリー一覧を取得
	GetAnalysesByBoundingBox(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]model.AnalysisSummary, error)

	// GetBusinessHistory ビジネスの完了済み分析をまたいだ順位履歴を取得
	GetBusinessHistory(ctx context.Context, businessID string) (*model.GetBusinessHistoryResponse, error)
}

// historyServiceImpl HistoryServiceの実装
type historyServiceImpl struct {
	historyRepo repository.AnalysisHistoryRepository
}

// NewHistoryService HistoryServiceの新しいインスタンスを作成
func NewHistoryService(historyRepo repository.AnalysisHistoryRepository) HistoryService {
	return &historyServiceImpl{
		historyRepo: historyRepo,
	}
}

// GetAnalyses 分析サマリーの一覧を取得
func (s *historyServiceImpl) GetAnalyses(ctx context.Context) ([]model.AnalysisSummary, error) {
	// TODO: 分析数が増えたらPostgRESTのRangeヘッダでページングする
	summaries, err := s.historyRepo.GetSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("分析履歴の取得失敗: %w", err)
	}

	return s.decorateSummaries(summaries), nil
}

// GetAnalysesByKeyword 指定キーワードの分析サマリー一覧を取得
func (s *historyServiceImpl) GetAnalysesByKeyword(ctx context.Context, keyword string) ([]model.AnalysisSummary, error) {
	if keyword == "" {
		return nil, fmt.Errorf("キーワードは必須です")
	}

	summaries, err := s.historyRepo.GetSummariesByKeyword(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("キーワード別の分析履歴取得失敗: %w", err)
	}

	return s.decorateSummaries(summaries), nil
}

// GetAnalysesByBoundingBox 境界ボックス内に中心を持つ分析サマリー一覧を取得
func (s *historyServiceImpl) GetAnalysesByBoundingBox(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]model.AnalysisSummary, error) {
	// 境界ボックスのバリデーション
	if err := s.validateBoundingBox(minLng, minLat, maxLng, maxLat); err != nil {
		return nil, fmt.Errorf("境界ボックスの検証失敗: %w", err)
	}

	summaries, err := s.historyRepo.GetSummariesByBoundingBox(ctx, minLng, minLat, maxLng, maxLat)
	if err != nil {
		return nil, fmt.Errorf("境界ボックス内の分析履歴取得失敗: %w", err)
	}

	return s.decorateSummaries(summaries), nil
}

// GetBusinessHistory ビジネスの完了済み分析をまたいだ順位履歴を取得
func (s *historyServiceImpl) GetBusinessHistory(ctx context.Context, businessID string) (*model.GetBusinessHistoryResponse, error) {
	// ビジネスIDはGoogleのplace_id形式のため形式チェックは空チェックのみ
	if businessID == "" {
		return nil, fmt.Errorf("ビジネスIDは必須です")
	}

	history, err := s.historyRepo.GetBusinessHistory(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("順位履歴の取得失敗: %w", err)
	}

	return &model.GetBusinessHistoryResponse{
		BusinessID: businessID,
		History:    history,
	}, nil
}

// decorateSummaries 表示用の日付を設定し、作成日時の降順に並べる
func (s *historyServiceImpl) decorateSummaries(summaries []model.AnalysisSummary) []model.AnalysisSummary {
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	for i := range summaries {
		summaries[i].Date = summaries[i].CreatedAt.Format("2006年1月2日")
	}

	return summaries
}

// validateBoundingBox 境界ボックスのバリデーション
func (s *historyServiceImpl) validateBoundingBox(minLng, minLat, maxLng, maxLat float64) error {
	if minLng >= maxLng {
		return fmt.Errorf("経度の最小値は最大値より小さい必要があります")
	}
	if minLat >= maxLat {
		return fmt.Errorf("緯度の最小値は最大値より小さい必要があります")
	}
	if minLng < -180 || maxLng > 180 {
		return fmt.Errorf("経度は-180から180の範囲内である必要があります")
	}
	if minLat < -90 || maxLat > 90 {
		return fmt.Errorf("緯度は-90から90の範囲内である必要があります")
	}
	return nil
}
