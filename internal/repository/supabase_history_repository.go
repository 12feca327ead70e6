package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/paulmach/orb"

	"MEORank-App/internal/database"
	"MEORank-App/model"
)

type SupabaseHistoryRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseHistoryRepository(client *database.SupabaseClient) AnalysisHistoryRepository {
	return &SupabaseHistoryRepository{
		client: client,
	}
}

func (r *SupabaseHistoryRepository) GetSummaries(ctx context.Context) ([]model.AnalysisSummary, error) {
	var summaries []model.AnalysisSummary
	data, count, err := r.client.GetClient().From("analysis_summary").Select("*", "exact", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("分析サマリーの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &summaries); err != nil {
		return nil, fmt.Errorf("分析サマリーのJSONアンマーシャル失敗: %w", err)
	}

	return summaries, nil
}

func (r *SupabaseHistoryRepository) GetSummariesByKeyword(ctx context.Context, keyword string) ([]model.AnalysisSummary, error) {
	var summaries []model.AnalysisSummary
	data, count, err := r.client.GetClient().From("analysis_summary").
		Select("*", "exact", false).
		Eq("keyword", keyword).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("キーワード別の分析サマリー取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &summaries); err != nil {
		return nil, fmt.Errorf("分析サマリーのJSONアンマーシャル失敗: %w", err)
	}

	return summaries, nil
}

func (r *SupabaseHistoryRepository) GetSummariesByBoundingBox(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]model.AnalysisSummary, error) {
	// 入力値の検証
	if minLng >= maxLng || minLat >= maxLat {
		return nil, fmt.Errorf("無効な境界ボックス: min値がmax値以上です")
	}

	// 座標値の範囲チェック（経度: -180〜180, 緯度: -90〜90）
	if minLng < -180 || maxLng > 180 || minLat < -90 || maxLat > 90 {
		return nil, fmt.Errorf("座標値が有効範囲外です")
	}

	// orb.Bound を使用して境界ボックスを作成
	bound := orb.Bound{
		Min: orb.Point{minLng, minLat},
		Max: orb.Point{maxLng, maxLat},
	}

	// analysesは中心座標を数値列で持つためPostGISの空間フィルタが使えない
	// 分析数は多くない前提で全件取得してクライアント側で絞り込む
	summaries, err := r.GetSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("境界ボックス検索エラー: %w", err)
	}

	var filtered []model.AnalysisSummary
	for _, summary := range summaries {
		center := orb.Point{summary.CenterLon, summary.CenterLat}
		if bound.Contains(center) {
			filtered = append(filtered, summary)
		}
	}

	return filtered, nil
}

func (r *SupabaseHistoryRepository) GetBusinessHistory(ctx context.Context, businessID string) ([]model.BusinessRankingHistory, error) {
	var history []model.BusinessRankingHistory
	data, count, err := r.client.GetClient().From("business_ranking_history").
		Select("*", "exact", false).
		Eq("business_id", businessID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("ビジネス %s の順位履歴取得失敗: %w", businessID, err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &history); err != nil {
		return nil, fmt.Errorf("順位履歴のJSONアンマーシャル失敗: %w", err)
	}

	// ビューの並び順に依存せず計測日時の昇順で返す
	sort.Slice(history, func(i, j int) bool {
		return history[i].CreatedAt.Before(history[j].CreatedAt)
	})

	return history, nil
}
