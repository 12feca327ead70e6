package repository

import (
	"context"

	"MEORank-App/internal/domain/model"
)

// RankingSearchRepository は指定座標でのローカル検索順位取得の責務を持つリポジトリインターフェース
type RankingSearchRepository interface {
	// FetchRankings は指定座標を検索地点としてキーワード検索し、順位付きのビジネス一覧を返す
	// 検索結果が0件の場合は空スライスを返す（エラーにはしない）
	FetchRankings(ctx context.Context, location model.LatLng, keyword string, depth int) ([]model.BusinessResult, error)
}
