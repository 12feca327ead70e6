package service

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"MEORank-App/internal/domain/model"
	"MEORank-App/internal/domain/repository"
)

// ParallelGridFetcher は全グリッド地点の検索順位を並行で取得するサービス
type ParallelGridFetcher struct {
	searchRepo    repository.RankingSearchRepository
	maxGoroutines int
}

// NewParallelGridFetcher は新しい並行順位取得インスタンスを作成
func NewParallelGridFetcher(searchRepo repository.RankingSearchRepository) *ParallelGridFetcher {
	return &ParallelGridFetcher{
		searchRepo:    searchRepo,
		maxGoroutines: 5, // 同時実行数を制限
	}
}

// PointResult は1地点の取得結果（成功時はビジネス一覧、失敗時はエラー）
type PointResult struct {
	Point      model.GridPoint
	Businesses []model.BusinessResult
	Error      error
}

// FetchAll は全地点の順位を並行で取得する
// 1地点の失敗は全体を中断せず、PointResult.Errorとして記録される
// 戻り値は地点ID順にソート済み
func (f *ParallelGridFetcher) FetchAll(ctx context.Context, grid *model.Grid, keyword string, depth int) []PointResult {
	log.Printf("🚀 並行順位取得開始: %d地点を並行計測", grid.NumPoints())
	start := time.Now()

	// セマフォを使用して同時実行数を制限
	semaphore := make(chan struct{}, f.maxGoroutines)
	results := make(chan PointResult, grid.NumPoints())
	var wg sync.WaitGroup

	// 各地点を並行で計測
	for _, point := range grid.Points {
		wg.Add(1)
		go func(p model.GridPoint) {
			defer wg.Done()

			// セマフォを取得（同時実行数制限）
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result := PointResult{Point: p}

			businesses, err := f.searchRepo.FetchRankings(ctx, p.ToLatLng(), keyword, depth)
			if err != nil {
				result.Error = err
				results <- result
				return
			}

			result.Businesses = businesses
			results <- result
		}(point)
	}

	// 別のgoroutineでwaitしてチャンネルを閉じる
	go func() {
		wg.Wait()
		close(results)
	}()

	// 結果を収集
	collected := make([]PointResult, 0, grid.NumPoints())
	successCount := 0
	errorCount := 0

	for result := range results {
		if result.Error != nil {
			errorCount++
			log.Printf("⚠️  地点%dの順位取得エラー: %v", result.Point.ID, result.Error)
		} else {
			successCount++
		}
		collected = append(collected, result)
	}

	// 集計とドキュメント生成が決定的になるよう地点ID順に揃える
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].Point.ID < collected[j].Point.ID
	})

	log.Printf("✅ 並行順位取得完了: %v (成功:%d, 失敗:%d)", time.Since(start), successCount, errorCount)
	return collected
}

// CountSucceeded は取得に成功した地点数を返す
func CountSucceeded(results []PointResult) int {
	count := 0
	for _, r := range results {
		if r.Error == nil {
			count++
		}
	}
	return count
}

// FirstError は最初に記録された地点エラーを返す（全地点成功の場合はnil）
func FirstError(results []PointResult) error {
	for _, r := range results {
		if r.Error != nil {
			return r.Error
		}
	}
	return nil
}
