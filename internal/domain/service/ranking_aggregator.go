package service

import (
	"sort"
	"strconv"

	"MEORank-App/internal/domain/model"
)

// RankingAggregatorService は地点ごとの取得結果をビジネス単位の順位サマリーに集計するサービス
type RankingAggregatorService struct{}

// NewRankingAggregatorService は新しい順位集計サービスを作成する
func NewRankingAggregatorService() *RankingAggregatorService {
	return &RankingAggregatorService{}
}

// rankingStats 集計途中の1ビジネス分の状態
type rankingStats struct {
	business model.Business
	best     int
	worst    int
	sum      int
	count    int
}

// Aggregate は全地点の結果からビジネスごとの順位サマリーを算出する
// 失敗した地点はスキップし、どの地点にも現れなかったビジネスは結果に含めない
// 入力の順序に依存せず同じ出力を返す（best_rank昇順、同順位はビジネスID昇順）
func (s *RankingAggregatorService) Aggregate(results []PointResult) []model.AggregatedBusiness {
	stats := make(map[string]*rankingStats)

	for _, result := range results {
		if result.Error != nil {
			continue
		}
		for _, business := range result.Businesses {
			st, ok := stats[business.ID]
			if !ok {
				st = &rankingStats{
					business: business.ToBusiness(),
					best:     business.Position,
					worst:    business.Position,
				}
				stats[business.ID] = st
			}
			if business.Position < st.best {
				st.best = business.Position
			}
			if business.Position > st.worst {
				st.worst = business.Position
			}
			st.sum += business.Position
			st.count++
		}
	}

	return s.finalize(stats)
}

// AggregateRecords は保存済みの順位レコードからビジネスごとの順位サマリーを再構築する
// 集計ルールはAggregateと同一
func (s *RankingAggregatorService) AggregateRecords(records []model.BusinessRanking) []model.AggregatedBusiness {
	stats := make(map[string]*rankingStats)

	for _, record := range records {
		st, ok := stats[record.BusinessID]
		if !ok {
			st = &rankingStats{
				business: model.Business{
					ID:      record.BusinessID,
					Title:   record.BusinessName,
					Address: record.BusinessAddress,
					Rating:  record.BusinessRating,
					Reviews: record.BusinessReviews,
				},
				best:  record.RankingPosition,
				worst: record.RankingPosition,
			}
			stats[record.BusinessID] = st
		}
		if record.RankingPosition < st.best {
			st.best = record.RankingPosition
		}
		if record.RankingPosition > st.worst {
			st.worst = record.RankingPosition
		}
		st.sum += record.RankingPosition
		st.count++
	}

	return s.finalize(stats)
}

// finalize は集計途中の状態をソート済みのサマリー一覧に変換する
func (s *RankingAggregatorService) finalize(stats map[string]*rankingStats) []model.AggregatedBusiness {
	aggregated := make([]model.AggregatedBusiness, 0, len(stats))
	for id, st := range stats {
		entry := model.AggregatedBusiness{
			BusinessID:    id,
			Name:          st.business.Title,
			Address:       st.business.Address,
			Rating:        st.business.Rating,
			Reviews:       st.business.Reviews,
			BestRank:      st.best,
			WorstRank:     st.worst,
			AvgRank:       float64(st.sum) / float64(st.count),
			PointsPresent: st.count,
		}
		entry.Tier = entry.GetTier()
		aggregated = append(aggregated, entry)
	}

	sort.Slice(aggregated, func(i, j int) bool {
		if aggregated[i].BestRank != aggregated[j].BestRank {
			return aggregated[i].BestRank < aggregated[j].BestRank
		}
		return aggregated[i].BusinessID < aggregated[j].BusinessID
	})

	return aggregated
}

// CollectBusinesses は全地点の結果からユニークなビジネス一覧を作成する
// 同じビジネスが複数地点に現れた場合は最初に現れた情報を採用する
func (s *RankingAggregatorService) CollectBusinesses(results []PointResult) []model.Business {
	seen := make(map[string]bool)
	businesses := make([]model.Business, 0)

	for _, result := range results {
		if result.Error != nil {
			continue
		}
		for _, business := range result.Businesses {
			if seen[business.ID] {
				continue
			}
			seen[business.ID] = true
			businesses = append(businesses, business.ToBusiness())
		}
	}

	return businesses
}

// BuildRankings はビューア用のビジネスID→地点ID→順位の二重マップを作成する
// JSONのキーにするため地点IDは文字列に変換する
func (s *RankingAggregatorService) BuildRankings(results []PointResult) map[string]map[string]int {
	rankings := make(map[string]map[string]int)

	for _, result := range results {
		if result.Error != nil {
			continue
		}
		pointID := strconv.Itoa(result.Point.ID)
		for _, business := range result.Businesses {
			if _, ok := rankings[business.ID]; !ok {
				rankings[business.ID] = make(map[string]int)
			}
			rankings[business.ID][pointID] = business.Position
		}
	}

	return rankings
}

// BuildRankingRecords は全地点の結果をDB保存用の順位レコード一覧に変換する
func (s *RankingAggregatorService) BuildRankingRecords(analysisID string, results []PointResult) []*model.BusinessRanking {
	records := make([]*model.BusinessRanking, 0)

	for _, result := range results {
		if result.Error != nil {
			continue
		}
		for _, business := range result.Businesses {
			records = append(records, business.ToRanking(analysisID, result.Point))
		}
	}

	return records
}
