package helper

import (
	"MEORank-App/internal/domain/model"
	"math"
	"sort"
)

const earthRadiusKm = 6371.0

// HaversineDistance は2地点間の距離を計算する (km)
func HaversineDistance(p1, p2 model.LatLng) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lng1 := p1.Lng * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	lng2 := p2.Lng * math.Pi / 180
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// HaversineDistanceGridPoints は2つのグリッド地点間の距離を計算する (km)
func HaversineDistanceGridPoints(p1, p2 *model.GridPoint) float64 {
	return HaversineDistance(p1.ToLatLng(), p2.ToLatLng())
}

// FilterByTier は指定されたティアのビジネスのみを抽出する
func FilterByTier(businesses []model.AggregatedBusiness, tier string) []model.AggregatedBusiness {
	var filtered []model.AggregatedBusiness
	for _, b := range businesses {
		if b.Tier == tier {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// CountByTier はティアごとのビジネス数を集計する
func CountByTier(businesses []model.AggregatedBusiness) map[string]int {
	counts := make(map[string]int)
	for _, b := range businesses {
		counts[b.Tier]++
	}
	return counts
}

// FindBestRanked は最も順位の良いビジネスを見つける
func FindBestRanked(businesses []model.AggregatedBusiness) *model.AggregatedBusiness {
	if len(businesses) == 0 {
		return nil
	}
	best := &businesses[0]
	for i := range businesses {
		if businesses[i].BestRank < best.BestRank {
			best = &businesses[i]
		}
	}
	return best
}

// FindMostVisible は最も多くの地点で表示されたビジネスを見つける
func FindMostVisible(businesses []model.AggregatedBusiness) *model.AggregatedBusiness {
	if len(businesses) == 0 {
		return nil
	}
	most := &businesses[0]
	for i := range businesses {
		if businesses[i].PointsPresent > most.PointsPresent {
			most = &businesses[i]
		}
	}
	return most
}

// SortByAvgRank は平均順位の良い順にビジネスをソートする
func SortByAvgRank(businesses []model.AggregatedBusiness) {
	sort.Slice(businesses, func(i, j int) bool {
		return businesses[i].AvgRank < businesses[j].AvgRank
	})
}
