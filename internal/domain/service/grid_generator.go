package service

import (
	"fmt"
	"math"

	"MEORank-App/internal/domain/model"
)

// 緯度1度あたりの距離（km）
const kmPerDegreeLat = 111.0

// GridGeneratorService は中心座標の周囲に順位計測用のグリッドを生成するサービス
type GridGeneratorService struct{}

// NewGridGeneratorService は新しいグリッド生成サービスを作成
func NewGridGeneratorService() *GridGeneratorService {
	return &GridGeneratorService{}
}

// Generate は中心座標の周囲にnumPoints個の地点を持つ格子を生成する
// 列数はceil(sqrt(numPoints))、行数はceil(numPoints/cols)で行数<=列数のほぼ正方形になる
// 地点は行優先（行0を左から右、次に行1…）の順で、numPoints個になるよう末尾を切り捨てる
func (s *GridGeneratorService) Generate(center model.LatLng, numPoints int, distanceKm float64) (*model.Grid, error) {
	if numPoints < 1 {
		return nil, fmt.Errorf("地点数は1以上を指定してください: %d", numPoints)
	}
	if distanceKm <= 0 {
		return nil, fmt.Errorf("地点間距離は正の値を指定してください: %g", distanceKm)
	}
	if center.Lat < -90 || center.Lat > 90 {
		return nil, fmt.Errorf("中心の緯度が範囲外です: %g", center.Lat)
	}
	if center.Lng < -180 || center.Lng > 180 {
		return nil, fmt.Errorf("中心の経度が範囲外です: %g", center.Lng)
	}

	cols := int(math.Ceil(math.Sqrt(float64(numPoints))))
	rows := int(math.Ceil(float64(numPoints) / float64(cols)))

	// kmを度数に変換する。経度方向は中心緯度のcosで補正する
	latStep := distanceKm / kmPerDegreeLat
	lngStep := latStep / math.Cos(center.Lat*math.Pi/180)

	// 格子の中心が指定座標と一致するように開始オフセットを決める
	startRow := -float64(rows-1) / 2
	startCol := -float64(cols-1) / 2

	points := make([]model.GridPoint, 0, numPoints)
	id := 0
	for row := 0; row < rows && id < numPoints; row++ {
		for col := 0; col < cols && id < numPoints; col++ {
			lat := center.Lat + (startRow+float64(row))*latStep
			lng := center.Lng + (startCol+float64(col))*lngStep
			points = append(points, model.GridPoint{
				ID:  id,
				Lat: roundCoordinate(lat),
				Lng: roundCoordinate(lng),
			})
			id++
		}
	}

	return &model.Grid{
		Rows:   rows,
		Cols:   cols,
		Points: points,
	}, nil
}

// roundCoordinate 座標を小数第6位（約0.1m精度）に丸める
func roundCoordinate(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
