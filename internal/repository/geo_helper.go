package repository

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"MEORank-App/internal/domain/model"
)

// CreateGridBounds グリッド全地点を覆う境界ボックスを作成
func CreateGridBounds(points []model.GridPoint) *model.GeoBounds {
	if len(points) == 0 {
		return nil
	}

	// orb.Bound を最初の地点で初期化して全地点で拡張
	first := orb.Point{points[0].Lng, points[0].Lat}
	bound := orb.Bound{Min: first, Max: first}
	for _, p := range points {
		bound = bound.Extend(orb.Point{p.Lng, p.Lat})
	}

	// 少し余裕を持たせる（約100m程度）
	padding := 0.001 // 約111m
	bound = bound.Pad(padding)

	return &model.GeoBounds{
		MinLat: bound.Min.Lat(),
		MinLng: bound.Min.Lon(),
		MaxLat: bound.Max.Lat(),
		MaxLng: bound.Max.Lon(),
	}
}

// GridToFeatureCollection グリッドを地図表示用のGeoJSON FeatureCollectionに変換
// 各地点のプロパティに地点ID・行・列を含める
func GridToFeatureCollection(grid *model.Grid) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, p := range grid.Points {
		feature := geojson.NewFeature(orb.Point{p.Lng, p.Lat})
		feature.Properties["id"] = p.ID
		feature.Properties["row"] = p.ID / grid.Cols
		feature.Properties["col"] = p.ID % grid.Cols
		fc.Append(feature)
	}

	if bounds := CreateGridBounds(grid.Points); bounds != nil {
		fc.BBox = geojson.BBox(bounds.ToBBox())
	}

	return fc
}
