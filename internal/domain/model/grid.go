package model

// GridPoint 順位を計測するグリッド上の1地点
type GridPoint struct {
	ID  int     `json:"id" firestore:"id"`   // 行優先・0始まりの地点ID
	Lat float64 `json:"lat" firestore:"lat"` // 緯度
	Lng float64 `json:"lon" firestore:"lon"` // 経度（ビューアのJSONではlon）
}

// ToLatLng グリッド地点の座標をLatLng型に変換
func (p *GridPoint) ToLatLng() LatLng {
	return LatLng{
		Lat: p.Lat,
		Lng: p.Lng,
	}
}

// Grid 中心座標の周囲に生成した格子
type Grid struct {
	Rows   int         `json:"rows"`   // 行数
	Cols   int         `json:"cols"`   // 列数
	Points []GridPoint `json:"points"` // 地点一覧（行優先の順）
}

// NumPoints グリッドに含まれる地点数を返す
func (g *Grid) NumPoints() int {
	return len(g.Points)
}

// GeoBounds グリッド全体を覆う矩形領域
type GeoBounds struct {
	MinLat float64 `json:"min_lat" firestore:"min_lat"`
	MinLng float64 `json:"min_lon" firestore:"min_lon"`
	MaxLat float64 `json:"max_lat" firestore:"max_lat"`
	MaxLng float64 `json:"max_lon" firestore:"max_lon"`
}

// ToBBox GeoJSONのbbox形式（[west, south, east, north]）に変換
func (b *GeoBounds) ToBBox() []float64 {
	return []float64{b.MinLng, b.MinLat, b.MaxLng, b.MaxLat}
}
