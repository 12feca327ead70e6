package model

// StatusConstants は分析のライフサイクルを表すステータスの定数
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// TierConstants は検索順位から算出するティアの定数
const (
	TierTop      = "top"
	TierMid      = "mid"
	TierLow      = "low"
	TierUnranked = "unranked"
)

// ティア境界の順位（1始まり）
const (
	TierTopMaxRank = 3  // 1〜3位: top
	TierMidMaxRank = 10 // 4〜10位: mid
	TierLowMaxRank = 20 // 11〜20位: low（検索深度と同じ）
)

// 分析リクエストのデフォルト値と上限
const (
	DefaultNumPoints  = 9   // グリッド地点数のデフォルト
	DefaultDistanceKm = 1.0 // 隣接地点間の距離（km）のデフォルト
	MaxNumPoints      = 100 // API呼び出し数の上限を兼ねる
	DefaultDepth      = 20  // 1地点あたりの取得順位の深さ
)

// StatusNameMap はステータスIDから日本語名へのマッピング
var StatusNameMap = map[string]string{
	StatusProcessing: "処理中",
	StatusCompleted:  "完了",
	StatusFailed:     "失敗",
}

// TierNameMap はティアIDから日本語名へのマッピング
var TierNameMap = map[string]string{
	TierTop:      "上位表示",
	TierMid:      "中位表示",
	TierLow:      "下位表示",
	TierUnranked: "圏外",
}

// GetStatusJapaneseName はステータスIDから日本語名を取得する
func GetStatusJapaneseName(status string) string {
	if name, ok := StatusNameMap[status]; ok {
		return name
	}
	return status // デフォルトはそのまま返す
}

// GetTierJapaneseName はティアIDから日本語名を取得する
func GetTierJapaneseName(tier string) string {
	if name, ok := TierNameMap[tier]; ok {
		return name
	}
	return tier // デフォルトはそのまま返す
}

// GetTierForRank は最良順位（1始まり）からティアを算出する
// 順位が0以下の場合は圏外として扱う
func GetTierForRank(bestRank int) string {
	switch {
	case bestRank <= 0:
		return TierUnranked
	case bestRank <= TierTopMaxRank:
		return TierTop
	case bestRank <= TierMidMaxRank:
		return TierMid
	case bestRank <= TierLowMaxRank:
		return TierLow
	default:
		return TierUnranked
	}
}

// GetAllStatuses は全ステータスの一覧を取得する
func GetAllStatuses() []string {
	return []string{
		StatusProcessing,
		StatusCompleted,
		StatusFailed,
	}
}

// GetAllTiers は全ティアの一覧を取得する
func GetAllTiers() []string {
	return []string{
		TierTop,
		TierMid,
		TierLow,
		TierUnranked,
	}
}
