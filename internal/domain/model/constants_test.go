package model

import "testing"

func TestGetTierForRank(t *testing.T) {
	cases := []struct {
		name     string
		bestRank int
		want     string
	}{
		{"1位はtop", 1, TierTop},
		{"3位はtop", 3, TierTop},
		{"4位はmid", 4, TierMid},
		{"10位はmid", 10, TierMid},
		{"11位はlow", 11, TierLow},
		{"20位はlow", 20, TierLow},
		{"21位は圏外", 21, TierUnranked},
		{"0は圏外", 0, TierUnranked},
		{"負の値は圏外", -1, TierUnranked},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GetTierForRank(tc.bestRank); got != tc.want {
				t.Errorf("GetTierForRank(%d) = %s, want %s", tc.bestRank, got, tc.want)
			}
		})
	}
}

func TestGetStatusJapaneseName(t *testing.T) {
	t.Run("定義済みステータスは日本語名を返す", func(t *testing.T) {
		if got := GetStatusJapaneseName(StatusProcessing); got != "処理中" {
			t.Errorf("GetStatusJapaneseName(processing) = %s", got)
		}
		if got := GetStatusJapaneseName(StatusCompleted); got != "完了" {
			t.Errorf("GetStatusJapaneseName(completed) = %s", got)
		}
	})

	t.Run("未定義のステータスはそのまま返す", func(t *testing.T) {
		if got := GetStatusJapaneseName("unknown"); got != "unknown" {
			t.Errorf("GetStatusJapaneseName(unknown) = %s", got)
		}
	})
}

func TestGetAllTiers(t *testing.T) {
	tiers := GetAllTiers()
	if len(tiers) != 4 {
		t.Fatalf("ティア数が一致しません: got %d, want 4", len(tiers))
	}
	for _, tier := range tiers {
		if _, ok := TierNameMap[tier]; !ok {
			t.Errorf("ティア %s の日本語名が定義されていません", tier)
		}
	}
}
