package strategy

import (
	"fmt"

	"github.com/samber/lo"
)

// MarginContext describes how margin feasibility is judged. When a funded
// account is connected, required margin is expressed as a percentage of spot
// and compared against CeilingPercent. Without a funded account the absolute
// amount is compared against a per-asset-class fallback budget.
type MarginContext struct {
	Funded         bool     `mapstructure:"funded"`
	CeilingPercent float64  `mapstructure:"ceiling_percent"`
	FallbackMajor  float64  `mapstructure:"fallback_major"`
	FallbackMinor  float64  `mapstructure:"fallback_minor"`
	MajorAssets    []string `mapstructure:"major_assets"`
}

// Check computes the margin required for a worst-case risk and decides
// whether the trade is feasible. On rejection the rationale names the
// exceeded limit.
func (m MarginContext) Check(asset string, spot, risk, premium float64) (ok bool, rationale string) {
	required := risk - premium

	if m.Funded {
		percent := required / spot * 100
		if percent > m.CeilingPercent {
			return false, fmt.Sprintf("NOT POSSIBLE: REQUIRED MM %.1f%% exceeds %.1f%%.", percent, m.CeilingPercent)
		}
		return true, ""
	}

	available := m.FallbackMinor
	if lo.Contains(m.MajorAssets, asset) {
		available = m.FallbackMajor
	}
	if required > available {
		return false, fmt.Sprintf("NOT POSSIBLE: REQUIRED MARGIN $%.2f, AVAILABLE $%.2f.", required, available)
	}
	return true, ""
}
