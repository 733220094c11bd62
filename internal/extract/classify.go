// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdiddy/report-engine/pkg/types"
)

// riskRules is evaluated in order; the first keyword contained in the
// lower-cased heading decides the level. "High and triggered" is high.
var riskRules = []struct {
	keyword string
	level   types.RiskLevel
}{
	{"high", types.RiskHigh},
	{"medium", types.RiskMedium},
	{"low", types.RiskLow},
	{"triggered", types.RiskTriggered},
}

// Classify maps heading text to a risk level. It never fails: text that
// matches no keyword, including the empty string, is RiskOther.
func Classify(heading string) types.RiskLevel {
	t := strings.ToLower(heading)
	for _, r := range riskRules {
		if strings.Contains(t, r.keyword) {
			return r.level
		}
	}
	return types.RiskOther
}
