package cache

import (
	"time"
)

// minTTL はバー境界の直前にキャッシュした場合の最小TTLです。
const minTTL = time.Second

// TimeUntilNextBoundary は now から次のバー境界（step 単位、UTC基準）までの期間を返します。
// 境界ちょうどの場合は次の境界までの期間を返します。
func TimeUntilNextBoundary(now time.Time, step time.Duration) time.Duration {
	if step <= 0 {
		return 0
	}
	next := now.Truncate(step).Add(step)
	d := next.Sub(now)
	if d < minTTL {
		d = minTTL
	}
	return d
}
