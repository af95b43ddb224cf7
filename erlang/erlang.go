// Package erlang implements the Erlang B/C queueing formulas used to size
// contact-center staffing: blocking and waiting probabilities, occupancy,
// service level, and the minimum agent count that meets a service target.
//
// Agent counts are float64 because rostered headcount is usually discounted
// by shrinkage before it reaches the solver. ErlangB iterates over floor(n)
// servers while the utilisation terms use the fractional n.
package erlang

import (
	"math"
	"sort"
)

const (
	secondsPerHour = 3600.0

	// OverloadUtilisation replaces a/n in the Erlang C denominator when the
	// offered traffic meets or exceeds the agent count.
	OverloadUtilisation = 0.99

	// MaxAccuracy stops the required-agents search once the service level is
	// indistinguishable from 1.
	MaxAccuracy = 1e-4

	// MaxTrafficIntensity is the largest offered load, in Erlangs, the solver
	// sizes. Larger loads are clamped to it so one interval stays bounded.
	MaxTrafficIntensity = 10000.0

	// searchCapFactor bounds the required-agents search to n0*searchCapFactor
	// candidates.
	searchCapFactor = 100
)

// TrafficIntensity converts an arrival rate (contacts/hour) and handle time
// (seconds) into offered load in Erlangs.
func TrafficIntensity(rate, ahtSeconds float64) float64 {
	if rate <= 0 || ahtSeconds <= 0 {
		return 0
	}
	return rate * ahtSeconds / secondsPerHour
}

// ErlangB returns the blocking probability of an n-server loss system under
// offered traffic a, using the recursive form B(k) = a*B(k-1) / (k + a*B(k-1)).
func ErlangB(n, a float64) float64 {
	if a < 0 || math.IsNaN(a) {
		a = 0
	}
	b := 1.0
	servers := int(math.Floor(n))
	for k := 1; k <= servers && b > 0; k++ {
		b = a * b / (float64(k) + a*b)
	}
	return clip(b, 0, 1)
}

// ErlangC returns the probability that an arriving contact has to wait.
// When a/n >= 1 the utilisation is replaced by OverloadUtilisation so the
// result stays finite. Below one agent there is no server to answer, so
// C is 1 even without traffic.
func ErlangC(n, a float64) float64 {
	if n <= 0 {
		return 1
	}
	if a <= 0 && n >= 1 {
		return 0
	}
	b := ErlangB(n, a)
	u := a / n
	if u >= 1 {
		u = OverloadUtilisation
	}
	return clip(b/(u*b+(1-u)), 0, 1)
}

// IsOverloaded reports whether the offered traffic meets or exceeds the agent count.
func IsOverloaded(n, a float64) bool {
	return n > 0 && a/n >= 1
}

// Occupancy returns a/n clipped to [0,1], or 0 with no agents.
func Occupancy(n, a float64) float64 {
	if n <= 0 {
		return 0
	}
	return clip(a/n, 0, 1)
}

// ServiceLevel returns the probability a contact is answered within
// thresholdSeconds: 1 - C(n,a) * exp((a-n) * t / AHT), clipped to [0,1].
func ServiceLevel(n, a, ahtSeconds, thresholdSeconds float64) float64 {
	if n <= 0 {
		return 0
	}
	if a <= 0 && n >= 1 {
		return 1
	}
	c := ErlangC(n, a)
	decay := 0.0
	if ahtSeconds > 0 {
		decay = math.Exp((a - n) * thresholdSeconds / ahtSeconds)
	}
	return clip(1-c*decay, 0, 1)
}

// SearchResult is the outcome of a required-agents search.
type SearchResult struct {
	Agents       int
	ServiceLevel float64
	// Exhausted is set when no candidate within the cap met the target and
	// Agents is the last candidate tried.
	Exhausted bool
	// TrafficClamped is set when the load exceeded MaxTrafficIntensity.
	TrafficClamped bool
}

// RequiredAgents returns the minimum number of agents that achieves service
// level target (0..1] within thresholdSeconds for the given arrival rate
// (contacts/hour) and handle time.
func RequiredAgents(target, thresholdSeconds, rate, ahtSeconds float64) int {
	return Search(target, thresholdSeconds, rate, ahtSeconds).Agents
}

// ClampTraffic limits an offered load to [0, MaxTrafficIntensity] and
// reports whether it had to change it.
func ClampTraffic(a float64) (float64, bool) {
	switch {
	case math.IsNaN(a) || a < 0:
		return 0, true
	case a > MaxTrafficIntensity:
		return MaxTrafficIntensity, true
	}
	return a, false
}

// Search runs the required-agents search. The service level is monotonic in
// n for a fixed load, so candidates in [n0, n0*101) are bisected rather than
// scanned. Loads above MaxTrafficIntensity are sized as MaxTrafficIntensity.
func Search(target, thresholdSeconds, rate, ahtSeconds float64) SearchResult {
	if !(rate > 0) || !(ahtSeconds > 0) {
		return SearchResult{}
	}
	if target > 1 {
		target = 1
	}

	a, clamped := ClampTraffic(TrafficIntensity(rate, ahtSeconds))
	n0 := int(math.Floor(a + 0.5))
	if n0 < 1 {
		n0 = 1
	}
	for Occupancy(float64(n0), a) >= 1 {
		n0++
	}

	level := func(n int) float64 {
		return ServiceLevel(float64(n), a, ahtSeconds, thresholdSeconds)
	}
	meets := func(sl float64) bool {
		return sl >= target || sl > 1-MaxAccuracy
	}

	limit := n0 * searchCapFactor
	last := n0 + limit - 1
	if sl := level(last); !meets(sl) {
		return SearchResult{Agents: last, ServiceLevel: sl, Exhausted: true, TrafficClamped: clamped}
	}

	i := sort.Search(limit, func(i int) bool {
		return meets(level(n0 + i))
	})
	n := n0 + i
	return SearchResult{Agents: n, ServiceLevel: level(n), TrafficClamped: clamped}
}

func clip(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
