/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package metrics

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultCacheMax mirrors config.DefaultMetricsCacheMax without importing
// the config package from here (metrics must stay usable standalone).
const DefaultCacheMax = 1000

// seriesCache is a bounded set of series keys already admitted into the
// vectors below. It exists purely to cap cardinality; it has no eviction
// policy beyond refusing new keys once cacheMax is reached.
type seriesCache struct {
	keys     sync.Map
	size     atomic.Int64
	cacheMax int
}

// admit reports whether key is already tracked or there is still room
// under cacheMax to start tracking it. Once the cap is reached, callers
// skip the WithLabelValues call entirely for any new key, leaving
// already-tracked series unaffected.
func (c *seriesCache) admit(key string) bool {
	if _, loaded := c.keys.LoadOrStore(key, struct{}{}); loaded {
		return true
	}

	if c.size.Add(1) > int64(c.cacheMax) {
		c.keys.Delete(key)
		c.size.Add(-1)
		return false
	}

	return true
}

// forget drops every tracked key containing needle, used when a connection
// is removed so its series don't linger in the cache forever.
func (c *seriesCache) forget(needle string) {
	var stale []string
	c.keys.Range(func(k, _ interface{}) bool {
		if key, ok := k.(string); ok && strings.Contains(key, needle) {
			stale = append(stale, key)
		}
		return true
	})
	for _, key := range stale {
		c.keys.Delete(key)
		c.size.Add(-1)
	}
}

type prom struct {
	selections  *prometheus.CounterVec
	inFlight    *prometheus.GaugeVec
	holEstimate *prometheus.GaugeVec
	lanesTotal  *prometheus.GaugeVec
	casRetries  *prometheus.CounterVec

	// seen tracks distinct connection_name/lane_index series already
	// touched, bounded at cacheMax. Once the cap is reached, further
	// distinct series are silently skipped rather than registered,
	// capping the cardinality a misbehaving caller (one connection_name
	// per request, say) could otherwise drive into the vectors above.
	seen *seriesCache
}

// Prometheus registers the five metrics named by this module against reg
// and returns a Sink backed by them. reg is always a caller-supplied
// Registerer, never the global registry, so multiple managers with
// distinct connection names can coexist in one process. cacheMax caps the
// number of distinct in-flight/selection series tracked per the sink's
// own cardinality guard; pass <= 0 to use DefaultCacheMax.
func Prometheus(reg prometheus.Registerer, cacheMax int) Sink {
	if cacheMax <= 0 {
		cacheMax = DefaultCacheMax
	}

	p := &prom{
		seen: &seriesCache{cacheMax: cacheMax},
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: NameLaneSelections,
			Help: "Number of successful lane acquisitions by strategy.",
		}, []string{"connection_name", "lane_index", "strategy_name"}),

		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: NameLaneInFlight,
			Help: "Outstanding borrows currently held on a lane.",
		}, []string{"connection_name", "lane_index"}),

		holEstimate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: NameHolBlockingEstimate,
			Help: "Estimated head-of-line blocking exposure, 100/N percent.",
		}, []string{"connection_name"}),

		lanesTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: NameLanesTotal,
			Help: "Configured lane count.",
		}, []string{"connection_name"}),

		casRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: NameStrategyCasRetries,
			Help: "Lane releases whose clamped decrement needed CAS retries, by active strategy.",
		}, []string{"connection_name", "strategy_name"}),
	}

	reg.MustRegister(p.selections, p.inFlight, p.holEstimate, p.lanesTotal, p.casRetries)

	return p
}

func (p *prom) IncSelections(connectionName string, laneIndex int, strategyName string) {
	key := "sel:" + connectionName + ":" + strconv.Itoa(laneIndex) + ":" + strategyName
	if !p.seen.admit(key) {
		return
	}
	p.selections.WithLabelValues(connectionName, strconv.Itoa(laneIndex), strategyName).Inc()
}

func (p *prom) SetInFlight(connectionName string, laneIndex int, value int64) {
	key := "inflight:" + connectionName + ":" + strconv.Itoa(laneIndex)
	if !p.seen.admit(key) {
		return
	}
	p.inFlight.WithLabelValues(connectionName, strconv.Itoa(laneIndex)).Set(float64(value))
}

func (p *prom) SetHolBlockingEstimate(connectionName string, value float64) {
	p.holEstimate.WithLabelValues(connectionName).Set(value)
}

func (p *prom) SetLanesTotal(connectionName string, n int) {
	p.lanesTotal.WithLabelValues(connectionName).Set(float64(n))
}

func (p *prom) IncCasRetries(connectionName string, strategyName string) {
	p.casRetries.WithLabelValues(connectionName, strategyName).Inc()
}

func (p *prom) RemoveConnection(connectionName string) {
	p.selections.DeletePartialMatch(prometheus.Labels{"connection_name": connectionName})
	p.inFlight.DeletePartialMatch(prometheus.Labels{"connection_name": connectionName})
	p.holEstimate.DeletePartialMatch(prometheus.Labels{"connection_name": connectionName})
	p.lanesTotal.DeletePartialMatch(prometheus.Labels{"connection_name": connectionName})
	p.casRetries.DeletePartialMatch(prometheus.Labels{"connection_name": connectionName})

	p.seen.forget(":" + connectionName + ":")
}
