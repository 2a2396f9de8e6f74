package observer

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// Metric names exposed on /metrics.
const (
	MetricAnalysesTotal   = "food_analyses_total"
	MetricVerdictsTotal   = "food_verdicts_total"
	MetricDurationSeconds = "food_analysis_duration_seconds_sum"
	MetricFetchesTotal    = "food_image_fetches_total"
)

// MetricsContentType is the exposition format written by WriteMetrics.
var MetricsContentType = string(expfmt.NewFormat(expfmt.TypeTextPlain))

// MetricsObserver collects metrics from analysis events
type MetricsObserver struct {
	mu                  sync.RWMutex
	totalAnalyses       int64
	successfulAnalyses  int64
	failedAnalyses      int64
	verdicts            map[string]int64
	fetches             map[string]int64
	totalProcessingTime time.Duration
}

// Snapshot is a point-in-time copy of the collected counters.
type Snapshot struct {
	TotalAnalyses       int64
	SuccessfulAnalyses  int64
	FailedAnalyses      int64
	Verdicts            map[string]int64
	TotalProcessingTime time.Duration
	AvgProcessingTime   time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		verdicts: make(map[string]int64),
		fetches:  make(map[string]int64),
	}
}

// OnEvent handles analysis events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case AnalysisStarted:
		o.totalAnalyses++
	case AnalysisCompleted:
		o.successfulAnalyses++
		o.totalProcessingTime += event.ProcessingTime
		if event.Freshness != "" {
			o.verdicts[event.Freshness]++
		}
	case AnalysisFailed:
		o.failedAnalyses++
		o.totalProcessingTime += event.ProcessingTime
	case ImageFetched:
		o.fetches["success"]++
	case ImageFetchFailed:
		o.fetches["failure"]++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.successfulAnalyses > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.successfulAnalyses)
	}

	verdicts := make(map[string]int64, len(o.verdicts))
	for k, v := range o.verdicts {
		verdicts[k] = v
	}

	return Snapshot{
		TotalAnalyses:       o.totalAnalyses,
		SuccessfulAnalyses:  o.successfulAnalyses,
		FailedAnalyses:      o.failedAnalyses,
		Verdicts:            verdicts,
		TotalProcessingTime: o.totalProcessingTime,
		AvgProcessingTime:   avgProcessingTime,
	}
}

// WriteMetrics writes the counters in the Prometheus text format.
func (o *MetricsObserver) WriteMetrics(w io.Writer) error {
	for _, mf := range o.families() {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func (o *MetricsObserver) families() []*dto.MetricFamily {
	o.mu.RLock()
	defer o.mu.RUnlock()

	analyses := counterFamily(MetricAnalysesTotal, "Food analyses by result.")
	analyses.Metric = append(analyses.Metric,
		counter(float64(o.successfulAnalyses), "result", "success"),
		counter(float64(o.failedAnalyses), "result", "failure"),
	)

	verdicts := counterFamily(MetricVerdictsTotal, "Freshness verdicts by level.")
	for _, level := range sortedKeys(o.verdicts) {
		verdicts.Metric = append(verdicts.Metric, counter(float64(o.verdicts[level]), "freshness", level))
	}

	fetches := counterFamily(MetricFetchesTotal, "Remote image downloads by result.")
	for _, result := range sortedKeys(o.fetches) {
		fetches.Metric = append(fetches.Metric, counter(float64(o.fetches[result]), "result", result))
	}

	duration := counterFamily(MetricDurationSeconds, "Total time spent analyzing images.")
	duration.Metric = append(duration.Metric, counter(o.totalProcessingTime.Seconds()))

	families := []*dto.MetricFamily{analyses, duration}
	if len(verdicts.Metric) > 0 {
		families = append(families, verdicts)
	}
	if len(fetches.Metric) > 0 {
		families = append(families, fetches)
	}
	return families
}

func counterFamily(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_COUNTER.Enum(),
	}
}

// counter builds a sample; labels are name/value pairs.
func counter(value float64, labels ...string) *dto.Metric {
	m := &dto.Metric{Counter: &dto.Counter{Value: proto.Float64(value)}}
	for i := 0; i+1 < len(labels); i += 2 {
		m.Label = append(m.Label, &dto.LabelPair{
			Name:  proto.String(labels[i]),
			Value: proto.String(labels[i+1]),
		})
	}
	return m
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
