package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/greenfleet/greenfleet/core/metrics"
	"github.com/greenfleet/greenfleet/infra/logger"
)

// InfluxConfig holds the connection settings of the InfluxDB sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes ledger runs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.LedgerSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordLedger writes one plan_year point per year and one plan_totals point.
func (s *InfluxSink) RecordLedger(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(ev.Report.Years)+1)
	for _, y := range ev.Report.Years {
		points = append(points, write.NewPointWithMeasurement("plan_year").
			AddTag("run_id", ev.RunID).
			AddTag("year", strconv.Itoa(y.Year)).
			AddTag("within_quota", strconv.FormatBool(y.WithinQuota)).
			AddField("emissions_kg_co2", round3(y.TotalEmissions)).
			AddField("quota_kg_co2", round3(y.Quota)).
			AddField("buy_cost_myr", round3(y.TotalBuyCost.InexactFloat64())).
			SetTime(ev.Time))
	}
	points = append(points, write.NewPointWithMeasurement("plan_totals").
		AddTag("run_id", ev.RunID).
		AddTag("quota_source", ev.QuotaSource).
		AddField("total_budget_myr", round3(ev.Report.Totals.TotalBudget.InexactFloat64())).
		AddField("years", len(ev.Report.Years)).
		AddField("quota_mismatch", ev.QuotaMismatch).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time))
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordRunFailure writes a plan_failure point.
func (s *InfluxSink) RecordRunFailure(ev coremetrics.RunFailureEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("plan_failure").
		AddTag("reason", ev.Reason).
		AddField("count", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
