//go:build e2e

package e2e

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// influxReader queries the points written by the ledger sink.
type influxReader struct {
	client influxdb2.Client
	org    string
	bucket string
}

func newInfluxReader(url, token, org, bucket string) *influxReader {
	return &influxReader{client: influxdb2.NewClient(url, token), org: org, bucket: bucket}
}

// countPoints returns the number of field values of measurement for the run.
func (r *influxReader) countPoints(ctx context.Context, measurement, runID, field string) (int, error) {
	flux := fmt.Sprintf(`from(bucket:%q)
  |> range(start: -1h)
  |> filter(fn: (r) => r._measurement == %q and r.run_id == %q and r._field == %q)`,
		r.bucket, measurement, runID, field)
	res, err := r.client.QueryAPI(r.org).Query(ctx, flux)
	if err != nil {
		return 0, err
	}
	defer res.Close()
	n := 0
	for res.Next() {
		n++
	}
	return n, res.Err()
}

func (r *influxReader) Close() { r.client.Close() }
