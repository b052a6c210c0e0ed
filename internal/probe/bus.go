package probe

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/mhollis/sitereport/internal/check"
	"github.com/mhollis/sitereport/internal/errors"
	"github.com/mhollis/sitereport/internal/site"
)

// busRoundTrip measures the notification bus round trip time.
func busRoundTrip(conn *site.Connection, th check.Thresholds) check.Definition {
	return check.Definition{
		Section: SectionBus,
		Name:    "round-trip",
		Kind:    check.KindAuto,
		Probe: func(ctx context.Context) (check.Metric, error) {
			nc, err := conn.Bus()
			if err != nil {
				return check.Metric{}, err
			}
			if nc.Status() != nats.CONNECTED {
				return check.Metric{}, errors.Newf("bus not connected: %s", nc.Status())
			}
			rtt, err := nc.RTT()
			if err != nil {
				return check.Metric{}, errors.Wrap(err, "measuring bus round trip")
			}
			return check.Metric{
				Value:  float64(rtt.Microseconds()) / 1000.0,
				Unit:   "ms",
				Detail: "server " + nc.ConnectedUrl(),
			}, nil
		},
		Classify: check.Ceiling(th.BusRTTMillis, "bus round trip"),
	}
}
