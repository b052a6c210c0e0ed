package probe

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mhollis/sitereport/internal/check"
	"github.com/mhollis/sitereport/internal/errors"
	"github.com/mhollis/sitereport/internal/site"
)

// serviceChecks builds one reachability check per configured component
// service. With no services in the inventory, a single placeholder row
// keeps the section covered.
func serviceChecks(conn *site.Connection) []check.Definition {
	services := conn.Services()
	if len(services) == 0 {
		return []check.Definition{unconfiguredSection(SectionServices, "endpoints", "component services")}
	}

	defs := make([]check.Definition, 0, len(services))
	for _, ep := range services {
		defs = append(defs, check.Definition{
			Section: SectionServices,
			Name:    ep.Name,
			Kind:    check.KindAuto,
			Probe:   healthProbe(conn, ep),
			Classify: upClassifier("responding"),
		})
	}
	return defs
}

// healthProbe fetches a service health endpoint, expecting 200 within the
// check deadline. The metric is the observed latency.
func healthProbe(conn *site.Connection, ep site.Endpoint) check.Probe {
	return func(ctx context.Context) (check.Metric, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL, nil)
		if err != nil {
			return check.Metric{}, errors.Wrapf(err, "building request for %s", ep.Name)
		}

		start := time.Now()
		resp, err := conn.HTTP().Do(req)
		if err != nil {
			return check.Metric{}, errors.Wrapf(err, "reaching %s", ep.Name)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return check.Metric{}, errors.Newf("%s returned status %d", ep.Name, resp.StatusCode)
		}

		return check.Metric{
			Value: float64(time.Since(start).Milliseconds()),
			Unit:  "ms",
		}, nil
	}
}

// dpStatus is the document a distribution point's status endpoint serves.
type dpStatus struct {
	ContentFreePercent float64 `json:"content_free_percent"`
}

// distributionPointChecks builds one content-library check per configured
// distribution point.
func distributionPointChecks(conn *site.Connection, th check.Thresholds) []check.Definition {
	dps := conn.DistributionPoints()
	if len(dps) == 0 {
		return []check.Definition{unconfiguredSection(SectionDistribution, "endpoints", "distribution points")}
	}

	defs := make([]check.Definition, 0, len(dps))
	for _, ep := range dps {
		defs = append(defs, check.Definition{
			Section: SectionDistribution,
			Name:    ep.Name,
			Kind:    check.KindAuto,
			Probe:   dpProbe(conn, ep),
			Classify: check.Floor(th.DiskFreePercent, "content library free"),
		})
	}
	return defs
}

// dpProbe fetches a distribution point status document and reports the
// content library free space it declares.
func dpProbe(conn *site.Connection, ep site.Endpoint) check.Probe {
	return func(ctx context.Context) (check.Metric, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL, nil)
		if err != nil {
			return check.Metric{}, errors.Wrapf(err, "building request for %s", ep.Name)
		}

		resp, err := conn.HTTP().Do(req)
		if err != nil {
			return check.Metric{}, errors.Wrapf(err, "reaching %s", ep.Name)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return check.Metric{}, errors.Newf("%s returned status %d", ep.Name, resp.StatusCode)
		}

		var status dpStatus
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			return check.Metric{}, errors.Wrapf(err, "decoding status from %s", ep.Name)
		}

		return check.Metric{
			Value:  status.ContentFreePercent,
			Unit:   "%",
			Detail: ep.Name,
		}, nil
	}
}

// unconfiguredSection keeps a section present in the report when its
// backend is absent from the inventory; the row classifies as Unknown.
func unconfiguredSection(section, name, what string) check.Definition {
	return check.Definition{
		Section: section,
		Name:    name,
		Kind:    check.KindAuto,
		Probe: func(context.Context) (check.Metric, error) {
			return check.Metric{}, errors.Wrap(errors.ErrNotConfigured, what)
		},
		Classify: upClassifier("responding"),
	}
}
