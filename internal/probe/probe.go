// Package probe builds the sitereport check registry: one definition per
// subsystem signal, each binding a query against the management connection
// to a threshold classifier. Section order here is report order.
package probe

import (
	"fmt"

	"github.com/mhollis/sitereport/internal/check"
	"github.com/mhollis/sitereport/internal/site"
)

// Report section names, in the order they are registered.
const (
	SectionSiteServer   = "Site Server"
	SectionDatabase     = "Site Database"
	SectionClients      = "Client Health"
	SectionCache        = "Cache Tier"
	SectionBus          = "Notification Bus"
	SectionServices     = "Component Services"
	SectionDistribution = "Distribution Points"
	SectionBackup       = "Backup"
	SectionReplication  = "Replication"
	SectionLogs         = "Log Review"
	SectionUpdates      = "Update Sync"
)

// Definitions builds the full check registry for a site. Every section the
// report covers gets at least one row; subsystems with no automatable
// signal are registered as manual checks so the registry stays the single
// source of truth for report coverage.
func Definitions(conn *site.Connection, th check.Thresholds) (*check.Registry, error) {
	registry := check.NewRegistry()

	defs := []check.Definition{
		hostCPU(th),
		hostMemory(th),
		hostDisk(th),
		databaseConnectivity(conn),
		databaseFreeSpace(conn, th),
		collectionEvalTime(conn, th),
		activeClients(conn, th),
		cacheLatency(conn, th),
		cacheHitRate(conn, th),
		busRoundTrip(conn, th),
	}
	defs = append(defs, serviceChecks(conn)...)
	defs = append(defs, distributionPointChecks(conn, th)...)
	defs = append(defs,
		backupAge(conn, th),
		check.ManualDefinition(SectionReplication, "topology",
			"verify replication link status between sites by hand"),
		check.ManualDefinition(SectionLogs, "component-logs",
			"review component logs for recurring errors"),
		check.ManualDefinition(SectionUpdates, "sync-status",
			"confirm the last software update sync completed"),
	)

	if err := registry.RegisterAll(defs...); err != nil {
		return nil, err
	}
	return registry, nil
}

// upClassifier reports Healthy for any fetched metric, carrying the latency
// and detail into the note. Probes using it signal failure through errors,
// not through the value.
func upClassifier(label string) check.Classifier {
	return func(m check.Metric) (check.Status, string) {
		note := fmt.Sprintf("%s, %.0f%s", label, m.Value, m.Unit)
		if m.Detail != "" {
			note += ", " + m.Detail
		}
		return check.StatusHealthy, note
	}
}
