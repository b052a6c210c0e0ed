package probe

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/mhollis/sitereport/internal/check"
	"github.com/mhollis/sitereport/internal/errors"
)

// rootMount is the volume whose free space stands in for the site
// server's content drive.
const rootMount = "/"

// hostCPU measures site server CPU load over a one second window.
func hostCPU(th check.Thresholds) check.Definition {
	return check.Definition{
		Section: SectionSiteServer,
		Name:    "cpu-load",
		Kind:    check.KindAuto,
		Probe: func(ctx context.Context) (check.Metric, error) {
			percentages, err := cpu.PercentWithContext(ctx, time.Second, false)
			if err != nil {
				return check.Metric{}, errors.Wrap(err, "reading cpu load")
			}
			if len(percentages) == 0 {
				return check.Metric{}, errors.New("cpu sampler returned no values")
			}
			return check.Metric{Value: percentages[0], Unit: "%"}, nil
		},
		Classify: check.Ceiling(th.CPUPercent, "cpu load"),
	}
}

// hostMemory measures site server memory use.
func hostMemory(th check.Thresholds) check.Definition {
	return check.Definition{
		Section: SectionSiteServer,
		Name:    "memory-use",
		Kind:    check.KindAuto,
		Probe: func(ctx context.Context) (check.Metric, error) {
			vm, err := mem.VirtualMemoryWithContext(ctx)
			if err != nil {
				return check.Metric{}, errors.Wrap(err, "reading memory stats")
			}
			return check.Metric{Value: vm.UsedPercent, Unit: "%"}, nil
		},
		Classify: check.Ceiling(th.MemoryPercent, "memory use"),
	}
}

// hostDisk measures free space on the site server's content volume.
func hostDisk(th check.Thresholds) check.Definition {
	return check.Definition{
		Section: SectionSiteServer,
		Name:    "disk-free",
		Kind:    check.KindAuto,
		Probe: func(ctx context.Context) (check.Metric, error) {
			usage, err := disk.UsageWithContext(ctx, rootMount)
			if err != nil {
				return check.Metric{}, errors.Wrapf(err, "reading disk usage for %s", rootMount)
			}
			return check.Metric{
				Value:  100 - usage.UsedPercent,
				Unit:   "%",
				Detail: "mount " + usage.Path,
			}, nil
		},
		Classify: check.Floor(th.DiskFreePercent, "disk free"),
	}
}
