package scanner

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

const diskutilTimeout = 10 * time.Second

// DiskUsage is the capacity picture for one APFS container.
type DiskUsage struct {
	TotalBytes int64  `json:"total_bytes"`
	UsedBytes  int64  `json:"used_bytes"`
	FreeBytes  int64  `json:"free_bytes"`
	MountPoint string `json:"mount_point"`
}

// TotalGB returns the capacity in decimal gigabytes.
func (d *DiskUsage) TotalGB() float64 { return float64(d.TotalBytes) / 1e9 }

// FreeGB returns the free space in decimal gigabytes.
func (d *DiskUsage) FreeGB() float64 { return float64(d.FreeBytes) / 1e9 }

// UsedPercent returns used space as a percentage of capacity.
func (d *DiskUsage) UsedPercent() float64 {
	if d.TotalBytes == 0 {
		return 0
	}
	return float64(d.UsedBytes) / float64(d.TotalBytes) * 100
}

// HumanFree renders free space with decimal SI units.
func (d *DiskUsage) HumanFree() string { return humanize.Bytes(uint64(d.FreeBytes)) }

// ReadDiskUsage reports capacity for the container holding mountPoint.
// It prefers `diskutil info`, which on APFS reports the container-level
// numbers that Finder shows, and falls back to statfs when diskutil is
// missing or unparseable.
func ReadDiskUsage(ctx context.Context, mountPoint string) (*DiskUsage, error) {
	if mountPoint == "" {
		mountPoint = "/"
	}

	if du, err := readDiskutil(ctx, mountPoint); err == nil {
		return du, nil
	}
	return readStatfs(mountPoint)
}

func readDiskutil(ctx context.Context, mountPoint string) (*DiskUsage, error) {
	ctx, cancel := context.WithTimeout(ctx, diskutilTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "diskutil", "info", mountPoint).Output()
	if err != nil {
		return nil, fmt.Errorf("diskutil info failed: %w", err)
	}
	return parseDiskutilInfo(string(out), mountPoint)
}

// parseDiskutilInfo pulls the byte-exact numbers out of lines like
//
//	Container Total Space:     494.4 GB (494384795648 Bytes) (exactly ...)
//	Container Free Space:      201.9 GB (201867334016 Bytes) (exactly ...)
func parseDiskutilInfo(out, mountPoint string) (*DiskUsage, error) {
	var total, free int64
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, "Container Total Space:"):
			total = parseByteCount(line)
		case strings.Contains(line, "Container Free Space:"):
			free = parseByteCount(line)
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("no container sizes in diskutil output")
	}
	return &DiskUsage{
		TotalBytes: total,
		UsedBytes:  total - free,
		FreeBytes:  free,
		MountPoint: mountPoint,
	}, nil
}

// parseByteCount extracts N from the first "(N Bytes)" on the line.
func parseByteCount(line string) int64 {
	open := strings.Index(line, "(")
	for open != -1 {
		rest := line[open+1:]
		end := strings.Index(rest, ")")
		if end == -1 {
			return 0
		}
		inner := rest[:end]
		if strings.HasSuffix(inner, " Bytes") {
			n, err := strconv.ParseInt(strings.TrimSuffix(inner, " Bytes"), 10, 64)
			if err == nil {
				return n
			}
		}
		next := strings.Index(rest, "(")
		if next == -1 {
			return 0
		}
		open += 1 + next
	}
	return 0
}

func readStatfs(mountPoint string) (*DiskUsage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(mountPoint, &st); err != nil {
		return nil, fmt.Errorf("statfs %s: %w", mountPoint, err)
	}
	total := int64(st.Blocks) * int64(st.Bsize)
	free := int64(st.Bavail) * int64(st.Bsize)
	return &DiskUsage{
		TotalBytes: total,
		UsedBytes:  total - free,
		FreeBytes:  free,
		MountPoint: mountPoint,
	}, nil
}
