// Package docker queries the Docker CLI for a usage breakdown. Docker
// Desktop on macOS keeps everything inside a virtual-disk image that
// grows but never shrinks, so measuring its directory wildly overstates
// real usage; the CLI is the only honest source.
package docker

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	probeTimeout = 10 * time.Second
	listTimeout  = 30 * time.Second
	// RemoveTimeout bounds single-item deletions.
	RemoveTimeout = 60 * time.Second
	// PruneTimeout bounds bulk prune commands.
	PruneTimeout = 300 * time.Second
)

// Image is one entry from `docker images`.
type Image struct {
	Repository string
	Tag        string
	ID         string
	SizeBytes  int64
	Dangling   bool
}

// Container is one entry from `docker ps -a`.
type Container struct {
	Name      string
	ID        string
	Running   bool
	Status    string
	SizeBytes int64
}

// Volume is one entry from `docker volume ls`.
type Volume struct {
	Name   string
	Driver string
}

// Breakdown is the aggregated Docker usage picture.
type Breakdown struct {
	Available       bool
	Images          []Image
	Containers      []Container
	Volumes         []Volume
	BuildCacheBytes int64
	TotalBytes      int64
	UnusedBytes     int64
	Err             string
}

// runFunc executes a command and returns its stdout. Tests substitute it.
type runFunc func(ctx context.Context, name string, args ...string) (string, error)

// Client shells out to the docker CLI.
type Client struct {
	run runFunc
}

// NewClient creates a Client backed by the real docker binary.
func NewClient() *Client {
	return &Client{run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}

// Available reports whether the docker daemon answers.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	_, err := c.run(ctx, "docker", "info")
	return err == nil
}

// Usage queries images, containers, volumes, and build cache and returns
// the combined breakdown. When Docker is unreachable, Available is false
// and Err describes why; callers fall back to a filesystem scan.
func (c *Client) Usage(ctx context.Context) *Breakdown {
	b := &Breakdown{}

	if !c.Available(ctx) {
		b.Err = "docker is not installed or not running"
		return b
	}
	b.Available = true

	listCtx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	if out, err := c.run(listCtx, "docker", "images", "--format", "{{.Repository}}\t{{.Tag}}\t{{.ID}}\t{{.Size}}"); err == nil {
		b.Images = parseImages(out)
	} else {
		b.Err = fmt.Sprintf("failed to list images: %v", err)
	}

	if out, err := c.run(listCtx, "docker", "ps", "-a", "--format", "{{.Names}}\t{{.ID}}\t{{.Status}}\t{{.Size}}"); err == nil {
		b.Containers = parseContainers(out)
	} else {
		b.Err = fmt.Sprintf("failed to list containers: %v", err)
	}

	if out, err := c.run(listCtx, "docker", "volume", "ls", "--format", "{{.Name}}\t{{.Driver}}"); err == nil {
		b.Volumes = parseVolumes(out)
	}

	if out, err := c.run(listCtx, "docker", "system", "df"); err == nil {
		b.BuildCacheBytes = parseBuildCache(out)
	}

	for _, img := range b.Images {
		b.TotalBytes += img.SizeBytes
		if img.Dangling {
			b.UnusedBytes += img.SizeBytes
		}
	}
	for _, ct := range b.Containers {
		b.TotalBytes += ct.SizeBytes
		if !ct.Running {
			b.UnusedBytes += ct.SizeBytes
		}
	}
	b.TotalBytes += b.BuildCacheBytes
	b.UnusedBytes += b.BuildCacheBytes

	return b
}

// RemoveItem deletes one image, container, or volume by id or name.
func (c *Client) RemoveItem(ctx context.Context, kind, id string) error {
	var args []string
	switch kind {
	case "image":
		args = []string{"rmi", id}
	case "container":
		args = []string{"rm", id}
	case "volume":
		args = []string{"volume", "rm", id}
	default:
		return fmt.Errorf("invalid docker item kind: %s", kind)
	}

	ctx, cancel := context.WithTimeout(ctx, RemoveTimeout)
	defer cancel()
	_, err := c.run(ctx, "docker", args...)
	return err
}

// Prune removes unused items of the given kind ("images", "containers",
// "volumes"), or everything when kind is empty.
func (c *Client) Prune(ctx context.Context, kind string) error {
	var args []string
	switch kind {
	case "images":
		args = []string{"image", "prune", "-f"}
	case "containers":
		args = []string{"container", "prune", "-f"}
	case "volumes":
		args = []string{"volume", "prune", "-f"}
	case "":
		args = []string{"system", "prune", "-f"}
	default:
		return fmt.Errorf("invalid docker prune kind: %s", kind)
	}

	ctx, cancel := context.WithTimeout(ctx, PruneTimeout)
	defer cancel()
	_, err := c.run(ctx, "docker", args...)
	return err
}

func parseImages(out string) []Image {
	var images []Image
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 4 {
			continue
		}
		images = append(images, Image{
			Repository: parts[0],
			Tag:        parts[1],
			ID:         truncID(parts[2]),
			SizeBytes:  ParseSize(parts[3]),
			Dangling:   parts[0] == "<none>",
		})
	}
	return images
}

func parseContainers(out string) []Container {
	var containers []Container
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			continue
		}
		sizeField := "0B"
		if len(parts) > 3 && parts[3] != "" {
			// Size renders as "12.3MB (virtual 890MB)"; the first token is
			// the writable layer.
			sizeField = strings.Fields(parts[3])[0]
		}
		containers = append(containers, Container{
			Name:      parts[0],
			ID:        truncID(parts[1]),
			Running:   strings.HasPrefix(parts[2], "Up"),
			Status:    parts[2],
			SizeBytes: ParseSize(sizeField),
		})
	}
	return containers
}

func parseVolumes(out string) []Volume {
	var volumes []Volume
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		v := Volume{Name: parts[0], Driver: "local"}
		if len(parts) > 1 {
			v.Driver = parts[1]
		}
		volumes = append(volumes, v)
	}
	return volumes
}

// parseBuildCache pulls the build-cache size out of `docker system df`.
func parseBuildCache(out string) int64 {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return 0
	}
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		// The row reads "Build Cache  TOTAL  ACTIVE  SIZE  RECLAIMABLE".
		if len(fields) >= 5 && fields[0] == "Build" && fields[1] == "Cache" {
			return ParseSize(fields[4])
		}
	}
	return 0
}

var sizeRe = regexp.MustCompile(`(?i)^([\d.]+)\s*([KMGT]?B?)`)

// ParseSize converts a docker size string like "1.2GB" to bytes. Docker
// reports binary-multiple units despite the SI-looking suffixes.
func ParseSize(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	m := sizeRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}

	var mult float64
	switch strings.ToUpper(strings.TrimSuffix(strings.ToUpper(m[2]), "B")) {
	case "":
		mult = 1
	case "K":
		mult = 1 << 10
	case "M":
		mult = 1 << 20
	case "G":
		mult = 1 << 30
	case "T":
		mult = 1 << 40
	default:
		mult = 1
	}
	return int64(num * mult)
}

func truncID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
