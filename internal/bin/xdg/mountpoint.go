package xdg

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/moby/sys/mountinfo"
)

// Skip file systems that can't have trash directories
var skipFSTypes = map[string]bool{
	"proc":        true,
	"sysfs":       true,
	"devtmpfs":    true,
	"devpts":      true,
	"tmpfs":       true,
	"cgroup":      true,
	"cgroup2":     true,
	"pstore":      true,
	"securityfs":  true,
	"debugfs":     true,
	"tracefs":     true,
	"configfs":    true,
	"fusectl":     true,
	"bpf":         true,
	"nsfs":        true,
	"efivarfs":    true,
	"hugetlbfs":   true,
	"mqueue":      true,
	"autofs":      true,
	"binfmt_misc": true,
	"squashfs":    true,
	"overlay":     true,
}

// mountPoints returns the writable mount points that may hold a trash directory
func mountPoints() ([]string, error) {
	mounts, err := mountinfo.GetMounts(func(info *mountinfo.Info) (skip, stop bool) {
		if skipFSTypes[info.FSType] {
			return true, false
		}
		if slices.Contains(strings.Split(info.Options, ","), "ro") {
			return true, false
		}
		return false, false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get mount info: %w", err)
	}

	seen := make(map[string]bool, len(mounts))
	points := make([]string, 0, len(mounts))
	for _, m := range mounts {
		if seen[m.Mountpoint] {
			continue
		}
		seen[m.Mountpoint] = true
		points = append(points, m.Mountpoint)
	}

	return points, nil
}

// externalRoots returns the trash roots defined by the XDG spec for a mount
// point, in order of preference: $topdir/.Trash/$uid then $topdir/.Trash-$uid
func externalRoots(topdir string, uid int) []string {
	return []string{
		filepath.Join(topdir, ".Trash", fmt.Sprint(uid)),
		filepath.Join(topdir, fmt.Sprintf(".Trash-%d", uid)),
	}
}

// isValidExternalTrash checks whether path is a usable trash directory
// according to the XDG trash spec
func isValidExternalTrash(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}

	if !info.IsDir() || info.Mode()&os.ModeSymlink != 0 {
		slog.Debug("not a trash directory", "path", path)
		return false
	}

	// The shared $topdir/.Trash must carry the sticky bit and must not be a symlink
	if parent := filepath.Dir(path); filepath.Base(parent) == ".Trash" {
		pinfo, err := os.Lstat(parent)
		if err != nil || pinfo.Mode()&os.ModeSymlink != 0 || pinfo.Mode()&os.ModeSticky == 0 {
			slog.Debug("shared trash directory is not sticky", "path", parent)
			return false
		}
	}

	return true
}
