package preflight

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// CheckDirectoryAccess verifies that the directory exists and is readable.
func CheckDirectoryAccess(name, path string, fatal bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Fatal: fatal, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Fatal: fatal, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Fatal: fatal, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Fatal: fatal, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Fatal: fatal, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckDirectoryCreatable verifies that the directory exists or can be
// created, and is writable.
func CheckDirectoryCreatable(name, path string, fatal bool) Result {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Result{Name: name, Fatal: fatal, Detail: fmt.Sprintf("%s (error: create: %v)", path, err)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Fatal: fatal, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Fatal: fatal, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies that the filesystem holding path has at least
// requiredBytes available.
func CheckFreeSpace(name, path string, requiredBytes int64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	available := int64(stat.Bavail) * stat.Bsize
	if available < requiredBytes {
		return Result{
			Name:   name,
			Fatal:  true,
			Detail: fmt.Sprintf("%s (%d bytes free, %d required)", path, available, requiredBytes),
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d bytes free)", path, available)}
}

// CheckBinary verifies that an external binary can be resolved.
func CheckBinary(name, command string, fatal bool) Result {
	if command == "" {
		return Result{Name: name, Fatal: fatal, Detail: "command not configured"}
	}
	if _, err := exec.LookPath(command); err != nil {
		return Result{Name: name, Fatal: fatal, Detail: fmt.Sprintf("binary %q not found", command)}
	}
	return Result{Name: name, Passed: true, Fatal: fatal, Detail: command}
}
