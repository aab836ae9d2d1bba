package sysboundary

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

// DirEntry is a normalised directory listing entry: a name and whether
// it is itself a directory, with the humanised size kept alongside for
// diagnostic output (directory listing is a system-boundary primitive,
// not a general filesystem API, this core has no persistent-storage
// scope beyond reading a directory's contents).
type DirEntry struct {
	Name    string
	IsDir   bool
	Size    int64
	Humanized string
}

// ListDir reads the entries of dir, retrying the underlying syscall on
// EINTR after checking signal interruption is not itself a reason to
// give up (mirrors the retry loop Go's own os package applies to
// read(2)/getdents(2), made explicit here since this core is expected to
// run with custom signal handling installed around it).
func ListDir(dir string) ([]DirEntry, error) {
	var names []os.DirEntry
	var err error
	for {
		names, err = readDirRetrying(dir)
		if err == nil || err != unix.EINTR {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	entries := make([]DirEntry, 0, len(names))
	for _, e := range names {
		info, ierr := e.Info()
		var size int64
		if ierr == nil {
			size = info.Size()
		}
		entries = append(entries, DirEntry{
			Name:      e.Name(),
			IsDir:     e.IsDir(),
			Size:      size,
			Humanized: humanize.Bytes(uint64(size)),
		})
	}
	return entries, nil
}

func readDirRetrying(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if perr, ok := asErrno(err); ok && perr == unix.EINTR {
			return nil, unix.EINTR
		}
		return nil, err
	}
	return entries, nil
}

func asErrno(err error) (unix.Errno, bool) {
	for {
		if errno, ok := err.(unix.Errno); ok {
			return errno, true
		}
		unwrapped, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0, false
		}
		err = unwrapped.Unwrap()
		if err == nil {
			return 0, false
		}
	}
}

// NormalizePath canonicalises path: it expands a leading "~" to the
// caller's home directory, strips a Windows drive letter prefix down to
// its forward-slash form when one is present (this core's own tests and
// CLI run on Unix, but path.md is a format other tools in this pack's
// corpus need to parse portably), and cleans the result into an absolute
// path.
func NormalizePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	if vol := filepath.VolumeName(path); vol != "" {
		path = strings.TrimPrefix(path, vol)
		path = strings.ReplaceAll(path, `\`, `/`)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
