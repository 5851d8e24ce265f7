package yolods

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// maxLineLength is the longest line readLines accepts.
const maxLineLength = 1024 * 1024

// readLines returns a slice of lines read from the file at path.
func readLines(fs afero.Fs, path string) (lines []string, err error) {
	file, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFoundf("label file %q", path)
		}
		return nil, errors.Wrapf(err, "cannot read file %q", path)
	}
	defer closeWithErrCheck(file, &err)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		if err == bufio.ErrTooLong {
			return nil, formatErrorf("%q has a line longer than %d bytes", path, maxLineLength)
		}
		return nil, errors.Wrapf(err, "failed to read %q as lines", path)
	}

	return lines, nil
}

// sortedFileNames returns the names of the regular files (or symlinks) found directly in dirPath,
// sorted in ascending byte order.
func sortedFileNames(fs afero.Fs, dirPath string) ([]string, error) {
	infos, err := afero.ReadDir(fs, dirPath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read directory %q", dirPath)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		// Must be a regular file or a symlink.
		if !info.Mode().IsRegular() && info.Mode()&os.ModeSymlink == 0 {
			continue
		}
		names = append(names, info.Name())
	}
	sort.Strings(names)

	return names, nil
}

// changeExtension replaces the file extension of the base name in path with ext. A name without
// an extension gets ext appended. Leading dots of hidden files are not treated as an extension.
func changeExtension(path, ext string) string {
	dir, file := filepath.Split(path)
	oldExt := filepath.Ext(file)
	if oldExt == file {
		oldExt = ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return dir + file[0:len(file)-len(oldExt)] + ext
}

// replaceFirstSegment replaces the first slash-separated segment of path that equals old with new.
func replaceFirstSegment(path, old, new string) string {
	segments := strings.Split(filepath.ToSlash(path), "/")
	for i, s := range segments {
		if s == old {
			segments[i] = new
			break
		}
	}
	return filepath.FromSlash(strings.Join(segments, "/"))
}

// isDir reports whether path exists and is a directory. Errors other than a missing path are
// returned.
func isDir(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// isRegularFile reports whether path exists and is a regular file.
func isRegularFile(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// closeWithErrCheck calls c.Close(). If it returns an error, and (*e == nil), e is set to that
// error.
func closeWithErrCheck(c io.Closer, e *error) {
	err := c.Close()
	if err != nil && *e == nil {
		*e = err
	}
}
