// Package archive packages an output tree into a reproducible tar.gz.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"
)

// entryTime is the fixed timestamp stamped on every archive entry. Together
// with zeroed ownership it makes the archive bytes depend on tree content
// only, not on who built it, where, or when.
var entryTime = time.Unix(0, 0)

// Create writes outputDir + ".tar.gz" next to outputDir and returns its
// path. Entry names are rooted at the basename of outputDir; no absolute
// paths leak into the archive.
func Create(outputDir string) (string, error) {
	dest := outputDir + ".tar.gz"
	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	base := filepath.Base(outputDir)
	// WalkDir visits entries in lexical order, so equal trees produce
	// equal entry sequences.
	err = filepath.WalkDir(outputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(outputDir, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			return fmt.Errorf("unsupported file type in output tree: %s", p)
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		name := base
		if rel != "." {
			name = path.Join(base, filepath.ToSlash(rel))
		}
		if info.IsDir() {
			name += "/"
		}
		hdr.Name = name
		hdr.Uid = 0
		hdr.Gid = 0
		hdr.Uname = ""
		hdr.Gname = ""
		hdr.ModTime = entryTime
		hdr.AccessTime = time.Time{}
		hdr.ChangeTime = time.Time{}
		hdr.Format = tar.FormatUSTAR

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		src, err := os.Open(p)
		if err != nil {
			return err
		}
		if _, err := io.Copy(tw, src); err != nil {
			src.Close()
			return err
		}
		return src.Close()
	})
	if err != nil {
		f.Close()
		os.Remove(dest)
		return "", err
	}

	for _, c := range []io.Closer{tw, gz, f} {
		if err := c.Close(); err != nil {
			os.Remove(dest)
			return "", err
		}
	}
	return dest, nil
}
