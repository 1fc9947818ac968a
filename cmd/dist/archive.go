package main

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// writeArchive stores each file deflated under its base name
func writeArchive(out string, files ...string) (err error) {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(f)
	for _, src := range files {
		if err := addFile(zw, src); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(src), err)
		}
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = filepath.Base(src)
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	n, err := io.Copy(w, in)
	if err != nil {
		return err
	}
	log.Debugf("added %s (%d bytes)", hdr.Name, n)
	return nil
}
