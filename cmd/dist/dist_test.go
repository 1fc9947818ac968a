package main

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildICO lays out a directory followed by the images in order
func buildICO(images ...[]byte) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, iconDir{Type: 1, Count: uint16(len(images))})
	offset := uint32(iconDirSize + iconDirEntrySize*len(images))
	for i, img := range images {
		size := uint8(16 << i)
		binary.Write(buf, binary.LittleEndian, iconEntry{Width: size, Height: size, Planes: 1, BitCount: 32, BytesInRes: uint32(len(img))})
		binary.Write(buf, binary.LittleEndian, offset)
		offset += uint32(len(img))
	}
	for _, img := range images {
		buf.Write(img)
	}
	return buf.Bytes()
}

func TestParseICO(t *testing.T) {
	small := bytes.Repeat([]byte{0xAA}, 40)
	large := bytes.Repeat([]byte{0xBB}, 72)
	res, err := parseICO(buildICO(small, large))
	require.NoError(t, err)

	require.Len(t, res.Images, 2)
	assert.Equal(t, small, res.Images[0])
	assert.Equal(t, large, res.Images[1])

	require.Len(t, res.Group, iconDirSize+2*groupEntrySize)
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(res.Group[4:]))
	second := res.Group[iconDirSize+groupEntrySize:]
	assert.Equal(t, uint8(32), second[0])
	assert.Equal(t, uint32(len(large)), binary.LittleEndian.Uint32(second[8:]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(second[12:]))
}

func TestParseICORejects(t *testing.T) {
	_, err := parseICO([]byte("PNG"))
	assert.ErrorIs(t, err, ErrNotIcon)

	_, err = parseICO(buildICO())
	assert.ErrorIs(t, err, ErrNotIcon)

	data := buildICO(make([]byte, 8))
	_, err = parseICO(data[:len(data)-4])
	assert.ErrorIs(t, err, ErrNotIcon)
}

func TestWriteArchive(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"practicetool.exe":  "MZ launcher",
		"practicetool.dll":  "MZ tool",
		"practicetool.toml": "[settings]\n",
	}
	var paths []string
	for name, body := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		paths = append(paths, p)
	}

	out := filepath.Join(dir, "dist", "practicetool.zip")
	require.NoError(t, os.MkdirAll(filepath.Dir(out), 0o755))
	require.NoError(t, writeArchive(out, paths...))

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, 3)
	for _, f := range zr.File {
		assert.Equal(t, zip.Deflate, f.Method)
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		assert.Equal(t, files[f.Name], string(body))
	}

	assert.Error(t, writeArchive(out, filepath.Join(dir, "missing.dll")))
}
