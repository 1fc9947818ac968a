package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	iconDirSize      = 6
	iconDirEntrySize = 16
	groupEntrySize   = 14

	// GroupIconName is the RT_GROUP_ICON resource Explorer picks up
	GroupIconName = "IDI_ICON"
	// langEnglishUS is MAKELANGID(LANG_ENGLISH, SUBLANG_DEFAULT)
	langEnglishUS = 0x0409
)

var ErrNotIcon = errors.New("not an .ico file")

type iconDir struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

// iconEntry is the part ICONDIRENTRY and GRPICONDIRENTRY share
type iconEntry struct {
	Width      uint8
	Height     uint8
	ColorCount uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
}

// iconResources is an .ico split the way an executable stores it: one RT_ICON per image, with
// ids starting at 1, and the RT_GROUP_ICON directory pointing at them
type iconResources struct {
	Images [][]byte
	Group  []byte
}

func parseICO(data []byte) (*iconResources, error) {
	var dir iconDir
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &dir); err != nil {
		return nil, ErrNotIcon
	}
	if dir.Reserved != 0 || dir.Type != 1 || dir.Count == 0 {
		return nil, ErrNotIcon
	}
	if len(data) < iconDirSize+int(dir.Count)*iconDirEntrySize {
		return nil, fmt.Errorf("%w: directory truncated", ErrNotIcon)
	}

	res := &iconResources{}
	group := new(bytes.Buffer)
	binary.Write(group, binary.LittleEndian, dir)

	for i := 0; i < int(dir.Count); i++ {
		at := iconDirSize + i*iconDirEntrySize
		var e iconEntry
		binary.Read(bytes.NewReader(data[at:]), binary.LittleEndian, &e)
		offset := binary.LittleEndian.Uint32(data[at+12:])

		end := uint64(offset) + uint64(e.BytesInRes)
		if end > uint64(len(data)) {
			return nil, fmt.Errorf("%w: image %d outside the file", ErrNotIcon, i)
		}
		res.Images = append(res.Images, data[offset:end])

		binary.Write(group, binary.LittleEndian, e)
		binary.Write(group, binary.LittleEndian, uint16(i+1))
	}
	res.Group = group.Bytes()
	return res, nil
}
