// Package hexdump renders raw memory for trace logs and the pattern diagnostic.
// Output is plain text because it usually ends up in the log file.
package hexdump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"practicetool/process"
)

// Options defines options for customizing the hexdump output
type Options struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// GroupSize defines the grouping of bytes (1, 2, 4, or 8), little endian within a group
	GroupSize int

	ShowASCII bool

	// StartOffset is the address printed for the first byte
	StartOffset uint64

	// MaxLines is the maximum number of lines to show (0 for no limit)
	MaxLines int

	// Highlight marks bytes [HighlightFrom, HighlightFrom+HighlightLen) with brackets
	HighlightFrom int
	HighlightLen  int

	// IsPointer, when set, annotates 8-byte aligned qwords that point into readable memory
	IsPointer func(uint64) bool
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() Options {
	return Options{
		BytesPerLine: 16,
		GroupSize:    1,
		ShowASCII:    true,
	}
}

// Dump creates a hex dump of the given data with specified options
func Dump(data []byte, options Options) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// DumpToWriter writes a hex dump of the given data to the specified writer
func DumpToWriter(writer io.Writer, data []byte, options Options) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.GroupSize <= 0 || options.BytesPerLine%options.GroupSize != 0 {
		options.GroupSize = 1
	}

	for line, offset := 0, 0; offset < len(data); line, offset = line+1, offset+options.BytesPerLine {
		if options.MaxLines > 0 && line >= options.MaxLines {
			fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			break
		}

		end := min(offset+options.BytesPerLine, len(data))
		formatLine(writer, data, offset, end, options)
	}
}

func formatLine(w io.Writer, data []byte, from, to int, options Options) {
	fmt.Fprintf(w, "%012x ", options.StartOffset+uint64(from))

	for g := from; g < from+options.BytesPerLine; g += options.GroupSize {
		if g >= to {
			fmt.Fprint(w, strings.Repeat(" ", options.GroupSize*2+1))
			continue
		}
		open, close := " ", ""
		if options.highlighted(g) {
			if !options.highlighted(g - options.GroupSize) {
				open = "["
			}
			if g+options.GroupSize >= to || !options.highlighted(g+options.GroupSize) {
				close = "]"
			}
		}
		fmt.Fprint(w, open)
		// most significant byte first inside a group
		for i := min(g+options.GroupSize, to) - 1; i >= g; i-- {
			fmt.Fprintf(w, "%02x", data[i])
		}
		fmt.Fprint(w, close)
	}

	if options.ShowASCII {
		fmt.Fprint(w, "  |")
		for _, b := range data[from:to] {
			if b >= 0x20 && b < 0x7f {
				fmt.Fprintf(w, "%c", b)
			} else {
				fmt.Fprint(w, ".")
			}
		}
		fmt.Fprint(w, "|")
	}

	if options.IsPointer != nil {
		var ptrs []string
		for i := from - from%8; i+8 <= to; i += 8 {
			if i < from {
				continue
			}
			v := binary.LittleEndian.Uint64(data[i:])
			if v != 0 && options.IsPointer(v) {
				ptrs = append(ptrs, fmt.Sprintf("+%x->0x%x", i-from, v))
			}
		}
		if len(ptrs) > 0 {
			fmt.Fprintf(w, "  %s", strings.Join(ptrs, " "))
		}
	}
	fmt.Fprintln(w)
}

func (o Options) highlighted(g int) bool {
	return o.HighlightLen > 0 && g+o.GroupSize > o.HighlightFrom && g < o.HighlightFrom+o.HighlightLen
}

// DumpBytes dumps data with the default options
func DumpBytes(data []byte) string {
	return Dump(data, DefaultOptions())
}

// DumpMemory reads size bytes at addr from mem and dumps them with pointer annotations
func DumpMemory(mem process.Memory, addr process.ProcessMemoryAddress, size process.ProcessMemorySize) (string, error) {
	data, err := mem.ReadMemory(addr, size)
	if err != nil {
		return "", err
	}

	options := DefaultOptions()
	options.StartOffset = uint64(addr)
	options.IsPointer = func(v uint64) bool {
		return v%process.PointerSize == 0 && mem.IsValidAddress(process.ProcessMemoryAddress(v))
	}
	return Dump(data, options), nil
}
