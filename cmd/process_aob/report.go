package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"practicetool/game_state"
	"practicetool/hexdump"
	"practicetool/pod"
	"practicetool/process"
	"practicetool/search"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// reportBases runs every locator against scan and prints one row per base
func reportBases(w io.Writer, scan process.Memory, mod process.Module, locators []game_state.Locator) (game_state.BaseAddresses, int) {
	var bases game_state.BaseAddresses
	missing := 0

	t := pod.NewTable(
		pod.ColumnSpec{Header: "Base", MinWidth: 16},
		pod.ColumnSpec{Header: "Address", MinWidth: 14},
		pod.ColumnSpec{Header: "RVA", Right: true},
		pod.ColumnSpec{Header: "Status", FormatFunc: status},
	)
	for _, l := range locators {
		addr, err := game_state.Locate(scan, mod, l)
		if err != nil {
			missing++
			t.AddRow(l.Base.String(), "", "", "missing")
			continue
		}
		bases[l.Base] = addr
		t.AddRow(l.Base.String(), addr.ToString(), fmt.Sprintf("%#x", uint64(addr-mod.Base)), "ok")
	}
	t.Render(w)
	return bases, missing
}

func status(s string) string {
	if s == "ok" {
		return coloransi.Foreground(coloransi.ColorLimeGreen, s)
	}
	return coloransi.Foreground(coloransi.BrightRed, s)
}

// reportChains prints the cells most widgets depend on
func reportChains(w io.Writer, pc *game_state.PointerChains) {
	if stats, ok := pc.Stats.Read(); ok {
		fmt.Fprintln(w, pod.Compact(stats))
	} else {
		fmt.Fprintf(w, "stats unresolved: %s\n", pc.Stats.Describe())
	}
	if pos, ok := pc.Position.Read(); ok {
		fmt.Fprintf(w, "position %.3f %.3f %.3f\n", pos[0], pos[1], pos[2])
	} else {
		fmt.Fprintf(w, "position unresolved: %s\n", pc.Position.Describe())
	}
	if igt, ok := pc.IGT.Read(); ok {
		fmt.Fprintf(w, "igt %d ms\n", igt)
	}
}

// reportPattern dumps every match of pattern inside mod with the match bracketed
func reportPattern(w io.Writer, mem process.Memory, mod process.Module, pattern string) (int, error) {
	aob, err := process.ParseAOB(pattern)
	if err != nil {
		return 0, err
	}
	matches, err := process.ScanRange(mem, mod.Base, mod.Size, aob, false)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(w, "%s: %d matches\n", aob, len(matches))

	const before = 16
	for _, at := range matches {
		start := at - before
		if start < mod.Base {
			start = mod.Base
		}
		size := process.ProcessMemorySize(at-start) + process.ProcessMemorySize(aob.Len()) + before
		data, err := mem.ReadMemory(start, size)
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", at.ToString(), err)
			continue
		}
		opts := hexdump.DefaultOptions()
		opts.StartOffset = uint64(start)
		opts.HighlightFrom = int(at - start)
		opts.HighlightLen = aob.Len()
		fmt.Fprintf(w, "%s (rva %#x)\n", at.ToString(), uint64(at-mod.Base))
		hexdump.DumpToWriter(w, data, opts)
	}
	return len(matches), nil
}

// baseByName accepts a base name from the locator table
func baseByName(locators []game_state.Locator, name string) (game_state.Base, bool) {
	for _, l := range locators {
		if strings.EqualFold(l.Base.String(), name) {
			return l.Base, true
		}
	}
	return 0, false
}

// reportSearch looks for value below root and prints each path found
func reportSearch(w io.Writer, mem process.Memory, root process.ProcessMemoryAddress, typ, value string, opts ...search.Option) (int, error) {
	var results []search.Result
	var err error
	switch typ {
	case "u8":
		var v uint64
		if v, err = strconv.ParseUint(value, 0, 8); err == nil {
			results, err = search.For(mem, root, uint8(v), opts...)
		}
	case "i32":
		var v int64
		if v, err = strconv.ParseInt(value, 0, 32); err == nil {
			results, err = search.For(mem, root, int32(v), opts...)
		}
	case "u32":
		var v uint64
		if v, err = strconv.ParseUint(value, 0, 32); err == nil {
			results, err = search.For(mem, root, uint32(v), opts...)
		}
	case "f32":
		var v float64
		if v, err = strconv.ParseFloat(value, 32); err == nil {
			results, err = search.For(mem, root, float32(v), opts...)
		}
	case "f64":
		var v float64
		if v, err = strconv.ParseFloat(value, 64); err == nil {
			results, err = search.For(mem, root, v, opts...)
		}
	default:
		return 0, fmt.Errorf("unknown type %q (u8, i32, u32, f32, f64)", typ)
	}
	if err != nil {
		return 0, err
	}

	for _, r := range results {
		fmt.Fprintln(w, r)
	}
	return len(results), nil
}
