// Command process_aob checks the base locators against a running game or a saved snapshot.
//
//	process_aob -name DarkSoulsIII.exe
//	process_aob -pid 1234 -save dump/1.15
//	process_aob -from dump/1.15 -aob "48 8B 1D ?? ?? ?? ??"
//	process_aob -from dump/1.15 -find 1234.5 -type f32 -root WorldChrMan
package main

import (
	"flag"
	"fmt"
	"os"

	"practicetool/game_state"
	"practicetool/logging"
	"practicetool/process"
	"practicetool/process/memory_map"
	"practicetool/process_blob"
	"practicetool/search"
)

// target is what the live backends offer
type target interface {
	process.Process
	process.ModuleLister
}

func main() {
	pidFlag := flag.Int("pid", 0, "Process ID to attach to")
	nameFlag := flag.String("name", "DarkSoulsIII.exe", "Process name to attach to when -pid is not given")
	moduleFlag := flag.String("module", "DarkSoulsIII.exe", "Module the locators scan")
	fromFlag := flag.String("from", "", "Read a snapshot directory instead of a live process")
	saveFlag := flag.String("save", "", "Save a snapshot of the process to this directory")
	aobFlag := flag.String("aob", "", "Pattern to dump matches of, e.g. '48 8B 1D ?? ?? ?? ??'")
	findFlag := flag.String("find", "", "Value to search pointer paths for")
	typeFlag := flag.String("type", "i32", "Type of -find: u8, i32, u32, f32, f64")
	rootFlag := flag.String("root", "WorldChrMan", "Base the -find search starts from")
	depthFlag := flag.Int("depth", 3, "Pointers -find may follow")
	sizeFlag := flag.Uint("size", 0x200, "Bytes of each struct -find scans")
	levelFlag := flag.String("log", "INFO", "Log level")
	flag.Parse()

	if lvl, err := logging.ParseLevel(*levelFlag); err == nil {
		logging.SetLevel(lvl)
	}

	if err := run(options{
		pid:    *pidFlag,
		name:   *nameFlag,
		module: *moduleFlag,
		from:   *fromFlag,
		save:   *saveFlag,
		aob:    *aobFlag,
		find:   *findFlag,
		typ:    *typeFlag,
		root:   *rootFlag,
		depth:  *depthFlag,
		size:   *sizeFlag,
	}); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	pid          int
	name, module string
	from, save   string
	aob          string
	find, typ    string
	root         string
	depth        int
	size         uint
}

func run(o options) error {
	var (
		live process.Memory
		scan process.Memory
		mod  process.Module
	)

	if o.from != "" {
		blob, meta, err := process_blob.Load(o.from)
		if err != nil {
			return err
		}
		if meta.Module.Size == 0 {
			return fmt.Errorf("%s: snapshot has no module", o.from)
		}
		fmt.Printf("Loaded snapshot of %s (pid %d)\n", meta.Name, meta.PID)
		live, scan, mod = blob, blob, meta.Module
	} else {
		proc, err := openProcess(o.pid, o.name)
		if err != nil {
			return err
		}
		defer proc.Close()

		if mod, err = proc.FindModule(o.module); err != nil {
			return err
		}
		mm, err := proc.GetMemoryMap()
		if err != nil {
			return err
		}
		fmt.Printf("Attached to process %d, %s\n", proc.GetPID(), mod)

		if o.save != "" {
			meta := process_blob.DumpMetadata{PID: proc.GetPID(), Name: mod.Name, Module: mod}
			if err := process_blob.Save(o.save, meta, proc, writable(mm, mod)); err != nil {
				return err
			}
			fmt.Printf("Snapshot saved to %s\n", o.save)
		}

		live, scan = proc, proc
		if snap, err := game_state.SnapshotModule(proc, mm, mod); err == nil {
			scan = snap
		}
	}

	bases, missing := reportBases(os.Stdout, scan, mod, game_state.DefaultLocators)
	fmt.Printf("%d of %d bases found\n", len(game_state.DefaultLocators)-missing, len(game_state.DefaultLocators))
	reportChains(os.Stdout, game_state.NewPointerChains(live, bases))

	if o.aob != "" {
		if _, err := reportPattern(os.Stdout, scan, mod, o.aob); err != nil {
			return err
		}
	}

	if o.find != "" {
		b, ok := baseByName(game_state.DefaultLocators, o.root)
		if !ok {
			return fmt.Errorf("unknown base %q", o.root)
		}
		root := bases.Get(b)
		if root == 0 {
			return fmt.Errorf("base %s was not found", b)
		}
		n, err := reportSearch(os.Stdout, live, root, o.typ, o.find, search.WithMaxDepth(o.depth), search.WithMaxStructSize(process.ProcessMemorySize(o.size)))
		if err != nil {
			return err
		}
		fmt.Printf("%d paths from %s\n", n, b)
	}
	return nil
}

// writable keeps the image plus the private writable regions, where the game's heaps live
func writable(mm []memory_map.MemoryMapItem, mod process.Module) []memory_map.MemoryMapItem {
	var out []memory_map.MemoryMapItem
	for _, item := range mm {
		inImage := mod.Contains(process.ProcessMemoryAddress(item.Address))
		if inImage || (item.IsReadable() && item.IsWritable()) {
			out = append(out, item)
		}
	}
	return out
}
