package process_blob

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"practicetool/process"
	"practicetool/process/memory_map"
)

// DumpMetadata describes a saved image snapshot.
type DumpMetadata struct {
	PID     process.ProcessID `json:"pid"`
	Name    string            `json:"name"`
	Version string            `json:"version,omitempty"`

	// Module is the image the snapshot was taken around, so locators can run offline
	Module process.Module `json:"module"`
}

// maxDumpRegion skips regions too large to be worth keeping in a snapshot.
const maxDumpRegion = 512 << 20

// Save copies the readable regions of mm out of src and writes them to dirname:
// metadata.json, process_memory_map.json and one blob_0x<addr>_<size>.bin per region.
func Save(dirname string, meta DumpMetadata, src process.Memory, mm []memory_map.MemoryMapItem) error {
	if err := os.MkdirAll(dirname, 0755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, "metadata.json"), metaBytes, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	var saved []memory_map.MemoryMapItem
	for _, item := range mm {
		if len(item.Perms) == 0 || !item.IsReadable() || item.Size > maxDumpRegion {
			continue
		}

		data, err := src.ReadMemory(process.ProcessMemoryAddress(item.Address), process.ProcessMemorySize(item.Size))
		if err != nil {
			continue // region vanished or is guarded
		}

		filename := filepath.Join(dirname, fmt.Sprintf("blob_0x%x_%d.bin", item.Address, item.Size))
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to write blob %s: %w", filename, err)
		}
		saved = append(saved, item)
	}

	mmBytes, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory map: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, "process_memory_map.json"), mmBytes, 0644); err != nil {
		return fmt.Errorf("failed to write memory map: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save into a read-only ProcessBlob.
func Load(dirname string) (*ProcessBlob, DumpMetadata, error) {
	var meta DumpMetadata

	metadataBytes, err := os.ReadFile(filepath.Join(dirname, "metadata.json"))
	if err != nil {
		return nil, meta, fmt.Errorf("failed to read metadata: %w", err)
	}
	if err := json.Unmarshal(metadataBytes, &meta); err != nil {
		return nil, meta, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	mmBytes, err := os.ReadFile(filepath.Join(dirname, "process_memory_map.json"))
	if err != nil {
		return nil, meta, fmt.Errorf("failed to read memory map: %w", err)
	}
	var mm []memory_map.MemoryMapItem
	if err := json.Unmarshal(mmBytes, &mm); err != nil {
		return nil, meta, fmt.Errorf("failed to unmarshal memory map: %w", err)
	}

	blob := &ProcessBlob{}
	for _, item := range mm {
		filename := filepath.Join(dirname, fmt.Sprintf("blob_0x%x_%d.bin", item.Address, item.Size))
		data, err := os.ReadFile(filename)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, meta, fmt.Errorf("failed to read blob %s: %w", filename, err)
		}
		if err := blob.MapData(process.ProcessMemoryAddress(item.Address), data, true); err != nil {
			return nil, meta, err
		}
	}

	return blob, meta, nil
}
