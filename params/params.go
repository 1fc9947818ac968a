// Package params walks the game's parameter repository to patch individual rows.
//
// The repository is a counted array of resource capsules. Each capsule carries its table name
// as a wide string and a pointer to the loaded PARAM image: a 0x40 byte header followed by
// 0x18 byte row descriptors {id, data offset, name offset}.
package params

import (
	"context"
	"errors"
	"fmt"
	"time"

	"practicetool/logging"
	"practicetool/pod"
	"practicetool/process"
)

const (
	repoCountOffset   = 0x08
	repoEntriesOffset = 0x10

	resCapNameOffset  = 0x18
	resCapParamOffset = 0x80

	paramRowCountOffset = 0x0A
	paramRowsOffset     = 0x40
	paramRowSize        = 0x18

	// inline wide-string buffer of 8 chars, spilled to the heap beyond that
	dlStringInline   = 8
	dlStringLenOff   = 0x10
	dlStringCapOff   = 0x18
	maxTableNameLen  = 64
	maxRepoTableSize = 512
)

var (
	ErrNotLoaded     = errors.New("parameter repository not loaded")
	ErrTableNotFound = errors.New("parameter table not found")
	ErrRowNotFound   = errors.New("parameter row not found")
)

// Repository reads the tables behind the repository's static slot
type Repository struct {
	mem  process.Memory
	slot process.ProcessMemoryAddress
	log  *logging.Logger
}

func NewRepository(mem process.Memory, slot process.ProcessMemoryAddress) *Repository {
	return &Repository{mem: mem, slot: slot, log: logging.New("params")}
}

type Table struct {
	Name   string
	Header process.ProcessMemoryAddress
}

type Row struct {
	ID   uint32
	Data process.ProcessMemoryAddress
}

type rowDescriptor struct {
	ID         uint32
	_          uint32
	DataOffset uint64
	NameOffset uint64
}

// Tables lists the loaded tables; capsules without a PARAM image are skipped
func (r *Repository) Tables() ([]Table, error) {
	if r.slot == 0 {
		return nil, ErrNotLoaded
	}
	repo, err := process.ReadPOINTER(r.mem, r.slot)
	if err != nil {
		return nil, fmt.Errorf("repository slot: %w", err)
	}
	if repo == 0 {
		return nil, ErrNotLoaded
	}

	count, err := pod.ReadT[uint32](r.mem, repo.Add(repoCountOffset))
	if err != nil {
		return nil, fmt.Errorf("repository count: %w", err)
	}
	if count == 0 || count > maxRepoTableSize {
		return nil, fmt.Errorf("repository count %d: %w", count, ErrNotLoaded)
	}

	caps, err := pod.ReadSliceT[process.ProcessMemoryAddress](r.mem, repo.Add(repoEntriesOffset), int(count))
	if err != nil {
		return nil, fmt.Errorf("repository entries: %w", err)
	}

	tables := make([]Table, 0, len(caps))
	for _, capsule := range caps {
		if capsule == 0 {
			continue
		}
		name, err := readDLString(r.mem, capsule.Add(resCapNameOffset))
		if err != nil {
			r.log.Tracef("capsule %s: %v", capsule.ToString(), err)
			continue
		}
		header, err := process.ReadPOINTER(r.mem, capsule.Add(resCapParamOffset))
		if err != nil || header == 0 {
			continue
		}
		tables = append(tables, Table{Name: name, Header: header})
	}
	return tables, nil
}

// Find returns the table called name
func (r *Repository) Find(name string) (Table, error) {
	tables, err := r.Tables()
	if err != nil {
		return Table{}, err
	}
	for _, t := range tables {
		if t.Name == name {
			return t, nil
		}
	}
	return Table{}, fmt.Errorf("%s: %w", name, ErrTableNotFound)
}

// Rows reads every row descriptor of t
func (r *Repository) Rows(t Table) ([]Row, error) {
	count, err := pod.ReadT[uint16](r.mem, t.Header.Add(paramRowCountOffset))
	if err != nil {
		return nil, fmt.Errorf("%s row count: %w", t.Name, err)
	}
	descs, err := pod.ReadSliceT[rowDescriptor](r.mem, t.Header.Add(paramRowsOffset), int(count))
	if err != nil {
		return nil, fmt.Errorf("%s rows: %w", t.Name, err)
	}
	rows := make([]Row, len(descs))
	for i, d := range descs {
		rows[i] = Row{ID: d.ID, Data: t.Header.Add(process.ProcessMemorySize(d.DataOffset))}
	}
	return rows, nil
}

// Row finds the row with the given id
func (r *Repository) Row(t Table, id uint32) (Row, error) {
	rows, err := r.Rows(t)
	if err != nil {
		return Row{}, err
	}
	for _, row := range rows {
		if row.ID == id {
			return row, nil
		}
	}
	return Row{}, fmt.Errorf("%s[%d]: %w", t.Name, id, ErrRowNotFound)
}

// WaitTable polls every interval until the named table is loaded with at least one row, the
// timeout passes or ctx ends.
func (r *Repository) WaitTable(ctx context.Context, name string, interval, timeout time.Duration) (Table, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for attempt := 1; ; attempt++ {
		t, err := r.Find(name)
		if err == nil {
			var rows []Row
			if rows, err = r.Rows(t); err == nil && len(rows) > 0 {
				r.log.Debugf("%s loaded after %d polls (%d rows)", name, attempt, len(rows))
				return t, nil
			}
			if err == nil {
				err = fmt.Errorf("%s: no rows yet", name)
			}
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return Table{}, fmt.Errorf("waiting for %s: %w (last: %v)", name, ctx.Err(), lastErr)
		case <-ticker.C:
		}
	}
}

func readDLString(mem process.Memory, addr process.ProcessMemoryAddress) (string, error) {
	length, err := pod.ReadT[uint64](mem, addr.Add(dlStringLenOff))
	if err != nil {
		return "", err
	}
	capacity, err := pod.ReadT[uint64](mem, addr.Add(dlStringCapOff))
	if err != nil {
		return "", err
	}
	if length > maxTableNameLen || length > capacity {
		return "", fmt.Errorf("implausible string length %d (capacity %d)", length, capacity)
	}

	buf := addr
	if capacity >= dlStringInline {
		if buf, err = process.ReadPOINTER(mem, addr); err != nil {
			return "", err
		}
	}
	return process.ReadUTF16(mem, buf, int(length))
}
