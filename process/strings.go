package process

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// EncodeUTF16 is s as a NUL-terminated little endian wide string
func EncodeUTF16(s string) []byte {
	chars := append(utf16.Encode([]rune(s)), 0)
	buf := make([]byte, len(chars)*2)
	for i, c := range chars {
		binary.LittleEndian.PutUint16(buf[i*2:], c)
	}
	return buf
}

// ReadUTF16 reads at most maxChars wide characters up to the first NUL
func ReadUTF16(mem Memory, addr ProcessMemoryAddress, maxChars int) (string, error) {
	if maxChars <= 0 {
		return "", nil
	}
	data, err := mem.ReadMemory(addr, ProcessMemorySize(maxChars*2))
	if err != nil {
		return "", err
	}

	chars := make([]uint16, 0, maxChars)
	for i := 0; i+1 < len(data); i += 2 {
		c := binary.LittleEndian.Uint16(data[i:])
		if c == 0 {
			break
		}
		chars = append(chars, c)
	}
	return string(utf16.Decode(chars)), nil
}

// WriteUTF16 writes s NUL-terminated, failing when it does not fit in capacity bytes
func WriteUTF16(mem Memory, addr ProcessMemoryAddress, s string, capacity ProcessMemorySize) error {
	buf := EncodeUTF16(s)
	if ProcessMemorySize(len(buf)) > capacity {
		return fmt.Errorf("%d wide chars do not fit in %d bytes", len(buf)/2, uint(capacity))
	}
	return mem.WriteMemory(addr, buf)
}
