package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// Key is a Windows virtual-key code
type Key uint8

const (
	KeyNone     Key = 0
	KeyBack     Key = 0x08
	KeyTab      Key = 0x09
	KeyReturn   Key = 0x0D
	KeyShift    Key = 0x10
	KeyControl  Key = 0x11
	KeyMenu     Key = 0x12
	KeyEscape   Key = 0x1B
	KeySpace    Key = 0x20
	KeyPrior    Key = 0x21
	KeyNext     Key = 0x22
	KeyEnd      Key = 0x23
	KeyHome     Key = 0x24
	KeyLeft     Key = 0x25
	KeyUp       Key = 0x26
	KeyRight    Key = 0x27
	KeyDown     Key = 0x28
	KeyInsert   Key = 0x2D
	KeyDelete   Key = 0x2E
	KeyNumpad0  Key = 0x60
	KeyMultiply Key = 0x6A
	KeyAdd      Key = 0x6B
	KeySubtract Key = 0x6D
	KeyDecimal  Key = 0x6E
	KeyDivide   Key = 0x6F
	KeyF1       Key = 0x70
	KeyLShift   Key = 0xA0
	KeyRShift   Key = 0xA1
	KeyLControl Key = 0xA2
	KeyRControl Key = 0xA3
	KeyLMenu    Key = 0xA4
	KeyRMenu    Key = 0xA5
)

type keyName struct {
	name    string
	display string
	key     Key
}

var keyNames = buildKeyNames()

func buildKeyNames() []keyName {
	names := []keyName{
		{"backspace", "Backspace", KeyBack},
		{"tab", "Tab", KeyTab},
		{"enter", "Enter", KeyReturn},
		{"shift", "Shift", KeyShift},
		{"ctrl", "Ctrl", KeyControl},
		{"alt", "Alt", KeyMenu},
		{"escape", "Escape", KeyEscape},
		{"space", "Space", KeySpace},
		{"pageup", "PageUp", KeyPrior},
		{"pagedown", "PageDown", KeyNext},
		{"end", "End", KeyEnd},
		{"home", "Home", KeyHome},
		{"left", "Left", KeyLeft},
		{"up", "Up", KeyUp},
		{"right", "Right", KeyRight},
		{"down", "Down", KeyDown},
		{"insert", "Insert", KeyInsert},
		{"delete", "Delete", KeyDelete},
		{"multiply", "Multiply", KeyMultiply},
		{"add", "Add", KeyAdd},
		{"subtract", "Subtract", KeySubtract},
		{"decimal", "Decimal", KeyDecimal},
		{"divide", "Divide", KeyDivide},
		{"lshift", "LShift", KeyLShift},
		{"rshift", "RShift", KeyRShift},
		{"lctrl", "LCtrl", KeyLControl},
		{"rctrl", "RCtrl", KeyRControl},
		{"lalt", "LAlt", KeyLMenu},
		{"ralt", "RAlt", KeyRMenu},
		{";", ";", 0xBA},
		{"=", "=", 0xBB},
		{",", ",", 0xBC},
		{"-", "-", 0xBD},
		{".", ".", 0xBE},
		{"/", "/", 0xBF},
		{"`", "`", 0xC0},
		{"[", "[", 0xDB},
		{"\\", "\\", 0xDC},
		{"]", "]", 0xDD},
		{"'", "'", 0xDE},
	}
	for c := '0'; c <= '9'; c++ {
		names = append(names, keyName{string(c), string(c), Key(c)})
		names = append(names, keyName{"numpad" + string(c), "Numpad" + string(c), KeyNumpad0 + Key(c-'0')})
	}
	for c := 'a'; c <= 'z'; c++ {
		names = append(names, keyName{string(c), strings.ToUpper(string(c)), Key(c - 'a' + 'A')})
	}
	for i := 1; i <= 24; i++ {
		n := strconv.Itoa(i)
		names = append(names, keyName{"f" + n, "F" + n, KeyF1 + Key(i-1)})
	}
	return names
}

// LookupKey finds a key by its configuration name, case-insensitively
func LookupKey(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, kn := range keyNames {
		if kn.name == name {
			return kn.key, true
		}
	}
	return KeyNone, false
}

// String is the display form, e.g. "F3" or "PageUp"
func (k Key) String() string {
	for _, kn := range keyNames {
		if kn.key == k {
			return kn.display
		}
	}
	return fmt.Sprintf("VK_%02X", uint8(k))
}

// IsModifier reports whether k may be used as the modifier of a chord
func (k Key) IsModifier() bool {
	switch k {
	case KeyShift, KeyControl, KeyMenu, KeyLShift, KeyRShift, KeyLControl, KeyRControl, KeyLMenu, KeyRMenu:
		return true
	}
	return false
}

func (k *Key) UnmarshalText(text []byte) error {
	v, ok := LookupKey(string(text))
	if !ok {
		return fmt.Errorf("%q is not a valid key", text)
	}
	*k = v
	return nil
}

func (k Key) MarshalText() ([]byte, error) { return []byte(strings.ToLower(k.String())), nil }
