package widget

import (
	_ "embed"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unicode"
	"unsafe"

	"practicetool/chain"
	"practicetool/game_state"
	"practicetool/hotkey"
	"practicetool/imui"
	"practicetool/process"
)

//go:embed item_ids.json
var itemIDsJSON []byte

// ItemNode is one entry of the item catalogue: a leaf naming an item id or a named group
type ItemNode struct {
	Name     string
	ID       uint32
	Leaf     bool
	Children []ItemNode
}

func (n *ItemNode) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       *string    `json:"id"`
		Desc     string     `json:"desc"`
		Node     *string    `json:"node"`
		Children []ItemNode `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.ID != nil:
		id, err := ParseItemID(*raw.ID)
		if err != nil {
			return err
		}
		*n = ItemNode{Name: raw.Desc, ID: id, Leaf: true}
	case raw.Node != nil:
		*n = ItemNode{Name: *raw.Node, Children: raw.Children}
	default:
		return errors.New("item node has neither an id nor a node name")
	}
	return nil
}

// ParseItemID decodes the catalogue's 8 hex digit, big-endian item ids
func ParseItemID(s string) (uint32, error) {
	if len(s) != 8 {
		return 0, fmt.Errorf("invalid hex string length %d: %s", len(s), s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("hex decode error for %s: %w", s, err)
	}
	return binary.BigEndian.Uint32(b), nil
}

func LoadItemTree(data []byte) ([]ItemNode, error) {
	var nodes []ItemNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("item catalogue: %w", err)
	}
	return nodes, nil
}

var bundledItems = sync.OnceValues(func() ([]ItemNode, error) {
	return LoadItemTree(itemIDsJSON)
})

// StringMatch reports whether every rune of needle appears in haystack in order, ignoring case
func StringMatch(needle, haystack string) bool {
	h := []rune(haystack)
	i := 0
	for _, c := range needle {
		c = unicode.ToLower(c)
		for i < len(h) && unicode.ToLower(h[i]) != c {
			i++
		}
		if i == len(h) {
			return false
		}
		i++
	}
	return true
}

// FilterItems prunes the tree to the leaves matching filter; groups left empty are dropped
func FilterItems(nodes []ItemNode, filter string) []ItemNode {
	if filter == "" {
		return nodes
	}
	var out []ItemNode
	for _, n := range nodes {
		if n.Leaf {
			if StringMatch(filter, n.Name) {
				out = append(out, n)
			}
			continue
		}
		if children := FilterItems(n.Children, filter); len(children) > 0 {
			out = append(out, ItemNode{Name: n.Name, Children: children})
		}
	}
	return out
}

type Infusion struct {
	Offset uint32
	Name   string
}

var Infusions = []Infusion{
	{0, "Normal"}, {100, "Heavy"}, {200, "Sharp"}, {300, "Refined"},
	{400, "Simple"}, {500, "Crystal"}, {600, "Fire"}, {700, "Chaos"},
	{800, "Lightning"}, {900, "Deep"}, {1000, "Dark"}, {1100, "Poison"},
	{1200, "Blood"}, {1300, "Raw"}, {1400, "Blessed"}, {1500, "Hollow"},
}

var infusionNames, upgradeNames = func() ([]string, []string) {
	inf := make([]string, len(Infusions))
	for i, v := range Infusions {
		inf[i] = v.Name
	}
	up := make([]string, 11)
	for i := range up {
		up[i] = fmt.Sprintf("+%d", i)
	}
	return inf, up
}()

// SpawnRequest is the argument block of the game's spawn-item function
type SpawnRequest struct {
	Unknown    uint32
	ItemID     uint32
	Qty        uint32
	Durability uint32
}

const (
	defaultItemID     = 0x40000000 + 2919
	defaultDurability = 100
	spawnPopup        = "##item-spawn"
)

// ItemSpawner adds items to the inventory through the game's own spawn function
type ItemSpawner struct {
	passive
	logBuffer

	mem        process.Memory
	caller     game_state.Caller
	fn         process.ProcessMemoryAddress
	mapItemMan process.ProcessMemoryAddress
	sentinel   chain.Bitflag[uint8]

	hotkeyLoad  hotkey.Hotkey
	hotkeyClose hotkey.Hotkey
	labelLoad   string

	qty        int32
	durability int32
	itemID     uint32
	upgrade    int
	infusion   int
	filter     string
	tree       []ItemNode
	shown      []ItemNode
}

// NewItemSpawner builds the spawner over the bundled catalogue. sentinel only resolves while a
// character is loaded.
func NewItemSpawner(mem process.Memory, caller game_state.Caller, chains *game_state.PointerChains, hkLoad, hkClose hotkey.Hotkey) *ItemSpawner {
	tree, err := bundledItems()
	if err != nil {
		log.Errorf("%v", err)
	}
	w := &ItemSpawner{
		mem:         mem,
		caller:      caller,
		fn:          chains.SpawnItemFunc,
		mapItemMan:  chains.MapItemMan,
		sentinel:    chains.Gravity(),
		hotkeyLoad:  hkLoad,
		hotkeyClose: hkClose,
		labelLoad:   hotkey.Label("Spawn item", &hkLoad),
		tree:        tree,
	}
	w.Reset()
	return w
}

// Reset restores the default selection and clears the filter
func (w *ItemSpawner) Reset() {
	w.qty = 1
	w.durability = defaultDurability
	w.itemID = defaultItemID
	w.upgrade = 0
	w.infusion = 0
	w.filter = ""
	w.shown = w.tree
}

func (w *ItemSpawner) SetFilter(filter string) {
	w.filter = filter
	w.shown = FilterItems(w.tree, filter)
}

func (w *ItemSpawner) Select(id uint32) { w.itemID = id }

// Request is the spawn argument block for the current selection
func (w *ItemSpawner) Request() SpawnRequest {
	return SpawnRequest{
		Unknown:    1,
		ItemID:     w.itemID + Infusions[w.infusion].Offset + uint32(w.upgrade),
		Qty:        uint32(w.qty),
		Durability: uint32(w.durability),
	}
}

// Spawn calls the game's spawn function with the dereferenced map item manager. Outside of a
// loaded game it only logs.
func (w *ItemSpawner) Spawn() {
	if _, ok := w.sentinel.Get(); !ok {
		w.logf("Cannot spawn items while not in game")
		return
	}
	req := w.Request()
	w.logf("Spawning %d #%d %s %s", req.Qty, w.itemID, upgradeNames[w.upgrade], infusionNames[w.infusion])

	mim, err := process.ReadPOINTER(w.mem, w.mapItemMan)
	if err != nil {
		w.logf("Map item manager unavailable: %v", err)
		return
	}
	log.Debugf("spawn %v via %s", req, w.fn.ToString())
	var out [4]uint32
	_, err = w.caller.Call(w.fn, uintptr(mim), uintptr(unsafe.Pointer(&req)), uintptr(unsafe.Pointer(&out)))
	runtime.KeepAlive(&req)
	runtime.KeepAlive(&out)
	if err != nil {
		w.logf("Spawn failed: %v", err)
	}
}

func (w *ItemSpawner) Interact(f *Frame) {
	if f.UI.AnyItemActive() {
		return
	}
	if w.hotkeyLoad.KeyUp(f.Keys) {
		w.Spawn()
	}
}

func (w *ItemSpawner) renderTree(ui *imui.Context, nodes []ItemNode, forceOpen bool) {
	for _, n := range nodes {
		if n.Leaf {
			if ui.Selectable(fmt.Sprintf("%s##%08X", n.Name, n.ID), n.ID == w.itemID) {
				w.itemID = n.ID
			}
			continue
		}
		if ui.TreeNode(n.Name, forceOpen) {
			w.renderTree(ui, n.Children, forceOpen)
			ui.TreePop()
		}
	}
}

func (w *ItemSpawner) RenderActive(f *Frame) {
	ui := f.UI
	at := ui.CursorScreenPos()
	if ui.Button(w.labelLoad+"##open", imui.Vec2{X: ui.ButtonWidth()}) {
		ui.OpenPopup(spawnPopup)
	}
	if !ui.BeginPopupModal(spawnPopup, popupPos(ui, at)) {
		return
	}
	defer ui.EndPopup()

	wide := 400 * ui.Scale
	ui.SetNextItemWidth(wide)
	filter := w.filter
	if ui.InputText("##item-spawn-filter", &filter, "Filter...") {
		w.SetFilter(filter)
	}
	ui.BeginChild("##item-spawn-list", imui.Vec2{X: wide, Y: 200 * ui.Scale})
	w.renderTree(ui, w.shown, w.filter != "")
	ui.EndChild()

	half := (wide - 8*ui.Scale) / 2
	ui.SetNextItemWidth(half)
	ui.Combo("##item-spawn-infusion", &w.infusion, infusionNames)
	ui.SameLine()
	ui.SetNextItemWidth(half)
	ui.Combo("##item-spawn-upgrade", &w.upgrade, upgradeNames)

	ui.SetNextItemWidth(wide * 0.7)
	ui.SliderInt("Quantity", &w.qty, 1, 99)
	ui.SetNextItemWidth(wide * 0.7)
	ui.SliderInt("Durability", &w.durability, 0, 9999)

	if ui.Button(w.labelLoad, imui.Vec2{X: wide}) {
		w.Spawn()
	}
	if ui.Button("Reset", imui.Vec2{X: wide}) {
		w.Reset()
	}
	if ui.Button(hotkey.Label("Close", &w.hotkeyClose), imui.Vec2{X: wide}) ||
		(w.hotkeyClose.KeyUp(f.Keys) && !ui.AnyItemActive()) {
		ui.CloseCurrentPopup()
	}
}

func (r SpawnRequest) String() string {
	return fmt.Sprintf("%08x (qty=%d, durability=%d)", r.ItemID, r.Qty, r.Durability)
}
