// Package block defines the immutable block descriptors placed by the
// generation pipeline: a namespaced id plus an ordered set of properties,
// equivalent to a Java Edition block state.
package block

import (
	"strconv"
	"strings"
)

// Block is an immutable (namespace, name, properties) triple. The zero
// value is not a valid block; use Air or New.
type Block struct {
	namespace  string
	name       string
	properties []property
}

type property struct {
	key, value string
}

// New constructs a block with no properties in the minecraft namespace.
func New(name string) Block {
	return Block{namespace: "minecraft", name: name}
}

// NewNamespaced constructs a block in an arbitrary namespace.
func NewNamespaced(namespace, name string) Block {
	return Block{namespace: namespace, name: name}
}

// With returns a copy of b with the given property set (or overwritten).
func (b Block) With(key, value string) Block {
	props := make([]property, 0, len(b.properties)+1)
	replaced := false
	for _, p := range b.properties {
		if p.key == key {
			props = append(props, property{key, value})
			replaced = true
			continue
		}
		props = append(props, p)
	}
	if !replaced {
		props = append(props, property{key, value})
	}
	return Block{namespace: b.namespace, name: b.name, properties: props}
}

// Property returns the value for key and whether it was set.
func (b Block) Property(key string) (string, bool) {
	for _, p := range b.properties {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// Name returns the bare block name (without namespace).
func (b Block) Name() string { return b.name }

// Namespace returns the block's namespace, usually "minecraft".
func (b Block) Namespace() string { return b.namespace }

// NamespacedID returns "namespace:name", the form Minecraft's NBT palette
// entries use.
func (b Block) NamespacedID() string { return b.namespace + ":" + b.name }

// Equal reports whether two blocks have the same namespaced name and the
// same set of properties (order-independent).
func (b Block) Equal(o Block) bool {
	if b.namespace != o.namespace || b.name != o.name {
		return false
	}
	if len(b.properties) != len(o.properties) {
		return false
	}
	for _, p := range b.properties {
		v, ok := o.Property(p.key)
		if !ok || v != p.value {
			return false
		}
	}
	return true
}

// IsAir reports whether b is the air sentinel.
func (b Block) IsAir() bool { return b.namespace == "minecraft" && b.name == "air" }

// Key returns a stable string uniquely identifying this block state,
// suitable as a map key or palette dedup key. Properties are written
// sorted by key, so blocks that are Equal share one Key.
func (b Block) Key() string {
	if len(b.properties) == 0 {
		return b.NamespacedID()
	}
	props := make([]property, len(b.properties))
	copy(props, b.properties)
	for i := 1; i < len(props); i++ {
		for j := i; j > 0 && props[j].key < props[j-1].key; j-- {
			props[j], props[j-1] = props[j-1], props[j]
		}
	}
	var sb strings.Builder
	sb.WriteString(b.NamespacedID())
	sb.WriteByte('[')
	for i, p := range props {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.key)
		sb.WriteByte('=')
		sb.WriteString(p.value)
	}
	sb.WriteByte(']')
	return sb.String()
}

// Properties returns a copy of the block's properties as a map for NBT
// encoding; the map carries no order (PropertyOrder gives insertion order).
func (b Block) Properties() map[string]string {
	if len(b.properties) == 0 {
		return nil
	}
	m := make(map[string]string, len(b.properties))
	for _, p := range b.properties {
		m[p.key] = p.value
	}
	return m
}

// PropertyOrder returns the property keys in the order they were set, so
// callers needing deterministic iteration (palette serialization) don't
// depend on Go's randomized map order.
func (b Block) PropertyOrder() []string {
	keys := make([]string, len(b.properties))
	for i, p := range b.properties {
		keys[i] = p.key
	}
	return keys
}

// Sentinel and frequently used blocks. SPONGE is a placement-protection
// marker: processors that should never overwrite existing
// claimed ground pass it in their blacklist.
var (
	Air        = New("air")
	Sponge     = New("sponge")
	Dirt       = New("dirt")
	CoarseDirt = New("coarse_dirt")
	GrassBlock = New("grass_block")
	Stone      = New("stone")
	Bedrock    = New("bedrock")
	Sand       = New("sand")
	Gravel     = New("gravel")
	Snow       = New("snow")
	SnowBlock  = New("snow_block")

	Glass     = New("glass")
	GlassPane = New("glass_pane")
	Glowstone = New("glowstone")

	Water     = New("water")
	PackedIce = New("packed_ice")
	Ice       = New("ice")

	SmoothStone  = New("smooth_stone")
	Cobblestone  = New("cobblestone")
	StoneBricks  = New("stone_bricks")
	Andesite     = New("andesite")
	PolishedAndesite = New("polished_andesite")

	OakPlanks    = New("oak_planks")
	SpruceLeaves = New("spruce_leaves")
	OakLeaves    = New("oak_leaves")
	OakLog       = New("oak_log")

	IronBars     = New("iron_bars")
	HayBlock     = New("hay_block")
	Farmland     = New("farmland")
	Pumpkin      = New("pumpkin")
	Melon        = New("melon")
	RedstoneLamp = New("redstone_lamp")
)

// Wool returns the wool block for a Minecraft dye color name, e.g. "white",
// "red", "light_blue".
func Wool(color string) Block { return New(color + "_wool") }

// Carpet returns the carpet block for a dye color.
func Carpet(color string) Block { return New(color + "_carpet") }

// Log returns the log block for a wood species, e.g. "oak", "birch",
// "spruce", "jungle", "acacia", "dark_oak".
func Log(species string) Block { return New(species + "_log") }

// Leaves returns the leaves block for a wood species.
func Leaves(species string) Block { return New(species + "_leaves") }

// Planks returns the planks block for a wood species.
func Planks(species string) Block { return New(species + "_planks") }

// Door returns the lower-half door block for a wood (or material) species,
// e.g. "oak", "iron".
func Door(species string) Block { return New(species + "_door") }

// Stairs returns a stair block oriented toward facing ("north", "south",
// "east", or "west") for the given base material name (e.g. "oak",
// "cobblestone", "stone_brick").
func Stairs(material, facing string) Block {
	return New(material + "_stairs").With("facing", facing)
}

// Slab returns a slab block of the given type ("top", "bottom", or
// "double") for the given base material.
func Slab(material, slabType string) Block {
	return New(material + "_slab").With("type", slabType)
}

// Fence returns the fence block for a wood species.
func Fence(species string) Block { return New(species + "_fence") }

// Wall returns the wall block for a stone-like material, e.g.
// "cobblestone", "stone_brick", "andesite".
func Wall(material string) Block { return New(material + "_wall") }

// Sign returns a standing sign block for a wood species, with its facing
// rotation encoded as the "rotation" property (0-15, matching the 16-step
// Java Edition sign dial).
func Sign(species string, rotation int) Block {
	r := rotation % 16
	if r < 0 {
		r += 16
	}
	return New(species + "_sign").With("rotation", strconv.Itoa(r))
}

// Rail returns the rail block variant: "rail", "powered_rail",
// "detector_rail", or "activator_rail".
func Rail(kind string) Block { return New(kind) }
