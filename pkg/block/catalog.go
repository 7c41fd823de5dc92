package block

// WoodSpecies lists the wood species the catalog recognizes for logs,
// leaves, planks, doors, fences, and signs.
var WoodSpecies = []string{"oak", "birch", "spruce", "jungle", "acacia", "dark_oak"}

func isWoodSpecies(name string) bool {
	for _, s := range WoodSpecies {
		if s == name {
			return true
		}
	}
	return false
}

// Catalog returns one representative instance of every block family the
// processors place. It exists for documentation and
// tests, not for hot-path lookups.
func Catalog() []Block {
	out := []Block{
		Air, Sponge, Dirt, CoarseDirt, GrassBlock, Stone, Bedrock, Sand, Gravel,
		Snow, SnowBlock, Glass, GlassPane, Glowstone, Water, PackedIce, Ice,
		SmoothStone, Cobblestone, StoneBricks, Andesite, PolishedAndesite,
		IronBars, HayBlock, Farmland, Pumpkin, Melon, RedstoneLamp,
	}
	for _, c := range []string{"white", "orange", "red", "blue", "yellow", "green", "black"} {
		out = append(out, Wool(c), Carpet(c))
	}
	for _, s := range WoodSpecies {
		out = append(out, Log(s), Leaves(s), Planks(s), Door(s), Fence(s), Sign(s, 0))
	}
	for _, m := range []string{"cobblestone", "stone_brick", "andesite", "oak"} {
		out = append(out, Wall(m))
	}
	for _, k := range []string{"rail", "powered_rail", "detector_rail", "activator_rail"} {
		out = append(out, Rail(k))
	}
	return out
}

// ResolveDoor validates a door species lifted from an OSM tag against the
// catalog's known wood species (plus "iron"): in
// debug mode an unrecognized species is a reported error the caller must
// treat as fatal; in release it silently degrades to Air rather than
// guessing a material.
func ResolveDoor(species string, debug bool) (Block, error) {
	if species == "iron" || isWoodSpecies(species) {
		return Door(species), nil
	}
	if debug {
		return Door("oak"), &UnknownBlock{Name: "minecraft:" + species + "_door"}
	}
	return Air, nil
}
