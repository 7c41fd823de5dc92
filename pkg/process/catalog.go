package process

import "github.com/arnisgo/arnis/pkg/block"

// highwayWidths maps a highway tag value to its rasterized width in
// blocks.
var highwayWidths = map[string]int32{
	"motorway": 8, "trunk": 7, "primary": 6, "secondary": 5,
	"tertiary": 4, "residential": 3, "unclassified": 3, "living_street": 3,
	"service": 2, "footway": 2, "pedestrian": 2, "path": 1, "track": 1,
}

func highwayWidth(tag string) int32 {
	if w, ok := highwayWidths[tag]; ok {
		return w
	}
	return 2
}

// highwaySurface returns the block placed for a highway's rasterized
// width: asphalt-equivalent for roads, gravel for paths.
func highwaySurface(tag string) block.Block {
	switch tag {
	case "path", "track", "footway", "pedestrian":
		return block.Gravel
	default:
		return block.SmoothStone
	}
}

// buildingMaterials is the deterministic fallback pool a building picks
// from when building:material is absent.
var buildingMaterials = []block.Block{
	block.Cobblestone, block.StoneBricks, block.OakPlanks, block.Andesite, block.SmoothStone,
}

func buildingMaterialFor(tags map[string]string, id int64) block.Block {
	if m, ok := tags["building:material"]; ok {
		if b, ok := namedMaterial(m); ok {
			return b
		}
	}
	rng := elementRNG(id)
	return buildingMaterials[rng.Intn(len(buildingMaterials))]
}

func namedMaterial(name string) (block.Block, bool) {
	switch name {
	case "brick":
		return block.New("bricks"), true
	case "stone":
		return block.StoneBricks, true
	case "wood":
		return block.OakPlanks, true
	case "concrete":
		return block.SmoothStone, true
	case "glass":
		return block.Glass, true
	default:
		return block.Block{}, false
	}
}

// barrierWall is the block a barrier way is rasterized with.
var barrierWall = block.Cobblestone

// landuseSurface maps a landuse/natural/leisure tag value to its surface
// replacement block.
var landuseSurface = map[string]block.Block{
	"forest": block.GrassBlock, "farmland": block.Farmland, "meadow": block.GrassBlock,
	"grass": block.GrassBlock, "residential": block.GrassBlock, "industrial": block.Gravel,
	"cemetery": block.GrassBlock, "construction": block.CoarseDirt, "military": block.Gravel,
	"railway": block.Gravel,
	"water": block.Water, "wood": block.GrassBlock, "scrub": block.GrassBlock,
	"beach": block.Sand, "heath": block.GrassBlock, "sand": block.Sand,
	"rock": block.Stone, "wetland": block.Gravel,
	"park": block.GrassBlock, "pitch": block.GrassBlock, "garden": block.GrassBlock,
	"playground": block.Sand, "golf_course": block.GrassBlock,
	"camp_site": block.CoarseDirt, "picnic_site": block.GrassBlock,
}

func surfaceFor(tagValue string) (block.Block, bool) {
	b, ok := landuseSurface[tagValue]
	return b, ok
}

// treeSpecies is the deterministic fallback species pool for trees with
// no explicit species tag.
var treeSpecies = []string{"oak", "spruce", "birch", "jungle", "acacia", "dark_oak"}

func treeSpeciesFor(tags map[string]string, id int64) string {
	if sp, ok := tags["species"]; ok {
		return sp
	}
	rng := elementRNG(id)
	return treeSpecies[rng.Intn(len(treeSpecies))]
}

// amenityDecoration is the single-block or small composite prop placed
// for a point amenity.
var amenityDecoration = map[string]block.Block{
	"bench": block.OakPlanks, "fountain": block.Water,
	"waste_basket": block.IronBars, "vending_machine": block.IronBars,
}

func amenityDecorationFor(tag string) (block.Block, bool) {
	b, ok := amenityDecoration[tag]
	return b, ok
}

// amenitySurface is the surface treatment for polygon amenities.
var amenitySurface = map[string]block.Block{
	"parking": block.Gravel, "school": block.GrassBlock, "hospital": block.SmoothStone,
	"place_of_worship": block.StoneBricks,
}

func amenitySurfaceFor(tag string) (block.Block, bool) {
	b, ok := amenitySurface[tag]
	return b, ok
}
