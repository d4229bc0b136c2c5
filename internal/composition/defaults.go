package composition

// areaDefaults is the built-in table of default parameters applied to an Area by
// type, mirroring the teacher's faction registry pattern (registry.go's
// GetByTerrain / StandardStartingResources): one lookup keyed by subtype, with a
// handful of standard fallback values layered underneath.
var areaDefaults = map[AreaType]map[string]string{
	AreaPlains: {
		"g_builder": "plains",
		"g_offset":  "0",
	},
	AreaForest: {
		"g_builder": "forest",
		"g_offset":  "2",
		"g_flora":   "forest",
	},
	AreaMountains: {
		"g_builder":   "mountain",
		"g_offset":    "30",
		"g_roughness": "0.8",
	},
	AreaDesert: {
		"g_builder": "desert",
		"g_offset":  "1",
		"g_flora":   "sparse",
	},
	AreaSwamp: {
		"g_builder": "swamp",
		"g_offset":  "-1",
		"g_flora":   "wetland",
	},
	AreaOcean: {
		"g_builder": "ocean",
		"g_offset":  "-10",
	},
	AreaCoast: {
		"g_builder": "coast",
		"g_offset":  "0",
	},
	AreaIsland: {
		"g_builder": "island",
		"g_offset":  "3",
	},
	AreaVillage: {
		"g_builder": "village",
		"g_offset":  "0",
	},
	AreaTown: {
		"g_builder": "town",
		"g_offset":  "0",
	},
}

// mountainHeightOffsets refines g_roughness/g_offset for MOUNTAINS areas by their
// Height sub-enum; applied before the base AreaMountains defaults so these values
// win over the base ones, still never overwriting a value the caller already set.
var mountainHeightOffsets = map[MountainHeight]map[string]string{
	HeightHighPeaks:   {"g_offset": "45", "g_roughness": "0.95"},
	HeightMediumPeaks: {"g_offset": "30", "g_roughness": "0.8"},
	HeightLowPeaks:    {"g_offset": "18", "g_roughness": "0.6"},
	HeightMeadow:      {"g_offset": "10", "g_roughness": "0.3"},
}

// ApplyAreaDefaults fills in an Area feature's parameters from the built-in type
// table, never overwriting a value already present. Returns the number of keys set.
func ApplyAreaDefaults(f *Feature) int {
	if f.Area == nil {
		return 0
	}
	params := f.EnsureParameters()
	set := 0

	if f.Area.Type == AreaMountains && f.Area.Height != "" {
		set += applyDefaultsInto(params, mountainHeightOffsets[f.Area.Height])
	}
	set += applyDefaultsInto(params, areaDefaults[f.Area.Type])
	return set
}

func applyDefaultsInto(params map[string]string, defaults map[string]string) int {
	set := 0
	for k, v := range defaults {
		if _, exists := params[k]; exists {
			continue
		}
		params[k] = v
		set++
	}
	return set
}
