package composition

import "testing"

func TestApplyAreaDefaultsNeverOverwrites(t *testing.T) {
	f := &Feature{
		Header: Header{
			FeatureID:  "mtn-1",
			Parameters: map[string]string{"g_offset": "99"},
		},
		Area: &AreaFeature{Type: AreaMountains, Height: HeightHighPeaks},
	}

	ApplyAreaDefaults(f)

	if f.Header.Parameters["g_offset"] != "99" {
		t.Errorf("g_offset = %q, want caller-supplied 99 preserved", f.Header.Parameters["g_offset"])
	}
	if f.Header.Parameters["g_builder"] != "mountain" {
		t.Errorf("g_builder = %q, want default 'mountain'", f.Header.Parameters["g_builder"])
	}
	if f.Header.Parameters["g_roughness"] != "0.95" {
		t.Errorf("g_roughness = %q, want height-specific default 0.95", f.Header.Parameters["g_roughness"])
	}
}

func TestApplyAreaDefaultsForestPreset(t *testing.T) {
	f := &Feature{
		Header: Header{FeatureID: "forest-1"},
		Area:   &AreaFeature{Type: AreaForest},
	}

	n := ApplyAreaDefaults(f)
	if n == 0 {
		t.Fatal("expected at least one default applied")
	}
	if f.Header.Parameters["g_flora"] != "forest" {
		t.Errorf("g_flora = %q, want 'forest'", f.Header.Parameters["g_flora"])
	}
}

func TestApplyAreaDefaultsNonAreaFeatureNoop(t *testing.T) {
	f := &Feature{Header: Header{FeatureID: "point-1"}, Point: &PointFeature{}}
	if n := ApplyAreaDefaults(f); n != 0 {
		t.Errorf("ApplyAreaDefaults on non-Area feature set %d keys, want 0", n)
	}
}
