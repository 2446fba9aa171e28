package config

import (
	"sort"

	"github.com/san-kum/armsim/internal/arm"
)

// Presets are named joint poses, keyed by joint ID.
var Presets = map[string]arm.Pose{
	"reset": arm.ResetPose(),
	"reach": {
		1: 0, 2: -20, 3: 0,
		4: 0, 5: 35, 6: 0,
		7: 0, 8: 15, 9: 0,
		arm.GripperID: 100,
	},
	"fold": {
		1: 0, 2: -60, 3: 0,
		4: 0, 5: -150, 6: 0,
		7: 0, 8: 60, 9: 0,
		arm.GripperID: 0,
	},
	"wave": {
		1: 30, 2: -75, 3: 0,
		4: 0, 5: -45, 6: 90,
		7: 0, 8: -30, 9: 45,
		arm.GripperID: 80,
	},
	"horizontal": {
		1: 0, 2: 0, 3: 0,
		4: 0, 5: 0, 6: 0,
		7: 0, 8: 0, 9: 0,
		arm.GripperID: 50,
	},
}

// GetPreset returns a copy of the named pose, or nil.
func GetPreset(name string) arm.Pose {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	out := make(arm.Pose, len(p))
	for id, v := range p {
		out[id] = v
	}
	return out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
