package charts

import (
	"fmt"
	"strings"
)

// Scene axes: x is the date, y the reps and z the weight.

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Camera struct {
	Eye Vector `json:"eye"`
	Up  Vector `json:"up"`
}

type CameraPreset string

const (
	CameraDefault    CameraPreset = "default"
	CameraWeightReps CameraPreset = "weight-reps"
	CameraWeightDate CameraPreset = "weight-date"
	CameraRepsDate   CameraPreset = "reps-date"
)

type CameraPresetInfo struct {
	Preset CameraPreset `json:"preset"`
	Label  string       `json:"label"`
	Camera *Camera      `json:"camera"`
}

var cameraPresets = []CameraPresetInfo{
	{
		Preset: CameraDefault,
		Label:  "Default",
	},
	{
		// looks at the y-z plane, reps vertical
		Preset: CameraWeightReps,
		Label:  "Weight / Reps (profile)",
		Camera: &Camera{Eye: Vector{X: 2.5}, Up: Vector{Y: 1}},
	},
	{
		// looks at the x-z plane, weight vertical
		Preset: CameraWeightDate,
		Label:  "Weight / Date (front)",
		Camera: &Camera{Eye: Vector{Y: -2.5}, Up: Vector{Z: 1}},
	},
	{
		// looks at the x-y plane, reps vertical
		Preset: CameraRepsDate,
		Label:  "Reps / Date (top)",
		Camera: &Camera{Eye: Vector{Z: 2.5}, Up: Vector{Y: 1}},
	},
}

func CameraPresets() []CameraPresetInfo {
	presets := make([]CameraPresetInfo, len(cameraPresets))
	copy(presets, cameraPresets)
	return presets
}

// ParseCameraPreset resolves a preset name; an empty name is the default preset.
func ParseCameraPreset(name string) (CameraPreset, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return CameraDefault, nil
	}
	for _, p := range cameraPresets {
		if string(p.Preset) == name {
			return p.Preset, nil
		}
	}
	return "", fmt.Errorf("unknown camera preset: %s", name)
}

// Camera returns the viewpoint of the preset, nil for the default one.
func (p CameraPreset) Camera() *Camera {
	for _, info := range cameraPresets {
		if info.Preset == p && info.Camera != nil {
			c := *info.Camera
			return &c
		}
	}
	return nil
}
