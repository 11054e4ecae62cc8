package rtscam

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// cameraConfigFile is the on-disk tuning schema. Angles are degrees in the
// file and radians everywhere else.
type cameraConfigFile struct {
	HeightMin    float32 `yaml:"height_min"`
	HeightMax    float32 `yaml:"height_max"`
	MinAngleDeg  float32 `yaml:"min_angle_deg"`
	DynamicAngle bool    `yaml:"dynamic_angle"`
	Smoothness   float32 `yaml:"smoothness"`

	Bounds *struct {
		MinX float32 `yaml:"min_x"`
		MinZ float32 `yaml:"min_z"`
		MaxX float32 `yaml:"max_x"`
		MaxZ float32 `yaml:"max_z"`
	} `yaml:"bounds"`

	PanSpeed        float32 `yaml:"pan_speed"`
	EdgePanWidth    float32 `yaml:"edge_pan_width"`
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"`
}

// CameraConfig is the loaded, validated tuning set applied to cameras and
// their controls.
type CameraConfig struct {
	Settings        CameraSettings
	PanSpeed        float32
	EdgePanWidth    float32
	ZoomSensitivity float32
}

// LoadCameraConfig reads a YAML tuning file. Missing fields fall back to
// defaults; invalid values fail the load rather than propagating NaNs into
// the per-frame math.
func LoadCameraConfig(path string) (CameraConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CameraConfig{}, fmt.Errorf("camera config: %w", err)
	}
	return parseCameraConfig(data)
}

func parseCameraConfig(data []byte) (CameraConfig, error) {
	defaults := DefaultCameraSettings()
	file := cameraConfigFile{
		HeightMin:       defaults.HeightMin,
		HeightMax:       defaults.HeightMax,
		MinAngleDeg:     mgl32.RadToDeg(defaults.MinAngle),
		DynamicAngle:    defaults.DynamicAngle,
		Smoothness:      defaults.Smoothness,
		PanSpeed:        defaultPanSpeed,
		EdgePanWidth:    0.05,
		ZoomSensitivity: defaultZoomSensitivity,
	}

	if err := yaml.Unmarshal(data, &file); err != nil {
		return CameraConfig{}, fmt.Errorf("camera config: %w", err)
	}

	settings := CameraSettings{
		HeightMin:    file.HeightMin,
		HeightMax:    file.HeightMax,
		MinAngle:     mgl32.DegToRad(file.MinAngleDeg),
		DynamicAngle: file.DynamicAngle,
		Smoothness:   file.Smoothness,
		Bounds:       defaults.Bounds,
	}
	if file.Bounds != nil {
		settings.Bounds = CameraBounds{
			Min: mgl32.Vec2{file.Bounds.MinX, file.Bounds.MinZ},
			Max: mgl32.Vec2{file.Bounds.MaxX, file.Bounds.MaxZ},
		}
	}

	if err := settings.Validate(); err != nil {
		return CameraConfig{}, err
	}
	if file.PanSpeed <= 0 {
		return CameraConfig{}, fmt.Errorf("camera config: pan_speed must be positive, got %v", file.PanSpeed)
	}
	if file.EdgePanWidth < 0 || file.EdgePanWidth >= 0.5 {
		return CameraConfig{}, fmt.Errorf("camera config: edge_pan_width must be in [0, 0.5), got %v", file.EdgePanWidth)
	}

	return CameraConfig{
		Settings:        settings,
		PanSpeed:        file.PanSpeed,
		EdgePanWidth:    file.EdgePanWidth,
		ZoomSensitivity: file.ZoomSensitivity,
	}, nil
}

type cameraConfigState struct {
	Path    string
	Config  CameraConfig
	watcher *Watcher
	// Apply once on startup so cameras spawned before the module see it too.
	dirty bool
}

// CameraConfigModule loads camera tuning from a YAML file and, when
// HotReload is set, re-applies it whenever the file changes on disk. A
// reload that fails validation keeps the last good config.
type CameraConfigModule struct {
	Path      string
	HotReload bool
}

func (m CameraConfigModule) Install(app *App, cmd *Commands) {
	config, err := LoadCameraConfig(m.Path)
	if err != nil {
		panic(err)
	}

	state := &cameraConfigState{
		Path:   m.Path,
		Config: config,
		dirty:  true,
	}

	if m.HotReload {
		watcher, err := NewWatcher(m.Path)
		if err != nil {
			panic(err)
		}
		state.watcher = watcher
	}

	cmd.AddResources(state)
	applier := &cameraConfigApplier{app: app}
	app.UseSystem(System(applier.apply).InStage(PreUpdate))
}

type cameraConfigApplier struct {
	app *App
}

func (c *cameraConfigApplier) apply(cmd *Commands, state *cameraConfigState) {
	if state.watcher != nil {
		select {
		case <-state.watcher.Events:
			config, err := LoadCameraConfig(state.Path)
			if err != nil {
				c.app.Logger().Warnf("camera config reload rejected, keeping previous: %v", err)
			} else {
				state.Config = config
				state.dirty = true
				c.app.Logger().Infof("camera config reloaded from %s", state.Path)
			}
		case err := <-state.watcher.Errors:
			c.app.Logger().Warnf("camera config watcher: %v", err)
		default:
		}
	}

	if !state.dirty {
		return
	}
	state.dirty = false

	MakeQuery2[RtsCamera, CameraControls](cmd).Map(func(eid EntityId, cam *RtsCamera, ctrl *CameraControls) bool {
		cam.Settings = state.Config.Settings
		if ctrl != nil {
			ctrl.PanSpeed = state.Config.PanSpeed
			ctrl.EdgePanWidth = state.Config.EdgePanWidth
			ctrl.ZoomSensitivity = state.Config.ZoomSensitivity
		}
		return true
	}, CameraControls{})
}
