package systems

import (
	"github.com/spaghettifunk/anima-scene/engine/scene"
)

type SystemManagerConfig struct {
	Workers      int
	JobQueueSize int
	Camera       CameraSystemConfig
	Font         FontSystemConfig
}

type SystemManager struct {
	cameraSystem *CameraSystem
	fontSystem   *FontSystem
	jobSystem    *JobSystem
}

func NewSystemManager(config *SystemManagerConfig, hub *scene.SharedHub) (*SystemManager, error) {
	js, err := NewJobSystem(config.Workers, config.JobQueueSize)
	if err != nil {
		return nil, err
	}
	cs, err := NewCameraSystem(&config.Camera, hub)
	if err != nil {
		js.Shutdown()
		return nil, err
	}
	fs, err := NewFontSystem(&config.Font)
	if err != nil {
		cs.Shutdown()
		js.Shutdown()
		return nil, err
	}
	return &SystemManager{
		cameraSystem: cs,
		fontSystem:   fs,
		jobSystem:    js,
	}, nil
}

func (sm *SystemManager) CameraSystem() *CameraSystem { return sm.cameraSystem }
func (sm *SystemManager) FontSystem() *FontSystem     { return sm.fontSystem }
func (sm *SystemManager) JobSystem() *JobSystem       { return sm.jobSystem }

// Shutdown stops the systems in reverse order of creation.
func (sm *SystemManager) Shutdown() error {
	if err := sm.fontSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.cameraSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
