package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima-scene/engine/core"
	"github.com/spaghettifunk/anima-scene/engine/scene"
)

const DEFAULT_CAMERA_NAME = "default"

type cameraLookup struct {
	handle         *scene.Handle
	referenceCount uint16
}

// CameraSystem hands out camera nodes by name. A camera is spawned on the
// first Acquire of its name and released from the hub once every Acquire
// was matched by a Release.
type CameraSystem struct {
	Config *CameraSystemConfig

	hub     *scene.SharedHub
	mutex   sync.Mutex
	cameras map[string]*cameraLookup
	// A default, non-registered camera that always exists as a fallback.
	defaultCamera *scene.Handle
}

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/** @brief The maximum number of named cameras managed by the system. */
	MaxCameraCount uint16
	/** @brief The projection given to newly created cameras. */
	Projection scene.Projection
}

func NewCameraSystem(config *CameraSystemConfig, hub *scene.SharedHub) (*CameraSystem, error) {
	if config.MaxCameraCount == 0 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxCameraCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	if config.Projection == nil {
		config.Projection = scene.Perspective{FovY: 45, Near: 0.1, Far: 1000}
	}
	cs := &CameraSystem{
		Config:  config,
		hub:     hub,
		cameras: make(map[string]*cameraLookup, config.MaxCameraCount),
	}
	cs.defaultCamera = cs.spawn(DEFAULT_CAMERA_NAME)
	return cs, nil
}

func (cs *CameraSystem) spawn(name string) *scene.Handle {
	h := cs.hub.Spawn(&scene.Camera{Projection: cs.Config.Projection})
	h.SetName(name)
	return h
}

/**
 * @brief Releases every camera the system still holds.
 */
func (cs *CameraSystem) Shutdown() error {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	for name, c := range cs.cameras {
		c.handle.Release()
		delete(cs.cameras, name)
	}
	cs.defaultCamera.Release()
	return nil
}

/**
 * @brief Acquires a camera by name. If one is not found, a new one is
 * created. Internal reference counter is incremented.
 *
 * @param name The name of the camera to acquire.
 * @return A new handle to the camera; the caller must Release it.
 */
func (cs *CameraSystem) Acquire(name string) (*scene.Handle, error) {
	if name == DEFAULT_CAMERA_NAME {
		return cs.defaultCamera.Clone(), nil
	}
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	c, ok := cs.cameras[name]
	if !ok {
		if len(cs.cameras) >= int(cs.Config.MaxCameraCount) {
			err := fmt.Errorf("func CameraSystemAcquire failed to acquire new slot for '%s'. Adjust camera system config to allow more", name)
			core.LogError(err.Error())
			return nil, err
		}
		core.LogDebug("Creating new camera named '%s'...", name)
		c = &cameraLookup{handle: cs.spawn(name)}
		cs.cameras[name] = c
	}
	c.referenceCount++
	return c.handle.Clone(), nil
}

/**
 * @brief Releases a camera with the given name. Internal reference
 * counter is decremented. If this reaches 0, the system lets go of the
 * camera node.
 *
 * @param name The name of the camera to release.
 */
func (cs *CameraSystem) Release(name string) {
	if name == DEFAULT_CAMERA_NAME {
		core.LogDebug("Cannot release default camera. Nothing was done.")
		return
	}
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	c, ok := cs.cameras[name]
	if !ok {
		core.LogWarn("CameraSystemRelease failed lookup for '%s'. Nothing was done.", name)
		return
	}
	c.referenceCount--
	if c.referenceCount < 1 {
		c.handle.Release()
		delete(cs.cameras, name)
	}
}

/**
 * @brief Gets the default camera. The handle stays owned by the system.
 */
func (cs *CameraSystem) GetDefault() *scene.Handle {
	return cs.defaultCamera
}

func (cs *CameraSystem) Count() int {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	return len(cs.cameras)
}
