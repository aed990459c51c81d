package systems

import (
	"errors"
	"sync"

	"github.com/spaghettifunk/anima-scene/engine/core"
)

// JobTask describes one unit of work run by a JobSystem worker.
type JobTask struct {
	/** @brief Data passed to OnStart and to the result callbacks. */
	InputParams interface{}
	/** @brief Invoked when the job starts. Required. */
	OnStart func(params interface{}) error
	/** @brief Invoked when OnStart succeeds. Optional. */
	OnComplete func(params interface{})
	/** @brief Invoked when OnStart fails. Optional. */
	OnFailure func(params interface{}, err error)
	/** @brief Invoked after either outcome. Optional. */
	OnCompletionCallback func()
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup
	pending    sync.WaitGroup

	mutex    sync.RWMutex
	isClosed bool
}

var (
	ErrNoWorkers           = errors.New("attempting to create worker pool with less than 1 worker")
	ErrNegativeChannelSize = errors.New("attempting to create worker pool with a negative channel size")
	ErrJobSystemClosed     = errors.New("job system already shut down")
	ErrMissingEntryPoint   = errors.New("job submitted without OnStart")
)

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job JobTask) {
	defer js.pending.Done()
	if err := job.OnStart(job.InputParams); err != nil {
		core.LogError(err.Error())
		if job.OnFailure != nil {
			job.OnFailure(job.InputParams, err)
		}
	} else if job.OnComplete != nil {
		job.OnComplete(job.InputParams)
	}

	// Call the completion callback if set
	if job.OnCompletionCallback != nil {
		job.OnCompletionCallback()
	}
}

/**
 * @brief Shuts the job system down once every queued job ran.
 */
func (js *JobSystem) Shutdown() error {
	js.mutex.Lock()
	if js.isClosed {
		js.mutex.Unlock()
		return ErrJobSystemClosed
	}
	js.isClosed = true
	close(js.jobQueue)
	js.mutex.Unlock()

	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the queue is full.
 * @param jt The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	if jt.OnStart == nil {
		return ErrMissingEntryPoint
	}
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	if js.isClosed {
		return ErrJobSystemClosed
	}
	js.pending.Add(1)
	js.jobQueue <- jt
	return nil
}

// Wait blocks until every job submitted so far has run.
func (js *JobSystem) Wait() {
	js.pending.Wait()
}

func (js *JobSystem) Workers() int {
	return js.numWorkers
}
