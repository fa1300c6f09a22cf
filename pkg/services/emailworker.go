package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/util"

	"github.com/sirupsen/logrus"
)

const emailJobTimeout = 30 * time.Second

// EmailJob asks a worker to tell the submitter about a review decision.
type EmailJob struct {
	Request models.VerificationRequest
}

// EmailWorkerPool delivers decision emails off the request path.
type EmailWorkerPool struct {
	jobs  chan EmailJob
	size  int
	users UserStore
	email EmailService

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewEmailWorkerPool creates a pool of size workers sharing a queue of
// size*8 jobs. Call Start before enqueueing.
func NewEmailWorkerPool(size int, users UserStore, email EmailService) *EmailWorkerPool {
	if size < 1 {
		size = 1
	}
	return &EmailWorkerPool{
		jobs:  make(chan EmailJob, size*8),
		size:  size,
		users: users,
		email: email,
	}
}

func (pool *EmailWorkerPool) Start() {
	for id := 0; id < pool.size; id++ {
		pool.wg.Add(1)
		go pool.work(id)
	}
	util.LogInfo("email workers started", logrus.Fields{"workers": pool.size})
}

// Stop closes the queue and waits for queued jobs to drain.
func (pool *EmailWorkerPool) Stop() {
	pool.mu.Lock()
	if pool.stopped {
		pool.mu.Unlock()
		return
	}
	pool.stopped = true
	close(pool.jobs)
	pool.mu.Unlock()

	pool.wg.Wait()
	util.LogInfo("email workers stopped", logrus.Fields{"workers": pool.size})
}

// Enqueue never blocks. It reports false when the queue is full or stopped.
func (pool *EmailWorkerPool) Enqueue(job EmailJob) bool {
	pool.mu.RLock()
	defer pool.mu.RUnlock()
	if pool.stopped {
		return false
	}
	select {
	case pool.jobs <- job:
		return true
	default:
		return false
	}
}

func (pool *EmailWorkerPool) work(id int) {
	defer pool.wg.Done()
	for job := range pool.jobs {
		if err := pool.deliver(job); err != nil {
			util.LogError("services", "EmailWorkerPool", fmt.Sprintf("worker %d", id), job.Request.ID.Hex(), err)
		}
	}
}

func (pool *EmailWorkerPool) deliver(job EmailJob) error {
	ctx, cancel := context.WithTimeout(context.Background(), emailJobTimeout)
	defer cancel()

	user, err := pool.users.FindByID(ctx, job.Request.UserID)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s %s", user.FirstName, user.LastName)
	return pool.email.SendVerificationDecisionEmail(ctx, user.Email, name, &job.Request)
}
