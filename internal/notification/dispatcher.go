package notification

import (
	"context"
	"log/slog"
	"sync"
)

// EmailJob is one email waiting for a worker.
type EmailJob struct {
	Recipients []string
	Subject    string
	Body       string
}

type Worker struct {
	ID         int
	WorkerPool chan chan EmailJob
	JobChannel chan EmailJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan EmailJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan EmailJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(EmailJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker sending email", "worker_id", w.ID, "subject", job.Subject)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	MaxWorkers   int
	JobQueueSize int
}

// Dispatcher fans email jobs out to a worker pool. Enqueue never blocks the
// caller; when the queue is full the job is dropped and logged.
type Dispatcher struct {
	mailer Mailer
	logger *slog.Logger

	jobQueue   chan EmailJob
	workerPool chan chan EmailJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewDispatcher(config Config, mailer Mailer, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 5
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	d := &Dispatcher{
		mailer:     mailer,
		logger:     logger,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan EmailJob, jobQueueSize),
		workerPool: make(chan chan EmailJob, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	d.startWorkerPool()

	return d
}

func (d *Dispatcher) startWorkerPool() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			worker := NewWorker(i, d.workerPool, d.logger)
			worker.Start(d.ctx, &d.wg, d.processEmailJob)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("notification worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case job := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				select {
				case jobChannel <- job:
				case <-d.ctx.Done():
					d.logger.Info("notification dispatcher shutting down")
					return
				}
			case <-d.ctx.Done():
				d.logger.Info("notification dispatcher shutting down")
				return
			}
		case <-d.ctx.Done():
			d.logger.Info("notification dispatcher shutting down")
			return
		}
	}
}

// Enqueue queues an email for background delivery.
func (d *Dispatcher) Enqueue(job EmailJob) {
	select {
	case d.jobQueue <- job:
		d.logger.Debug("email job queued", "subject", job.Subject, "recipients", len(job.Recipients))
	default:
		d.logger.Warn("notification queue full, dropping email",
			"subject", job.Subject,
			"recipients", job.Recipients)
	}
}

func (d *Dispatcher) Shutdown() {
	d.logger.Info("shutting down notification dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("notification dispatcher shutdown complete")
}

func (d *Dispatcher) processEmailJob(job EmailJob) {
	if len(job.Recipients) == 0 {
		d.logger.Warn("email job without recipients dropped", "subject", job.Subject)
		return
	}

	if err := d.mailer.Send(job.Recipients, job.Subject, job.Body); err != nil {
		d.logger.Error("failed to send email",
			"error", err,
			"subject", job.Subject,
			"recipients", job.Recipients)
		return
	}

	d.logger.Info("email sent", "subject", job.Subject, "recipients", len(job.Recipients))
}
