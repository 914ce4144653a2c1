package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/invoicing-system/internal/api/metrics"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes verification mail to a fixed set of workers using
// consistent hashing on the recipient, so mails to one address go out in the
// order they were requested.
type Dispatcher struct {
	workers []chan ports.VerificationMail
	mailer  ports.Mailer
	log     zerolog.Logger
}

var _ ports.MailQueue = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.VerificationMail, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.VerificationMail, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a mail to the worker responsible for its recipient. It never
// blocks: when that worker's buffer is full the mail is dropped and logged.
func (d *Dispatcher) Enqueue(mail ports.VerificationMail) {
	idx := d.shardIndex(mail.Email)
	select {
	case d.workers[idx] <- mail:
	default:
		metrics.VerificationMailsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("email", mail.Email).
			Int("worker_id", idx).
			Msg("mail queue full, verification mail dropped")
		return
	}
	metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(email)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.VerificationMail) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case mail, ok := <-ch:
			if !ok {
				return
			}
			metrics.MailQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.mailer.SendVerification(ctx, mail); err != nil {
				metrics.VerificationMailsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("email", mail.Email).
					Int("worker_id", id).
					Msg("verification mail failed")
				continue
			}
			metrics.VerificationMailsTotal.WithLabelValues("sent").Inc()
		}
	}
}
