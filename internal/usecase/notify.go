package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"mysql-backup-service/internal/domain"
)

// Dispatcher fans a run summary out to every enabled channel. Channels are
// independent: a failed delivery is logged and never suppresses the others,
// and never changes the run's own outcome.
type Dispatcher struct {
	channels []domain.Notifier
	logger   Logger
	timeout  time.Duration
}

func NewDispatcher(channels []domain.Notifier, logger Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{channels: channels, logger: logger, timeout: timeout}
}

// Dispatch renders the summary once and attempts delivery on each channel
// with its own timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, report *domain.RunReport) {
	if len(d.channels) == 0 {
		return
	}

	subject, message := Summarize(report)

	var wg sync.WaitGroup
	for _, ch := range d.channels {
		wg.Add(1)
		go func(n domain.Notifier) {
			defer wg.Done()

			sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()

			if err := n.Send(sendCtx, subject, message); err != nil {
				d.logger.Errorf("%v", err)
				return
			}
			d.logger.Infof("Notification sent via %s", n.Name())
		}(ch)
	}
	wg.Wait()
}

// Summarize renders the human-readable run summary shared by all channels.
func Summarize(r *domain.RunReport) (subject, message string) {
	total := len(r.Results)

	switch {
	case total == 0:
		subject = "MySQL backup: no targets configured"
	case r.Outcome == domain.OutcomeSuccess:
		subject = fmt.Sprintf("MySQL backup OK: %d/%d succeeded", r.Succeeded(), total)
	default:
		subject = fmt.Sprintf("MySQL backup FAILED: %d/%d succeeded", r.Succeeded(), total)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Started:  %s\n", r.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Duration: %s\n", r.Duration().Round(time.Second))

	if total > 0 {
		b.WriteString("\n")
		for _, res := range r.Results {
			switch res.Outcome {
			case domain.OutcomeSuccess:
				fmt.Fprintf(&b, "  [ok]      %s (%s) %s\n",
					res.Profile, FormatBytes(res.Artifact.Size), res.Artifact.Filename)
			case domain.OutcomeSkipped:
				fmt.Fprintf(&b, "  [skipped] %s: %s\n", res.Profile, res.Error)
			default:
				fmt.Fprintf(&b, "  [failed]  %s: %s\n", res.Profile, res.Error)
			}
		}
	}

	if r.Retention != nil {
		fmt.Fprintf(&b, "\nRetention: %d removed of %d checked, %s freed\n",
			r.Retention.FilesRemoved, r.Retention.FilesChecked, FormatBytes(r.Retention.SpaceFreed))
		for _, e := range r.Retention.Errors {
			fmt.Fprintf(&b, "  [retention error] %s\n", e)
		}
	}

	return subject, b.String()
}
