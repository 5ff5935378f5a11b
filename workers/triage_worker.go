package workers

import (
	"context"
	"floodguard/models"
	"floodguard/repositories"
	"floodguard/services"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	triageQueueSize    = 256
	triageWorkerCount  = 2
	triageSweepPeriod  = 30 * time.Second
	triageSweepBatch   = 50
	triageCallTimeout  = 20 * time.Second
	triageWriteTimeout = 10 * time.Second
)

// TriageWorker scores reported incidents asynchronously. Fresh reports
// arrive on the queue; a periodic sweep picks up anything missed across a
// restart, so every incident is eventually triaged exactly once (the
// conditional MarkTriaged update absorbs duplicates).
type TriageWorker struct {
	incidentRepo *repositories.IncidentRepository
	alertService *services.AlertService
	oracle       services.TriageOracle

	queue chan string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTriageWorker(incidentRepo *repositories.IncidentRepository, alertService *services.AlertService, oracle services.TriageOracle) *TriageWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &TriageWorker{
		incidentRepo: incidentRepo,
		alertService: alertService,
		oracle:       oracle,
		queue:        make(chan string, triageQueueSize),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Enqueue hands a freshly reported incident to the worker. Never blocks;
// a full queue is fine because the sweep will find the incident anyway.
func (w *TriageWorker) Enqueue(incidentID string) {
	select {
	case w.queue <- incidentID:
	default:
		logrus.Warnf("Triage queue full, incident %s deferred to sweep", incidentID)
	}
}

func (w *TriageWorker) Start() {
	logrus.Infof("Triage worker starting with %d workers", triageWorkerCount)

	for i := 0; i < triageWorkerCount; i++ {
		w.wg.Add(1)
		go w.run()
	}

	w.wg.Add(1)
	go w.sweep()
}

func (w *TriageWorker) Stop() {
	logrus.Info("Triage worker stopping...")
	w.cancel()
	w.wg.Wait()
	logrus.Info("Triage worker stopped")
}

func (w *TriageWorker) run() {
	defer w.wg.Done()

	for {
		select {
		case incidentID := <-w.queue:
			w.processIncident(incidentID)
		case <-w.ctx.Done():
			return
		}
	}
}

// sweep periodically re-queues incidents still awaiting triage, oldest
// first. This is the restart catch-up path.
func (w *TriageWorker) sweep() {
	defer w.wg.Done()

	ticker := time.NewTicker(triageSweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(w.ctx, triageWriteTimeout)
			incidents, err := w.incidentRepo.ListUntriaged(ctx, triageSweepBatch)
			cancel()
			if err != nil {
				logrus.Errorf("Triage sweep failed: %v", err)
				continue
			}

			for _, incident := range incidents {
				w.Enqueue(incident.ID.Hex())
			}

		case <-w.ctx.Done():
			return
		}
	}
}

func (w *TriageWorker) processIncident(incidentID string) {
	readCtx, cancel := context.WithTimeout(w.ctx, triageWriteTimeout)
	incident, err := w.incidentRepo.GetByID(readCtx, incidentID)
	cancel()
	if err != nil {
		logrus.Errorf("Triage lookup failed for incident %s: %v", incidentID, err)
		return
	}

	if incident.Status != models.IncidentStatusReported {
		return
	}

	assessCtx, cancel := context.WithTimeout(w.ctx, triageCallTimeout)
	result := w.oracle.Assess(assessCtx, services.TriageInput{
		Latitude:    incident.Location.Latitude,
		Longitude:   incident.Location.Longitude,
		HasPhoto:    incident.PhotoURL != "",
		Description: incident.Description,
	})
	cancel()

	writeCtx, cancel := context.WithTimeout(w.ctx, triageWriteTimeout)
	defer cancel()

	severity := severityForRisk(result.RiskScore)
	if err := w.incidentRepo.MarkTriaged(writeCtx, incidentID, severity, result.Reason); err != nil {
		// Another worker got there first, or the incident vanished
		logrus.Debugf("Incident %s not marked triaged: %v", incidentID, err)
		return
	}

	logrus.Infof("Incident %s triaged as %s", incidentID, result.RiskScore)

	if result.RiskScore == models.RiskHigh {
		if _, err := w.alertService.CreateFromIncident(writeCtx, incident, result.RiskScore, result.Reason); err != nil {
			logrus.Errorf("Failed to raise alert for incident %s: %v", incidentID, err)
		}
	}
}

func severityForRisk(riskScore string) string {
	switch riskScore {
	case models.RiskHigh:
		return models.SeverityHigh
	case models.RiskMedium:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}
