package main

import (
	"fmt"

	evd "github.com/next-exp/evd_go/pkg"
)

type WorkerData struct {
	Index int
	Event evd.Event
}

type CheckResult struct {
	Index      int
	Divergence evd.Divergence
	Err        error
}

func worker(id int, byTimestamp, byReference evd.HitSelector, jobs <-chan WorkerData, results chan<- CheckResult) {
	for job := range jobs {
		if configuration.Verbosity > 2 {
			logger.Info(fmt.Sprintf("Worker %d checking event %d", id, job.Event.ID), "worker")
		}
		results <- checkEvent(job, byTimestamp, byReference)
	}
}

func checkEvent(job WorkerData, byTimestamp, byReference evd.HitSelector) (result CheckResult) {
	result.Index = job.Index
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("recovered from panic on event %d: %v", job.Event.ID, r)
		}
	}()

	a, err := byTimestamp.SelectHits(job.Event)
	if err != nil {
		result.Err = fmt.Errorf("timestamp selection of event %d: %w", job.Event.ID, err)
		return result
	}
	b, err := byReference.SelectHits(job.Event)
	if err != nil {
		result.Err = fmt.Errorf("reference selection of event %d: %w", job.Event.ID, err)
		return result
	}
	result.Divergence = evd.CompareSelections(a, b)
	return result
}

func sendEventsToWorkers(events []evd.Event, skip int, maxEvents int, jobs chan<- WorkerData) {
	sent := 0
	for i, event := range events {
		if i < skip {
			continue
		}
		if sent >= maxEvents {
			break
		}
		jobs <- WorkerData{Index: i, Event: event}
		sent++
	}
	close(jobs)
}

// Summary counts the outcome of a cross-check.
type Summary struct {
	Checked   int
	Divergent int
	Failed    int
	OnlyTs    int
	OnlyRef   int
}

// processWorkerResults reports results in table order, holding back the
// ones that arrive early.
func processWorkerResults(results <-chan CheckResult, firstIndex int) Summary {
	var summary Summary
	pending := make(map[int]CheckResult)
	next := firstIndex
	for result := range results {
		pending[result.Index] = result
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			report(r, &summary)
			next++
		}
	}
	return summary
}

func report(r CheckResult, summary *Summary) {
	summary.Checked++
	if r.Err != nil {
		summary.Failed++
		logger.Error(r.Err.Error())
		return
	}
	d := r.Divergence
	if d.Empty() {
		if configuration.Verbosity > 1 {
			logger.Info(fmt.Sprintf("Event %d: %d hits, selections agree", d.Event.ID, d.Both), "refcheck")
		}
		return
	}
	summary.Divergent++
	summary.OnlyTs += len(d.OnlyA)
	summary.OnlyRef += len(d.OnlyB)
	message := fmt.Sprintf("Event %d: %d common hits, %d only in timestamp window, %d only in reference table",
		d.Event.ID, d.Both, len(d.OnlyA), len(d.OnlyB))
	logger.Info(message, "refcheck")
	if configuration.Verbosity > 1 {
		logger.Info(fmt.Sprintf("Event %d: timestamp only %v, reference only %v", d.Event.ID, d.OnlyA, d.OnlyB), "refcheck")
	}
}
