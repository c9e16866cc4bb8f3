package cthread

// Stats is a point-in-time snapshot of a Pool's throughput, taken without
// holding any single lock across all workers — each WorkerStats entry is
// internally consistent, but the overall Stats is only approximately
// simultaneous across workers, the same caveat the teacher's own Stats
// carried for its lock-free counters.
type Stats struct {
	// NumWorkers is the pool's configured size.
	NumWorkers int

	// TotalRuns is the sum of every worker's Runs().
	TotalRuns uint64

	// WorkersBusy is how many workers were inside do_work at the moment
	// of the snapshot.
	WorkersBusy int

	// InputSize and OutputSize are FIFO.Size() of the pool's in and out
	// queues (OutputSize is 0 if no output FIFO was configured).
	InputSize  int
	OutputSize int

	// WorkerStats holds one entry per worker, indexed by position.
	WorkerStats []WorkerStats
}

// WorkerStats is one worker's contribution to a Stats snapshot.
type WorkerStats struct {
	Position int
	Runs     uint64
	Working  bool
}

// Stats returns a snapshot of this pool's current throughput.
func (p *Pool[T]) Stats() Stats {
	s := Stats{
		NumWorkers: len(p.workers),
		InputSize:  p.in.Size(),
	}
	if p.out != nil {
		s.OutputSize = p.out.Size()
	}
	s.WorkerStats = make([]WorkerStats, len(p.workers))
	for i, pw := range p.workers {
		pw.worker.stateMu.Lock()
		runs, working := pw.worker.runs, pw.worker.working
		pw.worker.stateMu.Unlock()
		s.TotalRuns += runs
		if working {
			s.WorkersBusy++
		}
		s.WorkerStats[i] = WorkerStats{Position: pw.worker.Position(), Runs: runs, Working: working}
	}
	return s
}
