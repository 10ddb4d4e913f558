package organizer

import "sync"

// hashResult is one worker's outcome for a single path.
type hashResult struct {
	path string
	hash string
	err  error
}

// hashRecords computes the content hash of every record, fanning the
// work out across a fixed pool when workers > 1. Per-file failures are
// logged and the path is simply absent from the result map; the scan
// as a whole never fails on one unreadable file.
func hashRecords(fsm FilesystemManager, logger Logger, records []*FileRecord, workers int) (map[string]string, error) {
	hashes := make(map[string]string, len(records))

	if workers <= 1 {
		for _, rec := range records {
			h, err := HashFile(fsm, rec.Path)
			if err != nil {
				logger.Warn("hashing failed, file skipped", "path", rec.Path, "error", err)
				continue
			}
			hashes[rec.Path] = h
		}
		return hashes, nil
	}

	paths := make(chan string)
	results := make(chan hashResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range paths {
				h, err := HashFile(fsm, p)
				results <- hashResult{path: p, hash: h, err: err}
			}
		}()
	}

	go func() {
		for _, rec := range records {
			paths <- rec.Path
		}
		close(paths)
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if res.err != nil {
			logger.Warn("hashing failed, file skipped", "path", res.path, "error", res.err)
			continue
		}
		hashes[res.path] = res.hash
	}

	return hashes, nil
}
