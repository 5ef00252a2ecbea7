// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

package causality

import "sync"

// forEach runs job(0..n-1) on up to `workers` goroutines. Every job writes only to
// its own slot, so results do not depend on scheduling. The returned error is the one
// of the lowest failing index, the same error a sequential loop would stop on.
func forEach(n, workers int, job func(i int) error) error {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			if err := job(i); err != nil {
				return err
			}
		}
		return nil
	}

	errs := make([]error, n)
	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)

	worker := func() {
		defer wg.Done()
		for i := range jobs {
			errs[i] = job(i)
		}
	}

	// Start workers
	for w := 0; w < workers; w++ {
		go worker()
	}

	// Feed jobs
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
