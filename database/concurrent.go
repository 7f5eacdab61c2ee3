package database

import (
	"golang.org/x/sync/errgroup"
)

// ConcurrentMapFuncWithError applies f to every input and returns the outputs in input order.
// concurrency == 0 runs serially, a positive value bounds the number of goroutines
// and a negative value leaves it unbounded. The first error cancels nothing but is returned.
func ConcurrentMapFuncWithError[Tin any, Tout any](inputs []Tin, concurrency int, f func(Tin) (Tout, error)) ([]Tout, error) {
	var eg errgroup.Group
	if concurrency == 0 {
		eg.SetLimit(1)
	} else if concurrency > 0 {
		eg.SetLimit(concurrency)
	}

	outputs := make([]Tout, len(inputs))
	for i, in := range inputs {
		eg.Go(func() error {
			out, err := f(in)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}
