package service

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"sensoringest"
)

type BatchService struct {
	cert        *CertificationService
	parallelism int
}

func NewBatchService(cert *CertificationService, parallelism int) *BatchService {
	if parallelism < 1 {
		parallelism = 1
	}
	return &BatchService{cert: cert, parallelism: parallelism}
}

// CertifyBatch certifies every upload independently. A file that fails never stops the
// others; its item carries the error next to the certificate and its outcome. progress, when set, is called once per
// file as it completes, from one goroutine at a time. The returned error is only set
// when ctx is canceled.
func (s *BatchService) CertifyBatch(ctx context.Context, uploads []Upload, operatorID int, progress func(BatchItem)) ([]BatchItem, error) {
	items := make([]BatchItem, len(uploads))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, up := range uploads {
		i, up := i, up
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cert, err := s.cert.certify(gctx, up, operatorID, sensoringest.ModeBatch)
			item := BatchItem{Index: i, FileName: up.Name, Certificate: &cert}
			if err != nil {
				item.Err = err
				item.Error = err.Error()
			}
			items[i] = item

			if progress != nil {
				mu.Lock()
				progress(item)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, nil
}
