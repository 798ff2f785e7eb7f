package pipeline

import (
	"fmt"
	"io"
	"sync"

	evt "github.com/km3net/evt_reader_go/pkg"
)

type Stats struct {
	Read      int
	Converted int
	Failed    int
	Written   int
}

type workerData struct {
	Index int
	Raw   evt.RawEvent
}

type workerResult struct {
	Index int
	ID    string
	Event evt.Event
	Err   error
}

// Run converts every event delivered by fileReader and hands it to sink in
// input order. Events that fail to convert or to be written are logged and
// discarded. The returned error is only set when the input cannot be read.
func Run(fileReader *FileReader, converter evt.Converter, sink evt.EventSink, options Options) (Stats, error) {
	if options.Parallel && options.NumWorkers > 1 {
		return runParallel(fileReader, converter, sink, options)
	}

	stats := Stats{}
	for {
		raw, err := fileReader.NextEvent()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			if !isEventError(err) {
				return stats, fmt.Errorf("error reading event: %w", err)
			}
			options.logger().Error(fmt.Sprintf("discarding event: %v", err))
			stats.Failed++
			continue
		}
		result := convertEvent(converter, workerData{Index: stats.Read, Raw: raw})
		stats.Read++
		handleResult(result, sink, &stats, options)
	}
}

func runParallel(fileReader *FileReader, converter evt.Converter, sink evt.EventSink, options Options) (Stats, error) {
	jobs := make(chan workerData, options.NumWorkers)
	results := make(chan workerResult, 100)

	var wg sync.WaitGroup
	for w := 1; w <= options.NumWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(id, converter, jobs, results, options)
		}(w)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	readErr := make(chan error, 1)
	failedReads := make(chan int, 1)
	go func() {
		failed, err := sendEventsToWorkers(fileReader, jobs, options)
		failedReads <- failed
		readErr <- err
	}()

	stats := Stats{}
	// Results arrive out of order, keep them until their turn comes
	pending := make(map[int]workerResult)
	next := 0
	for result := range results {
		stats.Read++
		pending[result.Index] = result
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			handleResult(r, sink, &stats, options)
			next++
		}
	}
	stats.Failed += <-failedReads
	return stats, <-readErr
}

func worker(id int, converter evt.Converter, jobs <-chan workerData, results chan<- workerResult, options Options) {
	for job := range jobs {
		if options.Verbosity > 1 {
			message := fmt.Sprintf("Worker %d processing event %s", id, job.Raw.ID())
			options.logger().Info(message, "worker")
		}
		results <- convertEvent(converter, job)
	}
}

func sendEventsToWorkers(fileReader *FileReader, jobs chan<- workerData, options Options) (int, error) {
	defer close(jobs)
	index := 0
	failed := 0
	for {
		raw, err := fileReader.NextEvent()
		if err == io.EOF {
			return failed, nil
		}
		if err != nil {
			if !isEventError(err) {
				return failed, fmt.Errorf("error reading event: %w", err)
			}
			options.logger().Error(fmt.Sprintf("discarding event: %v", err))
			failed++
			continue
		}
		jobs <- workerData{Index: index, Raw: raw}
		index++
	}
}

func convertEvent(converter evt.Converter, job workerData) (result workerResult) {
	result = workerResult{Index: job.Index, ID: job.Raw.ID()}
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("converter recovered from panic on event %s: %v", job.Raw.ID(), r)
		}
	}()
	event, err := converter.Convert(job.Raw)
	event.Number = job.Index
	result.Event = event
	result.Err = err
	return result
}

func handleResult(result workerResult, sink evt.EventSink, stats *Stats, options Options) {
	logger := options.logger()
	if result.Err != nil {
		logger.Error(fmt.Sprintf("error converting event %s: %v", result.ID, result.Err))
		logger.Error(fmt.Sprintf("discarding event %s", result.ID))
		stats.Failed++
		return
	}
	stats.Converted++
	if sink == nil {
		return
	}
	if err := sink.WriteEvent(&result.Event); err != nil {
		logger.Error(fmt.Sprintf("error writing event %s: %v", result.ID, err))
		return
	}
	stats.Written++
}
