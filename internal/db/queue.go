package db

import (
	"database/sql"
	"fmt"
	"time"
)

type DBTask struct {
	Exec func(*sql.DB) (interface{}, error)
	Resp chan DBResult
}

type DBResult struct {
	Data interface{}
	Err  error
}

// DBQueue serializes every database access through a single worker so the
// SQLite file only ever sees one writer.
type DBQueue struct {
	tasks      chan DBTask
	db         *sql.DB
	maxRetry   int
	retryDelay time.Duration
	testMode   bool
}

func NewDBQueue(db *sql.DB) *DBQueue {
	return newDBQueue(db, 100*time.Millisecond, false)
}

func NewDBQueueForTest(db *sql.DB) *DBQueue {
	return newDBQueue(db, time.Millisecond, true)
}

func newDBQueue(db *sql.DB, retryDelay time.Duration, testMode bool) *DBQueue {
	q := &DBQueue{
		tasks:      make(chan DBTask, 100),
		db:         db,
		maxRetry:   3,
		retryDelay: retryDelay,
		testMode:   testMode,
	}
	go q.worker()
	return q
}

func (q *DBQueue) Execute(task func(*sql.DB) (interface{}, error)) (interface{}, error) {
	resp := make(chan DBResult, 1)
	q.tasks <- DBTask{Exec: task, Resp: resp}
	result := <-resp
	return result.Data, result.Err
}

// Query runs task on the queue and returns its result with the static type T.
func Query[T any](q *DBQueue, task func(*sql.DB) (T, error)) (T, error) {
	var zero T
	data, err := q.Execute(func(db *sql.DB) (interface{}, error) {
		return task(db)
	})
	if err != nil {
		return zero, err
	}
	value, ok := data.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected result type %T", data)
	}
	return value, nil
}

func (q *DBQueue) worker() {
	for task := range q.tasks {
		task.Resp <- q.executeWithRetry(task)
	}
}

func (q *DBQueue) executeWithRetry(task DBTask) DBResult {
	var lastErr error
	for attempt := 0; attempt < q.maxRetry; attempt++ {
		data, err := task.Exec(q.db)
		if err == nil {
			return DBResult{Data: data}
		}
		lastErr = err
		if attempt < q.maxRetry-1 {
			if q.testMode {
				time.Sleep(q.retryDelay)
			} else {
				time.Sleep(time.Duration(attempt+1) * q.retryDelay)
			}
		}
	}
	return DBResult{Err: lastErr}
}

func (q *DBQueue) Close() {
	close(q.tasks)
}
