package worker

import (
	"context"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// MockClickHouseConn implements driver.Conn for testing
type MockClickHouseConn struct {
	driver.Conn

	mu       sync.Mutex
	batches  int
	appended int
	sent     int
	sendErr  error
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	m.mu.Lock()
	m.batches++
	m.mu.Unlock()
	return &MockBatch{conn: m}, nil
}

func (m *MockClickHouseConn) Counts() (batches, appended, sent int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches, m.appended, m.sent
}

func (m *MockClickHouseConn) SetSendError(err error) {
	m.mu.Lock()
	m.sendErr = err
	m.mu.Unlock()
}

// MockBatch implements driver.Batch
type MockBatch struct {
	conn *MockClickHouseConn
	rows int
}

func (m *MockBatch) Append(v ...interface{}) error {
	m.conn.mu.Lock()
	m.conn.appended++
	m.conn.mu.Unlock()
	m.rows++
	return nil
}

func (m *MockBatch) Send() error {
	m.conn.mu.Lock()
	defer m.conn.mu.Unlock()
	if m.conn.sendErr != nil {
		return m.conn.sendErr
	}
	m.conn.sent += m.rows
	return nil
}

func (m *MockBatch) AppendStruct(v interface{}) error { return nil }
func (m *MockBatch) IsSent() bool                     { return false }
func (m *MockBatch) Rows() int                        { return m.rows }
func (m *MockBatch) Column(int) driver.BatchColumn    { return nil }
func (m *MockBatch) Flush() error                     { return nil }
func (m *MockBatch) Abort() error                     { return nil }
