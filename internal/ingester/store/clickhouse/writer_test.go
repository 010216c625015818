package clickhouse

import (
	"context"
	"testing"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langeval/data-ingestion/internal/common/appcontext"
	"github.com/langeval/data-ingestion/internal/ingester/model"
)

var testRecords = []model.Record{
	{Id: "1", CampaignId: "unknown", Service: "ingestion", Event: "trace", Timestamp: 1709305445, Payload: "a"},
	{Id: "2", CampaignId: "unknown", Service: "ingestion", Event: "trace", Timestamp: 1709305446, Payload: "b"},
}

type mockBatch struct {
	driver.Batch
	appended  []model.Record
	appendErr error
	sendErr   error
	sent      bool
	aborted   bool
}

func (b *mockBatch) AppendStruct(v any) error {
	if b.appendErr != nil {
		return b.appendErr
	}
	b.appended = append(b.appended, *v.(*model.Record))
	return nil
}

func (b *mockBatch) Abort() error {
	b.aborted = true
	return nil
}

func (b *mockBatch) Send() error {
	b.sent = true
	return b.sendErr
}

type mockConn struct {
	batch      *mockBatch
	prepareErr error
	query      string
	prepared   int
}

func (c *mockConn) PrepareBatch(_ context.Context, query string, _ ...driver.PrepareBatchOption) (driver.Batch, error) {
	c.prepared++
	c.query = query
	if c.prepareErr != nil {
		return nil, c.prepareErr
	}
	return c.batch, nil
}

func TestWriteBatch(t *testing.T) {
	conn := &mockConn{batch: &mockBatch{}}
	writer := NewWriter(conn)

	err := writer.WriteBatch(appcontext.Background(), "traces", testRecords)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO traces (id, campaign_id, service, event, timestamp, payload)", conn.query)
	assert.Equal(t, testRecords, conn.batch.appended)
	assert.True(t, conn.batch.sent)
	assert.False(t, conn.batch.aborted)
}

func TestWriteBatch_Empty(t *testing.T) {
	conn := &mockConn{batch: &mockBatch{}}
	err := NewWriter(conn).WriteBatch(appcontext.Background(), "traces", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, conn.prepared)
}

func TestWriteBatch_Errors(t *testing.T) {
	expected := errors.New("clickhouse unavailable")
	tests := map[string]struct {
		conn          *mockConn
		expectAborted bool
		expectSent    bool
	}{
		"prepare fails": {
			conn: &mockConn{prepareErr: expected, batch: &mockBatch{}},
		},
		"append fails": {
			conn:          &mockConn{batch: &mockBatch{appendErr: expected}},
			expectAborted: true,
		},
		"send fails": {
			conn:       &mockConn{batch: &mockBatch{sendErr: expected}},
			expectSent: true,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := NewWriter(tc.conn).WriteBatch(appcontext.Background(), "traces", testRecords)
			assert.ErrorIs(t, err, expected)
			assert.Equal(t, tc.expectAborted, tc.conn.batch.aborted)
			assert.Equal(t, tc.expectSent, tc.conn.batch.sent)
		})
	}
}

func TestParseAddr(t *testing.T) {
	tests := map[string]struct {
		addr             string
		expectedAddr     string
		expectedProtocol clickhouse.Protocol
		expectError      bool
	}{
		"host and port":  {addr: "clickhouse:9000", expectedAddr: "clickhouse:9000", expectedProtocol: clickhouse.Native},
		"http url":       {addr: "http://clickhouse:8123", expectedAddr: "clickhouse:8123", expectedProtocol: clickhouse.HTTP},
		"https url":      {addr: "https://clickhouse:8443", expectedAddr: "clickhouse:8443", expectedProtocol: clickhouse.HTTP},
		"native url":     {addr: "clickhouse://clickhouse:9000", expectedAddr: "clickhouse:9000", expectedProtocol: clickhouse.Native},
		"unknown scheme": {addr: "ftp://clickhouse:21", expectError: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			addr, protocol, err := parseAddr(tc.addr)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedAddr, addr)
			assert.Equal(t, tc.expectedProtocol, protocol)
		})
	}
}

func TestOptions_DefaultDialTimeout(t *testing.T) {
	opts, err := options(Config{Addr: "clickhouse:9000", Database: "default"})
	require.NoError(t, err)
	assert.Equal(t, "default", opts.Auth.Database)
	assert.Equal(t, clickhouse.CompressionLZ4, opts.Compression.Method)
	assert.NotZero(t, opts.DialTimeout)
}
