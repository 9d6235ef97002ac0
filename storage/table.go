package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

// DefaultTablePartition is the partition key used when none is configured.
const DefaultTablePartition = "matrix"

// TableSlot stores each key as one Azure Table entity in a fixed partition.
// Put fails with ErrValueTooLarge past 360 KiB.
type TableSlot struct {
	table     *aztables.Client
	partition string
}

// NewTableSlot creates a TableSlot from a storage connection string.
func NewTableSlot(connStr, tableName, partition string) (*TableSlot, error) {
	if connStr == "" || tableName == "" {
		return nil, errors.New("missing table storage config")
	}
	if partition == "" {
		partition = DefaultTablePartition
	}
	opts := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute,
				RetryDelay:    time.Second,
				MaxRetryDelay: 15 * time.Second,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &opts)
	if err != nil {
		return nil, err
	}
	return &TableSlot{table: svc.NewClient(tableName), partition: partition}, nil
}

// Azure caps a single property at 64 KiB and an entity at 1 MiB. Values are
// split into base64 chunks stored as Value0..ValueN-1; a 24 KiB chunk encodes
// to 32 KiB of ASCII, which is 64 KiB once the service stores it as UTF-16.
const (
	tableChunkSize = 24 * 1024
	tableMaxChunks = 15
)

func chunkProperty(i int) string {
	return "Value" + strconv.Itoa(i)
}

func encodeSlotEntity(partition, key string, value []byte) ([]byte, error) {
	n := (len(value) + tableChunkSize - 1) / tableChunkSize
	if n > tableMaxChunks {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrValueTooLarge, len(value), tableChunkSize*tableMaxChunks)
	}
	props := map[string]any{
		"PartitionKey": partition,
		"RowKey":       key,
		"Chunks":       n,
	}
	for i := 0; i < n; i++ {
		end := min((i+1)*tableChunkSize, len(value))
		props[chunkProperty(i)] = value[i*tableChunkSize : end]
	}
	return json.Marshal(props)
}

func decodeSlotEntity(data []byte) ([]byte, error) {
	var props map[string]json.RawMessage
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, err
	}
	var n int
	if raw, ok := props["Chunks"]; ok {
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("chunk count: %w", err)
		}
	}
	var value []byte
	for i := 0; i < n; i++ {
		raw, ok := props[chunkProperty(i)]
		if !ok {
			return nil, fmt.Errorf("missing property %s", chunkProperty(i))
		}
		var chunk []byte
		if err := json.Unmarshal(raw, &chunk); err != nil {
			return nil, fmt.Errorf("property %s: %w", chunkProperty(i), err)
		}
		value = append(value, chunk...)
	}
	return value, nil
}

func isStatus(err error, code int) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == code
}

func (t *TableSlot) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := t.table.GetEntity(ctx, t.partition, key, nil)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("get entity %s: %w", key, err)
	}
	return decodeSlotEntity(resp.Value)
}

func (t *TableSlot) Put(ctx context.Context, key string, value []byte) error {
	payload, err := encodeSlotEntity(t.partition, key, value)
	if err != nil {
		return err
	}
	if _, err := t.table.UpsertEntity(ctx, payload, &aztables.UpsertEntityOptions{UpdateMode: aztables.UpdateModeReplace}); err != nil {
		return fmt.Errorf("upsert entity %s: %w", key, err)
	}
	return nil
}

func (t *TableSlot) Remove(ctx context.Context, key string) error {
	if _, err := t.table.DeleteEntity(ctx, t.partition, key, nil); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil
		}
		return fmt.Errorf("delete entity %s: %w", key, err)
	}
	return nil
}

// Init creates the table if it does not exist yet.
func (t *TableSlot) Init(ctx context.Context) error {
	if _, err := t.table.CreateTable(ctx, nil); err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.ErrorCode == string(aztables.TableAlreadyExists) {
			return nil
		}
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

func (t *TableSlot) Close() error { return nil }
