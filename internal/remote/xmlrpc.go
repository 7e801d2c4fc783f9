package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kolo/xmlrpc"
	"github.com/spotatlas/spotatlasgo/internal/config"
)

// Client talks XML-RPC to the cloud record store backend.
type Client struct {
	URL        string
	Database   string
	Username   string
	Password   string
	uid        int
	commonURL  string
	recordsURL string
	httpClient *http.Client
}

var _ Store = (*Client)(nil)

// NewClient creates a new cloud record store client from config.
func NewClient(cfg config.RemoteConfig) *Client {
	return &Client{
		URL:        cfg.URL,
		Database:   cfg.Database,
		Username:   cfg.Username,
		Password:   cfg.Password,
		commonURL:  fmt.Sprintf("%s/rpc/common", cfg.URL),
		recordsURL: fmt.Sprintf("%s/rpc/records", cfg.URL),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Authenticate authenticates with the backend and caches the session uid.
func (c *Client) Authenticate() (int, error) {
	client, err := xmlrpc.NewClient(c.commonURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	args := []interface{}{c.Database, c.Username, c.Password}
	var uid int
	if err := client.Call("authenticate", args, &uid); err != nil {
		return 0, fmt.Errorf("authentication failed: %w", err)
	}

	c.uid = uid
	return uid, nil
}

// CheckAvailability probes the backend health endpoint and verifies the
// account. Only Available permits a sync attempt.
func (c *Client) CheckAvailability(ctx context.Context) (Availability, error) {
	if c.URL == "" || c.Username == "" {
		return NoAccount, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL+"/health", nil)
	if err != nil {
		return Unknown, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TemporarilyUnavailable, nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to the account check
	case resp.StatusCode == http.StatusServiceUnavailable:
		return TemporarilyUnavailable, nil
	default:
		return Unknown, nil
	}

	if c.uid == 0 {
		if _, err := c.Authenticate(); err != nil {
			return NoAccount, nil
		}
	}
	if c.uid < 0 {
		return Restricted, nil
	}

	return Available, nil
}

// Query fetches all records of the given type.
func (c *Client) Query(ctx context.Context, recordType string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client, err := xmlrpc.NewClient(c.recordsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	args := []interface{}{c.Database, c.uid, c.Password, recordType, "query"}

	var raw []map[string]interface{}
	if err := client.Call("execute", args, &raw); err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", recordType, err)
	}

	records := make([]Record, 0, len(raw))
	for _, bag := range raw {
		records = append(records, DecodeRecord(bag))
	}
	return records, nil
}

// SaveBatch submits a batch of records and returns a per-record verdict.
// The call errors only when the whole submission fails; individual record
// problems come back inside the result slice.
func (c *Client) SaveBatch(ctx context.Context, recordType string, records []Record) ([]SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client, err := xmlrpc.NewClient(c.recordsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	bags := make([]interface{}, 0, len(records))
	for _, r := range records {
		bags = append(bags, EncodeRecord(r))
	}

	args := []interface{}{c.Database, c.uid, c.Password, recordType, "save_batch", bags}

	var raw []map[string]interface{}
	if err := client.Call("execute", args, &raw); err != nil {
		return nil, fmt.Errorf("batch save failed: %w", err)
	}

	results := make([]SaveResult, 0, len(raw))
	for _, bag := range raw {
		results = append(results, SaveResult{
			ID:     coerceString(bag["id"], ""),
			Status: SaveStatus(coerceString(bag["status"], string(SaveStatusTransient))),
			Reason: coerceString(bag["reason"], ""),
		})
	}
	return results, nil
}

// DeleteBatch deletes records by ID.
func (c *Client) DeleteBatch(ctx context.Context, recordType string, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	client, err := xmlrpc.NewClient(c.recordsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	idArgs := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		idArgs = append(idArgs, id)
	}

	args := []interface{}{c.Database, c.uid, c.Password, recordType, "delete_batch", idArgs}

	var ok bool
	if err := client.Call("execute", args, &ok); err != nil {
		return fmt.Errorf("batch delete failed: %w", err)
	}
	return nil
}
