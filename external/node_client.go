package external

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/namada-hub/block-hub/config"
)

const epochAtHeightPath = "/shell/epoch_at_height"

// EpochClient answers which consensus epoch was active at a given height.
type EpochClient interface {
	EpochAtHeight(ctx context.Context, height uint64) (uint64, error)
}

// NodeClient queries a live full node over its JSON-RPC interface.
type NodeClient struct {
	client *resty.Client
}

func NewNodeClient(cfg *config.NodeConfig) *NodeClient {
	client := resty.New().
		SetBaseURL(cfg.RPCAddr).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.RequestTimeout()).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)
	return &NodeClient{client: client}
}

type abciQueryResponse struct {
	Result struct {
		Response struct {
			Code  int    `json:"code"`
			Log   string `json:"log"`
			Value string `json:"value"`
		} `json:"response"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    string `json:"data"`
	} `json:"error"`
}

func (c *NodeClient) EpochAtHeight(ctx context.Context, height uint64) (uint64, error) {
	var res abciQueryResponse
	params := map[string]interface{}{
		"path":   fmt.Sprintf("%s/%d", epochAtHeightPath, height),
		"data":   "",
		"height": "0",
		"prove":  false,
	}
	if err := c.rpcCall(ctx, "abci_query", params, &res); err != nil {
		return 0, err
	}
	if res.Error != nil {
		return 0, fmt.Errorf("node rpc error %d: %s", res.Error.Code, res.Error.Message)
	}
	if res.Result.Response.Code != 0 {
		return 0, fmt.Errorf("epoch query failed: %s", res.Result.Response.Log)
	}

	value, err := base64.StdEncoding.DecodeString(res.Result.Response.Value)
	if err != nil {
		return 0, fmt.Errorf("malformed epoch response: %w", err)
	}
	if len(value) < 8 {
		return 0, fmt.Errorf("short epoch response, got %d bytes", len(value))
	}
	return binary.LittleEndian.Uint64(value), nil
}

func (c *NodeClient) rpcCall(ctx context.Context, method string, params interface{}, result interface{}) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      time.Now().UnixNano(),
			"method":  method,
			"params":  params,
		}).
		SetResult(result).
		Post("")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("node rpc %s returned status %s", method, resp.Status())
	}
	return nil
}
