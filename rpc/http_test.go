package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rwachain/core"
	"rwachain/storage"
)

const (
	testAdmin   = "0x0101010101010101010101010101010101010101"
	testCreator = "0x1010101010101010101010101010101010101010"
	testBuyer   = "0x2020202020202020202020202020202020202020"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	node := core.NewNode(storage.NewMemDB(), nil)
	node.SetNowFunc(func() int64 { return 1_700_000_000 })
	server := &Server{node: node}
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return server, ts
}

func call(t *testing.T, ts *httptest.Server, token, method string, params interface{}) (*http.Response, rpcResponse) {
	t.Helper()
	encodedParams, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	payload, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  json.RawMessage(encodedParams),
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("call %s: %v", method, err)
	}
	defer resp.Body.Close()
	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func mustCall(t *testing.T, ts *httptest.Server, method string, params interface{}) map[string]interface{} {
	t.Helper()
	resp, decoded := call(t, ts, "", method, params)
	if resp.StatusCode != http.StatusOK || decoded.Error != nil {
		t.Fatalf("%s failed: status=%d error=%+v", method, resp.StatusCode, decoded.Error)
	}
	result, _ := decoded.Result.(map[string]interface{})
	return result
}

func TestLifecycleOverRPC(t *testing.T) {
	_, ts := newTestServer(t)

	cfg := mustCall(t, ts, "rwa_initialize", map[string]string{
		"caller":   testAdmin,
		"treasury": testAdmin,
	})
	if cfg["feeNumerator"].(float64) != 500 {
		t.Fatalf("default fee numerator = %v", cfg["feeNumerator"])
	}

	mustCall(t, ts, "rwa_mintAsset", map[string]string{
		"caller":  testAdmin,
		"assetId": "NFT-001",
		"owner":   testCreator,
	})
	mustCall(t, ts, "rwa_registerKyc", map[string]string{"user": testBuyer})
	mustCall(t, ts, "rwa_verifyKyc", map[string]interface{}{
		"caller": testAdmin,
		"user":   testBuyer,
		"method": "document_upload",
		"level":  2,
	})
	mustCall(t, ts, "rwa_mintPayment", map[string]string{
		"caller": testAdmin,
		"to":     testBuyer,
		"amount": "50000",
	})

	vault := mustCall(t, ts, "rwa_fractionalize", map[string]interface{}{
		"creator":          testCreator,
		"assetId":          "NFT-001",
		"totalFractions":   1000,
		"pricePerFraction": 50,
	})
	if vault["saleActive"] != true {
		t.Fatalf("sale should open on creation: %+v", vault)
	}

	purchase := mustCall(t, ts, "rwa_buyFractions", map[string]interface{}{
		"buyer":        testBuyer,
		"assetId":      "NFT-001",
		"numFractions": 1000,
	})
	if purchase["fee"].(float64) != 2500 || purchase["netToCreator"].(float64) != 47500 {
		t.Fatalf("unexpected split: %+v", purchase)
	}

	closed := mustCall(t, ts, "rwa_redeem", map[string]string{
		"redeemer": testBuyer,
		"assetId":  "NFT-001",
	})
	if closed["saleActive"] != false {
		t.Fatalf("redeemed vault should report a closed sale: %+v", closed)
	}

	resp, decoded := call(t, ts, "", "rwa_getVault", map[string]string{"assetId": "NFT-001"})
	if resp.StatusCode != http.StatusNotFound || decoded.Error == nil || decoded.Error.Code != codeRwaNotFound {
		t.Fatalf("redeemed vault lookup: status=%d error=%+v", resp.StatusCode, decoded.Error)
	}
}

func TestErrorMapping(t *testing.T) {
	_, ts := newTestServer(t)

	// Not initialised yet.
	resp, decoded := call(t, ts, "", "rwa_getConfig", map[string]string{})
	if resp.StatusCode != http.StatusNotFound || decoded.Error == nil {
		t.Fatalf("missing config: status=%d error=%+v", resp.StatusCode, decoded.Error)
	}

	mustCall(t, ts, "rwa_initialize", map[string]string{"caller": testAdmin})

	// Unauthorized caller.
	resp, decoded = call(t, ts, "", "rwa_mintAsset", map[string]string{
		"caller":  testBuyer,
		"assetId": "NFT-001",
		"owner":   testCreator,
	})
	if resp.StatusCode != http.StatusForbidden || decoded.Error == nil || decoded.Error.Code != codeRwaForbidden {
		t.Fatalf("stranger mint: status=%d error=%+v", resp.StatusCode, decoded.Error)
	}

	// Duplicate initialize maps to a conflict.
	resp, decoded = call(t, ts, "", "rwa_initialize", map[string]string{"caller": testAdmin})
	if resp.StatusCode != http.StatusConflict || decoded.Error == nil || decoded.Error.Code != codeRwaConflict {
		t.Fatalf("duplicate initialize: status=%d error=%+v", resp.StatusCode, decoded.Error)
	}

	// Malformed address is a params error.
	resp, decoded = call(t, ts, "", "rwa_getKyc", map[string]string{"user": "nonsense"})
	if resp.StatusCode != http.StatusBadRequest || decoded.Error == nil || decoded.Error.Code != codeInvalidParams {
		t.Fatalf("bad address: status=%d error=%+v", resp.StatusCode, decoded.Error)
	}

	// Unknown method.
	resp, decoded = call(t, ts, "", "rwa_unknown", map[string]string{})
	if resp.StatusCode != http.StatusNotFound || decoded.Error == nil || decoded.Error.Code != codeMethodNotFound {
		t.Fatalf("unknown method: status=%d error=%+v", resp.StatusCode, decoded.Error)
	}
}

func TestUpdateConfigKeepsPauseWhenActiveOmitted(t *testing.T) {
	_, ts := newTestServer(t)

	mustCall(t, ts, "rwa_initialize", map[string]string{"caller": testAdmin})

	paused := mustCall(t, ts, "rwa_updateConfig", map[string]interface{}{
		"caller":         testAdmin,
		"feeNumerator":   500,
		"feeDenominator": 10000,
		"minInvestment":  1,
		"maxInvestment":  10000000,
		"active":         false,
	})
	if paused["active"] != false {
		t.Fatalf("pause not applied: %+v", paused)
	}

	// A bounds-only update with no active field must leave the platform
	// paused.
	updated := mustCall(t, ts, "rwa_updateConfig", map[string]interface{}{
		"caller":         testAdmin,
		"feeNumerator":   250,
		"feeDenominator": 10000,
		"minInvestment":  10,
		"maxInvestment":  1000000,
	})
	if updated["active"] != false {
		t.Fatalf("omitted active flag released the kill-switch: %+v", updated)
	}
	if updated["feeNumerator"].(float64) != 250 {
		t.Fatalf("fee update not applied: %+v", updated)
	}

	cfg := mustCall(t, ts, "rwa_getConfig", map[string]string{})
	if cfg["active"] != false {
		t.Fatalf("stored config became active: %+v", cfg)
	}

	// An explicit flag still resumes the platform.
	resumed := mustCall(t, ts, "rwa_updateConfig", map[string]interface{}{
		"caller":         testAdmin,
		"feeNumerator":   250,
		"feeDenominator": 10000,
		"minInvestment":  10,
		"maxInvestment":  1000000,
		"active":         true,
	})
	if resumed["active"] != true {
		t.Fatalf("explicit resume not applied: %+v", resumed)
	}
}

func TestBearerTokenGatesMutations(t *testing.T) {
	node := core.NewNode(storage.NewMemDB(), nil)
	server := &Server{node: node, authToken: "secret"}
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	params := map[string]string{"caller": testAdmin}

	resp, decoded := call(t, ts, "", "rwa_initialize", params)
	if resp.StatusCode != http.StatusUnauthorized || decoded.Error == nil || decoded.Error.Code != codeUnauthorized {
		t.Fatalf("missing token: status=%d error=%+v", resp.StatusCode, decoded.Error)
	}

	resp, decoded = call(t, ts, "wrong", "rwa_initialize", params)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong token: status=%d", resp.StatusCode)
	}

	resp, decoded = call(t, ts, "secret", "rwa_initialize", params)
	if resp.StatusCode != http.StatusOK || decoded.Error != nil {
		t.Fatalf("valid token: status=%d error=%+v", resp.StatusCode, decoded.Error)
	}

	// Reads stay open without a token.
	resp, decoded = call(t, ts, "", "rwa_getConfig", map[string]string{})
	if resp.StatusCode != http.StatusOK || decoded.Error != nil {
		t.Fatalf("open read: status=%d error=%+v", resp.StatusCode, decoded.Error)
	}
}

func TestParseAddress(t *testing.T) {
	addr, err := parseAddress(testAdmin)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := formatAddress(addr); got != testAdmin {
		t.Fatalf("round trip = %q", got)
	}
	for _, bad := range []string{"", "0x01", "zz" + testAdmin[4:], fmt.Sprintf("%s00", testAdmin)} {
		if _, err := parseAddress(bad); err == nil {
			t.Fatalf("address %q must be rejected", bad)
		}
	}
}
