package rpc

import (
	"encoding/json"
	"net/http"
)

type fractionalizeParams struct {
	Creator            string `json:"creator"`
	AssetID            string `json:"assetId"`
	TotalFractions     uint64 `json:"totalFractions"`
	PricePerFraction   uint64 `json:"pricePerFraction"`
	PaymentDestination string `json:"paymentDestination"`
}

func (s *Server) handleFractionalize(w http.ResponseWriter, req *RPCRequest) {
	var p fractionalizeParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid fractionalize params", "")
		return
	}
	creator, err := parseAddress(p.Creator)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "creator: "+err.Error(), "")
		return
	}
	paymentDest := creator
	if p.PaymentDestination != "" {
		paymentDest, err = parseAddress(p.PaymentDestination)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "paymentDestination: "+err.Error(), "")
			return
		}
	}
	vault, err := s.node.Fractionalize(creator, p.AssetID, p.TotalFractions, p.PricePerFraction, paymentDest)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, req.ID, code, message, "")
		return
	}
	writeResult(w, req.ID, newVaultJSON(vault))
}

type buyParams struct {
	Buyer        string `json:"buyer"`
	AssetID      string `json:"assetId"`
	NumFractions uint64 `json:"numFractions"`
}

func (s *Server) handleBuyFractions(w http.ResponseWriter, req *RPCRequest) {
	var p buyParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid buy params", "")
		return
	}
	buyer, err := parseAddress(p.Buyer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "buyer: "+err.Error(), "")
		return
	}
	purchase, err := s.node.BuyFractions(buyer, p.AssetID, p.NumFractions)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, req.ID, code, message, "")
		return
	}
	writeResult(w, req.ID, newPurchaseJSON(purchase))
}

type redeemParams struct {
	Redeemer string `json:"redeemer"`
	AssetID  string `json:"assetId"`
}

func (s *Server) handleRedeem(w http.ResponseWriter, req *RPCRequest) {
	var p redeemParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid redeem params", "")
		return
	}
	redeemer, err := parseAddress(p.Redeemer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "redeemer: "+err.Error(), "")
		return
	}
	vault, err := s.node.Redeem(redeemer, p.AssetID)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, req.ID, code, message, "")
		return
	}
	writeResult(w, req.ID, newVaultJSON(vault))
}

type getVaultParams struct {
	AssetID string `json:"assetId"`
}

func (s *Server) handleGetVault(w http.ResponseWriter, req *RPCRequest) {
	var p getVaultParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid vault query params", "")
		return
	}
	vault, ok, err := s.node.Vault(p.AssetID)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, req.ID, code, message, "")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeRwaNotFound, "vault not found", "")
		return
	}
	writeResult(w, req.ID, newVaultJSON(vault))
}

func (s *Server) handleListVaults(w http.ResponseWriter, req *RPCRequest) {
	vaults, err := s.node.Vaults()
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, req.ID, code, message, "")
		return
	}
	payload := make([]vaultJSON, 0, len(vaults))
	for _, vault := range vaults {
		payload = append(payload, newVaultJSON(vault))
	}
	writeResult(w, req.ID, payload)
}

type balanceParams struct {
	Line    string `json:"line"`
	Address string `json:"address"`
}

type balanceResult struct {
	Line    string `json:"line"`
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

func (s *Server) handleGetBalance(w http.ResponseWriter, req *RPCRequest) {
	var p balanceParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid balance query params", "")
		return
	}
	addr, err := parseAddress(p.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "address: "+err.Error(), "")
		return
	}
	amount, err := s.node.Balance(p.Line, addr)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, req.ID, code, message, "")
		return
	}
	writeResult(w, req.ID, balanceResult{Line: p.Line, Address: formatAddress(addr), Amount: amount.String()})
}
