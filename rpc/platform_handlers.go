package rpc

import (
	"encoding/json"
	"net/http"
)

type initializeParams struct {
	Caller   string `json:"caller"`
	Treasury string `json:"treasury"`
}

func (s *Server) handleInitialize(w http.ResponseWriter, req *RPCRequest) {
	var p initializeParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid initialize params", "")
		return
	}
	caller, err := parseAddress(p.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "caller: "+err.Error(), "")
		return
	}
	treasury := caller
	if p.Treasury != "" {
		treasury, err = parseAddress(p.Treasury)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "treasury: "+err.Error(), "")
			return
		}
	}
	cfg, err := s.node.InitializePlatform(caller, treasury)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, req.ID, code, message, "")
		return
	}
	writeResult(w, req.ID, newConfigJSON(cfg))
}

type updateConfigParams struct {
	Caller         string `json:"caller"`
	FeeNumerator   uint64 `json:"feeNumerator"`
	FeeDenominator uint64 `json:"feeDenominator"`
	MinInvestment  uint64 `json:"minInvestment"`
	MaxInvestment  uint64 `json:"maxInvestment"`
	Active         *bool  `json:"active,omitempty"`
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, req *RPCRequest) {
	var p updateConfigParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid update params", "")
		return
	}
	caller, err := parseAddress(p.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "caller: "+err.Error(), "")
		return
	}
	var active bool
	if p.Active != nil {
		active = *p.Active
	} else {
		// An omitted flag keeps the stored value so a fee or bounds tweak
		// never flips the kill-switch.
		current, ok, err := s.node.PlatformConfig()
		if err != nil {
			status, code, message := mapError(err)
			writeError(w, status, req.ID, code, message, "")
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, req.ID, codeRwaNotFound, "platform not initialized", "")
			return
		}
		active = current.Active
	}
	cfg, err := s.node.UpdatePlatformConfig(caller, p.FeeNumerator, p.FeeDenominator, p.MinInvestment, p.MaxInvestment, active)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, req.ID, code, message, "")
		return
	}
	writeResult(w, req.ID, newConfigJSON(cfg))
}

func (s *Server) handleGetConfig(w http.ResponseWriter, req *RPCRequest) {
	cfg, ok, err := s.node.PlatformConfig()
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, req.ID, code, message, "")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeRwaNotFound, "platform not initialized", "")
		return
	}
	writeResult(w, req.ID, newConfigJSON(cfg))
}

type mintAssetParams struct {
	Caller  string `json:"caller"`
	AssetID string `json:"assetId"`
	Owner   string `json:"owner"`
}

func (s *Server) handleMintAsset(w http.ResponseWriter, req *RPCRequest) {
	var p mintAssetParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid mint params", "")
		return
	}
	caller, err := parseAddress(p.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "caller: "+err.Error(), "")
		return
	}
	owner, err := parseAddress(p.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "owner: "+err.Error(), "")
		return
	}
	if err := s.node.MintAsset(caller, p.AssetID, owner); err != nil {
		status, code, message := mapError(err)
		writeError(w, status, req.ID, code, message, "")
		return
	}
	writeResult(w, req.ID, map[string]string{"assetId": p.AssetID, "owner": formatAddress(owner)})
}

type mintPaymentParams struct {
	Caller string `json:"caller"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (s *Server) handleMintPayment(w http.ResponseWriter, req *RPCRequest) {
	var p mintPaymentParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid mint params", "")
		return
	}
	caller, err := parseAddress(p.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "caller: "+err.Error(), "")
		return
	}
	to, err := parseAddress(p.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "to: "+err.Error(), "")
		return
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "amount: "+err.Error(), "")
		return
	}
	if err := s.node.MintPayment(caller, to, amount); err != nil {
		status, code, message := mapError(err)
		writeError(w, status, req.ID, code, message, "")
		return
	}
	writeResult(w, req.ID, map[string]string{"to": formatAddress(to), "amount": amount.String()})
}
