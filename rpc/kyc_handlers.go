package rpc

import (
	"encoding/json"
	"net/http"

	"rwachain/native/kyc"
)

type registerKycParams struct {
	User    string `json:"user"`
	Email   string `json:"email,omitempty"`
	Country string `json:"country,omitempty"`
}

func (s *Server) handleRegisterKyc(w http.ResponseWriter, req *RPCRequest) {
	var p registerKycParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid register params", "")
		return
	}
	user, err := parseAddress(p.User)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "user: "+err.Error(), "")
		return
	}
	record, err := s.node.RegisterKYC(user, p.Email, p.Country)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, req.ID, code, message, "")
		return
	}
	writeResult(w, req.ID, newKycJSON(record))
}

type verifyKycParams struct {
	Caller string `json:"caller"`
	User   string `json:"user"`
	Method string `json:"method"`
	Level  uint8  `json:"level"`
}

func (s *Server) handleVerifyKyc(w http.ResponseWriter, req *RPCRequest) {
	var p verifyKycParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid verify params", "")
		return
	}
	caller, err := parseAddress(p.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "caller: "+err.Error(), "")
		return
	}
	user, err := parseAddress(p.User)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "user: "+err.Error(), "")
		return
	}
	method := kyc.MethodAdminApproval
	if p.Method != "" {
		method, err = kyc.ParseMethod(p.Method)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), "")
			return
		}
	}
	record, err := s.node.VerifyKYC(caller, user, method, p.Level)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, req.ID, code, message, "")
		return
	}
	writeResult(w, req.ID, newKycJSON(record))
}

type getKycParams struct {
	User string `json:"user"`
}

func (s *Server) handleGetKyc(w http.ResponseWriter, req *RPCRequest) {
	var p getKycParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid kyc query params", "")
		return
	}
	user, err := parseAddress(p.User)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "user: "+err.Error(), "")
		return
	}
	record, ok, err := s.node.KYCRecord(user)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, req.ID, code, message, "")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeRwaNotFound, "kyc record not found", "")
		return
	}
	writeResult(w, req.ID, newKycJSON(record))
}
