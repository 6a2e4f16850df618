package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/confidential-survey/crypto/ethereum"
	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/log"
)

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	jdata, err := json.Marshal(data)
	if err != nil {
		ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	n, err := w.Write(jdata)
	if err != nil {
		log.Warnw("failed to write http response", "error", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
	log.Debugw("api response", "bytes", n, "data", strings.ReplaceAll(string(jdata), "\"", ""))
}

// httpWriteOK helper function allows to write an OK response.
func httpWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// callerAddress recovers the caller principal from a signature over payload.
// The identity of every mutating call comes from here, so it cannot be forged
// by the request body alone.
func callerAddress(payload []byte, signature types.HexBytes) (common.Address, error) {
	return ethereum.AddrFromSignature(payload, signature)
}

// addressParam parses a URL address parameter.
func addressParam(param string) (common.Address, bool) {
	if !common.IsHexAddress(param) {
		return common.Address{}, false
	}
	return common.HexToAddress(param), true
}
