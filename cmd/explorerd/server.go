package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/synnergy-chain/explorer/chain"
	"github.com/synnergy-chain/explorer/explorer"
)

// Server exposes the explorer's query surface (C7) over HTTP, standing in
// for the GraphQL layer the original explorer ships, which is out of
// scope here (§1 non-goals).
type Server struct {
	router     *mux.Router
	httpServer *http.Server
}

// NewServer constructs the router and HTTP server around ctx.
func NewServer(addr string, ctx *explorer.Context, logger *log.Logger) *Server {
	s := &Server{router: mux.NewRouter()}
	s.router.Use(loggingMiddleware(logger))
	s.routes(ctx)
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}
	return s
}

func (s *Server) Start() error { return s.httpServer.ListenAndServe() }

func (s *Server) routes(ctx *explorer.Context) {
	s.router.HandleFunc("/blocks/{id}", s.handleBlock(ctx)).Methods("GET")
	s.router.HandleFunc("/blocks/by-height/{length:[0-9]+}", s.handleBlockByHeight(ctx)).Methods("GET")
	s.router.HandleFunc("/tx/{id}", s.handleTransaction(ctx)).Methods("GET")
	s.router.HandleFunc("/epochs/{epoch:[0-9]+}", s.handleEpoch(ctx)).Methods("GET")
	s.router.HandleFunc("/addresses/{address}/transactions", s.handleAddressTransactions(ctx)).Methods("GET")
}

func (s *Server) handleBlock(ctx *explorer.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseBlockId(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		block, ok := ctx.Queries.GetBlock(id)
		if !ok {
			http.Error(w, "block not found", http.StatusNotFound)
			return
		}
		writeJSON(w, block)
	}
}

func (s *Server) handleBlockByHeight(ctx *explorer.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		length, _ := strconv.ParseUint(mux.Vars(r)["length"], 10, 32)
		id, ok := ctx.Queries.FindBlockByChainLength(chain.ChainLength(length))
		if !ok {
			http.Error(w, "no block at that height on the current branch", http.StatusNotFound)
			return
		}
		block, ok := ctx.Queries.GetBlock(id)
		if !ok {
			http.Error(w, "block not found", http.StatusNotFound)
			return
		}
		writeJSON(w, block)
	}
}

func (s *Server) handleTransaction(ctx *explorer.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseFragmentId(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		blockId, ok := ctx.Queries.FindBlockByTransaction(id)
		if !ok {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		block, ok := ctx.Queries.GetBlock(blockId)
		if !ok {
			http.Error(w, "block not found", http.StatusNotFound)
			return
		}
		writeJSON(w, block.Transactions[id])
	}
}

func (s *Server) handleEpoch(ctx *explorer.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.ParseUint(mux.Vars(r)["epoch"], 10, 32)
		data, ok := ctx.Queries.GetEpoch(chain.Epoch(n))
		if !ok {
			http.Error(w, "epoch not found", http.StatusNotFound)
			return
		}
		writeJSON(w, data)
	}
}

func (s *Server) handleAddressTransactions(ctx *explorer.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address, err := parseAddress(mux.Vars(r)["address"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ids, ok := ctx.Queries.FindTransactionsByAddress(address)
		if !ok {
			http.Error(w, "address not found", http.StatusNotFound)
			return
		}
		writeJSON(w, ids)
	}
}

func parseBlockId(s string) (chain.BlockId, error) {
	var id chain.BlockId
	if err := decodeFixed(s, id[:]); err != nil {
		return chain.BlockId{}, err
	}
	return id, nil
}

func parseFragmentId(s string) (chain.FragmentId, error) {
	var id chain.FragmentId
	if err := decodeFixed(s, id[:]); err != nil {
		return chain.FragmentId{}, err
	}
	return id, nil
}

func parseAddress(s string) (chain.Address, error) {
	var addr chain.Address
	if err := decodeFixed(s, addr[:]); err != nil {
		return chain.Address{}, err
	}
	return addr, nil
}

func decodeFixed(s string, dst []byte) error {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != len(dst) {
		return errBadId
	}
	copy(dst, raw)
	return nil
}

var errBadId = errors.New("malformed hex id")

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}
