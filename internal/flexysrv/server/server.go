// Package server wires the JSON-RPC endpoint, the OpenRPC document and
// the health probe into one chi router.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/common/httpx"
	commonmiddleware "github.com/hemanthpathath/flexy-db/internal/common/middleware"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/config"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/rpc"
)

// Pinger reports whether the control database is reachable. *dbmanager.Pool
// satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type FlexyServer struct {
	Router *chi.Mux

	rpcHandler http.Handler
	control    Pinger
}

// CreateNewServer builds the server over an already-constructed JSON-RPC
// handler and the control pool used by the health probe.
func CreateNewServer(rpcHandler http.Handler, control Pinger) (*FlexyServer, error) {
	s := &FlexyServer{
		Router:     chi.NewRouter(),
		rpcHandler: rpcHandler,
		control:    control,
	}
	return s, nil
}

func (s *FlexyServer) MountHandlers() {
	s.Router.Use(commonmiddleware.RequestLogger)
	s.Router.Use(commonmiddleware.PanicHandler)
	if config.Config().Server.HandleCORS {
		s.Router.Use(s.HandleCORS)
	}
	s.Router.Post("/jsonrpc", s.rpcHandler.ServeHTTP)
	s.Router.Get("/openrpc.json", rpc.ServeDocument)
	s.Router.Get("/health", s.getHealth)
}

type healthRsp struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (s *FlexyServer) getHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rsp := &healthRsp{Status: "ok", Database: "ok"}
	statusCode := http.StatusOK
	if s.control != nil {
		if err := s.control.Ping(ctx); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("control database unreachable")
			rsp.Status = "degraded"
			rsp.Database = "unreachable"
			statusCode = http.StatusServiceUnavailable
		}
	}
	httpx.SendJsonRsp(w, statusCode, rsp)
}

func (s *FlexyServer) HandleCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
