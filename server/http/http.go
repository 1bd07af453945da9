package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/SonakshiKundu06/FloatChat/internal/service/chat"
	"github.com/SonakshiKundu06/FloatChat/server"
)

type httpServer struct {
	options server.Options
	server  *http.Server
}

func (s *httpServer) Run() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *httpServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func NewServer(service *chat.Service, opts ...server.Option) server.Server {
	options := server.NewOptions(opts...)

	h := &handler{
		service: service,
		timeout: options.RequestTimeout,
	}

	router := mux.NewRouter()
	router.HandleFunc("/chat", h.chat).Methods(http.MethodPost, http.MethodOptions)

	var root http.Handler = router

	if ms, ok := MiddlewareFrom(options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			root = ms[i](root)
		}
	}

	return &httpServer{
		options: options,
		server: &http.Server{
			Addr:              options.Address,
			Handler:           root,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}
