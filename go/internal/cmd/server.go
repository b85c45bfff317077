package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/matchbook/go/internal/api/matchv1/matchv1connect"
)

func setupServer(config *Config, services *Services) *http.Server {
	router := mux.NewRouter()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedOrigins: config.Server.AllowedOrigins,
		AllowedHeaders: []string{"*"},
	})

	registerServices(router, services)
	setupHealthCheck(router, services)

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Server.Port),
		Handler: h2c.NewHandler(c.Handler(router), &http2.Server{}),
	}
}

func registerServices(router *mux.Router, services *Services) {
	// Register match service
	matchServicePath, matchServiceHandler := matchv1connect.NewMatchServiceHandler(services.Matches)
	router.PathPrefix(matchServicePath).Handler(matchServiceHandler)

	// Register store event subscriptions
	services.WebSocket.RegisterRoutes(router)
}

type healthResponse struct {
	Status   string `json:"status"`
	Matches  int    `json:"matches"`
	Degraded bool   `json:"degraded"`
}

func setupHealthCheck(router *mux.Router, services *Services) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:   "ok",
			Matches:  len(services.App.ListMatches(r.Context())),
			Degraded: services.App.Degraded(),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	}).Methods(http.MethodGet)
}
