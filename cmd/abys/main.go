package main

import (
	"fmt"
	"net/http"

	"github.com/abys-ai/abys-go/internal/agent"
	"github.com/abys-ai/abys-go/internal/api"
	"github.com/abys-ai/abys-go/internal/config"
	"github.com/abys-ai/abys-go/internal/llm"
	"github.com/abys-ai/abys-go/internal/logger"
	"github.com/abys-ai/abys-go/internal/storage"
)

func main() {

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		return
	}
	logger.SetLevel(cfg.Log.Level)

	// Open local storage
	store := storage.Open(cfg.Storage.Path)
	defer store.Close()
	state := storage.NewState(store)

	// Initialize generation client and agent
	responder := llm.NewResponder(llm.NewClient(cfg.LLM), cfg.LLM.Model)
	a := agent.New(responder, state)

	// Rehydrate saved state; without a saved user this clears storage
	user, sessions := state.Load()
	a.Restore(user, sessions)
	if user != nil {
		logger.L.Info("restored saved state", "email", user.Email, "sessions", len(sessions))
	}

	// Initialize router
	mux := http.NewServeMux()
	api.NewHandler(a).Register(mux)

	// Start server
	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.L.Info("starting server", "address", serverAddr)
	if err := http.ListenAndServe(serverAddr, mux); err != nil {
		logger.L.Error("failed to start server", "error", err)
	}
}
