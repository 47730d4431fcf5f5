// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/workflow-summary/internal/config"
	"github.com/unclebandit/workflow-summary/internal/controller"
	"github.com/unclebandit/workflow-summary/internal/handler"
	"github.com/unclebandit/workflow-summary/internal/llm"
	"github.com/unclebandit/workflow-summary/internal/queue"
	"github.com/unclebandit/workflow-summary/internal/service"
	"github.com/unclebandit/workflow-summary/internal/session"
	"github.com/unclebandit/workflow-summary/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ ", err)
	}

	gemini, err := llm.NewGeminiClient(context.Background(), cfg.APIKey, cfg.Model)
	if err != nil {
		log.Fatal("❌ ", err)
	}
	log.Println("🤖 Using", gemini.Name())

	var q queue.Queue
	if cfg.AMQPURL != "" {
		amqpQueue, err := queue.DialAMQP(cfg.AMQPURL)
		if err != nil {
			log.Fatal("❌ ", err)
		}
		defer amqpQueue.Close()
		q = amqpQueue
		log.Println("📨 Publishing summary events to RabbitMQ")
	} else {
		memQueue := queue.NewInMemoryQueue()
		if err := queue.StartSummaryAuditSubscriber(memQueue); err != nil {
			log.Println("⚠️ Failed to start summary subscriber:", err)
		}
		q = memQueue
	}

	summaryService := &service.SummaryService{
		Generator: gemini,
		Queue:     q,
	}

	sessions, err := session.NewStore(cfg.SessionCapacity, workflow.NewDefaultState)
	if err != nil {
		log.Fatal("❌ ", err)
	}

	formHandler := &handler.FormHandler{
		Sessions:   sessions,
		Summarizer: summaryService,
	}

	workflowController := &controller.WorkflowController{
		SummaryService: summaryService,
	}

	r := chi.NewRouter()

	// Form routes
	r.Get("/", formHandler.Show)
	r.Post("/workflow", formHandler.Update)

	// JSON API
	r.Post("/api/summaries", workflowController.CreateSummary)
	r.Get("/api/schedule/next-run", workflowController.NextRun)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	log.Println("🚀 Server running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
