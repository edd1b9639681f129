package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/Wafi-Ahmad/Hirehub/internal/handlers"
	"github.com/Wafi-Ahmad/Hirehub/internal/middleware"
	"github.com/Wafi-Ahmad/Hirehub/internal/models"
)

func QuizRoutes(router *chi.Mux, quizHandler *handlers.QuizHandler, jwtSecret string) {
	router.Route("/api/v1/jobs/{jobID}/quiz", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSecret))

		r.With(middleware.ValidateRequest[*models.GenerateQuizRequest]()).Post("/", quizHandler.GenerateHandler)
		r.Post("/start", quizHandler.StartHandler)
		r.With(middleware.ValidateRequest[*models.StepRequest]()).Post("/step", quizHandler.StepHandler)
		r.Get("/result", quizHandler.ResultHandler)
	})
}
