package quiz_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"amazonia/internal/repositories"
	"amazonia/internal/services"
)

var Module = fx.Provide(provideQuizRepo, provideQuizService)

func provideQuizRepo(db *gorm.DB) repositories.QuizRepository {
	return repositories.NewQuizRepository(db)
}

func provideQuizService(quizzes repositories.QuizRepository, alerts services.AlertNotifier) services.QuizServiceInterface {
	return services.NewQuizService(quizzes, alerts)
}
