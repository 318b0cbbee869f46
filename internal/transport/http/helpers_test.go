package http

import (
	"context"
	"testing"
	"time"

	"beverage-quiz-service/internal/app"
	"beverage-quiz-service/internal/domain"
	"beverage-quiz-service/internal/identity"
	"beverage-quiz-service/internal/infra/memory"
)

func newTestService() *app.QuizService {
	catalog := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(memory.SampleCatalog()), time.Minute)
	return app.NewQuizService(memory.NewSessionStore(), catalog, app.WithTickInterval(0))
}

func devResolver() *identity.Resolver {
	return identity.NewResolver("", true)
}

// currentQuestion peeks at the full question, including its correct index.
func currentQuestion(t *testing.T, service *app.QuizService, userID string) domain.Question {
	t.Helper()
	session, err := service.Active(context.Background(), domain.Authenticated(userID, ""))
	if err != nil {
		t.Fatalf("active session: %v", err)
	}
	questions := session.Questions()
	return questions[len(questions)-1]
}
