package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"academy/backend/config"
	"academy/backend/controllers"
	"academy/backend/middleware"
	"academy/backend/repository"
	"academy/backend/services/progression"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	users := repository.NewUserRepository(db)
	catalog := repository.NewCatalogRepository(db)
	svc := progression.NewService(users, catalog)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db)

	// Course routes
	courseController := controllers.NewCourseController(db, cfg, svc)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/my-courses", courseController.GetMemberCourses)
	courses.Get("/approved", courseController.GetApprovedCourses)
	courses.Get("/:id", courseController.GetCourseByID)
	courses.Get("/:id/access", courseController.CanAccessCourse)
	courses.Get("/:id/progress", courseController.GetCourseProgress)

	// Progress summary
	app.Get("/api/progress", authMiddleware, courseController.GetProgressSummary)

	// Chapter and quiz routes
	chapterController := controllers.NewChapterController(db, cfg)
	quizController := controllers.NewQuizController(db, cfg, svc)
	courses.Get("/:id/chapters", chapterController.GetChaptersByCourse)
	chapters := app.Group("/api/chapters", authMiddleware)
	chapters.Get("/:chapterId", chapterController.GetChapterByID)
	chapters.Get("/:chapterId/questions", quizController.GetChapterQuestions)
	chapters.Post("/:chapterId/quiz", quizController.SubmitQuiz)

	// Member routes
	memberController := controllers.NewMemberController(db, cfg, users, svc)
	app.Get("/api/me/quiz-results", authMiddleware, memberController.GetMyQuizResults)

	// Admin routes
	levelController := controllers.NewLevelController(db, cfg)
	admin := app.Group("/api/admin", authMiddleware, adminMiddleware)
	admin.Post("/levels", levelController.CreateLevel)
	admin.Get("/levels", levelController.GetAllLevels)
	admin.Put("/levels/:id", levelController.UpdateLevel)
	admin.Delete("/levels/:id", levelController.DeleteLevel)

	admin.Post("/courses", courseController.CreateCourse)
	admin.Put("/courses/:id", courseController.UpdateCourse)
	admin.Delete("/courses/:id", courseController.DeleteCourse)
	admin.Post("/courses/:id/chapters", chapterController.AddChapterToCourse)
	admin.Put("/chapters/:chapterId", chapterController.UpdateChapter)
	admin.Delete("/chapters/:chapterId", chapterController.DeleteChapter)

	admin.Post("/chapters/:chapterId/questions", quizController.CreateQuestion)
	admin.Put("/chapters/:chapterId/questions/:questionId", quizController.UpdateQuestion)
	admin.Delete("/chapters/:chapterId/questions/:questionId", quizController.DeleteQuestion)

	admin.Put("/users/:userId/levels", memberController.UpdateUserLevels)
	admin.Get("/users/:userId/progress", memberController.GetMemberProgress)
}
